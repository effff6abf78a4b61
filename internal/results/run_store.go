package results

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/scene.solver/internal/selector"
)

// Run is one solution-search run over a problem's scene pairs.
type Run struct {
	RunID          string `json:"run_id"`
	ProblemID      string `json:"problem_id"`
	StartedAtNs    int64  `json:"started_at_ns"`
	FinishedAtNs   *int64 `json:"finished_at_ns,omitempty"`
	ScenePairCount int    `json:"scene_pair_count"`
	SolutionText   string `json:"solution_text,omitempty"`
	MainSide       string `json:"main_side,omitempty"`
	Mode           string `json:"mode,omitempty"`
	LMatches       int    `json:"lmatches"`
	RMatches       int    `json:"rmatches"`
	Solved         bool   `json:"solved"`
}

// PairResult is the outcome of checking one example pair within a run.
type PairResult struct {
	RunID      string `json:"run_id"`
	PairID     string `json:"pair_id"`
	Seq        int    `json:"seq"`
	LeftMatch  bool   `json:"left_match"`
	RightMatch bool   `json:"right_match"`
}

// RunStore provides persistence for solution-search runs.
type RunStore struct {
	db *DB
}

// NewRunStore creates a RunStore over an open database.
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db}
}

// InsertRun creates a new run row. If run.RunID is empty a new UUID is
// generated; if StartedAtNs is zero the current time is used.
func (s *RunStore) InsertRun(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.StartedAtNs == 0 {
		run.StartedAtNs = time.Now().UnixNano()
	}

	query := `
		INSERT INTO solver_runs (
			run_id, problem_id, started_at_ns, finished_at_ns,
			scene_pair_count, solution_text, main_side, mode,
			lmatches, rmatches, solved
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		run.RunID,
		run.ProblemID,
		run.StartedAtNs,
		nullInt64(run.FinishedAtNs),
		run.ScenePairCount,
		nullString(run.SolutionText),
		nullString(run.MainSide),
		nullString(run.Mode),
		run.LMatches,
		run.RMatches,
		boolInt(run.Solved),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun records the outcome of a run from its solution state.
func (s *RunStore) FinishRun(runID string, sol *selector.Solution) error {
	query := `
		UPDATE solver_runs
		SET finished_at_ns = ?, solution_text = ?, main_side = ?,
		    mode = ?, lmatches = ?, rmatches = ?, solved = ?
		WHERE run_id = ?
	`
	res, err := s.db.Exec(query,
		time.Now().UnixNano(),
		sol.Sel.String(),
		sol.MainSide.String(),
		sol.Mode.String(),
		sol.LMatches,
		sol.RMatches,
		boolInt(sol.IsSolution()),
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run: run %q not found", runID)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *RunStore) GetRun(runID string) (*Run, error) {
	query := `
		SELECT run_id, problem_id, started_at_ns, finished_at_ns,
		       scene_pair_count, solution_text, main_side, mode,
		       lmatches, rmatches, solved
		FROM solver_runs
		WHERE run_id = ?
	`
	var run Run
	var finishedAtNs sql.NullInt64
	var solutionText, mainSide, mode sql.NullString
	var solved int

	err := s.db.QueryRow(query, runID).Scan(
		&run.RunID,
		&run.ProblemID,
		&run.StartedAtNs,
		&finishedAtNs,
		&run.ScenePairCount,
		&solutionText,
		&mainSide,
		&mode,
		&run.LMatches,
		&run.RMatches,
		&solved,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %q not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	if finishedAtNs.Valid {
		run.FinishedAtNs = &finishedAtNs.Int64
	}
	run.SolutionText = solutionText.String
	run.MainSide = mainSide.String
	run.Mode = mode.String
	run.Solved = solved != 0
	return &run, nil
}

// ListRuns returns the runs for one problem, oldest first.
func (s *RunStore) ListRuns(problemID string) ([]*Run, error) {
	query := `
		SELECT run_id FROM solver_runs
		WHERE problem_id = ?
		ORDER BY started_at_ns
	`
	rows, err := s.db.Query(query, problemID)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	runs := make([]*Run, 0, len(ids))
	for _, id := range ids {
		run, err := s.GetRun(id)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// InsertPairResult records the outcome of one example pair check.
func (s *RunStore) InsertPairResult(pr *PairResult) error {
	query := `
		INSERT INTO solver_pair_results (run_id, pair_id, seq, left_match, right_match)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		pr.RunID, pr.PairID, pr.Seq, boolInt(pr.LeftMatch), boolInt(pr.RightMatch))
	if err != nil {
		return fmt.Errorf("insert pair result: %w", err)
	}
	return nil
}

// PairResults returns a run's pair outcomes in check order.
func (s *RunStore) PairResults(runID string) ([]*PairResult, error) {
	query := `
		SELECT run_id, pair_id, seq, left_match, right_match
		FROM solver_pair_results
		WHERE run_id = ?
		ORDER BY seq
	`
	rows, err := s.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("pair results: %w", err)
	}
	defer rows.Close()

	var out []*PairResult
	for rows.Next() {
		var pr PairResult
		var left, right int
		if err := rows.Scan(&pr.RunID, &pr.PairID, &pr.Seq, &left, &right); err != nil {
			return nil, fmt.Errorf("pair results: %w", err)
		}
		pr.LeftMatch = left != 0
		pr.RightMatch = right != 0
		out = append(out, &pr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pair results: %w", err)
	}
	return out, nil
}

func nullInt64(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
