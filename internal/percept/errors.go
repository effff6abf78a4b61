package percept

import (
	"errors"
	"fmt"
)

// Sentinel errors of the perception core.
var (
	// ErrUnknownFeature reports a Get with a key no registry knows.
	ErrUnknownFeature = errors.New("percept: unknown feature")
	// ErrMissingPartner reports a relation Get without an other node.
	ErrMissingPartner = errors.New("percept: relation requires a partner")
	// ErrNoObjects reports an extremum attribute asked of a scene with
	// no movable objects.
	ErrNoObjects = errors.New("percept: scene has no movable objects")
	// ErrUnknownSupportValue reports an unexpected internal support
	// level; seeing it is a bug.
	ErrUnknownSupportValue = errors.New("percept: unknown support value")
)

func unknownFeature(key string) error {
	return fmt.Errorf("%w: %q", ErrUnknownFeature, key)
}
