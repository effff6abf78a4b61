// Package percept implements graded perception of 2D physical scenes:
// attributes of individual objects, attributes of object groups, and
// binary relations between objects, together with the scene graph of
// ObjectNode / GroupNode / SceneNode that caches percepts per named
// simulator state.
//
// Every feature produces an activity in [0,1] (a fuzzy membership) and
// a short symbolic label. Dynamic features consult the simulator
// through the sim.Oracle, including counterfactual micro-simulations
// (push the object, remove a support, let 0.1s elapse) that run inside
// sandbox frames and never leak into the percept caches.
package percept

// TargetType says what kind of node a feature applies to.
type TargetType int

const (
	// TargetObject features apply to single objects.
	TargetObject TargetType = iota
	// TargetGroup features apply to object groups.
	TargetGroup
)

// String returns "object" or "group".
func (t TargetType) String() string {
	if t == TargetGroup {
		return "group"
	}
	return "object"
}

// Percept is one computed feature value: a label plus a graded
// activity. Labels are stable for the percept's lifetime; activity is
// a pure function of the measured values captured at construction.
type Percept interface {
	// Key returns the feature key the percept was built for.
	Key() string
	// Label returns the symbolic name the percept reports.
	Label() string
	// Activity returns the membership value in [0,1].
	Activity() float64
	// Constant reports whether the value is independent of time.
	Constant() bool
}

// Relation is a binary percept; it additionally identifies the partner
// object.
type Relation interface {
	Percept
	// Other returns the partner node of the relation.
	Other() *ObjectNode
}

// attribute is the uniform value type behind every unary percept.
type attribute struct {
	key      string
	label    string
	activity float64
	constant bool
}

func (a *attribute) Key() string       { return a.key }
func (a *attribute) Label() string     { return a.label }
func (a *attribute) Activity() float64 { return a.activity }
func (a *attribute) Constant() bool    { return a.constant }

// relation is the uniform value type behind every binary percept.
type relation struct {
	attribute
	other *ObjectNode
}

func (r *relation) Other() *ObjectNode { return r.other }

// Descriptor carries the static metadata of one feature together with
// its constructor. Exactly one of the constructor fields is set,
// matching the arity and target type.
type Descriptor struct {
	Key       string
	Arity     int
	Target    TargetType
	Constant  bool
	Symmetric bool

	newAttr  func(n *ObjectNode, time string) (Percept, error)
	newRel   func(n, other *ObjectNode, time string) (Relation, error)
	newGroup func(g *GroupNode, time string) (Percept, error)
}

// Feature registries, populated at module load. Iteration during
// perception follows registration order.
var (
	// ObjAttrs maps feature key to descriptor for object attributes.
	ObjAttrs = make(map[string]*Descriptor)
	// GroupAttrs maps feature key to descriptor for group attributes.
	GroupAttrs = make(map[string]*Descriptor)
	// ObjRels maps feature key to descriptor for object relations.
	ObjRels = make(map[string]*Descriptor)

	objAttrOrder   []string
	groupAttrOrder []string
	objRelOrder    []string
)

func registerObjAttr(d *Descriptor) {
	d.Arity, d.Target = 1, TargetObject
	ObjAttrs[d.Key] = d
	objAttrOrder = append(objAttrOrder, d.Key)
}

func registerGroupAttr(d *Descriptor) {
	d.Arity, d.Target = 1, TargetGroup
	GroupAttrs[d.Key] = d
	groupAttrOrder = append(groupAttrOrder, d.Key)
}

func registerObjRel(d *Descriptor) {
	d.Arity, d.Target = 2, TargetObject
	ObjRels[d.Key] = d
	objRelOrder = append(objRelOrder, d.Key)
}

// LookupFeature finds a feature descriptor in any registry.
func LookupFeature(key string) (*Descriptor, bool) {
	if d, ok := ObjAttrs[key]; ok {
		return d, true
	}
	if d, ok := GroupAttrs[key]; ok {
		return d, true
	}
	if d, ok := ObjRels[key]; ok {
		return d, true
	}
	return nil, false
}
