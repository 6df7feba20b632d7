package strategy

// Build strategy names, as recorded on instances and used for association
// propagation.
const (
	StrategyAttributesFor = "attributes_for"
	StrategyBuild         = "build"
	StrategyCreate        = "create"
	StrategyStub          = "stub"
)

// Instance is one built object: an ordered set of resolved attributes plus
// the transient values that were computed but never assigned. When the
// definition carries a constructor override, Result returns its product;
// otherwise the instance itself is the object handed to callbacks and
// returned to the caller.
type Instance struct {
	factoryName string
	strategy    string
	attrs       map[string]any
	order       []string
	transients  map[string]any
	object      any
	persisted   bool
}

func newInstance(factoryName, strategy string) *Instance {
	return &Instance{
		factoryName: factoryName,
		strategy:    strategy,
		attrs:       make(map[string]any),
		transients:  make(map[string]any),
	}
}

// FactoryName returns the name of the factory that built the instance.
func (in *Instance) FactoryName() string { return in.factoryName }

// Strategy returns the name of the strategy the instance was built with.
func (in *Instance) Strategy() string { return in.strategy }

// Get returns a resolved attribute value.
func (in *Instance) Get(name string) (any, bool) {
	v, ok := in.attrs[name]
	return v, ok
}

// Set assigns an attribute, preserving first-assignment order. Callbacks may
// use it to adjust the instance after resolution.
func (in *Instance) Set(name string, value any) {
	if _, exists := in.attrs[name]; !exists {
		in.order = append(in.order, name)
	}
	in.attrs[name] = value
}

// Transient returns a computed-but-unassigned value.
func (in *Instance) Transient(name string) (any, bool) {
	v, ok := in.transients[name]
	return v, ok
}

// AttributeNames returns the assigned attribute names in assignment order.
func (in *Instance) AttributeNames() []string {
	out := make([]string, len(in.order))
	copy(out, in.order)
	return out
}

// Attributes returns a copy of the assigned attributes.
func (in *Instance) Attributes() map[string]any {
	out := make(map[string]any, len(in.attrs))
	for k, v := range in.attrs {
		out[k] = v
	}
	return out
}

// Result returns the constructor product when the definition declared one,
// otherwise the instance itself.
func (in *Instance) Result() any {
	if in.object != nil {
		return in.object
	}
	return in
}

// Persisted reports whether the create strategy's persistence step ran for
// this instance.
func (in *Instance) Persisted() bool { return in.persisted }
