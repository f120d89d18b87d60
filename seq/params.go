package seq

// Unit is the physical unit a parameter is declared with.
type Unit string

// Units the sequencer understands.
const (
	UnitNone      Unit = ""
	UnitSecond    Unit = "s"
	UnitHertz     Unit = "Hz"
	UnitDegree    Unit = "deg"
	UnitDimless   Unit = "1"
	UnitAmplitude Unit = "amp"
)

// A Parameter is one declared sequence parameter with its current value.
type Parameter struct {
	Name  string
	Value float64
	Unit  Unit
}

// A ParameterTable maps declared parameter names to their current values. It
// is mutated only by scan-point binding and read by all other components.
// Exactly one live instance exists per running sequence.
type ParameterTable struct {
	params map[string]*Parameter
	order  []string
}

// NewParameterTable creates an empty table.
func NewParameterTable() *ParameterTable {
	return &ParameterTable{
		params: make(map[string]*Parameter),
	}
}

// Declare registers a parameter with its default value.
func (t *ParameterTable) Declare(name string, value float64, unit Unit) {
	if _, found := t.params[name]; !found {
		t.order = append(t.order, name)
	}
	t.params[name] = &Parameter{Name: name, Value: value, Unit: unit}
}

// Bind copies a scan point into the table. Every name in the point must be a
// declared parameter.
func (t *ParameterTable) Bind(point ScanPoint) error {
	for name := range point {
		if _, found := t.params[name]; !found {
			return NewFault(FaultBadParameter,
				"scan point names undeclared parameter %q", name)
		}
	}

	for name, value := range point {
		t.params[name].Value = value
	}

	return nil
}

// Value returns the current value of a declared parameter.
func (t *ParameterTable) Value(name string) (float64, error) {
	p, found := t.params[name]
	if !found {
		return 0, NewFault(FaultBadParameter,
			"parameter %q not declared", name)
	}
	return p.Value, nil
}

// Duration returns the value of a parameter interpreted as a duration in
// seconds.
func (t *ParameterTable) Duration(name string) (TimeInSec, error) {
	v, err := t.Value(name)
	return TimeInSec(v), err
}

// Names returns the declared parameter names in declaration order.
func (t *ParameterTable) Names() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}
