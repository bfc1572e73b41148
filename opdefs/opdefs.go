// Package opdefs defines the operator descriptor consumed by the schema
// engine: a concrete use of an operator type, with its bound input/output
// names, key/value arguments, and optional device placement.
//
// These types are owned by the execution layer; the schema engine only reads
// them. They are plain immutable value data: no validation happens here --
// checking a descriptor against the declared interface of its operator type
// is the job of package github.com/gomlx/opschema/schema.
package opdefs

import "fmt"

// DeviceType enumerates the kinds of devices an operator (or one of its
// inputs/outputs) may be placed on.
type DeviceType int

const (
	// CPU is the default device type: a zero-valued Device places on CPU 0.
	CPU DeviceType = iota
	CUDA
	Metal
)

// String implements fmt.Stringer.
func (t DeviceType) String() string {
	switch t {
	case CPU:
		return "CPU"
	case CUDA:
		return "CUDA"
	case Metal:
		return "Metal"
	}
	return fmt.Sprintf("DeviceType(%d)", int(t))
}

// Device identifies where an operator or one of its inputs/outputs must live.
// The zero value is CPU device 0.
//
// The schema engine treats Device as opaque: it is only copied and compared.
type Device struct {
	Type    DeviceType
	Ordinal int
}

// String implements fmt.Stringer.
func (d Device) String() string {
	return fmt.Sprintf("%s:%d", d.Type, d.Ordinal)
}

// Arg is one key/value argument of an operator instance, e.g. {"axis", "1"}.
type Arg struct {
	Name, Value string
}

// OperatorDef describes one concrete use of an operator type: which named
// tensors it consumes and produces, its arguments, and optionally where it
// must execute. Device == nil means no placement was annotated.
type OperatorDef struct {
	Type    string
	Inputs  []string
	Outputs []string
	Args    []Arg
	Device  *Device
}

// NumInputs returns the number of input tensors bound to this instance.
func (def *OperatorDef) NumInputs() int { return len(def.Inputs) }

// NumOutputs returns the number of output tensors bound to this instance.
func (def *OperatorDef) NumOutputs() int { return len(def.Outputs) }

// ArgValue returns the value of the first argument with the given name, and
// whether it was found.
func (def *OperatorDef) ArgValue(name string) (value string, found bool) {
	for _, arg := range def.Args {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	return "", false
}

// HasArg returns whether the instance supplies an argument with the given name.
func (def *OperatorDef) HasArg(name string) bool {
	_, found := def.ArgValue(name)
	return found
}

// DeviceOrDefault returns the instance's declared device, or the default
// (zero) Device if none was annotated.
func (def *OperatorDef) DeviceOrDefault() Device {
	if def.Device == nil {
		return Device{}
	}
	return *def.Device
}

// String implements fmt.Stringer, pretty-prints the instance as
// "Type(inputs...) -> (outputs...)".
func (def *OperatorDef) String() string {
	return fmt.Sprintf("%s(%v) -> (%v)", def.Type, def.Inputs, def.Outputs)
}
