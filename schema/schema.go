// Package schema implements the declarative schema of operator types and its
// process-wide registry.
//
// An OpSchema records, for one operator type name (e.g. "Sum"), the legal
// number of inputs and outputs, in-place aliasing rules, documentation, and
// functions that infer output type/shape, execution cost, and device
// placement from an operator instance and its input shapes -- without
// executing the operator.
//
// Schemas are registered once per operator type, typically from an init
// function, and configured by chaining the builder methods:
//
//	schema.Register("Sum").
//		NumInputsInRange(1, schema.Unbounded).
//		NumOutputs(1).
//		AllowInplace(schema.Pair{0, 0}).
//		IdenticalTypeAndShapeOfInput(0)
//
// Registration must complete before any other goroutine queries the registry;
// after that the registry and every schema in it are read-only, and Lookup,
// Verify and the inference methods are safe for concurrent use without
// synchronization.
//
// Every optional feature has a total default, so Verify and the inference
// methods are always callable even on a minimally configured schema: the
// default cardinality rules accept everything, the default tensor inference
// reports every output shape as unknown, and the default device inference
// places everything on the operator's own device. The only default that fails
// is cost inference, which has no sensible fallback.
package schema

import (
	"fmt"
	"math"
	"strings"

	"github.com/gomlx/opschema/opdefs"
	"github.com/gomlx/opschema/types"
)

// Unbounded marks the open end of a cardinality range, as in
// NumInputsInRange(1, Unbounded).
const Unbounded = math.MaxInt

// CannotComputeNumOutputs is returned by OpSchema.CalculateOutput when no
// output calculator was registered.
const CannotComputeNumOutputs = -1

// countRuleKind tags the active representation of a cardinality rule.
// Setters overwrite the whole rule, so exactly one representation is active
// at any time (last write wins).
type countRuleKind int

const (
	countAny countRuleKind = iota
	countRange
	countSet
	countFunc
)

// countRule constrains how many inputs (or outputs) an operator instance may
// have. The zero value accepts any count.
type countRule struct {
	kind     countRuleKind
	min, max int
	allowed  types.Set[int]
	fn       func(n int) bool
}

func (r countRule) accepts(n int) bool {
	switch r.kind {
	case countRange:
		return n >= r.min && n <= r.max
	case countSet:
		return r.allowed.Has(n)
	case countFunc:
		return r.fn(n)
	}
	return true
}

// String implements fmt.Stringer, used by OpSchema.String.
func (r countRule) String() string {
	switch r.kind {
	case countRange:
		if r.min == r.max {
			return fmt.Sprintf("%d", r.min)
		}
		if r.max == Unbounded {
			return fmt.Sprintf("at least %d", r.min)
		}
		return fmt.Sprintf("[%d, %d]", r.min, r.max)
	case countSet:
		counts := make([]string, 0, len(r.allowed))
		for n := range r.allowed {
			counts = append(counts, fmt.Sprintf("%d", n))
		}
		return "one of {" + strings.Join(counts, ", ") + "}"
	case countFunc:
		return "custom"
	}
	return "any"
}

// Pair identifies an (input index, output index) pair in the in-place
// aliasing rules.
type Pair struct {
	Input, Output int
}

// inplaceRule is a boolean relation over (input index, output index) pairs,
// used both for "may alias" and "must alias". The zero value holds for no
// pair.
type inplaceRule struct {
	pairs types.Set[Pair] // nil when fn is set or the rule is unset.
	fn    func(input, output int) bool
}

func (r inplaceRule) holds(input, output int) bool {
	if r.fn != nil {
		return r.fn(input, output)
	}
	return r.pairs.Has(Pair{input, output})
}

// ArgDesc documents one operator argument.
type ArgDesc struct {
	Name, Description string
}

// ParamDesc documents one input or output tensor, by position.
type ParamDesc struct {
	Index             int
	Name, Description string
}

// OpSchema records the declared interface of one operator type.
//
// Create one with Register (or NewSchema) and configure it with the fluent
// setters; all setters return the schema itself for chaining. After the
// registration phase the schema is read-only by convention: do not call
// setters on a schema obtained from Lookup.
type OpSchema struct {
	key  string
	file string
	line int

	doc          string
	argDescs     []ArgDesc
	inputDescs   []ParamDesc
	outputDescs  []ParamDesc
	private      bool
	crossDevices bool

	numInputs        countRule
	numOutputs       countRule
	numInputsOutputs func(numInputs, numOutputs int) bool

	calculateOutput func(numInputs int) int

	inplaceAllowed  inplaceRule
	inplaceEnforced inplaceRule

	tensorInference TensorInferenceFn
	costInference   CostInferenceFn
	deviceInference DeviceInferenceFn
}

func newOpSchema(key, file string, line int) *OpSchema {
	return &OpSchema{key: key, file: file, line: line}
}

// Key returns the operator type name this schema was registered under.
func (s *OpSchema) Key() string { return s.key }

// File returns the source file the schema was registered from. Diagnostic only.
func (s *OpSchema) File() string { return s.file }

// Line returns the source line the schema was registered from. Diagnostic only.
func (s *OpSchema) Line() int { return s.line }

// Verify checks whether the operator instance def matches this schema: its
// input count, its output count, and the joint input/output rule, in that
// order. It returns false at the first rule that fails.
//
// Verify never fails with an error and has no side effects: an instance that
// doesn't match its schema is a normal, frequent outcome during graph
// construction, reported by the caller with its own context.
func (s *OpSchema) Verify(def *opdefs.OperatorDef) bool {
	if !s.numInputs.accepts(def.NumInputs()) {
		return false
	}
	if !s.numOutputs.accepts(def.NumOutputs()) {
		return false
	}
	if s.numInputsOutputs != nil && !s.numInputsOutputs(def.NumInputs(), def.NumOutputs()) {
		return false
	}
	return true
}

// NumInputs restricts instances to exactly n inputs.
// It overwrites any previously set input-cardinality rule.
func (s *OpSchema) NumInputs(n int) *OpSchema {
	return s.NumInputsInRange(n, n)
}

// NumInputsInRange restricts instances to between min and max inputs,
// inclusive. Use Unbounded for an open-ended max.
// It overwrites any previously set input-cardinality rule.
func (s *OpSchema) NumInputsInRange(min, max int) *OpSchema {
	s.numInputs = countRule{kind: countRange, min: min, max: max}
	return s
}

// NumInputsIn restricts instances to an input count among allowed.
// It overwrites any previously set input-cardinality rule.
func (s *OpSchema) NumInputsIn(allowed ...int) *OpSchema {
	s.numInputs = countRule{kind: countSet, allowed: types.SetWith(allowed...)}
	return s
}

// NumInputsFunc restricts instances to input counts accepted by fn.
// It overwrites any previously set input-cardinality rule.
func (s *OpSchema) NumInputsFunc(fn func(n int) bool) *OpSchema {
	s.numInputs = countRule{kind: countFunc, fn: fn}
	return s
}

// NumOutputs restricts instances to exactly n outputs.
// It overwrites any previously set output-cardinality rule.
func (s *OpSchema) NumOutputs(n int) *OpSchema {
	return s.NumOutputsInRange(n, n)
}

// NumOutputsInRange restricts instances to between min and max outputs,
// inclusive. Use Unbounded for an open-ended max.
// It overwrites any previously set output-cardinality rule.
func (s *OpSchema) NumOutputsInRange(min, max int) *OpSchema {
	s.numOutputs = countRule{kind: countRange, min: min, max: max}
	return s
}

// NumOutputsIn restricts instances to an output count among allowed.
// It overwrites any previously set output-cardinality rule.
func (s *OpSchema) NumOutputsIn(allowed ...int) *OpSchema {
	s.numOutputs = countRule{kind: countSet, allowed: types.SetWith(allowed...)}
	return s
}

// NumOutputsFunc restricts instances to output counts accepted by fn.
// It overwrites any previously set output-cardinality rule.
func (s *OpSchema) NumOutputsFunc(fn func(n int) bool) *OpSchema {
	s.numOutputs = countRule{kind: countFunc, fn: fn}
	return s
}

// NumInputsOutputsFunc sets a joint rule over (input count, output count)
// that must hold in addition to the per-side cardinality rules.
func (s *OpSchema) NumInputsOutputsFunc(fn func(numInputs, numOutputs int) bool) *OpSchema {
	s.numInputsOutputs = fn
	return s
}

// OutputCalculator sets the function that computes the number of outputs from
// the number of inputs, for callers that want to compute rather than merely
// validate an output count.
func (s *OpSchema) OutputCalculator(fn func(numInputs int) int) *OpSchema {
	s.calculateOutput = fn
	return s
}

// SameNumberOfOutputs declares that instances produce one output per input.
// Sugar for OutputCalculator(identity).
func (s *OpSchema) SameNumberOfOutputs() *OpSchema {
	return s.OutputCalculator(func(numInputs int) int { return numInputs })
}

// CalculateOutput returns the number of outputs for the given number of
// inputs, or CannotComputeNumOutputs if no output calculator was registered.
func (s *OpSchema) CalculateOutput(numInputs int) int {
	if s.calculateOutput == nil {
		return CannotComputeNumOutputs
	}
	return s.calculateOutput(numInputs)
}

// AllowInplace declares that output may reuse the storage of input for
// exactly the given (input, output) pairs.
// It overwrites any previously set allow-inplace rule.
func (s *OpSchema) AllowInplace(pairs ...Pair) *OpSchema {
	s.inplaceAllowed = inplaceRule{pairs: types.SetWith(pairs...)}
	return s
}

// AllowInplaceFunc declares that output may reuse the storage of input for
// the (input, output) pairs accepted by fn.
// It overwrites any previously set allow-inplace rule.
func (s *OpSchema) AllowInplaceFunc(fn func(input, output int) bool) *OpSchema {
	s.inplaceAllowed = inplaceRule{fn: fn}
	return s
}

// AllowOneToOneInplace allows output i to reuse the storage of input i, for
// every i. Sugar for AllowInplaceFunc(input == output).
func (s *OpSchema) AllowOneToOneInplace() *OpSchema {
	return s.AllowInplaceFunc(func(input, output int) bool { return input == output })
}

// EnforceInplace declares that output must reuse the storage of input for
// exactly the given (input, output) pairs.
// It overwrites any previously set enforce-inplace rule.
func (s *OpSchema) EnforceInplace(pairs ...Pair) *OpSchema {
	s.inplaceEnforced = inplaceRule{pairs: types.SetWith(pairs...)}
	return s
}

// EnforceInplaceFunc declares that output must reuse the storage of input for
// the (input, output) pairs accepted by fn.
// It overwrites any previously set enforce-inplace rule.
func (s *OpSchema) EnforceInplaceFunc(fn func(input, output int) bool) *OpSchema {
	s.inplaceEnforced = inplaceRule{fn: fn}
	return s
}

// EnforceOneToOneInplace requires output i to reuse the storage of input i,
// for every i. Sugar for EnforceInplaceFunc(input == output).
func (s *OpSchema) EnforceOneToOneInplace() *OpSchema {
	return s.EnforceInplaceFunc(func(input, output int) bool { return input == output })
}

// InplaceAllowed returns whether output may reuse the storage of input.
// Default: no pair is allowed.
func (s *OpSchema) InplaceAllowed(input, output int) bool {
	return s.inplaceAllowed.holds(input, output)
}

// InplaceEnforced returns whether output must reuse the storage of input.
// Default: no pair is enforced.
func (s *OpSchema) InplaceEnforced(input, output int) bool {
	return s.inplaceEnforced.holds(input, output)
}

// SetDoc sets the free-text documentation of the operator type.
func (s *OpSchema) SetDoc(doc string) *OpSchema {
	s.doc = doc
	return s
}

// Arg documents one operator argument.
func (s *OpSchema) Arg(name, description string) *OpSchema {
	s.argDescs = append(s.argDescs, ArgDesc{Name: name, Description: description})
	return s
}

// Input documents the input tensor at the given index.
func (s *OpSchema) Input(index int, name, description string) *OpSchema {
	s.inputDescs = append(s.inputDescs, ParamDesc{Index: index, Name: name, Description: description})
	return s
}

// Output documents the output tensor at the given index.
func (s *OpSchema) Output(index int, name, description string) *OpSchema {
	s.outputDescs = append(s.outputDescs, ParamDesc{Index: index, Name: name, Description: description})
	return s
}

// FillUsing calls populator with the schema itself. It lets shared helper
// code configure many near-identical schemas without duplicating builder
// chains.
func (s *OpSchema) FillUsing(populator func(*OpSchema)) *OpSchema {
	populator(s)
	return s
}

// Private excludes the operator type from generated documentation.
func (s *OpSchema) Private() *OpSchema {
	s.private = true
	return s
}

// InputsCanCrossDevices declares that the operator can read inputs placed on
// devices other than its own.
func (s *OpSchema) InputsCanCrossDevices() *OpSchema {
	s.crossDevices = true
	return s
}

// Doc returns the free-text documentation set with SetDoc, or "".
func (s *OpSchema) Doc() string { return s.doc }

// ArgDescs returns the documented arguments, in declaration order.
func (s *OpSchema) ArgDescs() []ArgDesc { return s.argDescs }

// InputDescs returns the documented inputs, in declaration order.
func (s *OpSchema) InputDescs() []ParamDesc { return s.inputDescs }

// OutputDescs returns the documented outputs, in declaration order.
func (s *OpSchema) OutputDescs() []ParamDesc { return s.outputDescs }

// IsPrivate returns whether the operator type is excluded from generated docs.
func (s *OpSchema) IsPrivate() bool { return s.private }

// CanCrossDevices returns whether inputs may live on other devices.
func (s *OpSchema) CanCrossDevices() bool { return s.crossDevices }

// String implements fmt.Stringer, pretty-prints the schema with its
// registration site, cardinality rules, and documented inputs/outputs.
func (s *OpSchema) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (registered at %s:%d)\n", s.key, s.file, s.line)
	fmt.Fprintf(&b, "  inputs: %s, outputs: %s\n", s.numInputs, s.numOutputs)
	if s.doc != "" {
		fmt.Fprintf(&b, "  %s\n", strings.TrimSpace(s.doc))
	}
	for _, desc := range s.inputDescs {
		fmt.Fprintf(&b, "  input %d (%s): %s\n", desc.Index, desc.Name, desc.Description)
	}
	for _, desc := range s.outputDescs {
		fmt.Fprintf(&b, "  output %d (%s): %s\n", desc.Index, desc.Name, desc.Description)
	}
	for _, desc := range s.argDescs {
		fmt.Fprintf(&b, "  arg %q: %s\n", desc.Name, desc.Description)
	}
	return b.String()
}
