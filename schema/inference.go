package schema

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"

	"github.com/gomlx/opschema/opdefs"
	"github.com/gomlx/opschema/types/shapes"
)

// TensorInferenceFn infers the type and shape of every output of an operator
// instance from the instance and the shapes of its inputs, without executing
// the operator.
type TensorInferenceFn func(def *opdefs.OperatorDef, inputs []shapes.Shape) ([]shapes.Shape, error)

// Cost estimates the work required to execute one operator instance.
type Cost struct {
	// FLOPs is the estimated number of floating point operations.
	FLOPs uint64

	// BytesMoved is the estimated total memory traffic, in bytes.
	BytesMoved uint64
}

// String implements fmt.Stringer.
func (c Cost) String() string {
	return fmt.Sprintf("%s flops, %s moved", humanize.Comma(int64(c.FLOPs)), humanize.IBytes(c.BytesMoved))
}

// CostInferenceFn estimates the Cost of executing an operator instance given
// the shapes of its inputs.
type CostInferenceFn func(def *opdefs.OperatorDef, inputs []shapes.Shape) (Cost, error)

// DeviceInferenceFn returns the required device of every input and every
// output of an operator instance.
type DeviceInferenceFn func(def *opdefs.OperatorDef) (inputs, outputs []opdefs.Device, err error)

// TensorInference sets the tensor type/shape inference function.
func (s *OpSchema) TensorInference(fn TensorInferenceFn) *OpSchema {
	s.tensorInference = fn
	return s
}

// CostInference sets the cost inference function.
func (s *OpSchema) CostInference(fn CostInferenceFn) *OpSchema {
	s.costInference = fn
	return s
}

// DeviceInference sets the device inference function.
func (s *OpSchema) DeviceInference(fn DeviceInferenceFn) *OpSchema {
	s.deviceInference = fn
	return s
}

// HasTensorInference returns whether a custom tensor inference function was
// registered. It distinguishes "no custom inference" from custom inference
// that happened to return unknown shapes.
func (s *OpSchema) HasTensorInference() bool { return s.tensorInference != nil }

// InferTensor returns the inferred type and shape of every output of def,
// given the shapes of its inputs.
//
// If no tensor inference function was registered, every declared output is
// reported as shapes.Unknown() -- that is never an error.
func (s *OpSchema) InferTensor(def *opdefs.OperatorDef, inputs []shapes.Shape) ([]shapes.Shape, error) {
	if s.tensorInference == nil {
		outputs := make([]shapes.Shape, def.NumOutputs())
		for i := range outputs {
			outputs[i] = shapes.Unknown()
		}
		return outputs, nil
	}
	return s.tensorInference(def, inputs)
}

// InferCost returns the estimated cost of executing def, given the shapes of
// its inputs.
//
// Unlike tensor and device inference, there is no sensible default: if no
// cost inference function was registered, InferCost returns an error.
func (s *OpSchema) InferCost(def *opdefs.OperatorDef, inputs []shapes.Shape) (Cost, error) {
	if s.costInference == nil {
		return Cost{}, errors.Errorf("no cost inference function registered for operator type %q", s.key)
	}
	return s.costInference(def, inputs)
}

// InferDevice returns the required device of every input and every output of
// def.
//
// If no device inference function was registered, every input and output is
// placed on the operator's own declared device (or the default device if none
// was declared).
func (s *OpSchema) InferDevice(def *opdefs.OperatorDef) (inputs, outputs []opdefs.Device, err error) {
	if s.deviceInference == nil {
		device := def.DeviceOrDefault()
		inputs = make([]opdefs.Device, def.NumInputs())
		outputs = make([]opdefs.Device, def.NumOutputs())
		for i := range inputs {
			inputs[i] = device
		}
		for i := range outputs {
			outputs[i] = device
		}
		return
	}
	return s.deviceInference(def)
}

// IdenticalTypeAndShape declares that output i has the same type and shape as
// input i. It is only defined for operators with as many outputs as inputs:
// inference fails if an instance declares more outputs than there are input
// shapes.
func (s *OpSchema) IdenticalTypeAndShape() *OpSchema {
	return s.TensorInference(func(def *opdefs.OperatorDef, inputs []shapes.Shape) ([]shapes.Shape, error) {
		if def.NumOutputs() > len(inputs) {
			return nil, errors.Errorf(
				"operator %s declares %d outputs, but only %d input shapes were given to copy from",
				def, def.NumOutputs(), len(inputs))
		}
		outputs := make([]shapes.Shape, def.NumOutputs())
		for i := range outputs {
			outputs[i] = inputs[i].Clone()
		}
		return outputs, nil
	})
}

// IdenticalTypeAndShapeOfInput declares that every output has the same type
// and shape as input idx.
func (s *OpSchema) IdenticalTypeAndShapeOfInput(idx int) *OpSchema {
	return s.TensorInference(func(def *opdefs.OperatorDef, inputs []shapes.Shape) ([]shapes.Shape, error) {
		if idx < 0 || idx >= len(inputs) {
			return nil, errors.Errorf(
				"operator %s: no input shape at index %d to copy from (got %d input shapes)",
				def, idx, len(inputs))
		}
		outputs := make([]shapes.Shape, def.NumOutputs())
		for i := range outputs {
			outputs[i] = inputs[idx].Clone()
		}
		return outputs, nil
	})
}

// IdenticalTypeAndShapeOfInputDim declares that every output is a 1-D tensor
// whose single dimension equals dimension axis of input idx, with the same
// type as input idx.
func (s *OpSchema) IdenticalTypeAndShapeOfInputDim(idx, axis int) *OpSchema {
	return s.TensorInference(func(def *opdefs.OperatorDef, inputs []shapes.Shape) ([]shapes.Shape, error) {
		if idx < 0 || idx >= len(inputs) {
			return nil, errors.Errorf(
				"operator %s: no input shape at index %d to copy from (got %d input shapes)",
				def, idx, len(inputs))
		}
		input := inputs[idx]
		if axis < 0 || axis >= input.Rank() {
			return nil, errors.Errorf(
				"operator %s: input %d has rank %d, no axis %d to copy the dimension from",
				def, idx, input.Rank(), axis)
		}
		outputs := make([]shapes.Shape, def.NumOutputs())
		for i := range outputs {
			outputs[i] = shapes.Make(input.DType, input.Dimensions[axis])
		}
		return outputs, nil
	})
}

// ScalarType declares that output i has the same shape as input i, with the
// element type forced to dtype. Outputs beyond the given input shapes are
// scalars of dtype.
func (s *OpSchema) ScalarType(dtype dtypes.DType) *OpSchema {
	return s.TensorInference(func(def *opdefs.OperatorDef, inputs []shapes.Shape) ([]shapes.Shape, error) {
		outputs := make([]shapes.Shape, def.NumOutputs())
		for i := range outputs {
			if i < len(inputs) && !inputs[i].Unknown {
				outputs[i] = shapes.Make(dtype, inputs[i].Dimensions...)
			} else {
				outputs[i] = shapes.Make(dtype)
			}
		}
		return outputs, nil
	})
}
