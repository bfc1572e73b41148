package opdefs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOperatorDef(t *testing.T) {
	def := &OperatorDef{
		Type:    "Sum",
		Inputs:  []string{"a", "b", "c"},
		Outputs: []string{"sum"},
		Args:    []Arg{{"grad_on_cpu", "1"}},
	}
	require.Equal(t, 3, def.NumInputs())
	require.Equal(t, 1, def.NumOutputs())

	value, found := def.ArgValue("grad_on_cpu")
	require.True(t, found)
	require.Equal(t, "1", value)
	require.True(t, def.HasArg("grad_on_cpu"))
	require.False(t, def.HasArg("axis"))
}

func TestDevice(t *testing.T) {
	def := &OperatorDef{Type: "Sum"}
	require.Equal(t, Device{}, def.DeviceOrDefault())
	require.Equal(t, "CPU:0", def.DeviceOrDefault().String())

	def.Device = &Device{Type: CUDA, Ordinal: 1}
	require.Equal(t, Device{Type: CUDA, Ordinal: 1}, def.DeviceOrDefault())
	require.Equal(t, "CUDA:1", def.Device.String())
}
