package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gomlx/opschema/opdefs"
)

func TestRegisterAndLookup(t *testing.T) {
	require.Nil(t, Lookup("TestRegisterAndLookup.Unregistered"))

	s := Register("TestRegisterAndLookup.Op")
	require.NotNil(t, s)
	require.Equal(t, "TestRegisterAndLookup.Op", s.Key())
	require.Same(t, s, Lookup("TestRegisterAndLookup.Op"))

	// The registration site is the caller of Register, i.e. this file.
	require.True(t, strings.HasSuffix(s.File(), "registry_test.go"), "file=%q", s.File())
	require.Greater(t, s.Line(), 0)

	require.Contains(t, RegisteredNames(), "TestRegisterAndLookup.Op")
}

func TestDuplicateRegistrationIsFatal(t *testing.T) {
	NewSchema("TestDuplicate.Sum", "first_file.go", 10)
	require.PanicsWithError(t,
		`opschema: schema for operator type "TestDuplicate.Sum" registered twice: new registration at second_file.go:20, previous at first_file.go:10`,
		func() { NewSchema("TestDuplicate.Sum", "second_file.go", 20) })
}

func TestInferOperatorDevices(t *testing.T) {
	def := &opdefs.OperatorDef{
		Type:    "TestInferOperatorDevices.Unregistered",
		Inputs:  []string{"x"},
		Outputs: []string{"y"},
	}
	_, _, err := InferOperatorDevices(def)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no schema registered for operator type")

	Register("TestInferOperatorDevices.Op")
	def.Type = "TestInferOperatorDevices.Op"
	def.Device = &opdefs.Device{Type: opdefs.Metal}
	inputs, outputs, err := InferOperatorDevices(def)
	require.NoError(t, err)
	require.Equal(t, []opdefs.Device{*def.Device}, inputs)
	require.Equal(t, []opdefs.Device{*def.Device}, outputs)
}
