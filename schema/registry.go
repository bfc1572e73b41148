package schema

import (
	"runtime"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"k8s.io/klog/v2"

	"github.com/gomlx/opschema/opdefs"
)

// registry maps operator type name to its unique schema.
//
// Two-phase lifecycle: entries are added only during process initialization
// (NewSchema/Register, one call per name, serialized by the caller -- in
// practice by Go's package init ordering), and from then on the map is
// read-only, so Lookup and the schema query methods need no synchronization.
var registry = make(map[string]*OpSchema)

// NewSchema registers a new schema for the operator type key, recording file
// and line as its registration site, and returns it for the caller's builder
// chain.
//
// Registering the same key twice is an authoring bug, not a runtime
// condition: NewSchema panics reporting both registration sites, and the host
// program is expected to treat this as unrecoverable.
//
// Most callers want Register, which records the source location itself.
func NewSchema(key, file string, line int) *OpSchema {
	if prev, found := registry[key]; found {
		exceptions.Panicf(
			"opschema: schema for operator type %q registered twice: new registration at %s:%d, previous at %s:%d",
			key, file, line, prev.file, prev.line)
	}
	s := newOpSchema(key, file, line)
	registry[key] = s
	klog.V(1).Infof("registered schema for operator type %q (%s:%d)", key, file, line)
	return s
}

// Register registers a new schema for the operator type key, recording the
// caller's source location as its registration site. It panics if key was
// already registered, see NewSchema.
//
// Call it once per operator type during package initialization:
//
//	func init() {
//		schema.Register("Sum").NumInputsInRange(1, schema.Unbounded).NumOutputs(1)
//	}
func Register(key string) *OpSchema {
	file, line := "unknown", 0
	if _, callerFile, callerLine, ok := runtime.Caller(1); ok {
		file, line = callerFile, callerLine
	}
	return NewSchema(key, file, line)
}

// Lookup returns the schema registered for the operator type key, or nil if
// none was registered. The returned schema is read-only: query it, don't
// configure it.
func Lookup(key string) *OpSchema {
	return registry[key]
}

// RegisteredNames returns the sorted names of all registered operator types.
func RegisteredNames() []string {
	names := maps.Keys(registry)
	slices.Sort(names)
	return names
}

// InferOperatorDevices looks up the schema for def's operator type and
// returns the required device of every input and output. It fails if no
// schema was registered for the type.
func InferOperatorDevices(def *opdefs.OperatorDef) (inputs, outputs []opdefs.Device, err error) {
	s := Lookup(def.Type)
	if s == nil {
		return nil, nil, errors.Errorf("device inference failed: no schema registered for operator type %q", def.Type)
	}
	return s.InferDevice(def)
}
