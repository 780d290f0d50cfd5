package model

import (
	"fmt"
	"strconv"

	"github.com/chazu/daqgen/pkg/metadata"
)

// Function is one normalized native driver entry point. Read-only during
// generation.
type Function struct {
	Name  string // snake_case, the deterministic sort key
	CName string // original driver spelling
	// Params is the post-filter parameter list in declaration order.
	Params []*Parameter
	// Skipped holds the original names of parameters elided by the
	// skip-set, keyed by name. Size slots may still reference them.
	Skipped map[string]bool
	// IsInit marks the task-creation entry point.
	IsInit bool
	// StreamResponse marks functions that deliver results through a
	// registered callback instead of the return path.
	StreamResponse bool
	// Returns is the native type of the status value.
	Returns string
	// HandleParam is the normalized name of the parameter carrying the
	// task handle the call is scoped to, or empty.
	HandleParam string
}

func newFunction(cname string, raw *metadata.Function, skip map[string]bool) (*Function, error) {
	f := &Function{
		Name:           CamelToSnake(cname),
		CName:          cname,
		Skipped:        skip,
		IsInit:         raw.InitMethod,
		StreamResponse: raw.StreamResponse,
		Returns:        raw.Returns,
	}
	if raw.HandleParameter != "" {
		f.HandleParam = CamelToSnake(raw.HandleParameter)
	}
	for i := range raw.Parameters {
		rp := &raw.Parameters[i]
		if skip[rp.Name] {
			continue
		}
		p, err := newParameter(rp)
		if err != nil {
			return nil, err
		}
		f.Params = append(f.Params, p)
	}
	return f, nil
}

// InputParams returns the in-direction parameters in declaration order.
func (f *Function) InputParams() []*Parameter {
	var params []*Parameter
	for _, p := range f.Params {
		if p.Direction == DirectionIn {
			params = append(params, p)
		}
	}
	return params
}

// OutputParams returns the out-direction parameters in declaration order.
func (f *Function) OutputParams() []*Parameter {
	var params []*Parameter
	for _, p := range f.Params {
		if p.Direction == DirectionOut {
			params = append(params, p)
		}
	}
	return params
}

// VarargParams returns the repeating (variable-length) parameters.
func (f *Function) VarargParams() []*Parameter {
	var params []*Parameter
	for _, p := range f.Params {
		if p.Repeating {
			params = append(params, p)
		}
	}
	return params
}

// HasVarargs reports whether the native call uses the cdecl
// variable-argument convention.
func (f *Function) HasVarargs() bool {
	return len(f.VarargParams()) > 0
}

// CompoundParam returns the first compound-type parameter, or nil.
func (f *Function) CompoundParam() *Parameter {
	for _, p := range f.Params {
		if p.IsCompound {
			return p
		}
	}
	return nil
}

// IviDanceParam returns the single output parameter sized by the ivi-dance
// mechanism, or nil when there is none. More than one is a fatal
// generation-time error: the two-pass call template calls the driver once
// with zero capacity to learn the required size from the status value, and
// that discovery cannot be expressed twice in one call site.
func (f *Function) IviDanceParam() (*Parameter, error) {
	var found *Parameter
	for _, p := range f.OutputParams() {
		if !p.HasExplicitBufferSize() || p.Size.Mechanism != MechanismIviDance {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("function %s: more than one ivi-dance output parameter (%s, %s)",
				f.Name, found.Name, p.Name)
		}
		found = p
	}
	return found, nil
}

// ParamNamed resolves a size-slot value against the parameter list. The
// value may use the driver spelling or the normalized one.
func (f *Function) ParamNamed(value string) *Parameter {
	for _, p := range f.Params {
		if p.CName == value || p.Name == value || p.Name == CamelToSnake(value) {
			return p
		}
	}
	return nil
}

// SignatureParams returns the in-direction parameters that appear in the
// public wrapper signature. Size parameters supplied by another
// parameter's length are subsumed by the host language and elided, as are
// compound carriers, whose data arrives through the unrolled repeating
// parameters.
func (f *Function) SignatureParams() []*Parameter {
	supplied := map[string]bool{}
	for _, p := range f.Params {
		if p.Direction != DirectionIn || !p.HasExplicitBufferSize() {
			continue
		}
		if sized := f.ParamNamed(p.Size.Value); sized != nil && sized != p {
			supplied[sized.Name] = true
		}
	}
	var params []*Parameter
	for _, p := range f.InputParams() {
		if supplied[p.Name] || p.IsCompound {
			continue
		}
		params = append(params, p)
	}
	return params
}

// IsLiteralSize reports whether a size-slot value is a literal element
// count rather than a parameter reference.
func IsLiteralSize(value string) bool {
	_, err := strconv.Atoi(value)
	return err == nil
}
