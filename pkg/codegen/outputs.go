package codegen

import (
	"github.com/chazu/daqgen/pkg/model"
)

// InstKind is the allocation strategy for one output value before the
// native call.
type InstKind int

const (
	// InstTaskHandle is a zero-initialized opaque handle.
	InstTaskHandle InstKind = iota
	// InstEmptyList starts an empty return-collecting sequence.
	InstEmptyList
	// InstBuffer allocates a zero-filled buffer of a known element count.
	InstBuffer
	// InstSizedBuffer allocates a buffer whose count comes from a custom
	// expression carried in the metadata; the count lands in a local named
	// "size" first.
	InstSizedBuffer
	// InstScalar is a single zero value of the native type.
	InstScalar
)

func (k InstKind) String() string {
	switch k {
	case InstTaskHandle:
		return "task-handle"
	case InstEmptyList:
		return "empty-list"
	case InstBuffer:
		return "buffer"
	case InstSizedBuffer:
		return "sized-buffer"
	default:
		return "scalar"
	}
}

// Instantiation is one pre-call allocation decision.
type Instantiation struct {
	Kind  InstKind
	Param *model.Parameter // nil for the init task handle
	// SizeExpr is the element count for InstBuffer and InstSizedBuffer,
	// normalized to the parameter naming convention.
	SizeExpr string
}

// Instantiations decides how each output is allocated before the call.
// The task-creation entry point always leads with a zero handle. Buffers
// sized by the ivi-dance protocol are absent here: the two-pass template
// allocates them between its two calls, once the size is known.
func Instantiations(f *model.Function) []Instantiation {
	var lines []Instantiation
	if f.IsInit {
		lines = append(lines, Instantiation{Kind: InstTaskHandle})
	}
	for _, p := range f.OutputParams() {
		if p.Name == "task" {
			// Covered by the init handle line; never double-instantiated.
			continue
		}
		switch {
		case f.HasVarargs():
			// Vararg outputs collect one scalar element per call into an
			// ordered sequence; the element itself is allocated by the
			// vararg pass.
			lines = append(lines, Instantiation{Kind: InstEmptyList, Param: p})
		case p.HasExplicitBufferSize():
			switch p.Size.Mechanism {
			case model.MechanismPassedIn, model.MechanismPassedInByPtr:
				if p.IsList {
					lines = append(lines, Instantiation{Kind: InstBuffer, Param: p, SizeExpr: sizeExpr(f, p)})
				}
			case model.MechanismCustomCode:
				lines = append(lines, Instantiation{Kind: InstSizedBuffer, Param: p, SizeExpr: p.Size.Value})
			}
		default:
			lines = append(lines, Instantiation{Kind: InstScalar, Param: p})
		}
	}
	return lines
}

// sizeExpr normalizes a size value: parameter references use the
// normalized spelling, literals pass through.
func sizeExpr(f *model.Function, p *model.Parameter) string {
	if sized := f.ParamNamed(p.Size.Value); sized != nil {
		return sized.Name
	}
	return model.CamelToSnake(p.Size.Value)
}

// ReturnKind is the extraction strategy for one output value after a
// successful call.
type ReturnKind int

const (
	// ReturnElements collects the per-call vararg elements into a sequence.
	ReturnElements ReturnKind = iota
	// ReturnString decodes a NUL-terminated byte buffer as 7-bit text.
	ReturnString
	// ReturnList converts a numeric buffer to a plain sequence.
	ReturnList
	// ReturnHandle passes the opaque task handle through unchanged.
	ReturnHandle
	// ReturnScalar unwraps a single native value.
	ReturnScalar
)

func (k ReturnKind) String() string {
	switch k {
	case ReturnElements:
		return "elements"
	case ReturnString:
		return "string"
	case ReturnList:
		return "list"
	case ReturnHandle:
		return "handle"
	default:
		return "scalar"
	}
}

// ReturnValue is one post-call extraction decision.
type ReturnValue struct {
	Kind  ReturnKind
	Param *model.Parameter
}

// ReturnValues decides how each output converts to a returned value. This
// pass is independent of Instantiations so the two-pass template can rerun
// allocation between its calls without re-deciding extraction.
func ReturnValues(f *model.Function) []ReturnValue {
	var values []ReturnValue
	for _, p := range f.OutputParams() {
		switch {
		case f.HasVarargs():
			values = append(values, ReturnValue{ReturnElements, p})
		case p.IsText():
			values = append(values, ReturnValue{ReturnString, p})
		case p.IsList:
			values = append(values, ReturnValue{ReturnList, p})
		case p.IsHandle():
			values = append(values, ReturnValue{ReturnHandle, p})
		default:
			values = append(values, ReturnValue{ReturnScalar, p})
		}
	}
	return values
}
