package codegen

import (
	"github.com/chazu/daqgen/pkg/model"
)

// The cdecl vararg entry points take a flat argument array paired with a
// parallel type-tag array. Both lists are built in lockstep and must stay
// the same length in the same order; the native call layer consumes them
// positionally.

// VarargArgs returns the per-index argument expressions and type tags for
// every repeating input parameter. "index" ranges over the caller-supplied
// sequences at call time.
func VarargArgs(f *model.Function) (args []string, tags []string) {
	for _, p := range f.VarargParams() {
		args = append(args, p.Name+"[index]")
		tags = append(tags, TypeTag(p))
	}
	return args, tags
}

// VarargOutputArgs returns the argument expressions and type tags for the
// output slots of a vararg call. Native vararg conventions require every
// output slot to be a fixed-address scalar, so each output gets exactly
// one pre-allocated element per call site, passed by reference and
// appended to the return-collecting sequence after the call.
func VarargOutputArgs(f *model.Function) (args []string, tags []string) {
	for _, p := range f.OutputParams() {
		args = append(args, "&"+p.Name+"_element")
		tags = append(tags, TypeTag(p))
	}
	return args, tags
}

// VarargElements returns, per output parameter, the name of its reserved
// scalar element.
func VarargElements(f *model.Function) []string {
	var elements []string
	for _, p := range f.OutputParams() {
		elements = append(elements, p.Name+"_element")
	}
	return elements
}

// TypeTag maps a parameter's element type to the tag consumed by the
// native vararg call layer.
func TypeTag(p *model.Parameter) string {
	switch p.CtypesType {
	case "uint8":
		return "U8"
	case "int16":
		return "I16"
	case "uint16":
		return "U16"
	case "int32":
		return "I32"
	case "uint32":
		return "U32"
	case "int64":
		return "I64"
	case "uint64":
		return "U64"
	case "float32":
		return "F32"
	case "float64":
		return "F64"
	case "char":
		return "Str"
	default:
		return "Ptr"
	}
}
