package codegen

import (
	"fmt"

	"github.com/chazu/daqgen/pkg/model"
)

// CallTemplate selects the call shape emitted for a function. The set is
// closed; every handler switches exhaustively over it.
type CallTemplate int

const (
	// TemplateDefault is a single native call.
	TemplateDefault CallTemplate = iota
	// TemplateVararg flattens repeating inputs into parallel argument and
	// type-tag lists for a cdecl variable-argument call.
	TemplateVararg
	// TemplateTwoPass calls once at zero capacity to discover the required
	// buffer size from the status value, then again with a sized buffer.
	TemplateTwoPass
	// TemplateEvent delegates to the callback registration subsystem.
	TemplateEvent
)

func (t CallTemplate) String() string {
	switch t {
	case TemplateVararg:
		return "vararg"
	case TemplateTwoPass:
		return "two-pass"
	case TemplateEvent:
		return "event"
	default:
		return "default"
	}
}

// SelectTemplate picks the call template for a function. Selection is a
// strict priority order: event, then vararg, then two-pass, then default.
// A function combining a streamed response with variable arguments has no
// expressible call site and is rejected rather than silently resolved by
// the priority order.
func SelectTemplate(f *model.Function) (CallTemplate, error) {
	if f.StreamResponse {
		if f.HasVarargs() {
			return 0, fmt.Errorf("function %s: streamed response cannot combine with variable arguments", f.Name)
		}
		return TemplateEvent, nil
	}
	if f.HasVarargs() {
		return TemplateVararg, nil
	}
	ivi, err := f.IviDanceParam()
	if err != nil {
		return 0, err
	}
	if ivi != nil {
		return TemplateTwoPass, nil
	}
	return TemplateDefault, nil
}
