package codegen

import (
	"fmt"

	"github.com/chazu/daqgen/pkg/model"
)

// tempSizeVar is the local holding the element count discovered by the
// two-pass protocol's first call.
const tempSizeVar = "temp_size"

// sizeSlot records which parameter supplies a named size and the
// expression that computes it at the call site.
type sizeSlot struct {
	value    string // the size descriptor's value, as written
	supplier string // normalized name of the supplying parameter
	expr     string
}

// buildSizeSlots walks parameters in declaration order and records, for
// each named size, the expression that supplies it: the length of an input
// buffer, or the discovered temporary size of an ivi-dance output. The
// first parameter in declaration order claiming a slot wins; later
// candidates never displace it.
func buildSizeSlots(f *model.Function) []sizeSlot {
	var slots []sizeSlot
	claimed := map[string]bool{}
	for _, p := range f.Params {
		if !p.HasExplicitBufferSize() || claimed[p.Size.Value] {
			continue
		}
		switch {
		case p.Direction == model.DirectionIn:
			slots = append(slots, sizeSlot{p.Size.Value, p.Name, "len(" + p.Name + ")"})
			claimed[p.Size.Value] = true
		case p.Direction == model.DirectionOut && p.Size.Mechanism == model.MechanismIviDance:
			slots = append(slots, sizeSlot{p.Size.Value, p.Name, tempSizeVar})
			claimed[p.Size.Value] = true
		}
	}
	return slots
}

// slotAt returns the slot whose size value names the given parameter, if
// any. Slots are scanned in declaration order, so the answer is stable
// even when several candidates reference the same parameter.
func slotAt(f *model.Function, slots []sizeSlot, p *model.Parameter) (sizeSlot, bool) {
	for _, s := range slots {
		if f.ParamNamed(s.value) == p {
			return s, true
		}
	}
	return sizeSlot{}, false
}

// CallArgs produces the exact ordered argument expression list for the
// native call. Inputs pass by value, sized outputs pass the buffer, plain
// scalar outputs pass by reference. A parameter that exists only to carry
// a size supplied by another parameter's length is emitted as the computed
// size expression at its own position; a size whose carrying parameter was
// elided (the ivi-dance skip-set) is emitted immediately after the buffer
// it sizes.
func CallArgs(f *model.Function) ([]string, error) {
	slots := buildSizeSlots(f)
	for _, s := range slots {
		if f.ParamNamed(s.value) == nil && !f.Skipped[s.value] && !model.IsLiteralSize(s.value) {
			return nil, fmt.Errorf("function %s: size value %q names no parameter", f.Name, s.value)
		}
	}

	var args []string
	for _, p := range f.Params {
		if p.IsCompound {
			// Compound carriers exist for the remote backend; the native
			// call sees the unrolled repeating arguments instead.
			continue
		}
		if s, ok := slotAt(f, slots, p); ok && s.supplier != p.Name {
			args = append(args, s.expr)
			continue
		}
		switch {
		case p.Direction == model.DirectionIn:
			args = append(args, p.Name)
		case p.HasExplicitBufferSize():
			args = append(args, p.Name)
		default:
			// Scalar outputs are written in place through a reference.
			args = append(args, "&"+p.Name)
		}
		if p.HasExplicitBufferSize() {
			for _, s := range slots {
				if s.value == p.Size.Value && s.supplier == p.Name && f.ParamNamed(s.value) == nil {
					args = append(args, s.expr)
					break
				}
			}
		}
	}
	return args, nil
}
