// Package model normalizes the raw function catalog into queryable
// Parameter and Function values consumed by code generation.
package model

import (
	"fmt"

	"github.com/chazu/daqgen/pkg/metadata"
)

// Direction is the data flow of a parameter.
type Direction int

const (
	DirectionIn Direction = iota
	DirectionOut
)

func (d Direction) String() string {
	if d == DirectionOut {
		return "out"
	}
	return "in"
}

// ParseDirection maps the catalog's direction string to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "in":
		return DirectionIn, nil
	case "out":
		return DirectionOut, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// SizeMechanism is how a buffer parameter's element count is supplied at
// the call site.
type SizeMechanism int

const (
	// MechanismPassedIn sizes the buffer from a parameter or literal.
	MechanismPassedIn SizeMechanism = iota
	// MechanismPassedInByPtr is MechanismPassedIn with the count passed by
	// reference so the driver can write back the count it used.
	MechanismPassedInByPtr
	// MechanismIviDance discovers the size with a first call at zero
	// capacity; the required size comes back through the status value.
	MechanismIviDance
	// MechanismCustomCode computes the size from an expression carried in
	// the metadata.
	MechanismCustomCode
)

func (m SizeMechanism) String() string {
	switch m {
	case MechanismPassedInByPtr:
		return "passed-in-by-ptr"
	case MechanismIviDance:
		return "ivi-dance"
	case MechanismCustomCode:
		return "custom-code"
	default:
		return "passed-in"
	}
}

// ParseMechanism maps the catalog's mechanism string to a SizeMechanism.
func ParseMechanism(s string) (SizeMechanism, error) {
	switch s {
	case "passed-in":
		return MechanismPassedIn, nil
	case "passed-in-by-ptr":
		return MechanismPassedInByPtr, nil
	case "ivi-dance":
		return MechanismIviDance, nil
	case "custom-code":
		return MechanismCustomCode, nil
	default:
		return 0, fmt.Errorf("unknown size mechanism %q", s)
	}
}

// Size is a parameter's normalized size relationship.
type Size struct {
	Mechanism SizeMechanism
	Value     string // parameter name, literal count, or custom expression
}

// Parameter is one normalized native function argument. Immutable once
// built.
type Parameter struct {
	Name       string // snake_case
	CName      string // original driver spelling
	Direction  Direction
	Type       string // native driver type
	CtypesType string // element type used for buffer allocation
	Size       *Size
	IsList     bool
	IsEnum     bool
	EnumName   string
	IsCompound bool
	// Repeating marks a variable-length vararg input; the native call takes
	// one flat argument per element.
	Repeating       bool
	RepeatedVarArgs bool
	GrpcType        string
	InProto         bool
}

// HasExplicitBufferSize reports whether the parameter carries a size
// relationship.
func (p *Parameter) HasExplicitBufferSize() bool {
	return p.Size != nil
}

// IsHandle reports whether the parameter is the opaque task handle.
func (p *Parameter) IsHandle() bool {
	return p.Type == "TaskHandle"
}

// IsText reports whether the parameter marshals as a NUL-terminated byte
// buffer decoded to a string.
func (p *Parameter) IsText() bool {
	return p.CtypesType == "char" || p.Type == "char[]" || p.Type == "const char[]"
}

func newParameter(raw *metadata.Parameter) (*Parameter, error) {
	dir, err := ParseDirection(raw.Direction)
	if err != nil {
		return nil, fmt.Errorf("parameter %s: %w", raw.Name, err)
	}
	p := &Parameter{
		Name:            CamelToSnake(raw.Name),
		CName:           raw.Name,
		Direction:       dir,
		Type:            raw.Type,
		CtypesType:      raw.CtypesDataType,
		IsList:          raw.IsList,
		IsEnum:          raw.Enum != "",
		EnumName:        raw.Enum,
		IsCompound:      raw.IsCompoundType,
		Repeating:       raw.RepeatingArgument,
		RepeatedVarArgs: raw.RepeatedVarArgs,
		GrpcType:        raw.GrpcType,
		InProto:         raw.InProto(),
	}
	if raw.Size != nil {
		mech, err := ParseMechanism(raw.Size.Mechanism)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", raw.Name, err)
		}
		p.Size = &Size{Mechanism: mech, Value: raw.Size.Value}
	}
	if p.Repeating && p.Direction == DirectionOut {
		// Some catalogs mark vararg outputs repeating. The native call
		// still takes one fixed-address element per output; only inputs
		// flatten per index, so the flag normalizes away here.
		p.Repeating = false
	}
	return p, nil
}
