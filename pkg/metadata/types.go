// Package metadata defines types for the raw DAQmx function catalog
// produced by the scraper.
package metadata

// Catalog is the root of a scraped function catalog.
type Catalog struct {
	Functions map[string]Function `json:"functions" yaml:"functions"`
}

// Function is the raw description of one native driver entry point.
type Function struct {
	Parameters     []Parameter `json:"parameters" yaml:"parameters"`
	Returns        string      `json:"returns" yaml:"returns"`
	InitMethod     bool        `json:"init_method" yaml:"init_method"`
	StreamResponse bool        `json:"stream_response" yaml:"stream_response"`
	CodegenMethod  string      `json:"codegen_method" yaml:"codegen_method"`
	// HandleParameter names the parameter carrying the task handle the
	// call is scoped to, when there is one.
	HandleParameter string `json:"handle_parameter" yaml:"handle_parameter"`
}

// Parameter is the raw description of one native function argument.
type Parameter struct {
	Name              string `json:"name" yaml:"name"`
	Direction         string `json:"direction" yaml:"direction"`
	Type              string `json:"type" yaml:"type"`
	Size              *Size  `json:"size,omitempty" yaml:"size,omitempty"`
	IsList            bool   `json:"is_list" yaml:"is_list"`
	Enum              string `json:"enum,omitempty" yaml:"enum,omitempty"`
	IsCompoundType    bool   `json:"is_compound_type" yaml:"is_compound_type"`
	RepeatingArgument bool   `json:"repeating_argument" yaml:"repeating_argument"`
	RepeatedVarArgs   bool   `json:"repeated_var_args" yaml:"repeated_var_args"`
	IncludeInProto    *bool  `json:"include_in_proto,omitempty" yaml:"include_in_proto,omitempty"`
	GrpcType          string `json:"grpc_type,omitempty" yaml:"grpc_type,omitempty"`
	CtypesDataType    string `json:"ctypes_data_type,omitempty" yaml:"ctypes_data_type,omitempty"`
}

// InProto reports whether the parameter is part of the public surface.
// The scraper omits the key for the common case, which means true.
func (p *Parameter) InProto() bool {
	return p.IncludeInProto == nil || *p.IncludeInProto
}

// Size describes how a buffer parameter's element count is supplied.
type Size struct {
	Mechanism string `json:"mechanism" yaml:"mechanism"`
	Value     string `json:"value" yaml:"value"`
}
