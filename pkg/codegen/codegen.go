// Package codegen turns Function models into interpreter source: the
// marshaling layer that calls the native driver library, or the gRPC
// service exposing the same surface.
package codegen

import (
	"bytes"
	"fmt"

	"github.com/chazu/daqgen/pkg/model"
	"github.com/dave/jennifer/jen"
)

const (
	defaultRuntimePath = "github.com/chazu/daqgen/pkg/daqlib"
	defaultProtoPath   = "github.com/chazu/daqgen/gen/nidaqmxpb"
	goinvokePath       = "github.com/jamesits/goinvoke"
	grpcPath           = "google.golang.org/grpc"
)

// Result contains the generated source and any warnings.
type Result struct {
	Code     string
	Warnings []string
}

// Options configures generation.
type Options struct {
	// Package is the package name of the generated file.
	Package string
	// RuntimePath is the import path of the runtime support package the
	// generated code links against.
	RuntimePath string
	// ProtoPath is the import path of the generated protobuf stubs used by
	// the remote backend.
	ProtoPath string
	// Service is the gRPC service name used for client construction.
	Service string
	// CPrefix is prepended to entry point names when resolving symbols in
	// the shared library.
	CPrefix string
}

func (o *Options) fill() {
	if o.Package == "" {
		o.Package = "nidaqmx"
	}
	if o.RuntimePath == "" {
		o.RuntimePath = defaultRuntimePath
	}
	if o.ProtoPath == "" {
		o.ProtoPath = defaultProtoPath
	}
	if o.Service == "" {
		o.Service = "NiDAQmx"
	}
	if o.CPrefix == "" {
		o.CPrefix = "DAQmx"
	}
}

type generator struct {
	opts     Options
	warnings []string
}

// Generate produces the native-library interpreter for the given
// functions. Entry points on the library ignore list are excluded here;
// the callback subsystem owns them.
func Generate(funcs []*model.Function, opts Options) (*Result, error) {
	opts.fill()
	g := &generator{opts: opts}

	var libFuncs []*model.Function
	for _, f := range funcs {
		if model.IgnoredForLibrary(f.CName) {
			continue
		}
		libFuncs = append(libFuncs, f)
	}

	file := jen.NewFile(opts.Package)
	file.HeaderComment("Code generated by daqgen. DO NOT EDIT.")

	g.generateProcStruct(file, libFuncs)
	g.generateInterpreterStruct(file)

	for _, f := range libFuncs {
		if err := g.generateLibraryMethod(file, f); err != nil {
			return nil, err
		}
	}

	return render(file, g.warnings)
}

func render(file *jen.File, warnings []string) (*Result, error) {
	buf := &bytes.Buffer{}
	if err := file.Render(buf); err != nil {
		return nil, fmt.Errorf("rendering: %w", err)
	}
	return &Result{Code: buf.String(), Warnings: warnings}, nil
}

// generateProcStruct emits the proc table resolved from the shared
// library, one field per generated entry point.
func (g *generator) generateProcStruct(file *jen.File, funcs []*model.Function) {
	fields := make([]jen.Code, 0, len(funcs))
	for _, f := range funcs {
		fields = append(fields, jen.Id(model.GoName(f.Name)).Op("*").Qual(goinvokePath, "Proc").
			Tag(map[string]string{"func": g.opts.CPrefix + f.CName}))
	}
	file.Comment("LibraryProcs holds the driver entry points resolved from the shared library.")
	file.Type().Id("LibraryProcs").Struct(fields...)
	file.Line()
}

func (g *generator) generateInterpreterStruct(file *jen.File) {
	rt := g.opts.RuntimePath
	file.Comment("LibraryInterpreter marshals calls into the native driver library.")
	file.Type().Id("LibraryInterpreter").Struct(
		jen.Id("lib").Op("*").Qual(rt, "Library"),
		jen.Id("procs").Op("*").Id("LibraryProcs"),
		jen.Id("events").Qual(rt, "EventRegistry"),
	)
	file.Line()

	file.Comment("NewLibraryInterpreter loads the driver shared library and resolves its entry points.")
	file.Func().Id("NewLibraryInterpreter").Params(jen.Id("path").String()).
		Parens(jen.List(jen.Op("*").Id("LibraryInterpreter"), jen.Error())).Block(
		jen.Id("procs").Op(":=").Op("&").Id("LibraryProcs").Values(),
		jen.List(jen.Id("lib"), jen.Err()).Op(":=").Qual(rt, "Open").Call(jen.Id("path"), jen.Id("procs")),
		jen.If(jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Nil(), jen.Err()),
		),
		jen.Return(jen.Op("&").Id("LibraryInterpreter").Values(jen.Dict{
			jen.Id("lib"):    jen.Id("lib"),
			jen.Id("procs"):  jen.Id("procs"),
			jen.Id("events"): jen.Id("lib").Dot("Events").Call(),
		}), jen.Nil()),
	)
	file.Line()
}

// generateLibraryMethod emits one interpreter method using the selected
// call template.
func (g *generator) generateLibraryMethod(file *jen.File, f *model.Function) error {
	template, err := SelectTemplate(f)
	if err != nil {
		return err
	}
	callArgs, err := CallArgs(f)
	if err != nil {
		return err
	}

	var body []jen.Code
	switch template {
	case TemplateDefault:
		body = g.defaultBody(f, callArgs)
	case TemplateTwoPass:
		body, err = g.twoPassBody(f, callArgs)
		if err != nil {
			return err
		}
	case TemplateVararg:
		body = g.varargBody(f)
	case TemplateEvent:
		body = g.eventBody(f)
	}

	file.Func().Parens(jen.Id("l").Op("*").Id("LibraryInterpreter")).Id(model.GoName(f.Name)).
		Params(g.signature(f)...).Parens(jen.List(g.returnTypes(f)...)).Block(body...)
	file.Line()
	return nil
}

// signature maps the public wrapper parameters to Go parameter
// declarations.
func (g *generator) signature(f *model.Function) []jen.Code {
	var params []jen.Code
	for _, p := range f.SignatureParams() {
		params = append(params, jen.Id(p.Name).Add(g.paramType(p)))
	}
	return params
}

func (g *generator) paramType(p *model.Parameter) *jen.Statement {
	switch {
	case p.IsHandle():
		return jen.Qual(g.opts.RuntimePath, "TaskHandle")
	case p.IsText() && !p.Repeating:
		return jen.String()
	case p.IsText():
		return jen.Index().String()
	case p.IsList || p.Repeating:
		return jen.Index().Add(g.elemType(p))
	default:
		return g.elemType(p)
	}
}

func (g *generator) elemType(p *model.Parameter) *jen.Statement {
	switch p.CtypesType {
	case "uint8":
		return jen.Uint8()
	case "int16":
		return jen.Int16()
	case "uint16":
		return jen.Uint16()
	case "int32":
		return jen.Int32()
	case "uint32", "bool32":
		return jen.Uint32()
	case "int64":
		return jen.Int64()
	case "uint64":
		return jen.Uint64()
	case "float32":
		return jen.Float32()
	case "float64":
		return jen.Float64()
	case "char":
		return jen.Byte()
	default:
		return jen.Uintptr()
	}
}

// returnTypes maps the extraction decisions to the method's return list;
// error is always last.
func (g *generator) returnTypes(f *model.Function) []jen.Code {
	var returns []jen.Code
	for _, rv := range ReturnValues(f) {
		switch rv.Kind {
		case ReturnElements, ReturnList:
			returns = append(returns, jen.Index().Add(g.elemType(rv.Param)))
		case ReturnString:
			returns = append(returns, jen.String())
		case ReturnHandle:
			returns = append(returns, jen.Qual(g.opts.RuntimePath, "TaskHandle"))
		case ReturnScalar:
			returns = append(returns, g.elemType(rv.Param))
		}
	}
	return append(returns, jen.Error())
}

// zeroReturns builds the value list for an error return: a zero value per
// output, then the error expression.
func (g *generator) zeroReturns(f *model.Function, errExpr jen.Code) []jen.Code {
	var values []jen.Code
	for _, rv := range ReturnValues(f) {
		switch rv.Kind {
		case ReturnElements, ReturnList:
			values = append(values, jen.Nil())
		case ReturnString:
			values = append(values, jen.Lit(""))
		default:
			values = append(values, jen.Lit(0))
		}
	}
	return append(values, errExpr)
}

// finalReturns builds the success return list from the extraction
// decisions.
func (g *generator) finalReturns(f *model.Function) []jen.Code {
	var values []jen.Code
	for _, rv := range ReturnValues(f) {
		switch rv.Kind {
		case ReturnString:
			values = append(values, jen.Qual(g.opts.RuntimePath, "DecodeASCII").Call(jen.Id(rv.Param.Name)))
		default:
			values = append(values, jen.Id(rv.Param.Name))
		}
	}
	return append(values, jen.Nil())
}

// instantiationCode renders one pre-call allocation decision.
func (g *generator) instantiationCode(inst Instantiation) []jen.Code {
	switch inst.Kind {
	case InstTaskHandle:
		return []jen.Code{jen.Id("task").Op(":=").Qual(g.opts.RuntimePath, "TaskHandle").Call(jen.Lit(0))}
	case InstEmptyList:
		return []jen.Code{jen.Id(inst.Param.Name).Op(":=").Index().Add(g.elemType(inst.Param)).Values()}
	case InstBuffer:
		return []jen.Code{jen.Id(inst.Param.Name).Op(":=").Make(jen.Index().Add(g.elemType(inst.Param)), sizeCode(inst.SizeExpr))}
	case InstSizedBuffer:
		return []jen.Code{
			jen.Id("size").Op(":=").Id(inst.SizeExpr),
			jen.Id(inst.Param.Name).Op(":=").Make(jen.Index().Add(g.elemType(inst.Param)), jen.Id("size")),
		}
	case InstScalar:
		return []jen.Code{jen.Var().Id(inst.Param.Name).Add(g.elemType(inst.Param))}
	}
	return nil
}

// sizeCode renders a size expression: literal counts as written,
// parameter references converted for make.
func sizeCode(expr string) jen.Code {
	if model.IsLiteralSize(expr) {
		return jen.Id(expr)
	}
	return jen.Int().Call(jen.Id(expr))
}

// argCode renders one call-argument expression from the decision layer.
func argCode(arg string) jen.Code {
	switch {
	case len(arg) > 0 && arg[0] == '&':
		return jen.Op("&").Id(arg[1:])
	case len(arg) > 5 && arg[:4] == "len(" && arg[len(arg)-1] == ')':
		return jen.Len(jen.Id(arg[4 : len(arg)-1]))
	default:
		return jen.Id(arg)
	}
}

func argCodes(args []string) []jen.Code {
	codes := make([]jen.Code, 0, len(args))
	for _, a := range args {
		codes = append(codes, argCode(a))
	}
	return codes
}

// defaultBody emits the single-call template.
func (g *generator) defaultBody(f *model.Function, callArgs []string) []jen.Code {
	var body []jen.Code
	for _, inst := range Instantiations(f) {
		body = append(body, g.instantiationCode(inst)...)
	}

	invokeArgs := append([]jen.Code{jen.Id("l").Dot("procs").Dot(model.GoName(f.Name))}, argCodes(callArgs)...)
	body = append(body,
		jen.List(jen.Id("status"), jen.Err()).Op(":=").Qual(g.opts.RuntimePath, "Invoke").Call(invokeArgs...),
		jen.If(jen.Err().Op("!=").Nil()).Block(
			jen.Return(g.zeroReturns(f, jen.Err())...),
		),
		jen.If(jen.Err().Op(":=").Id("l").Dot("lib").Dot("Check").Call(jen.Id("status")).Op(";").Err().Op("!=").Nil()).Block(
			jen.Return(g.zeroReturns(f, jen.Err())...),
		),
	)
	return append(body, jen.Return(g.finalReturns(f)...))
}

// twoPassBody emits the size-discovery template: first call at zero
// capacity, allocate from the returned size, call again.
func (g *generator) twoPassBody(f *model.Function, callArgs []string) ([]jen.Code, error) {
	ivi, err := f.IviDanceParam()
	if err != nil {
		return nil, err
	}

	var body []jen.Code
	body = append(body,
		jen.Id(tempSizeVar).Op(":=").Int32().Call(jen.Lit(0)),
		jen.Var().Id(ivi.Name).Index().Add(g.elemType(ivi)),
	)
	for _, inst := range Instantiations(f) {
		if inst.Param == ivi {
			continue
		}
		body = append(body, g.instantiationCode(inst)...)
	}

	invokeArgs := append([]jen.Code{jen.Id("l").Dot("procs").Dot(model.GoName(f.Name))}, argCodes(callArgs)...)
	body = append(body,
		jen.List(jen.Id("status"), jen.Err()).Op(":=").Qual(g.opts.RuntimePath, "Invoke").Call(invokeArgs...),
		jen.If(jen.Err().Op("!=").Nil()).Block(
			jen.Return(g.zeroReturns(f, jen.Err())...),
		),
		// A positive status from the zero-capacity pass is the required
		// element count, not a warning.
		jen.If(jen.Id("status").Op(">").Lit(0)).Block(
			jen.Id(tempSizeVar).Op("=").Id("status"),
			jen.Id(ivi.Name).Op("=").Make(jen.Index().Add(g.elemType(ivi)), jen.Int().Call(jen.Id(tempSizeVar))),
			jen.List(jen.Id("status"), jen.Err()).Op("=").Qual(g.opts.RuntimePath, "Invoke").Call(invokeArgs...),
			jen.If(jen.Err().Op("!=").Nil()).Block(
				jen.Return(g.zeroReturns(f, jen.Err())...),
			),
		),
		jen.If(jen.Err().Op(":=").Id("l").Dot("lib").Dot("Check").Call(jen.Id("status")).Op(";").Err().Op("!=").Nil()).Block(
			jen.Return(g.zeroReturns(f, jen.Err())...),
		),
	)
	return append(body, jen.Return(g.finalReturns(f)...)), nil
}

// varargBody emits the cdecl variable-argument template: flat argument and
// type-tag lists built in lockstep, one reserved scalar element per
// output.
func (g *generator) varargBody(f *model.Function) []jen.Code {
	rt := g.opts.RuntimePath
	varargs := f.VarargParams()

	var body []jen.Code
	for _, inst := range Instantiations(f) {
		body = append(body, g.instantiationCode(inst)...)
	}
	for _, p := range f.OutputParams() {
		body = append(body, jen.Var().Id(p.Name+"_element").Add(g.elemType(p)))
	}

	// Fixed arguments precede the flattened repeating ones. Compound
	// carriers are a remote-backend shape; the native call never sees them.
	var fixedArgs, fixedTags []jen.Code
	for _, p := range f.InputParams() {
		if p.Repeating || p.IsCompound {
			continue
		}
		fixedArgs = append(fixedArgs, jen.Id(p.Name))
		fixedTags = append(fixedTags, jen.Qual(rt, "Tag"+TypeTag(p)))
	}
	body = append(body,
		jen.Id("args").Op(":=").Index().Interface().Values(fixedArgs...),
		jen.Id("tags").Op(":=").Index().Qual(rt, "TypeTag").Values(fixedTags...),
	)

	var loop []jen.Code
	for _, p := range varargs {
		loop = append(loop,
			jen.Id("args").Op("=").Append(jen.Id("args"), jen.Id(p.Name).Index(jen.Id("index"))),
			jen.Id("tags").Op("=").Append(jen.Id("tags"), jen.Qual(rt, "Tag"+TypeTag(p))),
		)
	}
	body = append(body,
		jen.For(jen.Id("index").Op(":=").Range().Id(varargs[0].Name)).Block(loop...),
	)

	for _, p := range f.OutputParams() {
		body = append(body,
			jen.Id("args").Op("=").Append(jen.Id("args"), jen.Op("&").Id(p.Name+"_element")),
			jen.Id("tags").Op("=").Append(jen.Id("tags"), jen.Qual(rt, "Tag"+TypeTag(p))),
		)
	}

	body = append(body,
		jen.List(jen.Id("status"), jen.Err()).Op(":=").Qual(rt, "InvokeVariadic").Call(
			jen.Id("l").Dot("procs").Dot(model.GoName(f.Name)), jen.Id("args"), jen.Id("tags")),
		jen.If(jen.Err().Op("!=").Nil()).Block(
			jen.Return(g.zeroReturns(f, jen.Err())...),
		),
		jen.If(jen.Err().Op(":=").Id("l").Dot("lib").Dot("Check").Call(jen.Id("status")).Op(";").Err().Op("!=").Nil()).Block(
			jen.Return(g.zeroReturns(f, jen.Err())...),
		),
	)
	for _, p := range f.OutputParams() {
		body = append(body,
			jen.Id(p.Name).Op("=").Append(jen.Id(p.Name), jen.Id(p.Name+"_element")),
		)
	}
	return append(body, jen.Return(g.finalReturns(f)...))
}

// eventBody delegates streamed-response functions to the callback
// registration subsystem; the interpreter only recognizes the shape.
func (g *generator) eventBody(f *model.Function) []jen.Code {
	args := []jen.Code{jen.Lit(f.CName)}
	for _, p := range f.SignatureParams() {
		args = append(args, jen.Id(p.Name))
	}
	return []jen.Code{
		jen.Return(g.zeroReturns(f, jen.Id("l").Dot("events").Dot("Register").Call(args...))...),
	}
}
