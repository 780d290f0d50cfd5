// Remote backend generation. The generated client marshals the same
// surface into request messages for a gRPC service that fronts the
// driver; grpc and the protobuf stubs are referenced by the emitted code
// only, never imported here.
package codegen

import (
	"strings"

	"github.com/chazu/daqgen/pkg/model"
	"github.com/dave/jennifer/jen"
)

// GenerateGRPC produces the remote-backend interpreter for the given
// functions. The library ignore list does not apply: the service mediates
// event registration itself.
func GenerateGRPC(funcs []*model.Function, opts Options) (*Result, error) {
	opts.fill()
	g := &generator{opts: opts}

	file := jen.NewFile(opts.Package)
	file.HeaderComment("Code generated by daqgen. DO NOT EDIT.")

	g.generateGRPCStruct(file)

	for _, f := range funcs {
		if err := g.generateGRPCMethod(file, f); err != nil {
			return nil, err
		}
	}

	return render(file, g.warnings)
}

func (g *generator) generateGRPCStruct(file *jen.File) {
	pb := g.opts.ProtoPath
	file.Comment("GRPCInterpreter marshals calls into the remote driver service.")
	file.Type().Id("GRPCInterpreter").Struct(
		jen.Id("conn").Op("*").Qual(grpcPath, "ClientConn"),
		jen.Id("client").Qual(pb, g.opts.Service+"Client"),
	)
	file.Line()

	file.Comment("NewGRPCInterpreter wraps an established client connection.")
	file.Func().Id("NewGRPCInterpreter").Params(jen.Id("conn").Op("*").Qual(grpcPath, "ClientConn")).
		Op("*").Id("GRPCInterpreter").Block(
		jen.Return(jen.Op("&").Id("GRPCInterpreter").Values(jen.Dict{
			jen.Id("conn"):   jen.Id("conn"),
			jen.Id("client"): jen.Qual(pb, "New"+g.opts.Service+"Client").Call(jen.Id("conn")),
		})),
	)
	file.Line()
}

func (g *generator) generateGRPCMethod(file *jen.File, f *model.Function) error {
	template, err := SelectTemplate(f)
	if err != nil {
		return err
	}

	params := []jen.Code{jen.Id("ctx").Qual("context", "Context")}
	params = append(params, g.signature(f)...)

	var body []jen.Code
	var returns []jen.Code
	switch template {
	case TemplateEvent:
		// Streamed responses come back on a server stream owned by the
		// caller.
		returns = []jen.Code{
			jen.Qual(g.opts.ProtoPath, g.opts.Service+"_"+model.GoName(f.Name)+"Client"),
			jen.Error(),
		}
		body = []jen.Code{
			g.requestLine(f),
			jen.Return(jen.Id("c").Dot("client").Dot(model.GoName(f.Name)).Call(jen.Id("ctx"), jen.Id("request"))),
		}
	default:
		returns = g.returnTypes(f)
		body = g.grpcCallBody(f)
	}

	file.Func().Parens(jen.Id("c").Op("*").Id("GRPCInterpreter")).Id(model.GoName(f.Name)).
		Params(params...).Parens(jen.List(returns...)).Block(body...)
	file.Line()
	return nil
}

// requestLine builds the request message from named fields. Enum
// parameters bind to their raw field; inputs folded into a compound
// message are excluded, the compound list taking their place.
func (g *generator) requestLine(f *model.Function) jen.Code {
	compound := f.CompoundParam()
	compoundInputs := map[string]bool{}
	for _, name := range compoundInputNames(f) {
		compoundInputs[name] = true
	}

	dict := jen.Dict{}
	for _, p := range f.SignatureParams() {
		if compoundInputs[p.Name] {
			continue
		}
		if p.RepeatedVarArgs {
			dict[jen.Id(model.GoName(p.Name))] = jen.Id(p.Name)
			continue
		}
		field := model.GoName(p.Name)
		if p.IsEnum {
			field += "Raw"
		}
		dict[jen.Id(field)] = jen.Id(p.Name)
	}
	if compound != nil {
		dict[jen.Id(model.GoName(compound.Name))] = jen.Id(compound.Name)
	}

	return jen.Id("request").Op(":=").Op("&").Qual(g.opts.ProtoPath, model.GoName(f.Name)+"Request").Values(dict)
}

// compoundInputNames lists the repeating inputs that construct the
// compound message rather than binding to request fields directly.
func compoundInputNames(f *model.Function) []string {
	if f.CompoundParam() == nil {
		return nil
	}
	var names []string
	for _, p := range f.InputParams() {
		if p.Repeating {
			names = append(names, p.Name)
		}
	}
	return names
}

// compoundMessageType strips the repeated marker from the wire type of the
// vararg carrier, leaving the element message name.
func compoundMessageType(f *model.Function) string {
	for _, p := range f.InputParams() {
		if p.RepeatedVarArgs {
			return strings.TrimPrefix(p.GrpcType, "repeated ")
		}
	}
	return ""
}

func (g *generator) grpcCallBody(f *model.Function) []jen.Code {
	var body []jen.Code

	// Repeating inputs fold into one compound message per index.
	if compound := f.CompoundParam(); compound != nil {
		inputs := compoundInputNames(f)
		msgType := compoundMessageType(f)
		elemDict := jen.Dict{}
		for _, name := range inputs {
			elemDict[jen.Id(model.GoName(name))] = jen.Id(name).Index(jen.Id("index"))
		}
		body = append(body,
			jen.Var().Id(compound.Name).Index().Op("*").Qual(g.opts.ProtoPath, msgType),
			jen.For(jen.Id("index").Op(":=").Range().Id(inputs[0])).Block(
				jen.Id(compound.Name).Op("=").Append(jen.Id(compound.Name),
					jen.Op("&").Qual(g.opts.ProtoPath, msgType).Values(elemDict)),
			),
		)
	}

	// With no response fields to unwrap, the message itself goes unused.
	responseID := jen.Id("response")
	if len(ReturnValues(f)) == 0 {
		responseID = jen.Id("_")
	}
	body = append(body,
		g.requestLine(f),
		jen.List(responseID, jen.Err()).Op(":=").Id("c").Dot("client").Dot(model.GoName(f.Name)).
			Call(jen.Id("ctx"), jen.Id("request")),
		jen.If(jen.Err().Op("!=").Nil()).Block(
			jen.Return(g.zeroReturns(f, jen.Err())...),
		),
	)
	return append(body, jen.Return(g.grpcReturns(f)...))
}

// grpcReturns extracts response fields. Per-call element outputs ride in
// the same repeated fields the compound request populated, so repeating
// outputs have no dedicated response field to unwrap.
func (g *generator) grpcReturns(f *model.Function) []jen.Code {
	var values []jen.Code
	for _, rv := range ReturnValues(f) {
		field := jen.Id("response").Dot(model.GoName(rv.Param.Name))
		switch rv.Kind {
		case ReturnHandle:
			values = append(values, jen.Qual(g.opts.RuntimePath, "TaskHandle").Call(field))
		default:
			values = append(values, field)
		}
	}
	return append(values, jen.Nil())
}
