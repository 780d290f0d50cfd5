// Package main provides a CLI tool for inspecting what daqgen would
// generate, without generating it.
//
// The tool exposes the normalized function models and the per-function
// call plans as JSON, so catalog changes can be diffed at the decision
// level before the generated source churns.
//
// Usage:
//
//	daqgen-inspect functions <catalog>    # Output normalized function models as JSON
//	daqgen-inspect plan <catalog>         # Output per-function call plans as JSON
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/chazu/daqgen/pkg/codegen"
	"github.com/chazu/daqgen/pkg/metadata"
	"github.com/chazu/daqgen/pkg/model"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "functions":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Error: missing catalog argument")
			printUsage()
			os.Exit(1)
		}
		if err := cmdFunctions(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "plan":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Error: missing catalog argument")
			printUsage()
			os.Exit(1)
		}
		if err := cmdPlan(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`daqgen-inspect - Inspect daqgen's view of a function catalog

Usage:
  daqgen-inspect functions <catalog>    Output normalized function models as JSON
  daqgen-inspect plan <catalog>         Output per-function call plans as JSON
  daqgen-inspect help                   Show this help message

Examples:
  daqgen-inspect functions metadata/functions.json | jq .
  daqgen-inspect plan metadata/functions.json | jq '.[] | select(.template == "two-pass")'`)
}

// paramJSON is the inspection view of one normalized parameter.
type paramJSON struct {
	Name      string `json:"name"`
	Direction string `json:"direction"`
	Type      string `json:"type,omitempty"`
	ElemType  string `json:"elem_type,omitempty"`
	IsList    bool   `json:"is_list,omitempty"`
	Repeating bool   `json:"repeating,omitempty"`
	Size      string `json:"size,omitempty"`
}

// functionJSON is the inspection view of one normalized function.
type functionJSON struct {
	Name           string      `json:"name"`
	CName          string      `json:"c_name"`
	Init           bool        `json:"init,omitempty"`
	StreamResponse bool        `json:"stream_response,omitempty"`
	LibraryIgnored bool        `json:"library_ignored,omitempty"`
	Returns        string      `json:"returns,omitempty"`
	HandleParam    string      `json:"handle_param,omitempty"`
	Params         []paramJSON `json:"params"`
	Skipped        []string    `json:"skipped,omitempty"`
}

// planJSON is one function's call plan: the template plus the ordered
// argument, allocation, and extraction decisions.
type planJSON struct {
	Name           string   `json:"name"`
	Template       string   `json:"template"`
	CallArgs       []string `json:"call_args,omitempty"`
	VarargArgs     []string `json:"vararg_args,omitempty"`
	VarargTags     []string `json:"vararg_tags,omitempty"`
	VarargOuts     []string `json:"vararg_outs,omitempty"`
	Instantiations []string `json:"instantiations,omitempty"`
	Returns        []string `json:"returns,omitempty"`
}

func loadFunctions(path string) ([]*model.Function, error) {
	cat, err := metadata.Load(path)
	if err != nil {
		return nil, err
	}
	return model.Interpret(cat)
}

// cmdFunctions outputs the normalized function models as JSON.
func cmdFunctions(path string) error {
	funcs, err := loadFunctions(path)
	if err != nil {
		return err
	}

	out := make([]functionJSON, 0, len(funcs))
	for _, f := range funcs {
		fj := functionJSON{
			Name:           f.Name,
			CName:          f.CName,
			Init:           f.IsInit,
			StreamResponse: f.StreamResponse,
			LibraryIgnored: model.IgnoredForLibrary(f.CName),
			Returns:        f.Returns,
			HandleParam:    f.HandleParam,
		}
		for _, p := range f.Params {
			pj := paramJSON{
				Name:      p.Name,
				Direction: p.Direction.String(),
				Type:      p.Type,
				ElemType:  p.CtypesType,
				IsList:    p.IsList,
				Repeating: p.Repeating,
			}
			if p.Size != nil {
				pj.Size = p.Size.Mechanism.String() + ":" + p.Size.Value
			}
			fj.Params = append(fj.Params, pj)
		}
		for name := range f.Skipped {
			fj.Skipped = append(fj.Skipped, name)
		}
		sort.Strings(fj.Skipped)
		out = append(out, fj)
	}

	return emit(out)
}

// cmdPlan outputs each function's call plan as JSON.
func cmdPlan(path string) error {
	funcs, err := loadFunctions(path)
	if err != nil {
		return err
	}

	out := make([]planJSON, 0, len(funcs))
	for _, f := range funcs {
		template, err := codegen.SelectTemplate(f)
		if err != nil {
			return err
		}
		pj := planJSON{Name: f.Name, Template: template.String()}

		switch template {
		case codegen.TemplateVararg:
			pj.VarargArgs, pj.VarargTags = codegen.VarargArgs(f)
			pj.VarargOuts, _ = codegen.VarargOutputArgs(f)
		case codegen.TemplateEvent:
			// Delegated to the callback subsystem; no call site to plan.
		default:
			if pj.CallArgs, err = codegen.CallArgs(f); err != nil {
				return err
			}
		}

		for _, inst := range codegen.Instantiations(f) {
			name := "task"
			if inst.Param != nil {
				name = inst.Param.Name
			}
			pj.Instantiations = append(pj.Instantiations, name+":"+inst.Kind.String())
		}
		for _, rv := range codegen.ReturnValues(f) {
			pj.Returns = append(pj.Returns, rv.Param.Name+":"+rv.Kind.String())
		}
		out = append(out, pj)
	}

	return emit(out)
}

func emit(v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}
