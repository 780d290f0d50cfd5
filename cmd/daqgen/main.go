// daqgen - interpreter generator for the DAQmx driver binding
//
// Reads a scraped function catalog and emits the marshaling layer that
// calls the native driver library, or the gRPC service exposing the same
// surface.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chazu/daqgen/pkg/codegen"
	"github.com/chazu/daqgen/pkg/metadata"
	"github.com/chazu/daqgen/pkg/model"
)

var (
	mode     = flag.String("mode", "library", "output mode: library (native shared library) or grpc (remote service)")
	output   = flag.String("o", "", "write generated source to file instead of stdout")
	pkgName  = flag.String("package", "nidaqmx", "package name of the generated file")
	protoPkg = flag.String("proto-pkg", "", "import path of the protobuf stubs (grpc mode)")
	dryRun   = flag.Bool("dry-run", false, "show what would be generated without outputting")
	version  = flag.Bool("version", false, "print version and exit")
)

const versionStr = "0.3.0"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "daqgen - DAQmx interpreter generator\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  daqgen [options] catalog.json\n")
		fmt.Fprintf(os.Stderr, "  daqgen [options] < catalog.json > interpreter.go\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("daqgen version %s\n", versionStr)
		os.Exit(0)
	}

	var cat *metadata.Catalog
	var err error
	if flag.NArg() > 0 {
		cat, err = metadata.Load(flag.Arg(0))
	} else {
		cat, err = metadata.Parse(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading catalog: %v\n", err)
		os.Exit(1)
	}

	funcs, err := model.Interpret(cat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error interpreting catalog: %v\n", err)
		os.Exit(1)
	}

	opts := codegen.Options{
		Package:   *pkgName,
		ProtoPath: *protoPkg,
	}

	var result *codegen.Result
	switch *mode {
	case "library":
		result, err = codegen.Generate(funcs, opts)
	case "grpc":
		result, err = codegen.GenerateGRPC(funcs, opts)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q (use 'library' or 'grpc')\n", *mode)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating: %v\n", err)
		os.Exit(1)
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	if *dryRun {
		fmt.Fprintf(os.Stderr, "Dry run - would generate %d bytes for %d functions\n", len(result.Code), len(funcs))
		os.Exit(0)
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(result.Code), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *output, err)
			os.Exit(1)
		}
		return
	}
	fmt.Print(result.Code)
}
