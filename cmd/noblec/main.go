package main

import (
	"errors"
	"os"
	"strings"

	"github.com/blaiserettig/Noble/pkg/compiler"
	"github.com/blaiserettig/Noble/pkg/diag"

	"github.com/fatih/color"
	"github.com/teris-io/cli"
)

var redColor = color.New(color.FgRed)

var Description = strings.ReplaceAll(`
The Noble Compiler translates a single source file written in the Noble
language into NASM-syntax x86-64 assembly targeting the Windows
mainCRTStartup entry point. The resulting file is ready to be assembled with
'nasm -f win64' and linked with MSVC 'link /subsystem:console
/entry:mainCRTStartup'.
`, "\n", " ")

var NobleCompiler = cli.New(Description).
	WithArg(cli.NewArg("input", "The source (.nbl) file to be compiled").WithType(cli.TypeString)).
	WithOption(cli.NewOption("output", "Path of the generated assembly file (default: src/out.asm)").
		WithType(cli.TypeString)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) < 1 {
		redColor.Fprintf(os.Stderr, "ERROR: Not enough arguments provided, use --help\n")
		return -1
	}

	outputPath := "src/out.asm"
	if path, ok := options["output"]; ok && path != "" {
		outputPath = path
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		redColor.Fprintf(os.Stderr, "ERROR: Unable to open input file: %s\n", err)
		return -1
	}

	assembly, err := compiler.Compile(string(source))
	if err != nil {
		printDiagnostic(err)
		return -1
	}

	output, err := os.Create(outputPath)
	if err != nil {
		redColor.Fprintf(os.Stderr, "ERROR: Unable to open output file: %s\n", err)
		return -1
	}
	defer output.Close()

	if _, err := output.WriteString(assembly); err != nil {
		redColor.Fprintf(os.Stderr, "ERROR: Unable to write output file: %s\n", err)
		return -1
	}

	return 0
}

// printDiagnostic reports a pipeline failure with its Kind and Reason
// colorized, matching the taxonomy in pkg/diag (§7).
func printDiagnostic(err error) {
	var d *diag.Diagnostic
	if errors.As(err, &d) {
		redColor.Fprintf(os.Stderr, "[%s] %s\n", d.Kind, err)
		return
	}
	redColor.Fprintf(os.Stderr, "ERROR: %s\n", err)
}

func main() { os.Exit(NobleCompiler.Run(os.Args, os.Stdout)) }
