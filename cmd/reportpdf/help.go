package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: reportpdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  generate    Generate report PDFs (default: all reports)")
	fmt.Fprintln(w, "  convert     Convert a Markdown file to PDF")
	fmt.Fprintln(w, "  list        List the bundled reports")
	fmt.Fprintln(w, "  figures     Check the figures a report needs")
	fmt.Fprintln(w, "  doctor      Check system configuration")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'reportpdf help <command>' for details on a specific command.")
}

// printRenderFlags prints the flags shared by generate and convert.
func printRenderFlags(w io.Writer) {
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --date <s>             Cover date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                             Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                             Presets: iso, european, us, long, es-long, stamp")
	fmt.Fprintln(w, "                             Use [text] to escape literals: D [de] MMMM")
	fmt.Fprintln(w, "      --locale <tag>         Month name language (default: es)")
	fmt.Fprintln(w, "      --no-cover             Omit the cover page")
	fmt.Fprintln(w, "      --no-toc               Omit the index page")
	fmt.Fprintln(w, "      --no-footer            Omit the page-number footer")
	fmt.Fprintln(w, "      --watermark-text <s>   Diagonal watermark (e.g., BORRADOR)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "      --page-size <s>        Page size: letter, a4, legal (default: letter)")
	fmt.Fprintln(w, "      --orientation <s>      Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>           Margin in inches (0.25-3.0, default: 0.7)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <s>            CSS style name, file path or inline CSS")
	fmt.Fprintln(w, "      --asset-path <dir>     Directory with styles/ and templates/ overrides")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "      --html                 Also write the HTML")
	fmt.Fprintln(w, "      --html-only            Write HTML only, skip the PDF")
	fmt.Fprintln(w, "  -t, --timeout <d>          PDF timeout per report (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -c, --config <name>        Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet                Only show errors")
	fmt.Fprintln(w, "  -v, --verbose              Show debug logs")
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: reportpdf generate [report...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate report PDFs named <prefix>_YYYYMMDD.pdf. Missing figures are")
	fmt.Fprintln(w, "skipped and listed after the run.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  report    Bundled report name, \"all\", or a .yaml definition file")
	fmt.Fprintln(w, "            (default: all; see 'reportpdf list')")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>         Output directory (default: working directory)")
	fmt.Fprintln(w, "  -i, --images <dir>         Figure directory (default: working directory)")
	fmt.Fprintln(w, "  -w, --workers <n>          Parallel browsers (0 = auto)")
	fmt.Fprintln(w)
	printRenderFlags(w)
	fmt.Fprintln(w)
	printEnvironment(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  reportpdf generate")
	fmt.Fprintln(w, "  reportpdf generate credit -i notebooks/out -o dist")
	fmt.Fprintln(w, "  reportpdf generate phishing --date \"auto:D [de] MMMM [de] YYYY\"")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: reportpdf convert <file.md> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a Markdown file with the report layout. YAML front matter")
	fmt.Fprintln(w, "(title, subtitle, author, date, organization) fills the cover.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>        Output PDF (default: input with .pdf)")
	fmt.Fprintln(w)
	printRenderFlags(w)
}

func printListUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: reportpdf list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List the bundled reports with their output file and source notebook.")
}

func printFiguresUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: reportpdf figures <report> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show which figures of a report exist in the image directory.")
	fmt.Fprintln(w, "Exits with 3 when any is missing.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -i, --images <dir>         Figure directory (default: working directory)")
	fmt.Fprintln(w, "  -c, --config <name>        Config file name or path")
}

func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: reportpdf doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, container/CI settings, the temp directory and the bundled reports.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                 Print the report as JSON")
}

func printEnvironment(w io.Writer) {
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  REPORTPDF_CONFIG           Config file name or path")
	fmt.Fprintln(w, "  REPORTPDF_OUTPUT           Output directory")
	fmt.Fprintln(w, "  REPORTPDF_IMAGES           Figure directory")
	fmt.Fprintln(w, "  REPORTPDF_TIMEOUT          PDF timeout per report")
	fmt.Fprintln(w, "  REPORTPDF_WORKERS          Parallel browsers")
	fmt.Fprintln(w, "  REPORTPDF_LOCALE           Month name language")
	fmt.Fprintln(w, "  REPORTPDF_NO_COLOR         Disable colored output")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN            Chrome/Chromium binary to use")
	fmt.Fprintln(w, "  ROD_NO_SANDBOX=1           Disable the Chrome sandbox (containers)")
}

// runHelp prints help for a command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "generate":
		printGenerateUsage(env.Stdout)
	case "convert":
		printConvertUsage(env.Stdout)
	case "list":
		printListUsage(env.Stdout)
	case "figures":
		printFiguresUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: reportpdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: reportpdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
