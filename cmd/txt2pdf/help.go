package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: txt2pdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Export text files to PDF, HTML, Markdown or DOCX")
	fmt.Fprintln(w, "  title      Print the detected title of text files")
	fmt.Fprintln(w, "  serve      Run the editor HTTP and live-editing server")
	fmt.Fprintln(w, "  mcp        Expose title detection, import and export as MCP tools")
	fmt.Fprintln(w, "  doctor     Check the browser and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'txt2pdf help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags every command accepts.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Export:")
	fmt.Fprintln(w, "  -f, --format <s>          Output format: pdf, html, md, docx")
	fmt.Fprintln(w, "      --theme <s>           Theme: classic, minimal, modern, or a custom name")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with custom themes")
	fmt.Fprintln(w, "      --footer <s>          Footer text shown before the date")
	fmt.Fprintln(w, "      --no-footer           Disable footer")
	fmt.Fprintln(w, "      --date-format <s>     Timestamp format: iso, european, us, long,")
	fmt.Fprintln(w, "                            or tokens YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w)
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: txt2pdf convert <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Import text files and export them. The header title is detected from")
	fmt.Fprintln(w, "the content unless --title is given.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    .txt file or directory (.md/.markdown with --markdown)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --markdown            Also import markdown files")
	fmt.Fprintln(w, "      --watch               Re-export when inputs change")
	fmt.Fprintln(w, "      --title <s>           Header title (\"\" = no title)")
	fmt.Fprintln(w)
	printExportUsage(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: a3, a4, a5, letter, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in millimeters (0-50)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --scale <f>           Rendering scale (0.1-4)")
	fmt.Fprintln(w, "      --quality <f>         JPEG quality for images (0-1]")
	fmt.Fprintln(w, "  -t, --timeout <d>         Export timeout (e.g. 30s, 2m)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printTitleUsage prints usage for the title command.
func printTitleUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: txt2pdf title <file>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the title detected for each file, one per line.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --markdown            Also accept markdown files")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: txt2pdf serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the editor API on HTTP and live editing on a websocket.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --addr <addr>         Listen address (default :8080)")
	fmt.Fprintln(w, "      --store <s>           Auto-save store: sqlite, memory, none")
	fmt.Fprintln(w, "      --store-path <path>   SQLite database path")
	fmt.Fprintln(w, "      --markdown            Accept markdown uploads")
	fmt.Fprintln(w)
	printExportUsage(w)
	printCommonUsage(w)
}

// printMCPUsage prints usage for the mcp command.
func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: txt2pdf mcp [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run an MCP server on stdio, or on streamable HTTP with --http.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --http <addr>         Listen address for streamable HTTP")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel exporters (0 = auto)")
	fmt.Fprintln(w)
	printExportUsage(w)
	printCommonUsage(w)
}

func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: txt2pdf doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that Chrome, the temp directory and the auto-save store are usable.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Machine-readable output")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "title":
		printTitleUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "mcp":
		printMCPUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: txt2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: txt2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return nil
}
