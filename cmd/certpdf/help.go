package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: certpdf <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render certificate PDFs from a layout and context files")
	fmt.Fprintln(w, "  template   Manage the template store (create, list, duplicate, delete)")
	fmt.Fprintln(w, "  asset      Upload images into the static asset store")
	fmt.Fprintln(w, "  doctor     Check rendering capability, asset roots, and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'certpdf render --help' for render flags.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: certpdf render --layout <file> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render certificate PDFs from a layout JSON file. Variable bindings")
	fmt.Fprintln(w, "come from a YAML context file; pass a directory of context files to")
	fmt.Fprintln(w, "render a batch in parallel.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input:")
	fmt.Fprintln(w, "  -l, --layout <file>       Layout JSON file")
	fmt.Fprintln(w, "      --template-id <id>    Stored template ID (alternative to --layout)")
	fmt.Fprintln(w, "      --templates-dir <dir> Template store directory")
	fmt.Fprintln(w, "      --context <file>      Context YAML file with variable bindings")
	fmt.Fprintln(w, "      --context-dir <dir>   Directory of context YAML files (batch mode)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --out <file>          Output PDF file (single mode)")
	fmt.Fprintln(w, "      --out-dir <dir>       Output directory (batch mode)")
	fmt.Fprintln(w, "      --html-only           Output composed HTML instead of PDF")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Assets:")
	fmt.Fprintln(w, "      --static-root <dir>   Filesystem root for /static/ references")
	fmt.Fprintln(w, "      --uploads-root <dir>  Filesystem root for /uploads/ references")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers for batch mode (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <dur>       PDF generation timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printTemplateUsage prints usage for the template command.
func printTemplateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: certpdf template <action> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Manage the template store.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Actions:")
	fmt.Fprintln(w, "  create -n <name>          Create a blank template")
	fmt.Fprintln(w, "  list                      List templates, newest first")
	fmt.Fprintln(w, "  duplicate <id>            Copy a template under a fresh identity")
	fmt.Fprintln(w, "  delete <id>               Remove a template")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --templates-dir <dir> Template store directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
}

// printAssetUsage prints usage for the asset command.
func printAssetUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: certpdf asset upload <file> --static-root <dir>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Upload an image into the static asset store. Prints the /static/...")
	fmt.Fprintln(w, "URL path to embed in template layouts.")
}
