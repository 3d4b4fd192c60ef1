package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// inputFlags holds the rendering inputs. The layout comes either from a
// JSON file or from a stored template by ID, never both.
type inputFlags struct {
	layout       string // Layout JSON file describing the template
	templateID   string // Stored template ID (resolved via the template store)
	templatesDir string // Template store directory
	context      string // Single context YAML file
	contextDir   string // Directory of context YAML files for batch mode
}

// assetRootFlags holds the asset resolution roots.
type assetRootFlags struct {
	staticRoot  string // Filesystem root backing /static/ references
	uploadsRoot string // Filesystem root backing /uploads/ references
}

// outputFlags holds output destination and mode flags.
type outputFlags struct {
	out      string // Output file (single mode)
	outDir   string // Output directory (batch mode)
	htmlOnly bool   // Emit the composed HTML instead of PDF
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common  commonFlags
	input   inputFlags
	assets  assetRootFlags
	output  outputFlags
	workers int
	timeout string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addInputFlags adds rendering input flags to a FlagSet.
func addInputFlags(fs *flag.FlagSet, f *inputFlags) {
	fs.StringVarP(&f.layout, "layout", "l", "", "layout JSON file")
	fs.StringVar(&f.templateID, "template-id", "", "stored template ID (alternative to --layout)")
	addTemplatesDirFlag(fs, &f.templatesDir)
	fs.StringVar(&f.context, "context", "", "context YAML file with variable bindings")
	fs.StringVar(&f.contextDir, "context-dir", "", "directory of context YAML files (batch mode)")
}

// addTemplatesDirFlag adds the template store directory flag.
func addTemplatesDirFlag(fs *flag.FlagSet, dir *string) {
	fs.StringVar(dir, "templates-dir", "", "template store directory")
}

// addAssetRootFlags adds asset root flags to a FlagSet.
func addAssetRootFlags(fs *flag.FlagSet, f *assetRootFlags) {
	fs.StringVar(&f.staticRoot, "static-root", "", "filesystem root for /static/ asset references")
	fs.StringVar(&f.uploadsRoot, "uploads-root", "", "filesystem root for /uploads/ asset references")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.out, "out", "o", "", "output PDF file (single mode)")
	fs.StringVar(&f.outDir, "out-dir", "", "output directory (batch mode)")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "output composed HTML instead of PDF")
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	f := &renderFlags{}

	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers for batch mode (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")

	addCommonFlags(fs, &f.common)
	addInputFlags(fs, &f.input)
	addAssetRootFlags(fs, &f.assets)
	addOutputFlags(fs, &f.output)

	fs.Usage = func() { printRenderUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
