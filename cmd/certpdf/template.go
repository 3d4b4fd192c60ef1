package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-certpdf/internal/store"
)

// Sentinel errors for template and asset management.
var (
	ErrNoTemplateName = errors.New("no template name specified")
	ErrNoTemplateID   = errors.New("no template id specified")
	ErrNoAssetFile    = errors.New("no asset file specified")
	ErrNoStaticRoot   = errors.New("no static root specified")
)

// templateFlags holds flags for the template command.
type templateFlags struct {
	common       commonFlags
	templatesDir string
	name         string
}

// parseTemplateFlags parses template command flags and returns the
// remaining positional args (subcommand plus its arguments).
func parseTemplateFlags(args []string) (*templateFlags, []string, error) {
	fs := flag.NewFlagSet("template", flag.ContinueOnError)
	f := &templateFlags{}

	fs.StringVarP(&f.name, "name", "n", "", "template name (create)")
	addTemplatesDirFlag(fs, &f.templatesDir)
	addCommonFlags(fs, &f.common)

	fs.Usage = func() { printTemplateUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// runTemplateCmd manages the template store: create, list, duplicate,
// delete. Returns a process exit code.
func runTemplateCmd(args []string, env *Environment) int {
	flags, rest, err := parseTemplateFlags(args)
	if err != nil {
		return ExitUsage
	}
	if len(rest) == 0 {
		printTemplateUsage(env.Stderr)
		return ExitUsage
	}

	if flags.common.config != "" {
		cfg, err := LoadConfig(flags.common.config)
		if err != nil {
			fmt.Fprintf(env.Stderr, "Error: %v\n", err)
			return mapErrorToExitCode(err)
		}
		if flags.templatesDir == "" {
			flags.templatesDir = cfg.Templates.Dir
		}
	}

	ts, err := store.NewTemplateStore(templatesDirOrDefault(flags.templatesDir))
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return mapErrorToExitCode(err)
	}

	if err := runTemplateAction(ts, rest, flags, env); err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return mapErrorToExitCode(err)
	}
	return ExitSuccess
}

// runTemplateAction dispatches one template store operation.
func runTemplateAction(ts *store.TemplateStore, args []string, flags *templateFlags, env *Environment) error {
	action, rest := args[0], args[1:]

	switch action {
	case "create":
		if flags.name == "" {
			return ErrNoTemplateName
		}
		tpl, err := ts.Create(flags.name)
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, "Created template %s (%s)\n", tpl.ID, tpl.Name)
		return nil

	case "list":
		templates, err := ts.List()
		if err != nil {
			return err
		}
		if len(templates) == 0 {
			fmt.Fprintln(env.Stdout, "No templates")
			return nil
		}
		for _, tpl := range templates {
			fmt.Fprintf(env.Stdout, "%s  %s  %s  (%d elements)\n",
				tpl.ID, tpl.CreatedAt.Format("2006-01-02"), tpl.Name, len(tpl.Layout.Elements))
		}
		return nil

	case "duplicate":
		if len(rest) == 0 {
			return ErrNoTemplateID
		}
		dup, err := ts.Duplicate(rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, "Created template %s (%s)\n", dup.ID, dup.Name)
		return nil

	case "delete":
		if len(rest) == 0 {
			return ErrNoTemplateID
		}
		if err := ts.Delete(rest[0]); err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, "Deleted template %s\n", rest[0])
		return nil

	default:
		printTemplateUsage(env.Stderr)
		return fmt.Errorf("unknown template action %q", action)
	}
}

// assetFlags holds flags for the asset command.
type assetFlags struct {
	common     commonFlags
	staticRoot string
}

// runAssetCmd uploads an image into the asset store and prints the
// /static/... URL path templates embed. Returns a process exit code.
func runAssetCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("asset", flag.ContinueOnError)
	f := &assetFlags{}
	fs.StringVar(&f.staticRoot, "static-root", "", "filesystem root for /static/ asset references")
	addCommonFlags(fs, &f.common)
	fs.Usage = func() { printAssetUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}
	rest := fs.Args()
	if len(rest) < 1 || rest[0] != "upload" {
		printAssetUsage(env.Stderr)
		return ExitUsage
	}

	if f.common.config != "" {
		cfg, err := LoadConfig(f.common.config)
		if err != nil {
			fmt.Fprintf(env.Stderr, "Error: %v\n", err)
			return mapErrorToExitCode(err)
		}
		if f.staticRoot == "" {
			f.staticRoot = cfg.Assets.StaticRoot
		}
	}

	if err := uploadAsset(f.staticRoot, rest[1:], env); err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return mapErrorToExitCode(err)
	}
	return ExitSuccess
}

// uploadAsset copies one file into the asset store.
func uploadAsset(staticRoot string, args []string, env *Environment) error {
	if len(args) == 0 {
		return ErrNoAssetFile
	}
	if staticRoot == "" {
		return ErrNoStaticRoot
	}

	src, err := os.Open(args[0]) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("opening asset: %w", err)
	}
	defer src.Close()

	urlPath, err := store.NewAssetStore(staticRoot).Save(src, filepath.Base(args[0]))
	if err != nil {
		return err
	}

	fmt.Fprintln(env.Stdout, urlPath)
	return nil
}
