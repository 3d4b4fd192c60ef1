package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	certpdf "github.com/alnah/go-certpdf"
	"github.com/alnah/go-certpdf/internal/store"
	"github.com/goccy/go-yaml"
)

// Sentinel errors for CLI operations.
var (
	ErrNoLayout           = errors.New("no layout specified")
	ErrNoContext          = errors.New("no context specified")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrReadLayout         = errors.New("failed to read layout file")
	ErrReadContext        = errors.New("failed to read context file")
	ErrWriteOutput        = errors.New("failed to write output file")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// defaultTemplatesDir is the template store location when neither the
// flag nor the config sets one.
const defaultTemplatesDir = "templates"

// Renderer is the interface for the rendering service.
type Renderer interface {
	Render(ctx context.Context, input certpdf.Input) ([]byte, error)
	ComposeHTML(tpl *certpdf.Template, c certpdf.Context) (string, error)
}

// Compile-time interface implementation check.
var _ Renderer = (*certpdf.Service)(nil)

// Pool abstracts service pool operations for testability.
type Pool interface {
	Acquire() Renderer
	Release(Renderer)
	Size() int
}

// renderPool adapts certpdf.ServicePool to the Pool interface.
type renderPool struct {
	inner *certpdf.ServicePool
}

func (p *renderPool) Acquire() Renderer { return p.inner.Acquire() }

func (p *renderPool) Release(r Renderer) {
	if svc, ok := r.(*certpdf.Service); ok {
		p.inner.Release(svc)
	}
}

func (p *renderPool) Size() int { return p.inner.Size() }

// RenderJob represents a single certificate to produce.
type RenderJob struct {
	ContextPath string
	OutputPath  string
}

// RenderResult holds the outcome of a single render.
type RenderResult struct {
	ContextPath string
	OutputPath  string
	Err         error
	Duration    time.Duration
}

// runRenderCmd executes the render command and returns an exit code.
func runRenderCmd(args []string, env *Environment) int {
	flags, _, err := parseRenderFlags(args)
	if err != nil {
		return ExitUsage
	}

	cfg, err := loadRenderConfig(flags)
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return mapErrorToExitCode(err)
	}

	opts, err := serviceOptions(flags, cfg)
	if err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return ExitUsage
	}

	workers := flags.workers
	if workers == 0 {
		workers = cfg.Render.Workers
	}
	if err := validateWorkers(workers); err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return ExitUsage
	}

	poolSize := certpdf.ResolvePoolSize(workers)
	if flags.input.contextDir == "" {
		poolSize = 1
	}

	inner := certpdf.NewServicePool(poolSize, func() *certpdf.Service {
		return certpdf.New(flags.assets.staticRoot, flags.assets.uploadsRoot, opts...)
	})
	defer func() { _ = inner.Close() }()

	if err := runRender(context.Background(), flags, cfg, &renderPool{inner: inner}, env); err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return mapErrorToExitCode(err)
	}
	return ExitSuccess
}

// loadRenderConfig loads the config file (if set) and merges it into the
// flags. CLI values always win over config values.
func loadRenderConfig(flags *renderFlags) (*Config, error) {
	cfg := DefaultConfig()
	if flags.common.config != "" {
		loaded, err := LoadConfig(flags.common.config)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if flags.assets.staticRoot == "" {
		flags.assets.staticRoot = cfg.Assets.StaticRoot
	}
	if flags.assets.uploadsRoot == "" {
		flags.assets.uploadsRoot = cfg.Assets.UploadsRoot
	}
	if flags.input.templatesDir == "" {
		flags.input.templatesDir = cfg.Templates.Dir
	}
	if !flags.output.htmlOnly {
		flags.output.htmlOnly = cfg.Render.HTMLOnly
	}
	return cfg, nil
}

// templatesDirOrDefault applies the fallback store location.
func templatesDirOrDefault(dir string) string {
	if dir == "" {
		return defaultTemplatesDir
	}
	return dir
}

// serviceOptions translates timeout settings into service options.
func serviceOptions(flags *renderFlags, cfg *Config) ([]certpdf.Option, error) {
	var opts []certpdf.Option
	switch {
	case flags.timeout != "":
		d, err := time.ParseDuration(flags.timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid timeout %q", flags.timeout)
		}
		opts = append(opts, certpdf.WithTimeout(d))
	case cfg.Render.TimeoutSeconds > 0:
		opts = append(opts, certpdf.WithTimeout(time.Duration(cfg.Render.TimeoutSeconds)*time.Second))
	}
	return opts, nil
}

// runRender orchestrates the rendering process.
func runRender(ctx context.Context, flags *renderFlags, cfg *Config, pool Pool, env *Environment) error {
	tpl, err := resolveLayout(&flags.input)
	if err != nil {
		return err
	}

	jobs, err := resolveJobs(flags, cfg)
	if err != nil {
		return err
	}

	results := renderBatch(ctx, pool, tpl, jobs, flags.output.htmlOnly)

	failedCount := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d render(s) failed", failedCount)
	}
	return nil
}

// resolveLayout produces the template to render: from a layout JSON
// file, or from the template store when an ID is given. A missing
// stored template surfaces certpdf.ErrTemplateNotFound, the fatal
// (non-retryable) condition for renders against a deleted template.
func resolveLayout(input *inputFlags) (*certpdf.Template, error) {
	switch {
	case input.layout != "" && input.templateID != "":
		return nil, fmt.Errorf("%w: --layout and --template-id are mutually exclusive", ErrNoLayout)
	case input.layout != "":
		return loadTemplate(input.layout)
	case input.templateID != "":
		ts, err := store.NewTemplateStore(templatesDirOrDefault(input.templatesDir))
		if err != nil {
			return nil, err
		}
		return ts.Get(input.templateID)
	default:
		return nil, ErrNoLayout
	}
}

// loadTemplate reads and parses a layout JSON file into a template.
func loadTemplate(path string) (*certpdf.Template, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadLayout, err)
	}

	layout, err := certpdf.ParseLayout(data)
	if err != nil {
		return nil, fmt.Errorf("parsing layout %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &certpdf.Template{Name: name, Layout: layout}, nil
}

// loadContext reads a YAML context file into variable bindings.
func loadContext(path string) (certpdf.Context, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadContext, err)
	}

	c := certpdf.Context{}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing context %s: %w", path, err)
	}
	return c, nil
}

// resolveJobs determines the list of render jobs from flags.
// Single mode uses --context; batch mode walks --context-dir.
func resolveJobs(flags *renderFlags, cfg *Config) ([]RenderJob, error) {
	outDir := flags.output.outDir
	if outDir == "" {
		outDir = cfg.Output.DefaultDir
	}

	if flags.input.contextDir != "" {
		return discoverContexts(flags.input.contextDir, outDir, flags.output.htmlOnly)
	}

	if flags.input.context == "" {
		return nil, ErrNoContext
	}

	outPath := flags.output.out
	if outPath == "" {
		outPath = outputPathFor(flags.input.context, outDir, flags.output.htmlOnly)
	}
	return []RenderJob{{ContextPath: flags.input.context, OutputPath: outPath}}, nil
}

// discoverContexts finds all YAML context files in a directory.
func discoverContexts(dir, outDir string, htmlOnly bool) ([]RenderJob, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadContext, err)
	}

	var jobs []RenderJob
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		ctxPath := filepath.Join(dir, entry.Name())
		jobs = append(jobs, RenderJob{
			ContextPath: ctxPath,
			OutputPath:  outputPathFor(ctxPath, outDir, htmlOnly),
		})
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: no YAML files found in %s", ErrNoContext, dir)
	}
	return jobs, nil
}

// outputPathFor derives the output path for a context file.
func outputPathFor(contextPath, outDir string, htmlOnly bool) string {
	ext := ".pdf"
	if htmlOnly {
		ext = ".html"
	}
	base := strings.TrimSuffix(filepath.Base(contextPath), filepath.Ext(contextPath))
	if outDir == "" {
		return base + ext
	}
	return filepath.Join(outDir, base+ext)
}

// renderBatch processes jobs concurrently using the service pool.
func renderBatch(ctx context.Context, pool Pool, tpl *certpdf.Template, jobs []RenderJob, htmlOnly bool) []RenderResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(jobs) {
		concurrency = len(jobs)
	}

	results := make([]RenderResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			svc := pool.Acquire()
			defer pool.Release(svc)

			for idx := range queue {
				if ctx.Err() != nil {
					results[idx] = RenderResult{
						ContextPath: jobs[idx].ContextPath,
						Err:         ctx.Err(),
					}
					continue
				}
				results[idx] = renderJob(ctx, svc, tpl, jobs[idx], htmlOnly)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// renderJob processes a single job and returns the result.
func renderJob(ctx context.Context, svc Renderer, tpl *certpdf.Template, job RenderJob, htmlOnly bool) RenderResult {
	start := time.Now()
	result := RenderResult{
		ContextPath: job.ContextPath,
		OutputPath:  job.OutputPath,
	}

	bindings, err := loadContext(job.ContextPath)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	var output []byte
	if htmlOnly {
		html, err := svc.ComposeHTML(tpl, bindings)
		if err != nil {
			result.Err = err
			result.Duration = time.Since(start)
			return result
		}
		output = []byte(html)
	} else {
		output, err = svc.Render(ctx, certpdf.Input{Template: tpl, Context: bindings})
		if err != nil {
			result.Err = err
			result.Duration = time.Since(start)
			return result
		}
	}

	if dir := filepath.Dir(job.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			result.Err = fmt.Errorf("creating output directory: %w", err)
			result.Duration = time.Since(start)
			return result
		}
	}

	// #nosec G306 -- rendered certificates are meant to be readable
	if err := os.WriteFile(job.OutputPath, output, filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		result.Duration = time.Since(start)
		return result
	}

	result.Duration = time.Since(start)
	return result
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > certpdf.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, certpdf.MaxPoolSize)
	}
	return nil
}

// ResultSummary holds the count of succeeded and failed renders.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed renders.
func countResults(results []RenderResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs render results and returns the failure count.
func printResults(results []RenderResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.ContextPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.ContextPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
