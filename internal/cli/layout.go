package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcefield/pkg/errors"
	forceio "github.com/matzehuels/forcefield/pkg/io"
	"github.com/matzehuels/forcefield/pkg/layout"
	"github.com/matzehuels/forcefield/pkg/pipeline"
)

// layoutCommand creates the layout command for positioning graph documents.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		input   string
		output  string
		preset  string
		formats string
		noCache bool
		watch   bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute node positions for a graph document",
		Long: `Compute node positions for a graph document.

The layout command reads a graph document (file path or URL), runs the
selected layout algorithm, and writes the same document back with a
position attached to every node. Optional render formats (svg, png, dot)
are written next to the output file.

Analysis results are cached locally for faster subsequent runs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := layout.Config{}
			if preset != "" {
				loaded, err := loadPresetConfig(preset)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			// Explicit flags win over preset values.
			if cmd.Flags().Changed("algorithm") {
				cfg.Algorithm = opts.Layout.Algorithm
			}
			if cmd.Flags().Changed("iterations") {
				cfg.Iterations = opts.Layout.Iterations
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = opts.Layout.Seed
			}
			opts.Layout = cfg
			opts.Source = input
			opts.Formats = parseFormats(formats)
			return c.runLayout(cmd.Context(), opts, output, noCache, watch)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&input, "input", "i", "", "graph document to lay out (file path or URL)")
	_ = cmd.MarkFlagRequired("input")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Layout.Algorithm, "algorithm", "a", "", "layout algorithm: forceatlas2, force, hierarchical, radial, grid (default: automatic)")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "config preset: "+strings.Join(layout.Presets(), ", ")+", or a TOML file path")
	cmd.Flags().IntVar(&opts.Layout.Iterations, "iterations", 0, "simulation iterations (default: per algorithm)")
	cmd.Flags().Uint64Var(&opts.Layout.Seed, "seed", 0, "random seed for reproducible layouts")
	cmd.Flags().BoolVar(&watch, "watch", false, "show live progress while the layout runs")

	// Output flags
	cmd.Flags().StringVar(&formats, "formats", "", "render formats to write alongside the output: svg, png, dot")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "draw node labels in rendered formats")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "compute layout quality metrics")
	cmd.Flags().BoolVar(&opts.SkipAnalyze, "skip-analyze", false, "skip the structural analysis stage")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached analysis results")

	return cmd
}

// runLayout executes the pipeline and writes the positioned document plus
// any rendered artifacts.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache, watch bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	var result *pipeline.Result
	if watch {
		result, err = c.runWatched(ctx, runner, opts)
	} else {
		spinner := newSpinnerWithContext(ctx, "Computing layout...")
		opts.OnProgress = func(p layout.Progress) {
			spinner.SetMessage(fmt.Sprintf("Computing layout... %.0f%%", p.Percent))
		}
		spinner.Start()
		result, err = runner.Execute(ctx, opts)
		switch {
		case err == nil, stderrors.Is(err, layout.ErrCanceled), stderrors.Is(err, context.Canceled):
			spinner.Stop()
		default:
			spinner.StopWithError("Layout failed")
		}
	}
	if err != nil {
		if stderrors.Is(err, layout.ErrCanceled) || stderrors.Is(err, context.Canceled) {
			printWarning("Layout canceled")
			return ctx.Err()
		}
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = defaultOutputPath(opts.Source)
	}
	if err := forceio.Export(result.Graph, outputPath); err != nil {
		return err
	}

	printSuccess("Layout complete (%s)", result.Algorithm)
	printFile(outputPath)
	for _, format := range sortedFormats(result.Artifacts) {
		p := artifactPath(outputPath, format)
		if err := os.WriteFile(p, result.Artifacts[format], 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write artifact %s", p)
		}
		printFile(p)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.AnalysisHit)
	if result.Metrics != nil {
		printDetail("crossings %d · overlaps %d · aspect %.2f · symmetry %.2f",
			result.Metrics.EdgeCrossings, result.Metrics.NodeOverlaps,
			result.Metrics.AspectRatio, result.Metrics.Symmetry)
	}
	printNewline()
	printNextStep("Analyze", fmt.Sprintf("%s analyze -i %s", appName, outputPath))

	return nil
}

// loadPresetConfig resolves --preset values: names load a built-in preset,
// anything that looks like a path loads a TOML file.
func loadPresetConfig(name string) (layout.Config, error) {
	if strings.HasSuffix(name, ".toml") || strings.ContainsAny(name, `/\`) {
		return layout.LoadPresetFile(name)
	}
	return layout.LoadPreset(name)
}

// defaultOutputPath derives the output path from the input source:
// "deps.json" becomes "deps.layout.json". URL sources are written to the
// working directory under the last path segment.
func defaultOutputPath(source string) string {
	if u, err := url.Parse(source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		name := strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path))
		if name == "" || name == "." || name == "/" {
			name = "graph"
		}
		return name + ".layout.json"
	}
	return strings.TrimSuffix(source, filepath.Ext(source)) + ".layout.json"
}

// artifactPath swaps the output extension for the render format's.
func artifactPath(outputPath, format string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + "." + format
}

func sortedFormats(artifacts map[string][]byte) []string {
	formats := make([]string, 0, len(artifacts))
	for format := range artifacts {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}
