package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcefield/pkg/analyze"
	"github.com/matzehuels/forcefield/pkg/graph"
	"github.com/matzehuels/forcefield/pkg/pipeline"
)

// analyzeCommand creates the analyze command for inspecting graph structure.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		input   string
		center  string
		jsonOut bool
		refresh bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the structure of a graph document",
		Long: `Analyze the structure of a graph document.

The analyze command reports the longest dependency path, bottleneck nodes,
dependency depth levels, linear chains, and an interaction-density score
around a focal node. Results are cached by graph content, so repeated runs
over an unchanged document are free.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Source:   input,
				Refresh:  refresh,
				Analysis: analyze.Options{Center: center},
			}
			return c.runAnalyze(cmd.Context(), opts, jsonOut, noCache)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "graph document to analyze (file path or URL)")
	_ = cmd.MarkFlagRequired("input")
	cmd.Flags().StringVar(&center, "center", "", "focal node for the density score (default: highest degree)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the analysis as JSON")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached result exists")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runAnalyze loads the graph, runs the analyzers, and prints the report.
func (c *CLI) runAnalyze(ctx context.Context, opts pipeline.Options, jsonOut, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	g, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}

	result, cached := runner.AnalyzeWithCacheInfo(ctx, g, opts)

	if jsonOut {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode analysis: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	printAnalysis(g, result, cached)
	printNewline()
	printNextStep("Lay out", fmt.Sprintf("%s layout -i %s", appName, opts.Source))
	return nil
}

// printAnalysis renders the structural report.
func printAnalysis(g *graph.Graph, result analyze.Result, cached bool) {
	fmt.Println(StyleTitle.Render("Structure"))
	printStats(g.NodeCount(), g.EdgeCount(), cached)
	printNewline()

	if len(result.CriticalPath) > 0 {
		fmt.Println(StyleTitle.Render("Critical path") + StyleDim.Render(fmt.Sprintf(" (%d nodes)", len(result.CriticalPath))))
		fmt.Println("  " + strings.Join(result.CriticalPath, " "+iconArrow+" "))
		printNewline()
	}

	if len(result.Bottlenecks) > 0 {
		rows := make([][]string, 0, len(result.Bottlenecks))
		for _, id := range result.Bottlenecks {
			rows = append(rows, []string{id, strconv.Itoa(g.InDegree(id)), strconv.Itoa(g.OutDegree(id))})
		}
		fmt.Println(newTable("Bottleneck", "In", "Out").Rows(rows...).Render())
		printNewline()
	}

	if len(result.Levels) > 0 {
		depth := 0
		counts := map[int]int{}
		for _, lvl := range result.Levels {
			counts[lvl]++
			if lvl > depth {
				depth = lvl
			}
		}
		rows := make([][]string, 0, depth+1)
		for lvl := 0; lvl <= depth; lvl++ {
			rows = append(rows, []string{strconv.Itoa(lvl), strconv.Itoa(counts[lvl]), levelSample(result.Levels, lvl, 4)})
		}
		fmt.Println(newTable("Level", "Nodes", "Examples").Rows(rows...).Render())
		printNewline()
	}

	if len(result.Chains) > 0 {
		longest := result.Chains[0]
		for _, chain := range result.Chains[1:] {
			if len(chain) > len(longest) {
				longest = chain
			}
		}
		printDetail("%d chains · longest %s", len(result.Chains), strings.Join(longest, " "+iconArrow+" "))
	}

	if result.Center != "" && len(result.Density) > 1 {
		printDetail("densest around %s: %s", result.Center, topDensity(result, 5))
	}

	if len(result.CycleNodes) > 0 {
		printWarning("%d nodes inside dependency cycles: %s", len(result.CycleNodes), truncateList(result.CycleNodes, 5))
	}
}

// topDensity lists the n highest-scoring nodes around the density center.
func topDensity(result analyze.Result, n int) string {
	type scored struct {
		id    string
		score float64
	}
	near := make([]scored, 0, len(result.Density))
	for id, score := range result.Density {
		if id == result.Center {
			continue
		}
		near = append(near, scored{id, score})
	}
	sort.Slice(near, func(i, j int) bool {
		if near[i].score != near[j].score {
			return near[i].score > near[j].score
		}
		return near[i].id < near[j].id
	})
	if len(near) > n {
		near = near[:n]
	}
	parts := make([]string, len(near))
	for i, s := range near {
		parts[i] = fmt.Sprintf("%s %.2f", s.id, s.score)
	}
	return strings.Join(parts, " · ")
}

// levelSample picks up to n node IDs at the given depth level, sorted.
func levelSample(levels map[string]int, level, n int) string {
	var ids []string
	for id, lvl := range levels {
		if lvl == level {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return truncateList(ids, n)
}

func truncateList(ids []string, n int) string {
	if len(ids) > n {
		return strings.Join(ids[:n], ", ") + ", ..."
	}
	return strings.Join(ids, ", ")
}
