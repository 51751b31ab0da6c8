package main

import (
	"context"
	"fmt"

	"github.com/aretw0/weave/internal/demo"
	"github.com/aretw0/weave/internal/presentation/graph"
	"github.com/aretw0/weave/pkg/equal"
	"github.com/aretw0/weave/pkg/observe"
	"github.com/aretw0/weave/pkg/poly"
	"github.com/aretw0/weave/pkg/sheaf"
	"github.com/spf13/cobra"
)

var traceInput int

var graphCmd = &cobra.Command{
	Use:   "graph [pipeline|distance]",
	Short: "Export a composition tree as a Mermaid flowchart",
	Long: `Prints the composition tree of a built-in agent in Mermaid syntax.
With --input the pipeline runs once on that value and the leaves it visited
are highlighted.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"pipeline", "distance"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		name := "pipeline"
		if len(args) == 1 {
			name = args[0]
		}

		var (
			a       *poly.Agent
			overlay *graph.Overlay
			err     error
		)
		switch name {
		case "pipeline":
			a, overlay, err = pipelineGraph(ctx, cmd.Flags().Changed("input"))
		case "distance":
			a, err = distanceGraph(ctx)
		default:
			return fmt.Errorf("unknown agent %q (pipeline, distance)", name)
		}
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(a, overlay))
		return nil
	},
}

func pipelineGraph(ctx context.Context, traced bool) (*poly.Agent, *graph.Overlay, error) {
	if !traced {
		a, err := demo.Pipeline(nil, cfg.Engine.FixCap)
		return a, nil, err
	}

	var visited []string
	rec := observe.Func(func(_ context.Context, e observe.Event) {
		visited = append(visited, e.Agent)
	})
	a, err := demo.Pipeline(observe.Multi(rec, observe.Logger(logger)), cfg.Engine.FixCap)
	if err != nil {
		return nil, nil, err
	}
	if _, _, err := poly.Invoke(ctx, a, a.Initial(), traceInput); err != nil {
		logger.Warn("traced run failed", "input", traceInput, "err", err)
	}
	overlay := &graph.Overlay{Visited: visited}
	if len(visited) > 0 {
		overlay.Current = visited[len(visited)-1]
	}
	return a, overlay, nil
}

func distanceGraph(ctx context.Context) (*poly.Agent, error) {
	engine, err := newEngine()
	if err != nil {
		return nil, err
	}
	site, err := demo.DistanceSite()
	if err != nil {
		return nil, err
	}
	return engine.Sheaf(site, demo.DistanceSamples()).
		Glue(ctx, demo.DistanceFamily(), sheaf.FirstMatch(), equal.Approx(1e-9, 1e-9))
}

func init() {
	graphCmd.Flags().IntVar(&traceInput, "input", 0, "Run the pipeline on this value and highlight the visited agents")
	rootCmd.AddCommand(graphCmd)
}
