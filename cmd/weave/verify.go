package main

import (
	"context"
	"fmt"

	"github.com/aretw0/weave/internal/demo"
	"github.com/aretw0/weave/internal/presentation/tui"
	"github.com/aretw0/weave/pkg/equal"
	"github.com/aretw0/weave/pkg/laws"
	"github.com/aretw0/weave/pkg/operad"
	"github.com/spf13/cobra"
)

var samplesPath string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the operad laws on the built-in arithmetic agents",
	Long: `Replays integer sample traces through both sides of every law
(associativity, identity, interchange, projection) and reports the first
step where they disagree.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		samples, err := loadSamples(samplesPath)
		if err != nil {
			return err
		}
		engine, err := newEngine()
		if err != nil {
			return err
		}

		reports, err := checkLaws(cmd.Context(), engine.Registry(), samples)
		if err != nil {
			return err
		}

		status := tui.NewStatus(cmd.OutOrStdout())
		failed := 0
		for _, rep := range reports {
			label := status.Pass()
			if !rep.OK() {
				label = status.Fail()
				failed++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", label, rep)
		}
		fmt.Fprintln(cmd.OutOrStdout(), status.Muted(fmt.Sprintf("%d laws, %d samples", len(reports), len(samples))))
		if failed > 0 {
			return fmt.Errorf("%d of %d laws failed", failed, len(reports))
		}
		return nil
	},
}

func checkLaws(ctx context.Context, reg *operad.Registry, samples laws.Samples) ([]*laws.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	eq := equal.Deep()
	double, inc, acc := demo.Double(), demo.Increment(), demo.Accumulator()

	checks := []func() (*laws.Report, error){
		func() (*laws.Report, error) {
			return laws.Associativity(ctx, reg, "seq", double, inc, acc, samples, eq)
		},
		func() (*laws.Report, error) {
			return laws.Associativity(ctx, reg, "par", double, inc, acc, samples, eq)
		},
		func() (*laws.Report, error) { return laws.Identity(ctx, reg, "seq", acc, samples, eq) },
		func() (*laws.Report, error) { return laws.Identity(ctx, reg, "par", acc, samples, eq) },
		func() (*laws.Report, error) {
			return laws.Interchange(ctx, reg, double, inc, inc, acc, samples, eq)
		},
		func() (*laws.Report, error) { return laws.Projection(ctx, reg, double, acc, samples, eq) },
	}

	reports := make([]*laws.Report, 0, len(checks))
	for _, check := range checks {
		rep, err := check()
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

func init() {
	verifyCmd.Flags().StringVar(&samplesPath, "samples", "", "YAML file with integer sample traces")
	rootCmd.AddCommand(verifyCmd)
}
