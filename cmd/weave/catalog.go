package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/weave/internal/presentation/tui"
	"github.com/aretw0/weave/pkg/operad"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the operators of the merged catalog",
	Long:  `Lists the base operators followed by every domain operator, with their arity and the laws they satisfy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}

		render := tui.NewRenderer(cmd.OutOrStdout())
		out, err := render(catalogMarkdown(engine.Registry().Operations()))
		if err != nil {
			return fmt.Errorf("render catalog: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func catalogMarkdown(ops []operad.Operation) string {
	var sb strings.Builder
	sb.WriteString("# Operator catalog\n\n")
	sb.WriteString("| Operator | Kind | Arity | Laws | Domain |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, op := range ops {
		laws := make([]string, len(op.Laws))
		for i, l := range op.Laws {
			laws[i] = string(l)
		}
		lawCol := strings.Join(laws, ", ")
		if lawCol == "" {
			lawCol = "-"
		}
		domain := op.Domain
		if domain == "" {
			domain = "base"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %d | %s | %s |\n", op.Name, op.Kind, op.Arity, lawCol, domain))
	}
	return sb.String()
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
