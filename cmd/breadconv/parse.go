package main

import (
	"encoding/json"
	"fmt"

	"bread-converter/internal/core/recipe"

	"github.com/spf13/cobra"
)

func newParseCmd(c *cli) *cobra.Command {
	var (
		hydration float64
		asJSON    bool
		useAI     bool
	)

	cmd := &cobra.Command{
		Use:   "parse [file|-]...",
		Short: "Parse recipes and show totals, hydration and baker's percentages",
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := readInputs(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			results := make([]*recipe.ParseResult, 0, len(inputs))
			for _, in := range inputs {
				text, err := c.app.Extractor.ExtractText(cmd.Context(), in.data)
				if err != nil {
					return fmt.Errorf("%s: %w", in.name, err)
				}
				res, err := c.app.Recipes.Parse(cmd.Context(), text, hydration, useAI)
				if err != nil {
					return fmt.Errorf("%s: %w", in.name, err)
				}
				results = append(results, res)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			for i, res := range results {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printParse(out, inputs[i].name, res)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&hydration, "starter-hydration", 0, "starter hydration in percent (0 uses the configured default)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&useAI, "ai", false, "parse with the AI model when configured")
	return cmd
}
