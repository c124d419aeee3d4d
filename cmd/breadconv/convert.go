package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"bread-converter/internal/core/bread"
	"bread-converter/internal/core/recipe"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// errBlocked 有食譜未通過檢查
var errBlocked = errors.New("one or more recipes failed validation")

type convertOptions struct {
	direction   string
	hydration   float64
	asJSON      bool
	useAI       bool
	concurrency int
}

func newConvertCmd(c *cli) *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert [file|-]...",
		Short: "Convert recipes between sourdough and commercial yeast",
		Long:  "Reads recipes from files (text or photos when OCR is configured) or stdin and prints the converted recipe.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.direction, "direction", "d", "", "sourdough-to-yeast or yeast-to-sourdough")
	cmd.Flags().Float64Var(&opts.hydration, "starter-hydration", 0, "starter hydration in percent (0 uses the configured default)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&opts.useAI, "ai", false, "parse with the AI model when configured, falling back to the local parser")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 4, "number of recipes converted at once")
	_ = cmd.MarkFlagRequired("direction")
	return cmd
}

func (c *cli) runConvert(cmd *cobra.Command, args []string, opts *convertOptions) error {
	direction := bread.Direction(opts.direction)
	if !direction.Valid() {
		return fmt.Errorf("unknown direction %q (want %s or %s)", opts.direction, bread.SourdoughToYeast, bread.YeastToSourdough)
	}

	inputs, err := readInputs(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	results := make([]*recipe.ConversionResult, len(inputs))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(opts.concurrency, 1))
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			text, err := c.app.Extractor.ExtractText(ctx, in.data)
			if err != nil {
				return fmt.Errorf("%s: %w", in.name, err)
			}
			res, err := c.app.Recipes.Convert(ctx, recipe.ConvertRequest{
				Text:             text,
				Direction:        direction,
				StarterHydration: opts.hydration,
				UseAIParser:      opts.useAI,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", in.name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	blocked := false
	for i, res := range results {
		blocked = blocked || res.Blocked()
		if opts.asJSON {
			continue
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		printConversion(out, inputs[i].name, res)
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		var payload interface{} = results
		if len(results) == 1 {
			payload = results[0]
		}
		if err := enc.Encode(payload); err != nil {
			return fmt.Errorf("encode results: %w", err)
		}
	}

	if blocked {
		return errBlocked
	}
	return nil
}
