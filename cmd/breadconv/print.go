package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"bread-converter/internal/core/bread"
	"bread-converter/internal/core/recipe"
)

func grams(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func printIngredients(w io.Writer, ings []bread.ParsedIngredient) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, ing := range ings {
		fmt.Fprintf(tw, "  %s %s\t %s\t(%s)\t\n", grams(ing.Amount), ing.Unit, ing.Name, ing.Type)
	}
	tw.Flush()
}

func printTotals(w io.Writer, r bread.ParsedRecipe) {
	fmt.Fprintf(w, "Flour %sg, liquid %sg, hydration %.1f%%\n", grams(r.TotalFlour), grams(r.TotalLiquid), r.Hydration)
}

func printWarnings(w io.Writer, title string, ws []bread.RecipeWarning) {
	if len(ws) == 0 {
		return
	}
	fmt.Fprintln(w, title)
	for _, warn := range ws {
		fmt.Fprintf(w, "  [%s] %s\n", warn.Type, warn.Message)
	}
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func printConversion(w io.Writer, name string, res *recipe.ConversionResult) {
	fmt.Fprintf(w, "== %s (%s, parser: %s, %s dough)\n", name, res.Direction, res.Parser, res.Classification.Type)

	if res.Blocked() {
		printList(w, "Recipe cannot be converted:", res.Errors)
		return
	}

	conv := res.Conversion
	fmt.Fprintln(w, "Ingredients:")
	printIngredients(w, conv.Converted.Ingredients)
	printTotals(w, conv.Converted)

	if conv.Levain != nil {
		fmt.Fprintf(w, "Levain: %sg starter + %sg water + %sg flour = %sg\n",
			grams(conv.Levain.Starter), grams(conv.Levain.Water), grams(conv.Levain.Flour), grams(conv.Levain.Total))
	}

	if len(conv.MethodChanges) > 0 {
		fmt.Fprintln(w, "Method:")
		for i, m := range conv.MethodChanges {
			fmt.Fprintf(w, "  %d. %s: %s", i+1, m.Step, m.Change)
			if m.Timing != "" {
				fmt.Fprintf(w, " (%s)", m.Timing)
			}
			fmt.Fprintln(w)
		}
	}

	printWarnings(w, "Notes:", conv.Warnings)
	printWarnings(w, "Checks:", res.ValidationWarnings)
	printList(w, "Auto-fixes:", res.AutoFixes)

	if len(conv.TroubleshootingTips) > 0 {
		fmt.Fprintln(w, "Troubleshooting:")
		for _, tip := range conv.TroubleshootingTips {
			fmt.Fprintf(w, "  %s: %s\n", tip.Issue, tip.Solution)
		}
	}
	if len(conv.Substitutions) > 0 {
		fmt.Fprintln(w, "Substitutions:")
		for _, s := range conv.Substitutions {
			fmt.Fprintf(w, "  %s -> %s (%s)\n", s.Original, s.Substitute, s.Notes)
		}
	}
}

func printParse(w io.Writer, name string, res *recipe.ParseResult) {
	fmt.Fprintf(w, "== %s (parser: %s, %s dough)\n", name, res.Parser, res.Classification.Type)
	printIngredients(w, res.Recipe.Ingredients)
	printTotals(w, res.Recipe)

	if len(res.BakersPercentages) > 0 {
		fmt.Fprintln(w, "Baker's percentages:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, bp := range res.BakersPercentages {
			fmt.Fprintf(tw, "  %s\t%.1f%%\n", bp.Ingredient, bp.Percentage)
		}
		tw.Flush()
	}
	printList(w, "Problems:", res.Errors)
}
