package bread

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ingredientNames(ings []ParsedIngredient) string {
	names := make([]string, len(ings))
	for i, ing := range ings {
		names[i] = ing.Name
	}
	return strings.Join(names, ", ")
}

func TestSourdoughToYeastCountryLoaf(t *testing.T) {
	t.Parallel()

	parsed := ParseRecipe(countryLoaf, 100)
	conv := ConvertSourdoughToYeast(parsed, countryLoaf, 100)

	assert.Equal(t, SourdoughToYeast, conv.Direction)
	assert.Equal(t, parsed, conv.Original)
	assert.False(t, conv.Converted.HasType(TypeStarter), ingredientNames(conv.Converted.Ingredients))
	assert.Zero(t, conv.Converted.StarterAmount)

	i := indexOfType(conv.Converted.Ingredients, TypeYeast)
	require.Equal(t, 2, i, "yeast takes the starter's position")
	yeast := conv.Converted.Ingredients[i]
	assert.InDelta(t, 3.85, yeast.Amount, 1e-9)
	assert.Contains(t, yeast.Name, "4.95g active dry yeast")
	assert.InDelta(t, 3.85, conv.Converted.YeastAmount, 1e-9)

	assert.InDelta(t, 400.0/550*100*0.92, conv.Converted.Hydration, 1e-9)
	assert.InDelta(t, 66.9, conv.Converted.Hydration, 0.05)
	assert.InDelta(t, 550, conv.Converted.TotalFlour, 1e-9)
	assert.InDelta(t, 368, conv.Converted.TotalLiquid, 1e-9)
	assert.InDelta(t, 10, conv.Converted.SaltAmount, 1e-9)

	// 預設不動麵粉項目，酵種的麵粉只留在總量裡
	assert.InDelta(t, 500, sumType(conv.Converted.Ingredients, TypeFlour), 1e-9)
	assert.InDelta(t, 368, sumType(conv.Converted.Ingredients, TypeLiquid), 1e-9)
	assert.True(t, hasWarning(conv.Warnings, SeverityInfo, "stays in the 550g flour total"))
	assert.Contains(t, conv.MethodChanges[0].Change, "550g flour")

	assert.NotEmpty(t, conv.MethodChanges)
	assert.Equal(t, "Mix", conv.MethodChanges[0].Step)
	assert.NotEmpty(t, conv.TroubleshootingTips)
	assert.NotEmpty(t, conv.Substitutions)
	assert.Nil(t, conv.Levain)

	// 原始配方不可被修改
	assert.Equal(t, TypeStarter, parsed.Ingredients[2].Type)
	assert.InDelta(t, 500, parsed.Ingredients[0].Amount, 1e-9)
}

func TestSourdoughToYeastFoldStarterFlour(t *testing.T) {
	t.Parallel()

	parsed := ParseRecipe(countryLoaf, 100)
	conv := NewConverter(Options{FoldStarterFlour: true}).SourdoughToYeast(parsed, countryLoaf, 100)

	i := indexOfType(conv.Converted.Ingredients, TypeFlour)
	require.GreaterOrEqual(t, i, 0)
	assert.InDelta(t, 550, conv.Converted.Ingredients[i].Amount, 1e-9)
	assert.InDelta(t, 550, sumType(conv.Converted.Ingredients, TypeFlour), 1e-9)
	assert.InDelta(t, 550, conv.Converted.TotalFlour, 1e-9)
	assert.True(t, hasWarning(conv.Warnings, SeverityInfo, "50g flour is added to the flour"))
	assert.InDelta(t, 500, parsed.Ingredients[0].Amount, 1e-9)
}

func TestSourdoughToYeastEndToEnd(t *testing.T) {
	t.Parallel()

	parsed := ParseRecipe(countryLoaf, 100)
	require.Empty(t, ValidateRecipe(parsed))

	res := ValidateConversion(ConvertSourdoughToYeast(parsed, countryLoaf, 100))

	assert.Empty(t, res.AutoFixes)
	assert.InDelta(t, 10, res.Recipe.Converted.SaltAmount, 1e-9)
	assert.InDelta(t, 66.9, res.Recipe.Converted.Hydration, 0.05)
	for _, w := range res.ValidationWarnings {
		assert.NotEqual(t, SeverityCaution, w.Type, w.Message)
	}
}

func TestSourdoughToYeastReparseHasNoStarter(t *testing.T) {
	t.Parallel()

	conv := ConvertSourdoughToYeast(ParseRecipe(countryLoaf, 100), countryLoaf, 100)

	var lines []string
	for _, ing := range conv.Converted.Ingredients {
		lines = append(lines, formatGrams(ing.Amount)+"g "+ing.Name)
	}
	reparsed := ParseRecipe(strings.Join(lines, "\n"), 100)

	assert.False(t, reparsed.HasType(TypeStarter))
	assert.Zero(t, reparsed.StarterAmount)
	assert.True(t, reparsed.HasType(TypeYeast))
}

func TestSourdoughToYeastEnrichmentBoost(t *testing.T) {
	t.Parallel()

	recipe := BuildRecipe([]ParsedIngredient{
		{Name: "bread flour", Amount: 450, Unit: GramUnit, Type: TypeFlour},
		{Name: "milk", Amount: 250, Unit: GramUnit, Type: TypeLiquid},
		{Name: "starter", Amount: 100, Unit: GramUnit, Type: TypeStarter},
		{Name: "butter", Amount: 60, Unit: GramUnit, Type: TypeFat},
		{Name: "eggs", Amount: 100, Unit: GramUnit, Type: TypeEnrichment},
		{Name: "sugar", Amount: 50, Unit: GramUnit, Type: TypeSweetener},
		{Name: "salt", Amount: 9, Unit: GramUnit, Type: TypeSalt},
	}, "", 100)

	conv := ConvertSourdoughToYeast(recipe, "", 100)

	assert.InDelta(t, recipe.Hydration*0.92+6, conv.Converted.Hydration, 1e-9)
	assert.Equal(t, "Bake", conv.MethodChanges[len(conv.MethodChanges)-1].Step)
	assert.Equal(t, "30-35 minutes", conv.MethodChanges[len(conv.MethodChanges)-1].Timing)
}

func TestSourdoughToYeastMultipleLiquids(t *testing.T) {
	t.Parallel()

	recipe := BuildRecipe([]ParsedIngredient{
		{Name: "bread flour", Amount: 500, Unit: GramUnit, Type: TypeFlour},
		{Name: "water", Amount: 300, Unit: GramUnit, Type: TypeLiquid},
		{Name: "milk", Amount: 50, Unit: GramUnit, Type: TypeLiquid},
		{Name: "starter", Amount: 100, Unit: GramUnit, Type: TypeStarter},
		{Name: "salt", Amount: 10, Unit: GramUnit, Type: TypeSalt},
	}, "", 100)

	conv := ConvertSourdoughToYeast(recipe, "", 100)

	assert.InDelta(t, conv.Converted.TotalLiquid, sumType(conv.Converted.Ingredients, TypeLiquid), 1e-9)
	assert.InDelta(t, 50, conv.Converted.Ingredients[2].Amount, 1e-9, "only the first liquid is rewritten")
}

func TestSourdoughToYeastWithoutLiquid(t *testing.T) {
	t.Parallel()

	recipe := BuildRecipe([]ParsedIngredient{
		{Name: "bread flour", Amount: 500, Unit: GramUnit, Type: TypeFlour},
		{Name: "starter", Amount: 100, Unit: GramUnit, Type: TypeStarter},
		{Name: "salt", Amount: 10, Unit: GramUnit, Type: TypeSalt},
	}, "", 100)

	conv := NewConverter(Options{}).SourdoughToYeast(recipe, "", 100)
	assert.False(t, conv.Converted.HasType(TypeLiquid))
	assert.InDelta(t, 46, conv.Converted.TotalLiquid, 1e-9)
	assert.True(t, hasWarning(conv.Warnings, SeverityWarning, "No liquid ingredient"))

	fixed := NewConverter(Options{AppendMissingLiquid: true}).SourdoughToYeast(recipe, "", 100)
	i := indexOfType(fixed.Converted.Ingredients, TypeLiquid)
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "water", fixed.Converted.Ingredients[i].Name)
	assert.InDelta(t, 46, fixed.Converted.Ingredients[i].Amount, 1e-9)
}

func TestSourdoughToYeastHighHydrationCaution(t *testing.T) {
	t.Parallel()

	recipe := BuildRecipe([]ParsedIngredient{
		{Name: "bread flour", Amount: 400, Unit: GramUnit, Type: TypeFlour},
		{Name: "water", Amount: 380, Unit: GramUnit, Type: TypeLiquid},
		{Name: "starter", Amount: 100, Unit: GramUnit, Type: TypeStarter},
	}, "", 100)

	conv := ConvertSourdoughToYeast(recipe, "", 100)
	assert.Greater(t, conv.Converted.Hydration, 80.0)
	assert.True(t, hasWarning(conv.Warnings, SeverityCaution, "very high"))
}

const sandwichLoaf = "500g bread flour\n350g water\n7g instant yeast\n10g salt\nMethod:\nKnead and bake"

func TestYeastToSourdough(t *testing.T) {
	t.Parallel()

	parsed := ParseRecipe(sandwichLoaf, 100)
	conv := ConvertYeastToSourdough(parsed, sandwichLoaf, 100)

	assert.Equal(t, YeastToSourdough, conv.Direction)
	assert.False(t, conv.Converted.HasType(TypeYeast))
	assert.Zero(t, conv.Converted.YeastAmount)

	i := indexOfType(conv.Converted.Ingredients, TypeStarter)
	require.Equal(t, 2, i)
	assert.InDelta(t, 100, conv.Converted.Ingredients[i].Amount, 1e-9)
	assert.InDelta(t, 100, conv.Converted.StarterAmount, 1e-9)
	assert.InDelta(t, 550, conv.Converted.TotalFlour, 1e-9)
	assert.InDelta(t, 400, conv.Converted.TotalLiquid, 1e-9)
	assert.InDelta(t, 400.0/550*100, conv.Converted.Hydration, 1e-9)

	require.NotNil(t, conv.Levain)
	assert.InDelta(t, 20, conv.Levain.Starter, 1e-9)
	assert.InDelta(t, 40, conv.Levain.Flour, 1e-9)
	assert.InDelta(t, 40, conv.Levain.Water, 1e-9)
	assert.InDelta(t, 100, conv.Levain.Total, 1e-9)

	assert.Equal(t, "Build the levain", conv.MethodChanges[0].Step)
	assert.Contains(t, conv.MethodChanges[0].Change, "20g active starter")
	assert.Contains(t, conv.MethodChanges[0].Change, "40g water")
}

func TestYeastToSourdoughFlatTemplate(t *testing.T) {
	t.Parallel()

	recipe := BuildRecipe([]ParsedIngredient{
		{Name: "flour", Amount: 500, Unit: GramUnit, Type: TypeFlour},
		{Name: "water", Amount: 325, Unit: GramUnit, Type: TypeLiquid},
		{Name: "yeast", Amount: 5, Unit: GramUnit, Type: TypeYeast},
	}, "", 100)

	conv := ConvertYeastToSourdough(recipe, "", 100)
	require.Len(t, conv.Converted.Ingredients, 3)
	assert.Equal(t, "Mix", conv.MethodChanges[0].Step)
}

func TestYeastToSourdoughStarterHydration(t *testing.T) {
	t.Parallel()

	recipe := ParseRecipe(sandwichLoaf, 100)

	fixed := NewConverter(Options{}).YeastToSourdough(recipe, "", 50)
	assert.InDelta(t, 550, fixed.Converted.TotalFlour, 1e-9, "added starter is split 50/50 by default")
	assert.True(t, hasWarning(fixed.Warnings, SeverityWarning, "100% hydration"))

	aware := NewConverter(Options{StarterHydrationAware: true}).YeastToSourdough(recipe, "", 50)
	assert.InDelta(t, 500+100/1.5, aware.Converted.TotalFlour, 1e-9)
	assert.InDelta(t, 350+50/1.5, aware.Converted.TotalLiquid, 1e-9)
	assert.False(t, hasWarning(aware.Warnings, SeverityWarning, "100% hydration"))
	assert.Contains(t, aware.Converted.Ingredients[2].Name, "50% hydration")
}

func TestYeastToSourdoughEnrichedCaution(t *testing.T) {
	t.Parallel()

	text := "500g bread flour\n250g milk\n2 large eggs\n60g butter\n60g sugar\n7g instant yeast\n8g salt"
	recipe := ParseRecipe(text, 100)
	conv := ConvertYeastToSourdough(recipe, text, 100)

	assert.True(t, hasWarning(conv.Warnings, SeverityCaution, "Enriched doughs"))
	assert.Equal(t, "Develop and enrich", conv.MethodChanges[3].Step)
}

func TestRoundTripHydrationBounds(t *testing.T) {
	t.Parallel()

	for _, text := range []string{sandwichLoaf, countryLoaf} {
		recipe := ParseRecipe(text, 100)
		there := ConvertYeastToSourdough(recipe, text, 100)
		back := ConvertSourdoughToYeast(there.Converted, text, 100)

		assert.GreaterOrEqual(t, back.Converted.Hydration, 0.0)
		assert.LessOrEqual(t, back.Converted.Hydration, 100+3*enrichmentBoost)
	}
}

func TestConverterUnknownDirection(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(Options{}).Convert(ParseRecipe(countryLoaf, 100), Direction("rye-to-spelt"), "", 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownDirection))
}

func TestConvertZeroFlourDoesNotPanic(t *testing.T) {
	t.Parallel()

	recipe := BuildRecipe(nil, "", 100)
	assert.NotPanics(t, func() {
		res := ValidateConversion(ConvertSourdoughToYeast(recipe, "", 100))
		assert.True(t, hasWarning(res.ValidationWarnings, SeverityWarning, "Total flour is zero"))
	})
	assert.NotPanics(t, func() {
		ValidateConversion(ConvertYeastToSourdough(recipe, "", 100))
	})
}

func hasWarning(ws []RecipeWarning, sev Severity, fragment string) bool {
	for _, w := range ws {
		if w.Type == sev && strings.Contains(w.Message, fragment) {
			return true
		}
	}
	return false
}
