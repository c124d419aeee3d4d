package bread

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSubstitutions(t *testing.T) {
	t.Parallel()

	subs := GenerateSubstitutions([]ParsedIngredient{
		{Name: "bread flour", Amount: 500, Type: TypeFlour},
		{Name: "unsalted butter", Amount: 50, Type: TypeFat},
		{Name: "buttermilk", Amount: 200, Type: TypeLiquid},
		{Name: "instant yeast (or 4.5g active dry yeast)", Amount: 3.5, Type: TypeYeast},
	})

	pairs := map[string]string{}
	for _, s := range subs {
		pairs[s.Original+" -> "+s.Substitute] = s.Notes
		assert.Positive(t, s.Ratio)
		assert.NotEmpty(t, s.Notes)
	}
	assert.Contains(t, pairs, "bread flour -> all-purpose flour")
	assert.Contains(t, pairs, "unsalted butter -> olive oil")
	assert.Contains(t, pairs, "buttermilk -> milk with 1 tbsp lemon juice per cup")
	assert.Contains(t, pairs, "instant yeast (or 4.5g active dry yeast) -> active dry yeast")
	assert.NotContains(t, pairs, "buttermilk -> water")
	assert.NotContains(t, pairs, "instant yeast (or 4.5g active dry yeast) -> instant yeast")
}

func TestGenerateSubstitutionsNoDuplicatePairs(t *testing.T) {
	t.Parallel()

	ings := []ParsedIngredient{
		{Name: "bread flour", Amount: 400, Type: TypeFlour},
		{Name: "bread flour", Amount: 100, Type: TypeFlour},
		{Name: "water", Amount: 200, Type: TypeLiquid},
		{Name: "water", Amount: 150, Type: TypeLiquid},
		{Name: "sugar", Amount: 20, Type: TypeSweetener},
	}
	subs := GenerateSubstitutions(ings)

	seen := map[[2]string]bool{}
	for _, s := range subs {
		key := [2]string{s.Original, s.Substitute}
		assert.False(t, seen[key], "duplicate %v", key)
		seen[key] = true
	}
	assert.Len(t, subs, 4)
}

func TestGenerateSubstitutionsTypeFilter(t *testing.T) {
	t.Parallel()

	// 名稱含 salt 但不是鹽的食材不給鹽的替代建議
	subs := GenerateSubstitutions([]ParsedIngredient{{Name: "salted butter", Amount: 50, Type: TypeFat}})
	for _, s := range subs {
		assert.NotEqual(t, "fine sea salt", s.Substitute)
	}
	assert.NotNil(t, GenerateSubstitutions(nil))
}
