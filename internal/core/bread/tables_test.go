package bread

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTablesClassify(t *testing.T) {
	t.Parallel()
	tables := DefaultTables()

	tests := []struct {
		name string
		want IngredientType
	}{
		{"3 eggs, beaten with flour dusting", TypeEnrichment},
		{"egg yolks", TypeEnrichment},
		{"honey", TypeSweetener},
		{"brown sugar", TypeSweetener},
		{"unsalted butter", TypeFat},
		{"extra virgin olive oil", TypeFat},
		{"buttermilk", TypeLiquid},
		{"whole wheat flour", TypeFlour},
		{"dark rye", TypeFlour},
		{"instant yeast", TypeYeast},
		{"fine sea salt", TypeSalt},
		{"lukewarm water", TypeLiquid},
		{"whole milk", TypeLiquid},
		{"active starter", TypeStarter},
		{"levain", TypeStarter},
		{"milk powder", TypeOther},
		{"eggplant", TypeOther},
		{"sunflower seeds", TypeOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tables.Classify(tt.name), tt.name)
	}
}

func TestTablesGramsPerUnit(t *testing.T) {
	t.Parallel()
	tables := DefaultTables()

	tests := []struct {
		unit, name string
		want       float64
		ok         bool
	}{
		{"cup", "bread flour", 130, true},
		{"cups", "flour", 125, true},
		{"Cup", "dark rye flour", 102, true},
		{"cup", "unbleached bread flour", 130, true},
		{"tbsp", "melted butter", 14, true},
		{"tablespoons", "water", 15, true},
		{"tsp", "fine salt", 6, true},
		{"oz", "anything", 28.35, true},
		{"pinch", "nutmeg", 0.4, true},
		{"lb", "flour", 453.6, true},
		{"cup", "raisins", 0, false},
		{"furlong", "flour", 0, false},
	}
	for _, tt := range tests {
		got, ok := tables.GramsPerUnit(tt.unit, tt.name)
		assert.Equal(t, tt.ok, ok, tt.unit+" "+tt.name)
		assert.Equal(t, tt.want, got, tt.unit+" "+tt.name)
	}
}

func TestCanonicalUnit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "tbsp", CanonicalUnit("Tablespoons"))
	assert.Equal(t, "g", CanonicalUnit("grams"))
	assert.Equal(t, "tsp", CanonicalUnit("tsp."))
	assert.Equal(t, "", CanonicalUnit("handful"))
	assert.True(t, IsDirectUnit("ml"))
	assert.True(t, IsDirectUnit("G"))
	assert.False(t, IsDirectUnit("cup"))
}

func TestHasIngredientKeyword(t *testing.T) {
	t.Parallel()
	tables := DefaultTables()

	assert.True(t, tables.HasIngredientKeyword("500g Bread Flour"))
	assert.True(t, tables.HasIngredientKeyword("2 cups walnuts"))
	assert.False(t, tables.HasIngredientKeyword("Bake for 40 minutes"))
	assert.Same(t, tables, DefaultTables())
}
