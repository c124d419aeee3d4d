package bread

import "strings"

// substitutionRule 名稱關鍵字對應的替代食材
type substitutionRule struct {
	keyword    string
	types      []IngredientType
	exclude    []string
	substitute string
	ratio      float64
	hydration  float64
	notes      string
}

var substitutionRules = []substitutionRule{
	{
		keyword: "bread flour", types: []IngredientType{TypeFlour},
		substitute: "all-purpose flour", ratio: 1, hydration: -2,
		notes: "Lower protein gives a softer, less chewy crumb. Hold back a little water.",
	},
	{
		keyword: "bread flour", types: []IngredientType{TypeFlour},
		substitute: "whole wheat flour (up to 25% of the flour)", ratio: 0.25, hydration: 5,
		notes: "Adds flavor and fiber. Whole grain absorbs more water, so raise hydration.",
	},
	{
		keyword: "all-purpose flour", types: []IngredientType{TypeFlour},
		substitute: "bread flour", ratio: 1, hydration: 2,
		notes: "Higher protein gives more structure and chew and can take a little more water.",
	},
	{
		keyword: "all purpose flour", types: []IngredientType{TypeFlour},
		substitute: "bread flour", ratio: 1, hydration: 2,
		notes: "Higher protein gives more structure and chew and can take a little more water.",
	},
	{
		keyword: "whole wheat", types: []IngredientType{TypeFlour},
		substitute: "bread flour", ratio: 1, hydration: -5,
		notes: "Lighter loaf with a milder flavor. White flour absorbs less water.",
	},
	{
		keyword: "rye", types: []IngredientType{TypeFlour},
		substitute: "whole wheat flour", ratio: 1, hydration: -3,
		notes: "Keeps a whole-grain flavor with better gluten development than rye.",
	},
	{
		keyword: "spelt", types: []IngredientType{TypeFlour},
		substitute: "whole wheat flour", ratio: 1, hydration: 3,
		notes: "Spelt gluten is fragile; whole wheat is sturdier and absorbs more water.",
	},
	{
		keyword: "butter", types: []IngredientType{TypeFat}, exclude: []string{"peanut", "nut butter"},
		substitute: "olive oil", ratio: 0.8, hydration: 2,
		notes: "Butter is about 16% water. Use 80% of the weight in oil and add a little liquid.",
	},
	{
		keyword: "oil", types: []IngredientType{TypeFat},
		substitute: "melted butter", ratio: 1.25, hydration: -2,
		notes: "Butter adds flavor and browning but contains water, so reduce the liquid slightly.",
	},
	{
		keyword: "milk", types: []IngredientType{TypeLiquid}, exclude: []string{"buttermilk", "powder"},
		substitute: "water", ratio: 0.9, hydration: 0,
		notes: "Milk is about 87% water. Expect a crisper crust and less browning.",
	},
	{
		keyword: "buttermilk", types: []IngredientType{TypeLiquid},
		substitute: "milk with 1 tbsp lemon juice per cup", ratio: 1, hydration: 0,
		notes: "Rest 5 minutes before using to mimic buttermilk's acidity.",
	},
	{
		keyword: "water", types: []IngredientType{TypeLiquid},
		substitute: "milk", ratio: 1.1, hydration: 0,
		notes: "Softer crumb and a darker crust. Use about 10% more milk than water.",
	},
	{
		keyword: "honey", types: []IngredientType{TypeSweetener},
		substitute: "sugar", ratio: 1.25, hydration: 2,
		notes: "Honey is about 17% water; when swapping it for sugar add a little liquid.",
	},
	{
		keyword: "sugar", types: []IngredientType{TypeSweetener},
		substitute: "honey", ratio: 0.75, hydration: -2,
		notes: "Honey is sweeter and contains water. Use three quarters of the weight and reduce the liquid slightly.",
	},
	{
		keyword: "egg", types: []IngredientType{TypeEnrichment}, exclude: []string{"eggplant"},
		substitute: "flax egg (1 tbsp ground flaxseed + 3 tbsp water per egg)", ratio: 1, hydration: 0,
		notes: "Binds the dough but gives less rise and richness than egg.",
	},
	{
		keyword: "instant yeast", types: []IngredientType{TypeYeast},
		substitute: "active dry yeast", ratio: 1.25, hydration: 0,
		notes: "Dissolve in some of the recipe's warm water for 5-10 minutes first.",
	},
	{
		keyword: "active dry yeast", types: []IngredientType{TypeYeast}, exclude: []string{"instant"},
		substitute: "instant yeast", ratio: 0.8, hydration: 0,
		notes: "Mix directly into the flour; no proofing needed.",
	},
	{
		keyword: "fresh yeast", types: []IngredientType{TypeYeast},
		substitute: "instant yeast", ratio: 0.33, hydration: 0,
		notes: "Use one third of the fresh yeast weight.",
	},
	{
		keyword: "starter", types: []IngredientType{TypeStarter},
		substitute: "poolish (equal flour and water with a pinch of instant yeast, 12 hours)", ratio: 1, hydration: 0,
		notes: "Gives some of the flavor of a preferment without maintaining a starter.",
	},
	{
		keyword: "salt", types: []IngredientType{TypeSalt}, exclude: []string{"sea salt", "kosher"},
		substitute: "fine sea salt", ratio: 1, hydration: 0,
		notes: "Weigh salt rather than measuring by volume; coarse salts vary widely per teaspoon.",
	},
}

func (r substitutionRule) matches(ing ParsedIngredient) bool {
	name := strings.ToLower(ing.Name)
	if !strings.Contains(name, r.keyword) {
		return false
	}
	for _, ex := range r.exclude {
		if strings.Contains(name, ex) {
			return false
		}
	}
	if len(r.types) == 0 {
		return true
	}
	for _, t := range r.types {
		if ing.Type == t {
			return true
		}
	}
	return false
}

// GenerateSubstitutions 依規則表產生替代建議；同一組 (original, substitute) 只出現一次
func GenerateSubstitutions(ingredients []ParsedIngredient) []Substitution {
	out := []Substitution{}
	seen := make(map[[2]string]bool)
	for _, ing := range ingredients {
		for _, rule := range substitutionRules {
			if !rule.matches(ing) {
				continue
			}
			key := [2]string{strings.ToLower(ing.Name), rule.substitute}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Substitution{
				Original:            ing.Name,
				Substitute:          rule.substitute,
				Ratio:               rule.ratio,
				HydrationAdjustment: rule.hydration,
				Notes:               rule.notes,
			})
		}
	}
	return out
}
