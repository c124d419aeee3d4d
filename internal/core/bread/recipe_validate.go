package bread

import (
	"fmt"
	"strings"
)

// 轉換前的阻擋門檻
const (
	minTotalFlour        = 100.0
	minTotalLiquid       = 50.0
	maxHydration         = 100.0
	minLeanHydration     = 35.0
	minEnrichedHydration = 25.0
	maxSaltPercent       = 3.5
)

// ValidateRecipe 轉換前檢查；回傳空切片代表可以繼續轉換
func ValidateRecipe(recipe ParsedRecipe) []string {
	errs := []string{}

	if recipe.TotalFlour < minTotalFlour {
		errs = append(errs, fmt.Sprintf(
			"Not enough flour detected (%.0fg). A bread recipe needs at least %.0fg of flour; check that the flour lines were recognized.",
			recipe.TotalFlour, minTotalFlour))
	}
	if recipe.TotalLiquid < minTotalLiquid {
		errs = append(errs, fmt.Sprintf(
			"Not enough liquid detected (%.0fg). A bread recipe needs at least %.0fg of water, milk or other liquid.",
			recipe.TotalLiquid, minTotalLiquid))
	}

	if recipe.TotalFlour > 0 {
		hydration := recipe.Hydration
		switch {
		case hydration > maxHydration:
			errs = append(errs, fmt.Sprintf(
				"Hydration of %.1f%% is above %.0f%%; the liquid amounts look wrong.", hydration, maxHydration))
		case hasEnrichingIngredients(recipe) && hydration < minEnrichedHydration:
			errs = append(errs, fmt.Sprintf(
				"Hydration of %.1f%% is too low for an enriched dough (minimum %.0f%%).", hydration, minEnrichedHydration))
		case !hasEnrichingIngredients(recipe) && hydration < minLeanHydration:
			errs = append(errs, fmt.Sprintf(
				"Hydration of %.1f%% is too low for a lean dough (minimum %.0f%%).", hydration, minLeanHydration))
		}
	}

	if recipe.HasType(TypeStarter) && recipe.HasType(TypeYeast) {
		errs = append(errs, "The recipe contains both sourdough starter and commercial yeast; remove one leavening before converting.")
	}

	if recipe.TotalFlour > 0 {
		if saltPct := recipe.SaltAmount / recipe.TotalFlour * 100; saltPct > maxSaltPercent {
			errs = append(errs, fmt.Sprintf(
				"Salt is %.1f%% of the flour weight, above the %.1f%% maximum.", saltPct, maxSaltPercent))
		}
	}
	return errs
}

// hasEnrichingIngredients 含奶、油脂、蛋或糖即視為加料麵團
func hasEnrichingIngredients(recipe ParsedRecipe) bool {
	for _, ing := range recipe.Ingredients {
		switch ing.Type {
		case TypeFat, TypeEnrichment, TypeSweetener:
			return true
		case TypeLiquid:
			if isMilkName(ing.Name) {
				return true
			}
		}
	}
	return false
}

func isMilkName(name string) bool {
	return strings.Contains(strings.ToLower(name), "milk")
}
