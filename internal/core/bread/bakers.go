package bread

// CalculateBakersPercentages 每項食材佔總麵粉的百分比，順序與食材清單相同。
// 總麵粉為 0 時得到 Inf 或 NaN，由呼叫端先行檢查。
func CalculateBakersPercentages(recipe ParsedRecipe) []BakersPercentage {
	out := make([]BakersPercentage, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		out = append(out, BakersPercentage{
			Ingredient: ing.Name,
			Amount:     ing.Amount,
			Percentage: ing.Amount / recipe.TotalFlour * 100,
		})
	}
	return out
}
