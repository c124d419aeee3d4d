package bread

import "regexp"

// 麵團分類門檻（百分比）
const (
	sweetThreshold        = 15.0
	enrichedThreshold     = 5.0
	milkEnrichedThreshold = 20.0
)

var reEggMention = regexp.MustCompile(`(?i)\beggs?\b`)

// ClassifyDough 依糖、油、奶佔麵粉的比例與是否含蛋判斷麵團類型。
// 沒有麵粉時比例一律記為 0，只剩蛋能讓麵團變成 enriched。
func ClassifyDough(sugar, fat, milk, flour float64, hasEggs bool) DoughClassification {
	c := DoughClassification{HasEggs: hasEggs}
	if flour > 0 {
		c.SugarPercent = sugar / flour * 100
		c.FatPercent = fat / flour * 100
		c.MilkPercent = milk / flour * 100
	}
	switch {
	case c.SugarPercent > sweetThreshold || c.FatPercent > sweetThreshold:
		c.Type = DoughSweet
	case c.SugarPercent > enrichedThreshold || c.FatPercent > enrichedThreshold ||
		c.MilkPercent > milkEnrichedThreshold || hasEggs:
		c.Type = DoughEnriched
	default:
		c.Type = DoughLean
	}
	return c
}

// ClassifyRecipe 從食材清單彙總糖、油、奶與蛋；原文提到蛋也算含蛋
func ClassifyRecipe(recipe ParsedRecipe, rawText string) DoughClassification {
	var sugar, fat, milk float64
	hasEggs := reEggMention.MatchString(rawText)
	for _, ing := range recipe.Ingredients {
		switch ing.Type {
		case TypeSweetener:
			sugar += ing.Amount
		case TypeFat:
			fat += ing.Amount
		case TypeLiquid:
			if isMilkName(ing.Name) {
				milk += ing.Amount
			}
		case TypeEnrichment:
			if isEggName(ing.Name) {
				hasEggs = true
			}
		}
	}
	return ClassifyDough(sugar, fat, milk, recipe.TotalFlour, hasEggs)
}
