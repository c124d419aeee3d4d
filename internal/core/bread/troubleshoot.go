package bread

var yeastLeanTips = []TroubleshootingTip{
	{Issue: "Dough rises too fast", Solution: "Use cooler water or reduce the yeast by a quarter. Yeasted dough can double in under an hour in a warm kitchen."},
	{Issue: "Bread tastes flat compared to the sourdough", Solution: "Add a cold overnight retard after shaping, or mix a poolish the night before with part of the flour and water."},
	{Issue: "Dough feels stiffer than expected", Solution: "Hydration was lowered for yeast; add water a tablespoon at a time if your flour is very absorbent."},
	{Issue: "Dense crumb", Solution: "Knead longer to build gluten and make sure the dough doubles during bulk fermentation."},
}

var yeastEnrichedTips = []TroubleshootingTip{
	{Issue: "Dough is too sticky", Solution: "Enriched doughs start sticky; keep kneading before adding flour, and chill the dough for 30 minutes if the butter is melting."},
	{Issue: "Crust browns too quickly", Solution: "Sugar and eggs brown fast. Tent the loaf with foil for the last 10-15 minutes of baking."},
	{Issue: "Slow rise", Solution: "Sugar and fat slow yeast down; give the dough a warm spot (26°C / 79°F) and more time."},
	{Issue: "Loaf collapses after baking", Solution: "The dough was over-proofed. Bake when it crowns just above the pan instead of waiting longer."},
}

var sourdoughLeanTips = []TroubleshootingTip{
	{Issue: "Dough is not rising", Solution: "Check that the starter doubles within 4-8 hours of feeding before building the levain, and keep the dough around 24°C (75°F)."},
	{Issue: "Bread is too sour", Solution: "Use the levain at its peak, shorten the cold retard, or keep the dough warmer during bulk fermentation."},
	{Issue: "Flat loaf that spreads", Solution: "Bulk fermentation went too long or shaping lacked tension. End bulk when the dough has grown 50-75%."},
	{Issue: "Gummy crumb", Solution: "Let the loaf cool completely (at least 1-2 hours) before slicing, and bake until the crust is deeply colored."},
}

var sourdoughEnrichedTips = []TroubleshootingTip{
	{Issue: "Very slow rise", Solution: "Sugar, fat and eggs slow wild yeast. Use a very active starter and expect bulk fermentation to take twice as long."},
	{Issue: "Dough tears when adding butter", Solution: "Develop gluten fully before adding the butter, and add it in small pieces."},
	{Issue: "Bread tastes too tangy for a sweet dough", Solution: "Feed the starter with a higher ratio (1:5:5) and use it young, before it peaks."},
	{Issue: "Dense, tight crumb", Solution: "Give the final proof more time; the dough should be visibly puffy before baking."},
}

// SelectTroubleshooting 依方向與麵團類型取得固定的問題對策
func SelectTroubleshooting(direction Direction, class DoughClassification) []TroubleshootingTip {
	var tips []TroubleshootingTip
	switch {
	case direction == SourdoughToYeast && class.IsEnriched():
		tips = yeastEnrichedTips
	case direction == SourdoughToYeast:
		tips = yeastLeanTips
	case direction == YeastToSourdough && class.IsEnriched():
		tips = sourdoughEnrichedTips
	case direction == YeastToSourdough:
		tips = sourdoughLeanTips
	}
	out := make([]TroubleshootingTip, len(tips))
	copy(out, tips)
	return out
}
