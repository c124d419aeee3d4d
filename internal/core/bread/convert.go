package bread

import (
	"fmt"
	"strings"
)

// 轉換比例
const (
	instantYeastRatio   = 0.007
	activeDryYeastRatio = 0.009
	yeastHydrationScale = 0.92
	enrichmentBoost     = 2.0
	starterRatio        = 0.20
	highYeastHydration  = 80.0

	// levain 以 1:2:2（種:粉:水）建立，含水率不是 100% 時粉水依比例調整
	levainSeedShare = 0.2

	flatTemplateMaxIngredients = 3
)

// Converter 酵種／酵母互換；不持有可變狀態
type Converter struct {
	opts Options
}

// NewConverter 建立轉換器
func NewConverter(opts Options) *Converter {
	return &Converter{opts: opts}
}

// Convert 依方向分派
func (c *Converter) Convert(recipe ParsedRecipe, direction Direction, rawText string, starterHydration float64) (ConvertedRecipe, error) {
	switch direction {
	case SourdoughToYeast:
		return c.SourdoughToYeast(recipe, rawText, starterHydration), nil
	case YeastToSourdough:
		return c.YeastToSourdough(recipe, rawText, starterHydration), nil
	}
	return ConvertedRecipe{}, fmt.Errorf("%w: %q", ErrUnknownDirection, direction)
}

// SourdoughToYeast 移除酵種、以麵粉量計算速發酵母，並調降含水率
func (c *Converter) SourdoughToYeast(recipe ParsedRecipe, rawText string, starterHydration float64) ConvertedRecipe {
	class := ClassifyRecipe(recipe, rawText)
	flour := recipe.TotalFlour
	instant := round2(flour * instantYeastRatio)
	activeDry := round2(flour * activeDryYeastRatio)

	var warnings []RecipeWarning
	conv := recipe.Clone()
	conv.Ingredients = make([]ParsedIngredient, 0, len(recipe.Ingredients))

	yeast := ParsedIngredient{
		Name:   fmt.Sprintf("instant yeast (or %sg active dry yeast)", formatGrams(activeDry)),
		Amount: instant,
		Unit:   GramUnit,
		Type:   TypeYeast,
	}
	yeastPlaced := false
	for _, ing := range recipe.Ingredients {
		switch ing.Type {
		case TypeStarter, TypeYeast:
			if !yeastPlaced {
				conv.Ingredients = append(conv.Ingredients, yeast)
				yeastPlaced = true
			}
			continue
		}
		conv.Ingredients = append(conv.Ingredients, ing)
	}
	if !yeastPlaced {
		conv.Ingredients = append(conv.Ingredients, yeast)
	}

	if recipe.StarterAmount > 0 {
		starterFlour, starterWater := SplitStarter(recipe.StarterAmount, starterHydration)
		i := indexOfType(conv.Ingredients, TypeFlour)
		if c.opts.FoldStarterFlour && i >= 0 {
			conv.Ingredients[i].Amount = round2(conv.Ingredients[i].Amount + starterFlour)
			warnings = append(warnings, RecipeWarning{
				Type: SeverityInfo,
				Message: fmt.Sprintf("Removed %sg starter. Its %sg flour is added to the flour and its %sg water is included in the liquid.",
					formatGrams(recipe.StarterAmount), formatGrams(starterFlour), formatGrams(starterWater)),
			})
		} else {
			warnings = append(warnings, RecipeWarning{
				Type: SeverityInfo,
				Message: fmt.Sprintf("Removed %sg starter. Its %sg flour stays in the %sg flour total, so add that much extra flour when mixing; its %sg water is included in the liquid.",
					formatGrams(recipe.StarterAmount), formatGrams(starterFlour), formatGrams(recipe.TotalFlour), formatGrams(starterWater)),
			})
		}
	} else {
		warnings = append(warnings, RecipeWarning{
			Type:    SeverityWarning,
			Message: "No sourdough starter was found. Yeast was added from the flour weight only.",
		})
	}

	boost := 0.0
	var boosted []string
	if hasNamed(recipe.Ingredients, TypeFat, "oil", "butter") {
		boost += enrichmentBoost
		boosted = append(boosted, "fat")
	}
	if hasEgg(recipe.Ingredients) {
		boost += enrichmentBoost
		boosted = append(boosted, "eggs")
	}
	if hasNamed(recipe.Ingredients, TypeSweetener, "honey", "sugar") {
		boost += enrichmentBoost
		boosted = append(boosted, "sugar")
	}
	hydration := recipe.Hydration*yeastHydrationScale + boost
	newLiquid := round2(flour * hydration / 100)

	if i := indexOfType(conv.Ingredients, TypeLiquid); i >= 0 {
		others := 0.0
		for j, ing := range conv.Ingredients {
			if j != i && ing.Type == TypeLiquid {
				others += ing.Amount
			}
		}
		amount := newLiquid - others
		if amount < 0 {
			amount = 0
		}
		conv.Ingredients[i].Amount = round2(amount)
	} else if c.opts.AppendMissingLiquid {
		conv.Ingredients = append(conv.Ingredients, ParsedIngredient{
			Name:   "water",
			Amount: newLiquid,
			Unit:   GramUnit,
			Type:   TypeLiquid,
		})
		warnings = append(warnings, RecipeWarning{
			Type:    SeverityWarning,
			Message: fmt.Sprintf("No liquid ingredient was found; added %sg water to reach the target hydration.", formatGrams(newLiquid)),
		})
	} else {
		warnings = append(warnings, RecipeWarning{
			Type:    SeverityWarning,
			Message: fmt.Sprintf("No liquid ingredient was found. The liquid total was set to %sg but no ingredient carries that amount.", formatGrams(newLiquid)),
		})
	}

	conv.StarterAmount = 0
	conv.YeastAmount = instant
	conv.TotalLiquid = newLiquid
	conv.Hydration = hydration

	warnings = append(warnings, RecipeWarning{
		Type: SeverityInfo,
		Message: fmt.Sprintf("Hydration lowered from %.1f%% to %.1f%%; yeasted dough is easier to handle slightly drier.",
			recipe.Hydration, hydration),
	})
	if boost > 0 {
		warnings = append(warnings, RecipeWarning{
			Type:    SeverityInfo,
			Message: fmt.Sprintf("Added %.0f points of hydration back for %s.", boost, strings.Join(boosted, ", ")),
		})
	}
	if hydration > highYeastHydration {
		warnings = append(warnings, RecipeWarning{
			Type:    SeverityCaution,
			Message: fmt.Sprintf("Hydration of %.1f%% is very high for a yeasted dough; expect a slack, sticky dough.", hydration),
		})
	}

	details := MethodDetails{
		Flour: conv.TotalFlour,
		Water: sumType(conv.Ingredients, TypeLiquid),
		Salt:  conv.SaltAmount,
		Yeast: instant,
	}
	return ConvertedRecipe{
		Original:            recipe,
		Converted:           conv,
		Direction:           SourdoughToYeast,
		MethodChanges:       SelectMethod(SourdoughToYeast, class, class.HasEggs, details),
		TroubleshootingTips: SelectTroubleshooting(SourdoughToYeast, class),
		Warnings:            warnings,
		Substitutions:       GenerateSubstitutions(conv.Ingredients),
	}
}

// YeastToSourdough 移除酵母，加入麵粉量 20% 的活性酵種。
// 預設以 100% 含水率拆分酵種，與解析時使用的含水率無關。
func (c *Converter) YeastToSourdough(recipe ParsedRecipe, rawText string, starterHydration float64) ConvertedRecipe {
	class := ClassifyRecipe(recipe, rawText)
	starter := round2(recipe.TotalFlour * starterRatio)

	var warnings []RecipeWarning
	splitHydration := DefaultStarterHydration
	if c.opts.StarterHydrationAware && starterHydration > 0 {
		splitHydration = starterHydration
	} else if starterHydration > 0 && starterHydration != DefaultStarterHydration {
		warnings = append(warnings, RecipeWarning{
			Type: SeverityWarning,
			Message: fmt.Sprintf("The added starter is calculated at 100%% hydration, not the %s%% you selected; adjust water if your starter differs.",
				formatGrams(starterHydration)),
		})
	}

	conv := recipe.Clone()
	conv.Ingredients = make([]ParsedIngredient, 0, len(recipe.Ingredients))
	starterIng := ParsedIngredient{
		Name:   fmt.Sprintf("active sourdough starter (%s%% hydration)", formatGrams(splitHydration)),
		Amount: starter,
		Unit:   GramUnit,
		Type:   TypeStarter,
	}
	placed := false
	for _, ing := range recipe.Ingredients {
		if ing.Type == TypeYeast {
			if !placed {
				conv.Ingredients = append(conv.Ingredients, starterIng)
				placed = true
			}
			continue
		}
		conv.Ingredients = append(conv.Ingredients, ing)
	}
	if !placed {
		conv.Ingredients = append(conv.Ingredients, starterIng)
		warnings = append(warnings, RecipeWarning{
			Type:    SeverityWarning,
			Message: "No yeast was found. Starter was added from the flour weight only.",
		})
	}

	starterFlour, starterWater := SplitStarter(starter, splitHydration)

	conv.TotalFlour = recipe.TotalFlour + starterFlour
	conv.TotalLiquid = recipe.TotalLiquid + starterWater
	conv.StarterAmount = starter
	conv.YeastAmount = 0
	conv.Hydration = Hydration(conv.TotalLiquid, conv.TotalFlour)

	seed := round2(starter * levainSeedShare)
	levainFlour := round2((starter - seed) / (1 + splitHydration/100))
	levain := &LevainBuild{
		Starter: seed,
		Flour:   levainFlour,
		Water:   round2(starter - seed - levainFlour),
		Total:   starter,
	}

	warnings = append(warnings, RecipeWarning{
		Type: SeverityInfo,
		Message: fmt.Sprintf("Replaced commercial yeast with %sg active starter (20%% of flour weight). Plan the levain build 4-12 hours ahead.",
			formatGrams(starter)),
	})
	if class.IsEnriched() {
		warnings = append(warnings, RecipeWarning{
			Type:    SeverityCaution,
			Message: "Enriched doughs rise slowly with sourdough; sugar, fat and eggs can double the fermentation time.",
		})
	}

	details := MethodDetails{
		Starter:     starter,
		LevainSeed:  levain.Starter,
		LevainWater: levain.Water,
		LevainFlour: levain.Flour,
		Flour:       sumType(conv.Ingredients, TypeFlour),
		Water:       sumType(conv.Ingredients, TypeLiquid),
		Salt:        conv.SaltAmount,
		Flat:        len(conv.Ingredients) <= flatTemplateMaxIngredients,
	}
	return ConvertedRecipe{
		Original:            recipe,
		Converted:           conv,
		Direction:           YeastToSourdough,
		MethodChanges:       SelectMethod(YeastToSourdough, class, class.HasEggs, details),
		TroubleshootingTips: SelectTroubleshooting(YeastToSourdough, class),
		Warnings:            warnings,
		Substitutions:       GenerateSubstitutions(conv.Ingredients),
		Levain:              levain,
	}
}

func indexOfType(ings []ParsedIngredient, t IngredientType) int {
	for i, ing := range ings {
		if ing.Type == t {
			return i
		}
	}
	return -1
}

func sumType(ings []ParsedIngredient, t IngredientType) float64 {
	total := 0.0
	for _, ing := range ings {
		if ing.Type == t {
			total += ing.Amount
		}
	}
	return round2(total)
}

func hasNamed(ings []ParsedIngredient, t IngredientType, keywords ...string) bool {
	for _, ing := range ings {
		if ing.Type != t {
			continue
		}
		name := strings.ToLower(ing.Name)
		for _, kw := range keywords {
			if strings.Contains(name, kw) {
				return true
			}
		}
	}
	return false
}

func hasEgg(ings []ParsedIngredient) bool {
	for _, ing := range ings {
		if isEggName(ing.Name) {
			return true
		}
	}
	return false
}
