package bread

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultStarterHydration 未指定時的酵種含水率（麵粉與水等重）
const DefaultStarterHydration = 100.0

var (
	reMethodHeading = regexp.MustCompile(`(?i)\b(?:method|instructions|directions|steps)\s*:`)
	reMetadataLine  = regexp.MustCompile(`(?i)^\s*(?:prep|bake|cook|fermentation|total|yield|servings?|category|cuisine|difficulty|calories)\b[^:\n]{0,20}:`)

	// reJoinerSuffix 前面接這些字時，量詞屬於同一行的替代寫法
	reJoinerSuffix = regexp.MustCompile(`(?i)(?:\bor|\bto|\bplus|\babout|\band|\bx|[/(\-+~×])$`)
)

// Parse 把整份食譜文字解析成結構化配方
func (p *Parser) Parse(raw string, starterHydration float64) ParsedRecipe {
	text := normalizeText(raw)
	ingredientsPart, method := splitSections(text)

	var ingredients []ParsedIngredient
	for _, line := range p.candidateLines(ingredientsPart) {
		if ing, ok := p.ParseIngredientLine(line); ok {
			ingredients = append(ingredients, ing)
		}
	}
	return BuildRecipe(ingredients, method, starterHydration)
}

// splitSections 以最早出現的做法標題切開材料與做法
func splitSections(text string) (ingredients, method string) {
	loc := reMethodHeading.FindStringIndex(text)
	if loc == nil {
		return text, ""
	}
	return text[:loc[0]], strings.TrimSpace(text[loc[0]:])
}

// candidateLines 正規化材料段並過濾掉明顯不是食材的行
func (p *Parser) candidateLines(section string) []string {
	section = strings.NewReplacer("*", "\n", "•", "\n").Replace(section)

	var out []string
	for _, physical := range strings.Split(section, "\n") {
		for _, line := range p.splitMeasurements(physical) {
			line = strings.TrimSpace(line)
			switch {
			case line == "",
				utf8.RuneCountInString(line) < 5,
				!reDigit.MatchString(line),
				reMetadataLine.MatchString(line),
				IsSupplementaryLine(line):
				continue
			}
			out = append(out, line)
		}
	}
	return out
}

// splitMeasurements 在每個量詞前斷行，把擠在同一行的多個食材拆開。
// 括號內、替代寫法（"or 240g"）以及還沒出現任何數字的名稱在前寫法不斷行。
func (p *Parser) splitMeasurements(line string) []string {
	matches := p.reToken.FindAllStringIndex(line, -1)
	if len(matches) < 2 && (len(matches) == 0 || matches[0][0] == 0) {
		return []string{line}
	}

	var parts []string
	start := 0
	for _, m := range matches {
		at := m[0]
		if at == start {
			continue
		}
		segment := line[start:at]
		if parenDepth(line[:at]) > 0 ||
			!reDigit.MatchString(segment) ||
			reJoinerSuffix.MatchString(strings.TrimSpace(segment)) {
			continue
		}
		parts = append(parts, segment)
		start = at
	}
	return append(parts, line[start:])
}

func parenDepth(s string) int {
	return strings.Count(s, "(") - strings.Count(s, ")")
}

// BuildRecipe 由食材清單彙總各項總量與含水率。
// 酵種依含水率拆成麵粉與水計入總量，但在清單中仍是單一項目。
func BuildRecipe(ingredients []ParsedIngredient, method string, starterHydration float64) ParsedRecipe {
	r := ParsedRecipe{
		Ingredients: ingredients,
		Method:      method,
	}
	if r.Ingredients == nil {
		r.Ingredients = []ParsedIngredient{}
	}

	for _, ing := range r.Ingredients {
		switch ing.Type {
		case TypeFlour:
			r.TotalFlour += ing.Amount
		case TypeLiquid:
			r.TotalLiquid += ing.Amount
		case TypeStarter:
			r.StarterAmount += ing.Amount
		case TypeYeast:
			r.YeastAmount += ing.Amount
		case TypeSalt:
			r.SaltAmount += ing.Amount
		}
	}

	starterFlour, starterWater := SplitStarter(r.StarterAmount, starterHydration)
	r.TotalFlour += starterFlour
	r.TotalLiquid += starterWater
	r.Hydration = Hydration(r.TotalLiquid, r.TotalFlour)
	return r
}

// SplitStarter 依含水率 H 拆分酵種：flour = S/(1+H/100)，water = S-flour
func SplitStarter(amount, hydration float64) (flour, water float64) {
	if hydration <= 0 {
		hydration = DefaultStarterHydration
	}
	ratio := hydration / 100
	flour = amount / (1 + ratio)
	water = amount * ratio / (1 + ratio)
	return flour, water
}

// Hydration 液體佔麵粉的百分比；沒有麵粉時為 0
func Hydration(liquid, flour float64) float64 {
	if flour == 0 {
		return 0
	}
	return liquid / flour * 100
}
