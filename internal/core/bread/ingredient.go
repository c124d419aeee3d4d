package bread

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const numPattern = `\d+(?:\.\d+)?`

// exclusionPattern 已知的非食材行，intent 只供除錯時辨識
type exclusionPattern struct {
	intent string
	re     *regexp.Regexp
}

// nonIngredientPatterns 網頁複製貼上時常見的雜訊行
var nonIngredientPatterns = []exclusionPattern{
	{"url", regexp.MustCompile(`(?i)\bhttps?://|\bwww\.|\.(?:com|net|org|io)\b`)},
	{"numeric date", regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`)},
	{"written date", regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b`)},
	{"read time", regexp.MustCompile(`(?i)\b\d+\s*min(?:ute)?s?\s+read\b`)},
	{"page footer", regexp.MustCompile(`(?i)\bpage\s+\d+\s*(?:of|/)\s*\d+\b`)},
	{"byline", regexp.MustCompile(`(?i)^(?:by|written by|posted by|recipe by|author)\b`)},
	{"copyright", regexp.MustCompile(`(?i)©|\bcopyright\b|\ball rights reserved\b`)},
	{"time label", regexp.MustCompile(`(?i)\b(?:prep|cook|cooking|bake|baking|total|rise|rising|proof|proofing|rest|resting|fermentation)\s*time\s*:`)},
	{"metadata label", regexp.MustCompile(`(?i)\b(?:yield|servings?|serves|makes|category|cuisine|difficulty|calories|rating)\s*:`)},
	{"nutrition label", regexp.MustCompile(`(?i)\b(?:carbohydrates?|protein|sodium|cholesterol|saturated fat|fiber|fibre)\s*:`)},
	{"social counter", regexp.MustCompile(`(?i)\b\d+\s+(?:reviews?|ratings?|comments?|likes?|shares?)\b`)},
	{"page button", regexp.MustCompile(`(?i)\b(?:jump to recipe|print recipe|pin recipe|save recipe|rate this recipe)\b`)},
}

var (
	reBullet = regexp.MustCompile(`^\s*(?:[-–•*·▪]+\s*)+`)

	// 撒粉、手粉這類額外用量不算進配方，只認整行以額外用量開頭的寫法：
	// "extra flour for kneading" 或 "10g flour for dusting"。
	// "2 cups flour, plus more for dusting" 開頭是正式用量，照常解析。
	reSupplementaryLead  = regexp.MustCompile(`(?i)^(?:extra|additional|plus)\b.*\bfor\s+(?:kneading|dusting|rolling|sprinkling)\b`)
	reSupplementaryGrams = regexp.MustCompile(`(?i)^\d+(?:\.\d+)?(?:\s*-\s*\d+(?:\.\d+)?)?\s*g\b(.*?)\bfor\s+(?:kneading|dusting|rolling|sprinkling)\b`)
	reExtraWord          = regexp.MustCompile(`(?i)\b(?:extra|additional|plus)\b`)
	reThreeDigits        = regexp.MustCompile(`\d{3,}`)
	reDigit              = regexp.MustCompile(`\d`)

	// nameSuffixPatterns 從符合處一路切到行尾，不從中間挖字
	nameSuffixPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)[,;]?\s*\b(?:lightly\s+)?(?:beaten|whisked|whisk|mixed|mix|combined|combine|stirred|stir|kneaded|knead|softened|melted|sifted|divided|chopped|at room temperature|room temperature|to taste|plus extra|plus more|or more|as needed)\b.*$`),
		regexp.MustCompile(`(?i)[,;]?\s*\bfor\s+(?:the\s+)?(?:dusting|greasing|kneading|topping|brushing|sprinkling|rolling|shaping|bowl|pan)\b.*$`),
		regexp.MustCompile(`(?i)\s+(?:or|/)\s*\d.*$`),
	}
	reLeadingParen  = regexp.MustCompile(`^\s*\([^()]*\)\s*`)
	reTrailingParen = regexp.MustCompile(`\s*\([^()]*\)\s*$`)
	reLeadingOf     = regexp.MustCompile(`(?i)^of\s+`)
)

// lineMatch 單一樣式抽出的原始數量、單位與名稱
type lineMatch struct {
	quantity float64
	unit     string
	name     string
}

// linePattern 依序嘗試的食材行樣式
type linePattern struct {
	name    string
	re      *regexp.Regexp
	extract func(m []string) (lineMatch, bool)
}

// Parser 食材行與整份食譜的解析器；建立後唯讀，可並行使用
type Parser struct {
	tables *Tables
	opts   Options

	reAltMeasure *regexp.Regexp
	reParenGrams *regexp.Regexp
	reLeadingQty *regexp.Regexp
	reToken      *regexp.Regexp
	patterns     []linePattern
}

// NewParser 依照單位表編譯所有樣式
func NewParser(tables *Tables, opts Options) *Parser {
	if tables == nil {
		tables = DefaultTables()
	}
	units := `(?:` + tables.unitPattern + `)`
	direct := `(?:` + tables.directPattern + `)`

	p := &Parser{
		tables: tables,
		opts:   opts,
		// "500g/1.1lb" 只保留第一個量
		reAltMeasure: regexp.MustCompile(`(?i)^(` + numPattern + `\s*` + units + `\b\.?)\s*/\s*` + numPattern + `\s*` + units + `\b\.?`),
		reParenGrams: regexp.MustCompile(`(?i)\(\s*(?:about\s+|approx(?:imately|\.)?\s*|~\s*|or\s+)?(` + numPattern + `)\s*(` + direct + `)\b\.?[^)]*\)`),
		reLeadingQty: regexp.MustCompile(`(?i)^(?:\d+\s+)?\d+(?:[./]\d+)?\s*(?:` + units + `\b\.?)?\s*(?:of\s+)?`),
		reToken:      regexp.MustCompile(`(?i)(?:\d+\s+)?\d+/\d+(?:\s*` + units + `\b)?|` + numPattern + `\s*` + units + `\b`),
	}

	p.patterns = []linePattern{
		{
			name: "direct",
			re:   regexp.MustCompile(`(?i)^(` + numPattern + `)\s*(` + direct + `)\b\.?\s+(?:of\s+)?(.+)$`),
			extract: func(m []string) (lineMatch, bool) {
				return numberMatch(m[1], m[2], m[3])
			},
		},
		{
			name: "or-direct",
			re:   regexp.MustCompile(`(?i)\bor\s+(?:about\s+|approx\.?\s*|~\s*)?(` + numPattern + `)\s*(` + direct + `)\b\.?\s+(?:of\s+)?(.+)$`),
			extract: func(m []string) (lineMatch, bool) {
				return numberMatch(m[1], m[2], m[3])
			},
		},
		{
			name: "fraction",
			re:   regexp.MustCompile(`(?i)^(?:(\d+)\s+)?(\d+)/(\d+)\s*(?:(` + units + `)\b\.?\s+)?(?:of\s+)?(.+)$`),
			extract: func(m []string) (lineMatch, bool) {
				num, _ := strconv.ParseFloat(m[2], 64)
				den, _ := strconv.ParseFloat(m[3], 64)
				if den == 0 {
					return lineMatch{}, false
				}
				qty := num / den
				if m[1] != "" {
					whole, _ := strconv.ParseFloat(m[1], 64)
					qty += whole
				}
				return lineMatch{quantity: qty, unit: m[4], name: m[5]}, true
			},
		},
		{
			name: "unit",
			re:   regexp.MustCompile(`(?i)^(` + numPattern + `)\s*(` + units + `)\b\.?\s+(?:of\s+)?(.+)$`),
			extract: func(m []string) (lineMatch, bool) {
				return numberMatch(m[1], m[2], m[3])
			},
		},
		{
			name: "bare",
			re:   regexp.MustCompile(`(?i)^(` + numPattern + `)\s+(.+)$`),
			extract: func(m []string) (lineMatch, bool) {
				return numberMatch(m[1], "", m[2])
			},
		},
		{
			// "Bread flour: 500g"
			name: "name-first",
			re:   regexp.MustCompile(`(?i)^([^\d]+?)[\s:\-–,]+(` + numPattern + `)\s*(` + units + `)\b\.?\s*(?:\([^)]*\))?$`),
			extract: func(m []string) (lineMatch, bool) {
				return numberMatch(m[2], m[3], m[1])
			},
		},
	}
	return p
}

func numberMatch(qty, unit, name string) (lineMatch, bool) {
	q, err := strconv.ParseFloat(qty, 64)
	if err != nil {
		return lineMatch{}, false
	}
	return lineMatch{quantity: q, unit: unit, name: name}, true
}

// IsSupplementaryLine 撒粉／手粉行；含三位數以上數字者視為正式用量
func IsSupplementaryLine(line string) bool {
	line = strings.TrimSpace(reBullet.ReplaceAllString(line, ""))
	if reThreeDigits.MatchString(line) {
		return false
	}
	if reSupplementaryLead.MatchString(line) {
		return true
	}
	// 克數開頭時，"for dusting" 前若出現 plus／extra，表示前面是正式用量
	m := reSupplementaryGrams.FindStringSubmatch(line)
	return m != nil && !reExtraWord.MatchString(m[1])
}

// ParseIngredientLine 將一行文字解析成食材；無法辨識時回傳 false
func (p *Parser) ParseIngredientLine(line string) (ParsedIngredient, bool) {
	line = normalizeLine(reBullet.ReplaceAllString(line, ""))
	if line == "" || IsSupplementaryLine(line) || !p.looksLikeIngredient(line) {
		return ParsedIngredient{}, false
	}
	line = p.reAltMeasure.ReplaceAllString(line, "$1")

	if ing, ok := p.parseParenthetical(line); ok {
		return ing, true
	}

	for _, pat := range p.patterns {
		m := pat.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		lm, ok := pat.extract(m)
		if !ok {
			continue
		}
		if ing, ok := p.build(lm); ok {
			return ing, true
		}
	}
	return ParsedIngredient{}, false
}

// looksLikeIngredient 有數字、有食材關鍵字，且不是已知雜訊
func (p *Parser) looksLikeIngredient(line string) bool {
	if !reDigit.MatchString(line) || !p.tables.HasIngredientKeyword(line) {
		return false
	}
	for _, ex := range nonIngredientPatterns {
		if ex.re.MatchString(line) {
			return false
		}
	}
	return true
}

// parseParenthetical 括號內的克數優先於前面的體積量
func (p *Parser) parseParenthetical(line string) (ParsedIngredient, bool) {
	loc := p.reParenGrams.FindStringSubmatchIndex(line)
	if loc == nil {
		return ParsedIngredient{}, false
	}
	grams, err := strconv.ParseFloat(line[loc[2]:loc[3]], 64)
	if err != nil {
		return ParsedIngredient{}, false
	}

	name := cleanName(line[loc[1]:])
	if name == "" {
		rest := strings.TrimSpace(line[:loc[0]] + " " + line[loc[1]:])
		name = cleanName(p.reLeadingQty.ReplaceAllString(rest, ""))
	}
	if name == "" {
		return ParsedIngredient{}, false
	}
	return p.ingredient(name, grams), true
}

// build 換算成克並整理名稱
func (p *Parser) build(lm lineMatch) (ParsedIngredient, bool) {
	name := cleanName(lm.name)
	if name == "" {
		return ParsedIngredient{}, false
	}
	grams, ok := p.toGrams(lm.quantity, lm.unit, name)
	if !ok {
		return ParsedIngredient{}, false
	}
	return p.ingredient(name, grams), true
}

func (p *Parser) ingredient(name string, grams float64) ParsedIngredient {
	return ParsedIngredient{
		Name:   name,
		Amount: round2(grams),
		Unit:   GramUnit,
		Type:   p.tables.Classify(name),
	}
}

// toGrams 克與毫升直接採用；蛋以顆計；其餘查表，查不到時視為克數
func (p *Parser) toGrams(qty float64, unit, name string) (float64, bool) {
	if unit != "" && IsDirectUnit(unit) {
		return qty, true
	}
	if isEggName(name) {
		return qty * eggGramsPerCount, true
	}
	if unit == "" {
		return qty, true
	}
	if perUnit, ok := p.tables.GramsPerUnit(unit, name); ok {
		return qty * perUnit, true
	}
	if p.opts.StrictUnits {
		return 0, false
	}
	return qty, true
}

func isEggName(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "egg") && !strings.Contains(n, "eggplant")
}

// cleanName 去掉尾端的作法說明、用途與括號註解
func cleanName(name string) string {
	name = strings.TrimSpace(name)
	for _, re := range nameSuffixPatterns {
		if loc := re.FindStringIndex(name); loc != nil && loc[0] > 0 {
			if cut := strings.TrimSpace(name[:loc[0]]); cut != "" {
				name = cut
			}
		}
	}
	name = reLeadingParen.ReplaceAllString(name, "")
	for reTrailingParen.MatchString(name) {
		cut := reTrailingParen.ReplaceAllString(name, "")
		if cut == "" {
			break
		}
		name = cut
	}
	name = reLeadingOf.ReplaceAllString(name, "")
	return strings.Trim(name, " ,;:.-–")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
