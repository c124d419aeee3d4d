package bread

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// eggGramsPerCount 雞蛋每顆的克數（不論原單位為何）
const eggGramsPerCount = 50.0

// unitAliases 單位寫法 → 標準單位
var unitAliases = map[string]string{
	"g": "g", "gr": "g", "gm": "g", "gram": "g", "grams": "g",
	"ml": "ml", "milliliter": "ml", "milliliters": "ml", "millilitre": "ml", "millilitres": "ml",
	"kg": "kg", "kilogram": "kg", "kilograms": "kg",
	"l": "l", "liter": "l", "liters": "l", "litre": "l", "litres": "l",
	"cup": "cup", "cups": "cup",
	"tbsp": "tbsp", "tbsps": "tbsp", "tbs": "tbsp", "tbl": "tbsp", "tablespoon": "tbsp", "tablespoons": "tbsp",
	"tsp": "tsp", "tsps": "tsp", "teaspoon": "tsp", "teaspoons": "tsp",
	"oz": "oz", "ounce": "oz", "ounces": "oz",
	"lb": "lb", "lbs": "lb", "pound": "lb", "pounds": "lb",
	"pinch": "pinch", "pinches": "pinch",
	"stick": "stick", "sticks": "stick",
	"packet": "packet", "packets": "packet", "envelope": "packet", "envelopes": "packet", "sachet": "packet", "sachets": "packet",
	"large": "each", "medium": "each", "small": "each", "whole": "each",
}

// unitConversionKeys 每單位克數，依宣告順序比對，先符合者勝出。
// 鍵為 "<標準單位> <食材關鍵字>"；只有單位的鍵適用任何食材。
var unitConversionKeys = []struct {
	key   string
	grams float64
}{
	{"cup bread flour", 130},
	{"cup all-purpose flour", 125},
	{"cup all purpose flour", 125},
	{"cup whole wheat flour", 120},
	{"cup wholemeal flour", 120},
	{"cup rye flour", 102},
	{"cup spelt flour", 100},
	{"cup semolina", 167},
	{"cup flour", 125},
	{"cup water", 240},
	{"cup buttermilk", 245},
	{"cup milk", 245},
	{"cup starter", 240},
	{"cup levain", 240},
	{"cup brown sugar", 213},
	{"cup sugar", 200},
	{"cup honey", 340},
	{"cup butter", 227},
	{"cup oil", 218},
	{"cup oats", 90},
	{"tbsp butter", 14},
	{"tbsp oil", 14},
	{"tbsp honey", 21},
	{"tbsp molasses", 20},
	{"tbsp syrup", 20},
	{"tbsp sugar", 12.5},
	{"tbsp salt", 18},
	{"tbsp yeast", 9},
	{"tbsp flour", 8},
	{"tbsp water", 15},
	{"tbsp milk", 15},
	{"tbsp starter", 15},
	{"tsp salt", 6},
	{"tsp yeast", 3},
	{"tsp sugar", 4},
	{"tsp honey", 7},
	{"tsp oil", 4.5},
	{"tsp water", 5},
	{"stick butter", 113},
	{"packet yeast", 7},
	{"pinch salt", 0.4},
	{"pinch", 0.4},
	{"oz", 28.35},
	{"lb", 453.6},
	{"kg", 1000},
	{"l", 1000},
}

// classRuleSpec 分類規則：依序比對，第一個符合者決定分類
type classRuleSpec struct {
	typ      IngredientType
	keywords []string
	exclude  []string
}

// classRuleSpecs 順序即優先權：蛋、糖、油脂必須排在麵粉之前，
// 否則 "3 eggs, beaten with flour dusting" 會被誤判為麵粉。
var classRuleSpecs = []classRuleSpec{
	{typ: TypeEnrichment, keywords: []string{"egg", "yolk"}, exclude: []string{"eggplant"}},
	{typ: TypeSweetener, keywords: []string{"sugar", "honey", "syrup", "molasses", "agave", "jaggery"}},
	{typ: TypeFat, keywords: []string{"butter", "oil", "lard", "shortening", "margarine", "ghee"}, exclude: []string{"buttermilk"}},
	{typ: TypeFlour, keywords: []string{"flour", "wheat", "rye", "spelt", "semolina", "durum", "einkorn", "emmer", "buckwheat", "wholemeal", "wholewheat"}},
	{typ: TypeYeast, keywords: []string{"yeast"}},
	{typ: TypeSalt, keywords: []string{"salt"}},
	{typ: TypeLiquid, keywords: []string{"water", "milk", "buttermilk", "beer", "whey"}, exclude: []string{"powder", "powdered", "dry milk"}},
	{typ: TypeStarter, keywords: []string{"starter", "levain", "leaven", "sourdough", "culture"}},
}

// otherIngredientKeywords 不影響計算、但屬於合法食材行的常見關鍵字
var otherIngredientKeywords = []string{
	"seed", "oat", "raisin", "nut", "walnut", "pecan", "almond", "hazelnut", "cheese",
	"cinnamon", "cardamom", "malt", "potato", "yogurt", "yoghurt", "cream", "vanilla",
	"cocoa", "chocolate", "olive", "herb", "rosemary", "garlic", "onion", "cranberr",
	"zest", "sesame", "poppy", "flax", "cornmeal", "bran", "germ", "powder", "fruit",
}

// classRule 已編譯的分類規則
type classRule struct {
	typ     IngredientType
	match   *regexp.Regexp
	exclude *regexp.Regexp
}

func (r classRule) matches(name string) bool {
	if !r.match.MatchString(name) {
		return false
	}
	return r.exclude == nil || !r.exclude.MatchString(name)
}

// unitConversion 已拆解的換算項目
type unitConversion struct {
	key        string
	unit       string
	ingredient string
	grams      float64
}

// Tables 單位換算與關鍵字表；建立後唯讀，可在多個 goroutine 間共用
type Tables struct {
	rules       []classRule
	conversions []unitConversion
	exact       map[string]float64
	inclusion   *regexp.Regexp
	unitPattern string
	// directPattern 只含克與毫升的單位寫法
	directPattern string
}

var (
	defaultTables     *Tables
	defaultTablesOnce sync.Once
)

// DefaultTables 取得共用的預設表
func DefaultTables() *Tables {
	defaultTablesOnce.Do(func() {
		defaultTables = NewTables()
	})
	return defaultTables
}

// NewTables 建立一份新的表
func NewTables() *Tables {
	t := &Tables{
		exact: make(map[string]float64, len(unitConversionKeys)),
	}

	var inclusion []string
	for _, r := range classRuleSpecs {
		t.rules = append(t.rules, classRule{
			typ:     r.typ,
			match:   keywordPattern(r.keywords),
			exclude: keywordPattern(r.exclude),
		})
		inclusion = append(inclusion, r.keywords...)
	}
	inclusion = append(inclusion, otherIngredientKeywords...)
	t.inclusion = regexp.MustCompile(`(?i)\b(?:` + quoteAll(inclusion) + `)`)

	for _, entry := range unitConversionKeys {
		unit, ingredient, _ := strings.Cut(entry.key, " ")
		t.conversions = append(t.conversions, unitConversion{
			key:        entry.key,
			unit:       unit,
			ingredient: ingredient,
			grams:      entry.grams,
		})
		if _, dup := t.exact[entry.key]; !dup {
			t.exact[entry.key] = entry.grams
		}
	}

	var all, direct []string
	for alias, canonical := range unitAliases {
		all = append(all, alias)
		if canonical == "g" || canonical == "ml" {
			direct = append(direct, alias)
		}
	}
	t.unitPattern = quoteAll(longestFirst(all))
	t.directPattern = quoteAll(longestFirst(direct))

	return t
}

// longestFirst 長的寫法要排前面，RE2 的交替是 leftmost-first
func longestFirst(words []string) []string {
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	return words
}

// keywordPattern 關鍵字須位於詞首，可接複數字尾
func keywordPattern(keywords []string) *regexp.Regexp {
	if len(keywords) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)\b(?:` + quoteAll(keywords) + `)(?:s|es)?\b`)
}

func quoteAll(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}

// Classify 依規則順序判斷食材分類，沒有符合者回傳 TypeOther
func (t *Tables) Classify(name string) IngredientType {
	for _, rule := range t.rules {
		if rule.matches(name) {
			return rule.typ
		}
	}
	return TypeOther
}

// HasIngredientKeyword 是否含有任何已知食材關鍵字
func (t *Tables) HasIngredientKeyword(line string) bool {
	return t.inclusion.MatchString(line)
}

// CanonicalUnit 回傳標準單位；不認得時回傳空字串
func CanonicalUnit(unit string) string {
	return unitAliases[strings.ToLower(strings.TrimSuffix(strings.TrimSpace(unit), "."))]
}

// IsDirectUnit 克與毫升直接視為克數
func IsDirectUnit(unit string) bool {
	u := CanonicalUnit(unit)
	return u == "g" || u == "ml"
}

// GramsPerUnit 查詢 "<單位> <食材>" 的每單位克數。
// 先查完全相同的鍵，再依宣告順序做子字串比對。
func (t *Tables) GramsPerUnit(unit, name string) (float64, bool) {
	u := CanonicalUnit(unit)
	if u == "" {
		return 0, false
	}
	n := strings.ToLower(strings.TrimSpace(name))
	if grams, ok := t.exact[u+" "+n]; ok {
		return grams, true
	}
	for _, c := range t.conversions {
		if c.unit != u {
			continue
		}
		if c.ingredient == "" || strings.Contains(n, c.ingredient) {
			return c.grams, true
		}
	}
	return 0, false
}
