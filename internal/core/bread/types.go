// Package bread 是食譜解析與酵種/酵母互換的核心引擎。
//
// 套件內皆為純函式運算：不做 I/O、沒有可變的全域狀態，
// 單位與關鍵字表在第一次使用時建立，之後唯讀共享。
package bread

// IngredientType 食材分類
type IngredientType string

const (
	TypeFlour      IngredientType = "flour"
	TypeLiquid     IngredientType = "liquid"
	TypeStarter    IngredientType = "starter"
	TypeYeast      IngredientType = "yeast"
	TypeSalt       IngredientType = "salt"
	TypeFat        IngredientType = "fat"
	TypeEnrichment IngredientType = "enrichment"
	TypeSweetener  IngredientType = "sweetener"
	TypeOther      IngredientType = "other"
)

// Valid 是否為已知分類
func (t IngredientType) Valid() bool {
	switch t {
	case TypeFlour, TypeLiquid, TypeStarter, TypeYeast, TypeSalt,
		TypeFat, TypeEnrichment, TypeSweetener, TypeOther:
		return true
	}
	return false
}

// GramUnit 解析後的標準單位
const GramUnit = "g"

// ParsedIngredient 一筆已辨識的食材
type ParsedIngredient struct {
	Name   string         `json:"name"`
	Amount float64        `json:"amount"`
	Unit   string         `json:"unit"`
	Type   IngredientType `json:"type"`
}

// ParsedRecipe 結構化的整份食譜。
// TotalFlour 與 TotalLiquid 已包含酵種拆分出的麵粉與水。
type ParsedRecipe struct {
	Ingredients   []ParsedIngredient `json:"ingredients"`
	Method        string             `json:"method"`
	TotalFlour    float64            `json:"totalFlour"`
	TotalLiquid   float64            `json:"totalLiquid"`
	StarterAmount float64            `json:"starterAmount"`
	YeastAmount   float64            `json:"yeastAmount"`
	SaltAmount    float64            `json:"saltAmount"`
	Hydration     float64            `json:"hydration"`
}

// Clone 深拷貝，轉換時不共用食材切片
func (r ParsedRecipe) Clone() ParsedRecipe {
	out := r
	if r.Ingredients != nil {
		out.Ingredients = make([]ParsedIngredient, len(r.Ingredients))
		copy(out.Ingredients, r.Ingredients)
	}
	return out
}

// HasType 是否含有指定分類的食材
func (r ParsedRecipe) HasType(t IngredientType) bool {
	for _, ing := range r.Ingredients {
		if ing.Type == t {
			return true
		}
	}
	return false
}

// Direction 轉換方向
type Direction string

const (
	SourdoughToYeast Direction = "sourdough-to-yeast"
	YeastToSourdough Direction = "yeast-to-sourdough"
)

// Valid 是否為已知方向
func (d Direction) Valid() bool {
	return d == SourdoughToYeast || d == YeastToSourdough
}

// Severity 警告等級
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityCaution Severity = "caution"
)

// RecipeWarning 轉換或驗證產生的提示
type RecipeWarning struct {
	Type    Severity `json:"type"`
	Message string   `json:"message"`
}

// MethodChange 一個改寫後的做法步驟
type MethodChange struct {
	Step   string `json:"step"`
	Change string `json:"change"`
	Timing string `json:"timing,omitempty"`
}

// TroubleshootingTip 常見問題與對策
type TroubleshootingTip struct {
	Issue    string `json:"issue"`
	Solution string `json:"solution"`
}

// Substitution 食材替代建議
type Substitution struct {
	Original            string  `json:"original"`
	Substitute          string  `json:"substitute"`
	Ratio               float64 `json:"ratio"`
	HydrationAdjustment float64 `json:"hydrationAdjustment"`
	Notes               string  `json:"notes"`
}

// LevainBuild 酵頭（levain）配方，只用於酵母轉酵種
type LevainBuild struct {
	Starter float64 `json:"starter"`
	Water   float64 `json:"water"`
	Flour   float64 `json:"flour"`
	Total   float64 `json:"total"`
}

// ConvertedRecipe 轉換前後的配方與說明
type ConvertedRecipe struct {
	Original            ParsedRecipe         `json:"original"`
	Converted           ParsedRecipe         `json:"converted"`
	Direction           Direction            `json:"direction"`
	MethodChanges       []MethodChange       `json:"methodChanges"`
	TroubleshootingTips []TroubleshootingTip `json:"troubleshootingTips"`
	Warnings            []RecipeWarning      `json:"warnings"`
	Substitutions       []Substitution       `json:"substitutions"`
	Levain              *LevainBuild         `json:"levain,omitempty"`
}

// DoughType 麵團分類
type DoughType string

const (
	DoughLean     DoughType = "lean"
	DoughEnriched DoughType = "enriched"
	DoughSweet    DoughType = "sweet"
)

// DoughClassification 麵團分類結果，隨用隨算、不保存
type DoughClassification struct {
	Type         DoughType `json:"type"`
	SugarPercent float64   `json:"sugarPercent"`
	FatPercent   float64   `json:"fatPercent"`
	MilkPercent  float64   `json:"milkPercent"`
	HasEggs      bool      `json:"hasEggs"`
}

// IsEnriched sweet 與 enriched 在模板選擇上視為同一族
func (c DoughClassification) IsEnriched() bool {
	return c.Type == DoughEnriched || c.Type == DoughSweet
}

// BakersPercentage 單一食材的烘焙百分比
type BakersPercentage struct {
	Ingredient string  `json:"ingredient"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// ValidationResult 轉換後驗證的輸出
type ValidationResult struct {
	Recipe             ConvertedRecipe `json:"recipe"`
	ValidationWarnings []RecipeWarning `json:"validationWarnings"`
	AutoFixes          []string        `json:"autoFixes"`
}
