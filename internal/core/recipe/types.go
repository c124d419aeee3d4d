package recipe

import (
	"bread-converter/internal/core/bread"
)

// ParserKind 產生 ParsedRecipe 的來源
type ParserKind string

const (
	ParserLocal  ParserKind = "local"
	ParserAI     ParserKind = "ai"
	ParserClient ParserKind = "client"
)

// ConvertRequest 轉換請求；Recipe 不為 nil 時略過解析直接使用
type ConvertRequest struct {
	Text             string
	Recipe           *bread.ParsedRecipe
	Direction        bread.Direction
	StarterHydration float64
	UseAIParser      bool
}

// ParseResult 解析結果
type ParseResult struct {
	ID                string                    `json:"id"`
	Parser            ParserKind                `json:"parser"`
	Recipe            bread.ParsedRecipe        `json:"recipe"`
	Errors            []string                  `json:"errors"`
	BakersPercentages []bread.BakersPercentage  `json:"bakersPercentages,omitempty"`
	Classification    bread.DoughClassification `json:"classification"`
}

// ConversionResult 轉換結果；Errors 不為空時 Conversion 為 nil
type ConversionResult struct {
	ID                 string                    `json:"id"`
	Parser             ParserKind                `json:"parser"`
	Direction          bread.Direction           `json:"direction"`
	StarterHydration   float64                   `json:"starterHydration"`
	Parsed             bread.ParsedRecipe        `json:"parsed"`
	Errors             []string                  `json:"errors"`
	Conversion         *bread.ConvertedRecipe    `json:"conversion,omitempty"`
	ValidationWarnings []bread.RecipeWarning     `json:"validationWarnings"`
	AutoFixes          []string                  `json:"autoFixes"`
	BakersPercentages  []bread.BakersPercentage  `json:"bakersPercentages,omitempty"`
	Classification     bread.DoughClassification `json:"classification"`
	CacheHit           bool                      `json:"cacheHit"`
}

// Blocked 解析後的食譜未通過檢查，無法轉換
func (r *ConversionResult) Blocked() bool {
	return len(r.Errors) > 0
}
