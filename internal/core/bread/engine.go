package bread

import "errors"

// ErrUnknownDirection 不支援的轉換方向
var ErrUnknownDirection = errors.New("unknown conversion direction")

// Options 可切換的相容行為；零值即為原本的行為
type Options struct {
	// StrictUnits 不認得的單位直接放棄該行，而不是當成克
	StrictUnits bool
	// AppendMissingLiquid 酵種轉酵母時若沒有液體食材，補一項水
	AppendMissingLiquid bool
	// StarterHydrationAware 酵母轉酵種時依使用者的酵種含水率拆分
	StarterHydrationAware bool
	// EnforceLevainTotals levain 小計與酵種用量不符時發出警告
	EnforceLevainTotals bool
	// FoldStarterFlour 酵種轉酵母時把酵種的麵粉併入第一個麵粉項目
	FoldStarterFlour bool
}

// Engine 解析、轉換與驗證的入口，可並行使用
type Engine struct {
	opts      Options
	tables    *Tables
	parser    *Parser
	converter *Converter
	validator *Validator
}

// NewEngine 以預設表建立引擎
func NewEngine(opts Options) *Engine {
	return NewEngineWithTables(DefaultTables(), opts)
}

// NewEngineWithTables 指定單位與關鍵字表
func NewEngineWithTables(tables *Tables, opts Options) *Engine {
	return &Engine{
		opts:      opts,
		tables:    tables,
		parser:    NewParser(tables, opts),
		converter: NewConverter(opts),
		validator: NewValidator(opts),
	}
}

// Options 目前的設定
func (e *Engine) Options() Options {
	return e.opts
}

// Tables 引擎使用的表
func (e *Engine) Tables() *Tables {
	return e.tables
}

// ParseRecipe 解析整份食譜；starterHydration <= 0 時使用 100
func (e *Engine) ParseRecipe(raw string, starterHydration float64) ParsedRecipe {
	return e.parser.Parse(raw, starterHydration)
}

// ParseIngredientLine 解析單行食材
func (e *Engine) ParseIngredientLine(line string) (ParsedIngredient, bool) {
	return e.parser.ParseIngredientLine(line)
}

// Convert 依方向轉換；方向不明時回傳 ErrUnknownDirection
func (e *Engine) Convert(recipe ParsedRecipe, direction Direction, rawText string, starterHydration float64) (ConvertedRecipe, error) {
	return e.converter.Convert(recipe, direction, rawText, starterHydration)
}

func (e *Engine) ConvertSourdoughToYeast(recipe ParsedRecipe, rawText string, starterHydration float64) ConvertedRecipe {
	return e.converter.SourdoughToYeast(recipe, rawText, starterHydration)
}

func (e *Engine) ConvertYeastToSourdough(recipe ParsedRecipe, rawText string, starterHydration float64) ConvertedRecipe {
	return e.converter.YeastToSourdough(recipe, rawText, starterHydration)
}

func (e *Engine) ValidateConversion(conv ConvertedRecipe) ValidationResult {
	return e.validator.ValidateConversion(conv)
}

// Classify 以引擎的表重新分類食材名稱
func (e *Engine) Classify(name string) IngredientType {
	return e.tables.Classify(name)
}

var defaultEngine = NewEngine(Options{})

// ParseRecipe 使用預設引擎解析
func ParseRecipe(raw string, starterHydration float64) ParsedRecipe {
	return defaultEngine.ParseRecipe(raw, starterHydration)
}

// ConvertSourdoughToYeast 使用預設引擎轉換
func ConvertSourdoughToYeast(recipe ParsedRecipe, rawText string, starterHydration float64) ConvertedRecipe {
	return defaultEngine.ConvertSourdoughToYeast(recipe, rawText, starterHydration)
}

// ConvertYeastToSourdough 使用預設引擎轉換
func ConvertYeastToSourdough(recipe ParsedRecipe, rawText string, starterHydration float64) ConvertedRecipe {
	return defaultEngine.ConvertYeastToSourdough(recipe, rawText, starterHydration)
}

// ValidateConversion 使用預設引擎驗證
func ValidateConversion(conv ConvertedRecipe) ValidationResult {
	return defaultEngine.ValidateConversion(conv)
}
