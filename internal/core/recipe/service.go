package recipe

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bread-converter/internal/core/ai/cache"
	"bread-converter/internal/core/bread"
	"bread-converter/internal/infrastructure/config"
	"bread-converter/internal/pkg/common"

	"go.uber.org/zap"
)

// cacheNamespace 轉換結果的快取命名空間
const cacheNamespace = "convert"

// maxStarterHydration 可接受的酵種含水率上限
const maxStarterHydration = 500

// Service 食譜服務：解析、檢查、轉換與結果快取
type Service struct {
	engine           *bread.Engine
	remote           RemoteParser
	cache            cache.Store
	defaultHydration float64
}

// NewService 創建食譜服務；remote 與 store 可為 nil
func NewService(engine *bread.Engine, remote RemoteParser, store cache.Store, defaultHydration float64) *Service {
	if defaultHydration <= 0 {
		defaultHydration = bread.DefaultStarterHydration
	}
	return &Service{
		engine:           engine,
		remote:           remote,
		cache:            store,
		defaultHydration: defaultHydration,
	}
}

// OptionsFromConfig 由設定檔產生引擎選項
func OptionsFromConfig(cfg config.ConversionConfig) bread.Options {
	return bread.Options{
		StrictUnits:           cfg.StrictUnits,
		AppendMissingLiquid:   cfg.AppendMissingLiquid,
		StarterHydrationAware: cfg.StarterHydrationAware,
		EnforceLevainTotals:   cfg.EnforceLevainTotals,
		FoldStarterFlour:      cfg.FoldStarterFlour,
	}
}

// Engine 底層引擎
func (s *Service) Engine() *bread.Engine {
	return s.engine
}

// RemoteEnabled 是否設定了 AI 解析器
func (s *Service) RemoteEnabled() bool {
	return s.remote != nil
}

// Parse 解析食譜文字並附上檢查結果
func (s *Service) Parse(ctx context.Context, text string, starterHydration float64, useAI bool) (*ParseResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, common.ErrEmptyRecipe
	}
	h, err := s.resolveHydration(starterHydration)
	if err != nil {
		return nil, err
	}

	parsed, kind := s.parse(ctx, text, h, useAI)
	errs := bread.ValidateRecipe(parsed)
	if errs == nil {
		errs = []string{}
	}

	return &ParseResult{
		ID:                common.GenerateUUID(),
		Parser:            kind,
		Recipe:            parsed,
		Errors:            errs,
		BakersPercentages: bakersPercentages(parsed),
		Classification:    bread.ClassifyRecipe(parsed, text),
	}, nil
}

// Convert 解析、檢查、轉換並驗證。
// 食譜未通過檢查時回傳帶 Errors 的結果且 Conversion 為 nil，不視為錯誤。
func (s *Service) Convert(ctx context.Context, req ConvertRequest) (*ConversionResult, error) {
	if req.Recipe == nil && strings.TrimSpace(req.Text) == "" {
		return nil, common.ErrEmptyRecipe
	}
	if !req.Direction.Valid() {
		return nil, common.NewValidationError(fmt.Sprintf("unknown direction %q", req.Direction))
	}
	h, err := s.resolveHydration(req.StarterHydration)
	if err != nil {
		return nil, err
	}

	useAI := req.UseAIParser && s.remote != nil
	cacheKey := ""
	if req.Recipe == nil && s.cache != nil {
		cacheKey = common.HashParts(string(req.Direction), strconv.FormatFloat(h, 'f', -1, 64), strconv.FormatBool(useAI), req.Text)
		if cached, ok := s.fromCache(ctx, cacheKey); ok {
			return cached, nil
		}
	}

	var (
		parsed bread.ParsedRecipe
		kind   ParserKind
	)
	if req.Recipe != nil {
		parsed, kind = req.Recipe.Clone(), ParserClient
	} else {
		parsed, kind = s.parse(ctx, req.Text, h, useAI)
	}

	result := &ConversionResult{
		ID:                 common.GenerateUUID(),
		Parser:             kind,
		Direction:          req.Direction,
		StarterHydration:   h,
		Parsed:             parsed,
		Errors:             bread.ValidateRecipe(parsed),
		ValidationWarnings: []bread.RecipeWarning{},
		AutoFixes:          []string{},
		BakersPercentages:  bakersPercentages(parsed),
		Classification:     bread.ClassifyRecipe(parsed, req.Text),
	}
	if result.Errors == nil {
		result.Errors = []string{}
	}

	if result.Blocked() {
		common.LogInfo("食譜未通過檢查",
			zap.String("id", result.ID),
			zap.Strings("errors", result.Errors),
		)
	} else {
		conv, err := s.engine.Convert(parsed, req.Direction, req.Text, h)
		if err != nil {
			return nil, fmt.Errorf("convert recipe: %w", err)
		}
		validated := s.engine.ValidateConversion(conv)
		result.Conversion = &validated.Recipe
		result.ValidationWarnings = validated.ValidationWarnings
		result.AutoFixes = validated.AutoFixes

		common.LogInfo("食譜轉換完成",
			zap.String("id", result.ID),
			zap.String("direction", string(req.Direction)),
			zap.String("parser", string(kind)),
			zap.Int("auto_fixes", len(result.AutoFixes)),
		)
	}

	if cacheKey != "" {
		s.toCache(ctx, cacheKey, result)
	}
	return result, nil
}

// parse AI 解析失敗時退回本地解析器
func (s *Service) parse(ctx context.Context, text string, h float64, useAI bool) (bread.ParsedRecipe, ParserKind) {
	if useAI && s.remote != nil {
		recipe, err := s.remote.ParseRecipe(ctx, text, h)
		if err == nil && recipe != nil {
			return *recipe, ParserAI
		}
		common.LogWarn("AI 解析失敗，改用本地解析器", zap.Error(err))
	}
	return s.engine.ParseRecipe(text, h), ParserLocal
}

// resolveHydration 0 表示使用預設值
func (s *Service) resolveHydration(h float64) (float64, error) {
	if h == 0 {
		return s.defaultHydration, nil
	}
	if h < 0 || h > maxStarterHydration {
		return 0, common.NewValidationError(fmt.Sprintf("starter hydration must be between 0 and %d, got %g", maxStarterHydration, h))
	}
	return h, nil
}

func (s *Service) fromCache(ctx context.Context, key string) (*ConversionResult, bool) {
	val, err := s.cache.Get(ctx, cacheNamespace, key)
	if err != nil {
		if !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("讀取快取失敗", zap.Error(err))
		}
		return nil, false
	}

	var out ConversionResult
	if err := common.ParseJSON(val, &out); err != nil {
		common.LogWarn("快取內容無法解析", zap.Error(err))
		return nil, false
	}
	out.ID = common.GenerateUUID()
	out.CacheHit = true
	return &out, true
}

func (s *Service) toCache(ctx context.Context, key string, result *ConversionResult) {
	val, err := common.ToJSON(result)
	if err != nil {
		common.LogWarn("轉換結果無法序列化", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, cacheNamespace, key, val); err != nil {
		common.LogWarn("寫入快取失敗", zap.Error(err))
	}
}

// bakersPercentages 沒有麵粉時百分比無意義，回傳 nil
func bakersPercentages(recipe bread.ParsedRecipe) []bread.BakersPercentage {
	if recipe.TotalFlour <= 0 {
		return nil
	}
	return bread.CalculateBakersPercentages(recipe)
}
