package recipe

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"bread-converter/internal/core/ai/service"
	"bread-converter/internal/core/bread"
	"bread-converter/internal/pkg/common"

	"go.uber.org/zap"
)

// RemoteParser 外部解析器，輸出需與本地解析器相同的結構
type RemoteParser interface {
	ParseRecipe(ctx context.Context, text string, starterHydration float64) (*bread.ParsedRecipe, error)
}

// Requester AI 請求
type Requester interface {
	ProcessRequest(ctx context.Context, system, prompt, imageData string) (*service.Response, error)
}

// AIParser 以模型解析食譜
type AIParser struct {
	ai     Requester
	engine *bread.Engine
}

// NewAIParser 創建 AI 解析器
func NewAIParser(ai Requester, engine *bread.Engine) *AIParser {
	return &AIParser{ai: ai, engine: engine}
}

const parserSystemPrompt = "You convert bread recipes into structured data. Reply with JSON only."

const parserPrompt = `請解析以下麵包食譜，並以 JSON 格式返回結果。要求：
1. 只列出食譜中實際出現的食材，不要補充或猜測
2. amount 一律換算成公克（g），無法換算時保留原數字並填寫原單位
3. type 只能是 flour, liquid, starter, yeast, salt, fat, enrichment, sweetener, other 其中之一
4. 酵種、levain、sourdough starter 請標為 starter；蛋與奶粉標為 enrichment
5. method 放做法全文，沒有做法請填 ""
6. 所有欄位必須使用雙引號，不要加任何說明文字
請以以下 JSON 格式返回：
{"ingredients":[{"name":"bread flour","amount":500,"unit":"g","type":"flour"}],"method":""}
食譜：
%s`

type aiIngredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
	Type   string  `json:"type"`
}

type aiRecipe struct {
	Ingredients []aiIngredient `json:"ingredients"`
	Method      string         `json:"method"`
}

// ParseRecipe 呼叫模型取得食材清單，再交給 bread.BuildRecipe 彙總
func (p *AIParser) ParseRecipe(ctx context.Context, text string, starterHydration float64) (*bread.ParsedRecipe, error) {
	if p.ai == nil {
		return nil, common.ErrAIServiceError
	}

	resp, err := p.ai.ProcessRequest(ctx, parserSystemPrompt, fmt.Sprintf(parserPrompt, text), "")
	if err != nil {
		return nil, fmt.Errorf("AI parse request: %w", err)
	}

	decoded, err := decodeAIRecipe(resp.Content)
	if err != nil {
		common.LogError("AI 響應解析失敗", zap.Error(err))
		return nil, err
	}

	ings := make([]bread.ParsedIngredient, 0, len(decoded.Ingredients))
	for _, item := range decoded.Ingredients {
		if ing, ok := p.toIngredient(item); ok {
			ings = append(ings, ing)
		}
	}
	if len(ings) == 0 {
		return nil, fmt.Errorf("AI parser returned no ingredients")
	}

	recipe := bread.BuildRecipe(ings, strings.TrimSpace(decoded.Method), starterHydration)
	common.LogInfo("AI 食譜解析成功",
		zap.Int("ingredients", len(ings)),
		zap.Bool("cache_hit", resp.CacheHit),
	)
	return &recipe, nil
}

// toIngredient 以本地解析器重新換算單位；換算不了時把數字當成克
func (p *AIParser) toIngredient(item aiIngredient) (bread.ParsedIngredient, bool) {
	name := strings.TrimSpace(item.Name)
	if name == "" || item.Amount <= 0 {
		return bread.ParsedIngredient{}, false
	}

	line := strings.Join(strings.Fields(strconv.FormatFloat(item.Amount, 'f', -1, 64)+" "+item.Unit+" "+name), " ")
	ing, ok := p.engine.ParseIngredientLine(line)
	if !ok {
		if p.engine.Options().StrictUnits && item.Unit != "" && !bread.IsDirectUnit(item.Unit) {
			return bread.ParsedIngredient{}, false
		}
		ing = bread.ParsedIngredient{
			Name:   name,
			Amount: item.Amount,
			Unit:   bread.GramUnit,
			Type:   p.engine.Classify(name),
		}
	}

	if t := bread.IngredientType(strings.ToLower(strings.TrimSpace(item.Type))); t.Valid() && t != bread.TypeOther {
		ing.Type = t
	}
	return ing, true
}

// decodeAIRecipe 去掉 code fence 後解析；失敗時補上引號再試一次
func decodeAIRecipe(content string) (*aiRecipe, error) {
	body := common.ExtractJSONObject(content)
	if body == "" {
		return nil, fmt.Errorf("no JSON object in AI response")
	}

	var out aiRecipe
	if err := common.ParseJSON(body, &out); err != nil {
		if err2 := common.ParseJSON(common.QuoteJSONKeys(body), &out); err2 != nil {
			return nil, fmt.Errorf("failed to parse AI response: %w", err)
		}
	}
	return &out, nil
}
