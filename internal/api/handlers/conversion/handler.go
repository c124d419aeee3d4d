package conversion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"bread-converter/internal/api/middleware"
	"bread-converter/internal/core/bread"
	"bread-converter/internal/core/recipe"
	"bread-converter/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TextExtractor 從上傳檔案取出食譜文字
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// Handler 麵包食譜 API
type Handler struct {
	recipes     *recipe.Service
	extractor   TextExtractor
	maxFileSize int64
}

// NewHandler extractor 可為 nil，此時上傳檔案的端點回傳 503
func NewHandler(recipes *recipe.Service, extractor TextExtractor, maxFileSize int64) *Handler {
	return &Handler{recipes: recipes, extractor: extractor, maxFileSize: maxFileSize}
}

// Register 註冊 /bread 路由
func (h *Handler) Register(group *gin.RouterGroup) {
	g := group.Group("/bread")
	g.POST("/parse", h.Parse)
	g.POST("/validate", h.Validate)
	g.POST("/convert", h.Convert)
	g.POST("/convert/file", h.ConvertFile)
	g.POST("/extract", h.Extract)
	g.POST("/bakers-percentages", h.BakersPercentages)
	g.POST("/substitutions", h.Substitutions)
}

// ParseRequest 解析請求
type ParseRequest struct {
	Text             string  `json:"text"`
	StarterHydration float64 `json:"starter_hydration"`
	UseAI            bool    `json:"use_ai"`
}

// ConvertRequest 轉換請求；recipe 與 text 擇一
type ConvertRequest struct {
	Text             string              `json:"text"`
	Recipe           *bread.ParsedRecipe `json:"recipe,omitempty"`
	Direction        bread.Direction     `json:"direction" binding:"required"`
	StarterHydration float64             `json:"starter_hydration"`
	UseAI            bool                `json:"use_ai"`
}

// RecipeRequest 只帶已解析食譜或原文的請求
type RecipeRequest struct {
	Text             string              `json:"text"`
	Recipe           *bread.ParsedRecipe `json:"recipe,omitempty"`
	StarterHydration float64             `json:"starter_hydration"`
}

// Parse 處理 POST /bread/parse
func (h *Handler) Parse(c *gin.Context) {
	var req ParseRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.recipes.Parse(c.Request.Context(), req.Text, req.StarterHydration, req.UseAI)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Set(middleware.KeyConversionID, res.ID)
	c.Set(middleware.KeyParser, string(res.Parser))
	c.JSON(http.StatusOK, res)
}

// Validate 處理 POST /bread/validate
func (h *Handler) Validate(c *gin.Context) {
	var req RecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	parsed, err := h.resolveRecipe(c, req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	errs := bread.ValidateRecipe(parsed)
	if errs == nil {
		errs = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":  len(errs) == 0,
		"errors": errs,
	})
}

// Convert 處理 POST /bread/convert
func (h *Handler) Convert(c *gin.Context) {
	var req ConvertRequest
	if !bindJSON(c, &req) {
		return
	}

	h.convert(c, recipe.ConvertRequest{
		Text:             req.Text,
		Recipe:           req.Recipe,
		Direction:        req.Direction,
		StarterHydration: req.StarterHydration,
		UseAIParser:      req.UseAI,
	})
}

// ConvertFile 處理 POST /bread/convert/file（multipart: file, direction, starter_hydration, use_ai）
func (h *Handler) ConvertFile(c *gin.Context) {
	text, ok := h.extractUpload(c)
	if !ok {
		return
	}

	hydration := 0.0
	if raw := c.PostForm("starter_hydration"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			abortWithError(c, common.NewValidationError("starter_hydration must be a number"))
			return
		}
		hydration = v
	}
	useAI, _ := strconv.ParseBool(c.PostForm("use_ai"))

	h.convert(c, recipe.ConvertRequest{
		Text:             text,
		Direction:        bread.Direction(c.PostForm("direction")),
		StarterHydration: hydration,
		UseAIParser:      useAI,
	})
}

// Extract 處理 POST /bread/extract
func (h *Handler) Extract(c *gin.Context) {
	text, ok := h.extractUpload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// BakersPercentages 處理 POST /bread/bakers-percentages
func (h *Handler) BakersPercentages(c *gin.Context) {
	var req RecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	parsed, err := h.resolveRecipe(c, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if parsed.TotalFlour <= 0 {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, common.ErrorResponse{
			Code:    common.ErrCodeUnprocessable,
			Error:   common.ErrRecipeInvalid.Message,
			Details: []string{"total flour is zero, baker's percentages are undefined"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalFlour":        parsed.TotalFlour,
		"hydration":         parsed.Hydration,
		"bakersPercentages": bread.CalculateBakersPercentages(parsed),
	})
}

// Substitutions 處理 POST /bread/substitutions
func (h *Handler) Substitutions(c *gin.Context) {
	var req RecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	parsed, err := h.resolveRecipe(c, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"substitutions": bread.GenerateSubstitutions(parsed.Ingredients),
	})
}

func (h *Handler) convert(c *gin.Context, req recipe.ConvertRequest) {
	res, err := h.recipes.Convert(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Set(middleware.KeyConversionID, res.ID)
	c.Set(middleware.KeyParser, string(res.Parser))
	c.Set(middleware.KeyCacheHit, res.CacheHit)

	if res.Blocked() {
		c.JSON(http.StatusUnprocessableEntity, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

// resolveRecipe 有 recipe 就直接用，否則以本地解析器解析 text
func (h *Handler) resolveRecipe(c *gin.Context, req RecipeRequest) (bread.ParsedRecipe, error) {
	if req.Recipe != nil {
		return *req.Recipe, nil
	}
	res, err := h.recipes.Parse(c.Request.Context(), req.Text, req.StarterHydration, false)
	if err != nil {
		return bread.ParsedRecipe{}, err
	}
	return res.Recipe, nil
}

// extractUpload 讀取 multipart 的 file 欄位並擷取文字
func (h *Handler) extractUpload(c *gin.Context) (string, bool) {
	if h.extractor == nil {
		abortWithError(c, common.ErrExtractionDisabled)
		return "", false
	}

	fh, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, bodyError(err, "file is required"))
		return "", false
	}
	if h.maxFileSize > 0 && fh.Size > h.maxFileSize {
		abortWithError(c, common.ErrFileTooLarge)
		return "", false
	}

	f, err := fh.Open()
	if err != nil {
		abortWithError(c, fmt.Errorf("open upload: %w", err))
		return "", false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		abortWithError(c, fmt.Errorf("read upload: %w", err))
		return "", false
	}

	common.LogInfo("開始擷取上傳檔案文字",
		zap.String("request_id", requestid.Get(c)),
		zap.String("filename", fh.Filename),
		zap.Int64("size", fh.Size),
	)

	text, err := h.extractor.ExtractText(c.Request.Context(), data)
	if err != nil {
		abortWithError(c, err)
		return "", false
	}
	return text, true
}

func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
		)
		abortWithError(c, bodyError(err, "invalid request body: "+err.Error()))
		return false
	}
	return true
}

// bodyError 請求體超過大小限制時回傳 413，其餘為 400
func bodyError(err error, message string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return common.ErrFileTooLarge.Wrap(err)
	}
	return common.NewValidationError(message)
}

// abortWithError 將錯誤轉成統一的 JSON 錯誤響應
func abortWithError(c *gin.Context, err error) {
	ce := common.AsCustomError(err)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		ce = common.NewError(common.ErrCodeGatewayTimeout, "request timeout", http.StatusGatewayTimeout, err)
	case errors.Is(err, context.Canceled):
		ce = common.NewError(common.ErrCodeRequestTimeout, "request cancelled", http.StatusRequestTimeout, err)
	}

	if ce.Status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
			zap.String("path", c.Request.URL.Path),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(ce.Status, ce.Response())
}
