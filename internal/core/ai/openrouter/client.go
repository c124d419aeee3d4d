package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"bread-converter/internal/core/ai"
	"bread-converter/internal/infrastructure/config"
	"bread-converter/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// maxLoggedBody 錯誤訊息中保留的回應長度
const maxLoggedBody = 500

var dataURIPattern = regexp.MustCompile(`data:image/[a-zA-Z0-9.+-]+;base64,[A-Za-z0-9+/=]+`)

// Client OpenRouter API 客戶端
type Client struct {
	config config.OpenRouterConfig
	client *resty.Client
}

// NewClient 創建新的 OpenRouter 客戶端
func NewClient(cfg config.OpenRouterConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetHeader("HTTP-Referer", "https://github.com/bread-converter").
		SetHeader("X-Title", "Bread Converter").
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil || r == nil {
				return false
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() == http.StatusBadGateway ||
				r.StatusCode() == http.StatusServiceUnavailable
		})

	return &Client{
		config: cfg,
		client: client,
	}
}

// Model 預設模型名稱
func (c *Client) Model() string {
	return c.config.Model
}

// Complete 發送 chat completions 請求
func (c *Client) Complete(ctx context.Context, req ai.Request) (*ai.Response, error) {
	if req.Model == "" {
		req.Model = c.config.Model
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = c.config.MaxTokens
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		common.LogAICall(req.Model, time.Since(start), err)
		return nil, fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		var apiErr ai.APIError
		msg := sanitizeResponse(body)
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		err := fmt.Errorf("OpenRouter API returned error (status %d): %s", resp.StatusCode(), msg)
		common.LogAICall(req.Model, time.Since(start), err)
		return nil, err
	}

	// 解析回應
	var result ai.Response
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse OpenRouter response: %w (response: %s)", err, sanitizeResponse(body))
	}

	if result.Content() == "" {
		return nil, fmt.Errorf("no content in OpenRouter response (response: %s)", sanitizeResponse(body))
	}

	common.LogAICall(req.Model, time.Since(start), nil)
	common.LogDebug("OpenRouter 回應",
		zap.String("model", result.Model),
		zap.Int("prompt_tokens", result.Usage.PromptTokens),
		zap.Int("completion_tokens", result.Usage.CompletionTokens),
		zap.Int("content_length", len(result.Content())),
	)

	return &result, nil
}

// GenerateResponse 以單一使用者訊息呼叫模型，imageData 為 data URI 時一併送出
func (c *Client) GenerateResponse(ctx context.Context, system, prompt, imageData string) (string, error) {
	var messages []ai.Message
	if system != "" {
		messages = append(messages, ai.TextMessage(ai.RoleSystem, system))
	}

	user := ai.TextMessage(ai.RoleUser, prompt)
	if imageData != "" {
		user.Content = append(user.Content, ai.ContentPart{
			Type:     "image_url",
			ImageURL: &ai.ImageURL{URL: imageData},
		})
	}
	messages = append(messages, user)

	resp, err := c.Complete(ctx, ai.Request{Messages: messages})
	if err != nil {
		return "", err
	}
	return resp.Content(), nil
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}

// sanitizeResponse 移除圖片資料並截斷，供日誌與錯誤訊息使用
func sanitizeResponse(body []byte) string {
	s := dataURIPattern.ReplaceAllString(string(body), "[IMAGE_DATA_REMOVED]")
	if len(s) > maxLoggedBody {
		s = s[:maxLoggedBody] + "...(truncated)"
	}
	return s
}
