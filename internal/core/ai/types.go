// Package ai 定義與 OpenRouter chat completions 相容的請求與回應結構。
package ai

// 訊息角色
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ContentPart 多模態訊息片段
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL 圖片位址（可為 data URI）
type ImageURL struct {
	URL string `json:"url"`
}

// Message 對話訊息
type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// TextMessage 純文字訊息
func TextMessage(role, text string) Message {
	return Message{Role: role, Content: []ContentPart{{Type: "text", Text: text}}}
}

// ResponseFormat 要求模型輸出的格式
type ResponseFormat struct {
	Type string `json:"type"`
}

// Request chat completions 請求
type Request struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// Response AI 響應
type Response struct {
	ID       string   `json:"id"`
	Model    string   `json:"model"`
	Choices  []Choice `json:"choices"`
	Usage    Usage    `json:"usage"`
	CacheHit bool     `json:"cache_hit,omitempty"`
}

// Content 第一個選項的文字內容
func (r *Response) Content() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// Choice 選擇
type Choice struct {
	Message      ReplyMessage `json:"message"`
	FinishReason string       `json:"finish_reason"`
}

// ReplyMessage 模型回覆（content 為純字串）
type ReplyMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage 使用量
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// APIError OpenRouter 錯誤回應
type APIError struct {
	Error struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}
