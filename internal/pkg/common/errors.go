package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string   `json:"code"`              // 錯誤代碼
	Error   string   `json:"error"`             // 錯誤信息
	Details []string `json:"details,omitempty"` // 詳細信息（例如食譜驗證錯誤）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 支援 errors.Is / errors.As
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Wrap 以相同代碼包裝原始錯誤
func (e *CustomError) Wrap(err error) *CustomError {
	return &CustomError{Code: e.Code, Message: e.Message, Status: e.Status, Err: err}
}

// Response 轉換為 API 錯誤響應
func (e *CustomError) Response() ErrorResponse {
	return ErrorResponse{Code: e.Code, Error: e.Message}
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// AsCustomError 取得錯誤鏈中的 CustomError，找不到時回傳 ErrInternalError
func AsCustomError(err error) *CustomError {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return NewError(ErrCodeInvalidRequest, ve.Error(), http.StatusBadRequest, nil)
	}
	return ErrInternalError.Wrap(err)
}

// ValidationError 表示請求驗證錯誤
type ValidationError struct {
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// 預定義錯誤代碼
const (
	ErrCodeInvalidRequest     = "INVALID_REQUEST"     // 400
	ErrCodeNotFound           = "NOT_FOUND"           // 404
	ErrCodeRequestTimeout     = "REQUEST_TIMEOUT"     // 408
	ErrCodeTooLarge           = "PAYLOAD_TOO_LARGE"   // 413
	ErrCodeUnsupportedMedia   = "UNSUPPORTED_MEDIA"   // 415
	ErrCodeUnprocessable      = "RECIPE_INVALID"      // 422
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"   // 429
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
)

// 預定義錯誤
var (
	ErrInvalidRequest     = NewError(ErrCodeInvalidRequest, "invalid request", http.StatusBadRequest, nil)
	ErrNotFound           = NewError(ErrCodeNotFound, "resource not found", http.StatusNotFound, nil)
	ErrTooManyRequests    = NewError(ErrCodeTooManyRequests, "too many requests", http.StatusTooManyRequests, nil)
	ErrInternalError      = NewError(ErrCodeInternalError, "internal server error", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "service temporarily unavailable", http.StatusServiceUnavailable, nil)

	// 業務錯誤
	ErrRecipeInvalid      = NewError(ErrCodeUnprocessable, "recipe failed validation", http.StatusUnprocessableEntity, nil)
	ErrEmptyRecipe        = NewError("EMPTY_RECIPE", "recipe text is empty", http.StatusBadRequest, nil)
	ErrUnsupportedFile    = NewError(ErrCodeUnsupportedMedia, "unsupported file type", http.StatusUnsupportedMediaType, nil)
	ErrFileTooLarge       = NewError(ErrCodeTooLarge, "file exceeds size limit", http.StatusRequestEntityTooLarge, nil)
	ErrExtractionDisabled = NewError("EXTRACTION_DISABLED", "text extraction is not configured", http.StatusServiceUnavailable, nil)
	ErrQueueFull          = NewError("QUEUE_FULL", "extraction queue is full", http.StatusServiceUnavailable, nil)
	ErrQueueClosed        = NewError("QUEUE_CLOSED", "extraction queue is shutting down", http.StatusServiceUnavailable, nil)
	ErrCacheFull          = NewError("CACHE_FULL", "cache is full", http.StatusServiceUnavailable, nil)
	ErrCacheDisabled      = NewError("CACHE_DISABLED", "cache is disabled", http.StatusServiceUnavailable, nil)
	ErrCacheMiss          = NewError("CACHE_MISS", "cache miss", http.StatusNotFound, nil)
	ErrAIServiceError     = NewError("AI_SERVICE_ERROR", "AI parser unavailable", http.StatusServiceUnavailable, nil)
)
