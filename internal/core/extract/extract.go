// Package extract 把上傳的食譜檔案（文字或照片）轉成純文字，交給解析器處理。
package extract

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"bread-converter/internal/core/ai/queue"
	"bread-converter/internal/core/image"
	"bread-converter/internal/infrastructure/config"
	"bread-converter/internal/pkg/common"

	"go.uber.org/zap"
)

// Extractor 擷取文字
type Extractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// Kind 檔案類型
type Kind string

const (
	KindText    Kind = "text"
	KindImage   Kind = "image"
	KindPDF     Kind = "pdf"
	KindUnknown Kind = "unknown"
)

// Detect 以內容嗅探判斷檔案類型
func Detect(data []byte) Kind {
	if len(data) == 0 {
		return KindUnknown
	}

	mime := http.DetectContentType(data)
	switch {
	case strings.HasPrefix(mime, "image/"):
		return KindImage
	case mime == "application/pdf":
		return KindPDF
	case strings.HasPrefix(mime, "text/plain"):
		return KindText
	}

	// markdown、含 BOM 的 UTF-8 等會被判成其他類型
	if utf8.Valid(data) && !bytes.ContainsRune(data, 0) {
		return KindText
	}
	return KindUnknown
}

// PlainText UTF-8 文字檔
type PlainText struct{}

// ExtractText 去除 BOM 並統一換行
func (PlainText) ExtractText(_ context.Context, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", common.ErrUnsupportedFile.Wrap(fmt.Errorf("text file is not valid UTF-8"))
	}
	text := strings.TrimPrefix(string(data), "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(text), nil
}

// Service 依檔案類型選擇擷取方式，圖片經由隊列排隊處理
type Service struct {
	text     Extractor
	image    Extractor
	queue    *queue.Manager
	provider string
}

// NewService 依 OCR 設定建立擷取服務；transcriber 只有 vision 模式需要
func NewService(cfg *config.Config, images *image.Service, transcriber Transcriber, q *queue.Manager) (*Service, error) {
	s := &Service{
		text:     PlainText{},
		queue:    q,
		provider: cfg.OCR.Provider,
	}

	switch cfg.OCR.Provider {
	case config.OCRProviderTesseract:
		t, err := NewTesseract(cfg.OCR.Language, images)
		if err != nil {
			return nil, err
		}
		s.image = t
	case config.OCRProviderVision:
		if transcriber == nil {
			return nil, fmt.Errorf("vision OCR requires the AI service")
		}
		s.image = NewVision(transcriber, images)
	case config.OCRProviderNone, "":
	default:
		return nil, fmt.Errorf("unknown OCR provider %q", cfg.OCR.Provider)
	}

	common.LogInfo("文字擷取服務已初始化",
		zap.String("ocr_provider", cfg.OCR.Provider),
		zap.Bool("image_enabled", s.image != nil),
	)
	return s, nil
}

// NewServiceWith 直接指定圖片擷取器（測試與 CLI 使用）
func NewServiceWith(imageExtractor Extractor, q *queue.Manager) *Service {
	return &Service{text: PlainText{}, image: imageExtractor, queue: q, provider: "custom"}
}

// ImageEnabled 是否能處理圖片
func (s *Service) ImageEnabled() bool {
	return s.image != nil
}

// Provider OCR 提供者名稱
func (s *Service) Provider() string {
	return s.provider
}

// ExtractText 擷取文字，結果為空時回傳 common.ErrEmptyRecipe
func (s *Service) ExtractText(ctx context.Context, data []byte) (string, error) {
	kind := Detect(data)

	var (
		text string
		err  error
	)
	switch kind {
	case KindText:
		text, err = s.text.ExtractText(ctx, data)
	case KindImage:
		if s.image == nil {
			return "", common.ErrExtractionDisabled
		}
		text, err = s.extractImage(ctx, data)
	default:
		return "", common.ErrUnsupportedFile.Wrap(fmt.Errorf("cannot extract text from %s files", kind))
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", common.ErrEmptyRecipe
	}

	common.LogDebug("文字擷取完成",
		zap.String("kind", string(kind)),
		zap.Int("text_length", len(text)),
	)
	return text, nil
}

// extractImage 透過隊列限制同時進行的 OCR 數量
func (s *Service) extractImage(ctx context.Context, data []byte) (string, error) {
	if s.queue == nil {
		return s.image.ExtractText(ctx, data)
	}
	return s.queue.Do(ctx, func(ctx context.Context) (string, error) {
		return s.image.ExtractText(ctx, data)
	})
}

// Close 釋放 OCR 資源
func (s *Service) Close() error {
	if c, ok := s.image.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
