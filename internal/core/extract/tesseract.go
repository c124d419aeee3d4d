//go:build cgo

package extract

import (
	"context"
	"fmt"
	"sync"

	"bread-converter/internal/core/image"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract 本機 OCR；gosseract client 不可並行使用，以互斥鎖保護
type Tesseract struct {
	mu     sync.Mutex
	client *gosseract.Client
	images *image.Service
}

// NewTesseract 創建 Tesseract 擷取器
func NewTesseract(language string, images *image.Service) (*Tesseract, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// 食譜照片多為整頁排版，交給 Tesseract 自動分段
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	return &Tesseract{client: client, images: images}, nil
}

// ExtractText 辨識圖片文字
func (t *Tesseract) ExtractText(ctx context.Context, data []byte) (string, error) {
	normalized, err := t.images.Normalize(data)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.client.SetImageFromBytes(normalized); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := t.client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}
	return text, nil
}

// Close 釋放 OCR 資源
func (t *Tesseract) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client.Close()
}
