//go:build !cgo

package extract

import (
	"context"
	"fmt"

	"bread-converter/internal/core/image"
	"bread-converter/internal/pkg/common"
)

// Tesseract 未啟用 cgo 時無法使用
type Tesseract struct{}

// NewTesseract 回傳 common.ErrExtractionDisabled
func NewTesseract(_ string, _ *image.Service) (*Tesseract, error) {
	return nil, common.ErrExtractionDisabled.Wrap(fmt.Errorf("tesseract OCR requires a cgo build"))
}

// ExtractText 回傳 common.ErrExtractionDisabled
func (t *Tesseract) ExtractText(context.Context, []byte) (string, error) {
	return "", common.ErrExtractionDisabled
}

// Close 無資源需釋放
func (t *Tesseract) Close() error {
	return nil
}
