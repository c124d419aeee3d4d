package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"strings"

	_ "image/gif" // 支援 GIF

	"bread-converter/internal/infrastructure/config"
	"bread-converter/internal/pkg/common"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // 支援 WebP
)

// Service 圖片處理服務：食譜照片送 OCR 或視覺模型前的正規化
type Service struct {
	maxSizeBytes int64
	maxDimension int
}

// NewService 創建新的圖片處理服務
func NewService(cfg config.ImageConfig) *Service {
	return &Service{
		maxSizeBytes: cfg.MaxSizeBytes,
		maxDimension: cfg.MaxDimension,
	}
}

// decode 檢查大小與格式後解碼，過大的圖片等比縮小
func (s *Service) decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, common.ErrUnsupportedFile.Wrap(fmt.Errorf("image data is empty"))
	}

	// 檢查文件大小
	if s.maxSizeBytes > 0 && int64(len(data)) > s.maxSizeBytes {
		return nil, common.ErrFileTooLarge.Wrap(fmt.Errorf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes))
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, common.ErrUnsupportedFile.Wrap(fmt.Errorf("failed to decode image: %w", err))
	}

	// 檢查圖片格式
	if !isSupportedFormat(format) {
		return nil, common.ErrUnsupportedFile.Wrap(fmt.Errorf("unsupported image format: %s", format))
	}

	return s.resize(img), nil
}

// resize 最長邊超過 maxDimension 時等比縮小
func (s *Service) resize(img image.Image) image.Image {
	b := img.Bounds()
	longest := max(b.Dx(), b.Dy())
	if s.maxDimension <= 0 || longest <= s.maxDimension {
		return img
	}

	scale := float64(s.maxDimension) / float64(longest)
	w := int(math.Round(float64(b.Dx()) * scale))
	h := int(math.Round(float64(b.Dy()) * scale))
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// Normalize 轉成 PNG（OCR 使用）
func (s *Service) Normalize(data []byte) ([]byte, error) {
	img, err := s.decode(data)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// ToDataURI 轉成 JPEG data URI（視覺模型使用）
func (s *Service) ToDataURI(data []byte) (string, error) {
	img, err := s.decode(data)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode image as JPEG: %w", err)
	}

	encodedData := base64.StdEncoding.EncodeToString(buf.Bytes())
	return fmt.Sprintf("data:image/jpeg;base64,%s", encodedData), nil
}

// DecodeDataURI 解析 data:image/...;base64, 字串或純 base64
func DecodeDataURI(imageData string) ([]byte, error) {
	payload := strings.TrimSpace(imageData)
	if strings.HasPrefix(payload, "data:") {
		parts := strings.SplitN(payload, ",", 2)
		if len(parts) != 2 || !strings.HasSuffix(parts[0], ";base64") {
			return nil, common.ErrUnsupportedFile.Wrap(fmt.Errorf("invalid base64 data format"))
		}
		payload = parts[1]
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, common.ErrUnsupportedFile.Wrap(fmt.Errorf("failed to decode base64 data: %w", err))
	}
	return decoded, nil
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	supportedFormats := map[string]bool{
		"jpeg": true,
		"png":  true,
		"gif":  true,
		"webp": true,
	}
	return supportedFormats[format]
}
