package extract

import (
	"context"
	"fmt"
	"strings"

	aiservice "bread-converter/internal/core/ai/service"
	"bread-converter/internal/core/image"
)

const visionSystemPrompt = `You transcribe photographed bread recipes. Return only the recipe text exactly as printed: one ingredient per line with its quantity and unit, then the method. Do not translate, convert units, summarize or add commentary. If the image contains no recipe, return an empty response.`

const visionPrompt = "請轉錄圖片中的食譜文字（保留原文與原單位）。"

// Transcriber 視覺模型呼叫
type Transcriber interface {
	ProcessRequest(ctx context.Context, system, prompt, imageData string) (*aiservice.Response, error)
}

// Vision 以視覺模型轉錄食譜照片
type Vision struct {
	ai     Transcriber
	images *image.Service
}

// NewVision 創建視覺轉錄器
func NewVision(ai Transcriber, images *image.Service) *Vision {
	return &Vision{ai: ai, images: images}
}

// ExtractText 轉錄圖片中的食譜
func (v *Vision) ExtractText(ctx context.Context, data []byte) (string, error) {
	uri, err := v.images.ToDataURI(data)
	if err != nil {
		return "", err
	}

	resp, err := v.ai.ProcessRequest(ctx, visionSystemPrompt, visionPrompt, uri)
	if err != nil {
		return "", fmt.Errorf("vision transcription failed: %w", err)
	}

	text := strings.TrimSpace(resp.Content)
	// 模型偶爾會把整段包在 code fence 裡
	text = strings.TrimPrefix(text, "```text")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text), nil
}
