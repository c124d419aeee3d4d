package extract

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"bread-converter/internal/core/ai/queue"
	aiservice "bread-converter/internal/core/ai/service"
	imgsvc "bread-converter/internal/core/image"
	"bread-converter/internal/infrastructure/config"
	"bread-converter/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func samplePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 40, 20))
	img.Set(5, 5, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) ExtractText(context.Context, []byte) (string, error) {
	return f.text, f.err
}

type mockTranscriber struct {
	mock.Mock
}

func (m *mockTranscriber) ProcessRequest(ctx context.Context, system, prompt, imageData string) (*aiservice.Response, error) {
	args := m.Called(ctx, system, prompt, imageData)
	resp, _ := args.Get(0).(*aiservice.Response)
	return resp, args.Error(1)
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want Kind
	}{
		{"plain text", []byte("500g bread flour\n350g water"), KindText},
		{"markdown with bom", []byte("\ufeff# Loaf\n- 500g flour"), KindText},
		{"png", samplePNG(t), KindImage},
		{"pdf", []byte("%PDF-1.7\n%âãÏÓ\n1 0 obj"), KindPDF},
		{"binary", []byte{0x00, 0x01, 0x02, 0xff, 0xfe}, KindUnknown},
		{"empty", nil, KindUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Detect(tt.data), tt.name)
	}
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	text, err := PlainText{}.ExtractText(context.Background(), []byte("\ufeff500g flour\r\n350g water\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "500g flour\n350g water", text)

	_, err = PlainText{}.ExtractText(context.Background(), []byte{0xff, 0xfe, 0xfd})
	assert.Error(t, err)
}

func TestServiceRoutesByKind(t *testing.T) {
	t.Parallel()
	q := queue.NewManager(config.QueueConfig{Workers: 1, MaxSize: 2})
	t.Cleanup(q.Close)

	svc := NewServiceWith(fakeExtractor{text: "  100g starter  "}, q)
	ctx := context.Background()

	text, err := svc.ExtractText(ctx, []byte("500g flour"))
	require.NoError(t, err)
	assert.Equal(t, "500g flour", text)

	text, err = svc.ExtractText(ctx, samplePNG(t))
	require.NoError(t, err)
	assert.Equal(t, "100g starter", text)
	assert.Equal(t, 1, q.Status().ProcessedCount)

	_, err = svc.ExtractText(ctx, []byte("%PDF-1.4\n"))
	assert.Equal(t, common.ErrCodeUnsupportedMedia, common.AsCustomError(err).Code)
}

func TestServiceErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	disabled := NewServiceWith(nil, nil)
	assert.False(t, disabled.ImageEnabled())
	_, err := disabled.ExtractText(ctx, samplePNG(t))
	assert.ErrorIs(t, err, common.ErrExtractionDisabled)

	_, err = disabled.ExtractText(ctx, []byte("   \n  "))
	assert.ErrorIs(t, err, common.ErrEmptyRecipe)

	failing := NewServiceWith(fakeExtractor{err: errors.New("ocr crashed")}, nil)
	_, err = failing.ExtractText(ctx, samplePNG(t))
	assert.EqualError(t, err, "ocr crashed")
}

func TestNewService(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	images := imgsvc.NewService(cfg.Image)

	svc, err := NewService(cfg, images, nil, nil)
	require.NoError(t, err)
	assert.False(t, svc.ImageEnabled())
	assert.Equal(t, config.OCRProviderNone, svc.Provider())

	visionCfg := *cfg
	visionCfg.OCR.Provider = config.OCRProviderVision
	_, err = NewService(&visionCfg, images, nil, nil)
	assert.Error(t, err)

	svc, err = NewService(&visionCfg, images, &mockTranscriber{}, nil)
	require.NoError(t, err)
	assert.True(t, svc.ImageEnabled())
}

func TestVisionExtractText(t *testing.T) {
	t.Parallel()
	m := &mockTranscriber{}
	m.On("ProcessRequest", mock.Anything, visionSystemPrompt, visionPrompt, mock.MatchedBy(func(uri string) bool {
		return bytes.HasPrefix([]byte(uri), []byte("data:image/jpeg;base64,"))
	})).Return(&aiservice.Response{Content: "```\n500g bread flour\n350g water\n```"}, nil)

	v := NewVision(m, imgsvc.NewService(config.ImageConfig{MaxSizeBytes: 1 << 20}))
	text, err := v.ExtractText(context.Background(), samplePNG(t))

	require.NoError(t, err)
	assert.Equal(t, "500g bread flour\n350g water", text)
	m.AssertExpectations(t)
}

func TestVisionPropagatesErrors(t *testing.T) {
	t.Parallel()
	m := &mockTranscriber{}
	m.On("ProcessRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, common.ErrAIServiceError)

	v := NewVision(m, imgsvc.NewService(config.ImageConfig{MaxSizeBytes: 1 << 20}))
	_, err := v.ExtractText(context.Background(), samplePNG(t))
	assert.ErrorIs(t, err, common.ErrAIServiceError)

	_, err = v.ExtractText(context.Background(), []byte("not an image"))
	assert.Error(t, err)
	m.AssertNumberOfCalls(t, "ProcessRequest", 1)
}
