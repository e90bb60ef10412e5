package vision

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"smartfinance/internal/core"

	goption "google.golang.org/api/option"
	gvision "google.golang.org/api/vision/v1"
)

// GoogleProvider runs TEXT_DETECTION on Cloud Vision and applies
// GuessFromText to the detected text.
type GoogleProvider struct {
	svc *gvision.Service
}

var _ Provider = (*GoogleProvider)(nil)

// NewGoogleProvider authenticates with an API key. Extra options are
// appended after the key.
func NewGoogleProvider(ctx context.Context, apiKey string, opts ...goption.ClientOption) (*GoogleProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("google vision: %w", ErrNotConfigured)
	}
	opts = append([]goption.ClientOption{goption.WithAPIKey(apiKey)}, opts...)
	svc, err := gvision.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create vision service: %w", err)
	}
	return &GoogleProvider{svc: svc}, nil
}

func (p *GoogleProvider) ParseReceipt(ctx context.Context, imageBase64 string) (core.ReceiptGuess, error) {
	content, err := NormalizeImage(imageBase64)
	if err != nil {
		return core.ReceiptGuess{}, err
	}

	req := &gvision.BatchAnnotateImagesRequest{
		Requests: []*gvision.AnnotateImageRequest{{
			Image:    &gvision.Image{Content: content},
			Features: []*gvision.Feature{{Type: "TEXT_DETECTION"}},
		}},
	}
	resp, err := p.svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return core.ReceiptGuess{}, fmt.Errorf("annotate image: %w", err)
	}

	var text string
	if len(resp.Responses) > 0 {
		r := resp.Responses[0]
		if r.Error != nil && r.Error.Code != 0 {
			return core.ReceiptGuess{}, fmt.Errorf("annotate image: %s (code %d)", r.Error.Message, r.Error.Code)
		}
		if r.FullTextAnnotation != nil {
			text = r.FullTextAnnotation.Text
		}
	}

	guess := GuessFromText(text)
	slog.DebugContext(ctx, "Receipt text recognized",
		"component", "vision",
		"chars", len(text),
		"title", guess.Title,
		"amount", guess.Amount,
		"category", guess.Category)
	return guess, nil
}
