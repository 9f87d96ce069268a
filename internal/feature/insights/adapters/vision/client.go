// Package vision はGoogle Cloud Vision APIを使用したラベル検出クライアントを提供します。
package vision

import (
	"context"
	"fmt"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/giapdoan01/BEArtGallery/internal/feature/insights/domain/entity"
	"github.com/giapdoan01/BEArtGallery/internal/feature/insights/usecase"
)

// VisionLabelDetector はGoogle Cloud Vision APIを使用してラベルを検出します。
type VisionLabelDetector struct {
	client *gvision.ImageAnnotatorClient
}

// VisionLabelDetectorがLabelDetectorを実装していることをコンパイル時に検証します。
var _ usecase.LabelDetector = (*VisionLabelDetector)(nil)

// NewVisionLabelDetector はADCを使用してVisionLabelDetectorの新しいインスタンスを生成します。
func NewVisionLabelDetector(ctx context.Context) (*VisionLabelDetector, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &VisionLabelDetector{client: client}, nil
}

// Close はVision APIクライアントを解放します。
func (v *VisionLabelDetector) Close() error {
	return v.client.Close()
}

// DetectLabels は画像バイト列からラベルを検出します。
func (v *VisionLabelDetector) DetectLabels(ctx context.Context, imageData []byte) ([]entity.Label, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: imageData},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_LABEL_DETECTION},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("vision API request failed: %w", err)
	}

	if len(resp.Responses) == 0 {
		return nil, nil
	}

	if resp.Responses[0].Error != nil {
		return nil, fmt.Errorf("vision API error: %s", resp.Responses[0].Error.Message)
	}

	labels := make([]entity.Label, 0, len(resp.Responses[0].LabelAnnotations))
	for _, label := range resp.Responses[0].LabelAnnotations {
		labels = append(labels, entity.Label{
			Name:  label.Description,
			Score: label.Score,
		})
	}

	return labels, nil
}
