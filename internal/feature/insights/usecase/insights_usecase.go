// Package usecase はinsightsフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/giapdoan01/BEArtGallery/internal/feature/insights/domain/entity"
)

const (
	// MaxImageSize は画像アップロードの最大サイズ（10MB）です。
	MaxImageSize = 10 * 1024 * 1024
	// MaxTitleLength はタイトルの最大文字数（rune数）です。
	MaxTitleLength = 200
	// MaxSuggestions は返却するタグ候補の最大件数です。
	MaxSuggestions = 10
	// DescribePromptTemplate は作品説明文生成のプロンプトテンプレートです。
	DescribePromptTemplate = "Write a short gallery description (2-3 sentences) for an artwork titled %q%s. Return only the description text."
)

// LabelDetector は画像からラベルを検出するリポジトリインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type LabelDetector interface {
	// DetectLabels は画像バイト列からラベルを検出し、検出結果を返します。
	DetectLabels(ctx context.Context, imageData []byte) ([]entity.Label, error)
}

// DescriptionGenerator は説明文を生成するリポジトリインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type DescriptionGenerator interface {
	// Generate はプロンプトから説明文を生成します。
	Generate(ctx context.Context, prompt string) (string, error)
}

// insightsUsecase はタグ候補・説明文生成のビジネスロジックを提供します。
type insightsUsecase struct {
	labelDetector        LabelDetector
	descriptionGenerator DescriptionGenerator
}

// NewInsightsUsecase はinsightsUsecaseの新しいインスタンスを生成します。
func NewInsightsUsecase(ld LabelDetector, dg DescriptionGenerator) *insightsUsecase {
	return &insightsUsecase{labelDetector: ld, descriptionGenerator: dg}
}

// SuggestTags は画像データからタグ候補を生成します。
func (u *insightsUsecase) SuggestTags(ctx context.Context, imageData []byte) ([]entity.Label, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("image data is empty")
	}
	if len(imageData) > MaxImageSize {
		return nil, fmt.Errorf("image size exceeds maximum of %d bytes", MaxImageSize)
	}

	labels, err := u.labelDetector.DetectLabels(ctx, imageData)
	if err != nil {
		return nil, err
	}
	if len(labels) > MaxSuggestions {
		labels = labels[:MaxSuggestions]
	}
	return labels, nil
}

// Describe は作品タイトルとタグから説明文を生成します。
func (u *insightsUsecase) Describe(ctx context.Context, title string, tags []string) (*entity.ArtworkDescription, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return nil, fmt.Errorf("title exceeds maximum length of %d characters", MaxTitleLength)
	}

	var tagHint string
	if len(tags) > 0 {
		tagHint = fmt.Sprintf(" tagged with %s", strings.Join(tags, ", "))
	}
	prompt := fmt.Sprintf(DescribePromptTemplate, title, tagHint)

	description, err := u.descriptionGenerator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("description generator failed for %q: %w", title, err)
	}
	return &entity.ArtworkDescription{
		Title:       title,
		Description: strings.TrimSpace(description),
	}, nil
}
