// Package handler はinsightsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/giapdoan01/BEArtGallery/internal/api"
	"github.com/giapdoan01/BEArtGallery/internal/feature/insights/domain/entity"
)

// InsightsUsecase はタグ候補・説明文生成のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type InsightsUsecase interface {
	SuggestTags(ctx context.Context, imageData []byte) ([]entity.Label, error)
	Describe(ctx context.Context, title string, tags []string) (*entity.ArtworkDescription, error)
}

// InsightsHandler はタグ候補・説明文生成のHTTPリクエストを処理します。
type InsightsHandler struct {
	uc InsightsUsecase
}

// NewInsightsHandler はInsightsHandlerの新しいインスタンスを生成します。
func NewInsightsHandler(uc InsightsUsecase) *InsightsHandler {
	return &InsightsHandler{uc: uc}
}

// SuggestTags は画像をアップロードしてタグ候補を生成します。
//
// エンドポイント: POST /insights/suggest-tags
// Content-Type: multipart/form-data
// フィールド: file（画像ファイル、最大10MB）
func (h *InsightsHandler) SuggestTags(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		slog.Warn("画像ファイルの取得に失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "画像ファイルが必要です"})
		return
	}

	f, err := file.Open()
	if err != nil {
		slog.Error("画像ファイルのオープンに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "画像の読み込みに失敗しました"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("画像ファイルのクローズに失敗", "error", err)
		}
	}()

	imageData, err := io.ReadAll(f)
	if err != nil {
		slog.Error("画像データの読み取りに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "画像の読み込みに失敗しました"})
		return
	}

	labels, err := h.uc.SuggestTags(c.Request.Context(), imageData)
	if err != nil {
		slog.Error("タグ候補の生成に失敗", "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "タグ候補の生成に失敗しました"})
		return
	}

	out := make([]api.TagSuggestionResponse, 0, len(labels))
	for _, l := range labels {
		out = append(out, api.TagSuggestionResponse{
			Tag:   l.Name,
			Score: l.Score,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Describe は作品タイトルとタグから説明文を生成します。
//
// エンドポイント: POST /insights/describe
// Content-Type: application/json
func (h *InsightsHandler) Describe(c *gin.Context) {
	var req api.DescribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("説明文リクエストのバリデーションに失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "タイトルが必要です"})
		return
	}

	desc, err := h.uc.Describe(c.Request.Context(), req.Title, req.Tags)
	if err != nil {
		slog.Error("説明文の生成に失敗", "error", err, "title", req.Title)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "説明文の生成に失敗しました"})
		return
	}

	c.JSON(http.StatusOK, api.DescribeResponse{
		Description: desc.Description,
	})
}
