// Package handler はgalleryフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/giapdoan01/BEArtGallery/internal/api"
	"github.com/giapdoan01/BEArtGallery/internal/feature/gallery/domain/entity"
	"github.com/giapdoan01/BEArtGallery/internal/feature/gallery/usecase"
	jwtmw "github.com/giapdoan01/BEArtGallery/internal/platform/jwt"
)

// PaintingUsecase はフレーム操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type PaintingUsecase interface {
	List(ctx context.Context, filter usecase.ListFilter, page, limit int) (*usecase.PageResult, error)
	CreateFrame(ctx context.Context, ownerID uint, title, description string, visibility entity.Visibility, tags []string) (*entity.Painting, error)
	GetDetail(ctx context.Context, requesterID uint, ownerID *uint, frameNumber int) (*entity.Painting, error)
	UpdateMetadata(ctx context.Context, ownerID uint, frameNumber int, upd usecase.MetadataUpdate) (*entity.Painting, error)
	AttachImage(ctx context.Context, ownerID uint, frameNumber int, data []byte) (*entity.Painting, error)
	DetachImage(ctx context.Context, ownerID uint, frameNumber int) (*entity.Painting, error)
	DeleteFrame(ctx context.Context, ownerID uint, frameNumber int) error
}

// PaintingHandler はフレーム操作のHTTPリクエストを処理します。
type PaintingHandler struct {
	uc PaintingUsecase
}

// NewPaintingHandler はPaintingHandlerの新しいインスタンスを生成します。
func NewPaintingHandler(uc PaintingUsecase) *PaintingHandler {
	return &PaintingHandler{uc: uc}
}

// toPaintingResponse はドメインエンティティをレスポンスDTOに変換します。
func toPaintingResponse(p *entity.Painting) api.PaintingResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return api.PaintingResponse{
		ID:            p.ID,
		Owner:         p.OwnerID,
		OwnerUsername: p.Owner.Username,
		FrameNumber:   p.FrameNumber,
		Title:         p.Title,
		Description:   p.Description,
		ImageURL:      p.ImageURL,
		ThumbnailURL:  p.ThumbnailURL,
		Visibility:    string(p.Visibility),
		Tags:          tags,
		HasImage:      p.HasImage,
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// frameNumberParam はパスパラメータのフレーム番号をパースします。
func frameNumberParam(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("frameNumber"))
	if err != nil || n < 1 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid frame number"})
		return 0, false
	}
	return n, true
}

// List はフレーム一覧APIエンドポイントを処理します。
//
// エンドポイント例:
// GET /paintings?ownerId=1&visibility=public&hasImage=true&tag=oil&search=sunset&page=2&limit=10
func (h *PaintingHandler) List(c *gin.Context) {
	var filter usecase.ListFilter

	if s := c.Query("ownerId"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid ownerId"})
			return
		}
		owner := uint(id)
		filter.OwnerID = &owner
	}
	if s := c.Query("visibility"); s != "" {
		v := entity.Visibility(s)
		filter.Visibility = &v
	}
	// hasImageは三値フィルタ: 未指定/true/false
	switch c.Query("hasImage") {
	case "true":
		t := true
		filter.HasImage = &t
	case "false":
		f := false
		filter.HasImage = &f
	}
	filter.Tag = c.Query("tag")
	filter.Search = c.Query("search")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.uc.List(c.Request.Context(), filter, page, limit)
	if err != nil {
		slog.Error("list paintings failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	items := make([]api.PaintingResponse, 0, len(result.Items))
	for _, p := range result.Items {
		items = append(items, toPaintingResponse(p))
	}
	c.JSON(http.StatusOK, api.PaintingListResponse{
		Items: items,
		Meta: api.PageMeta{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// CreateFrame は新規フレーム作成APIエンドポイントを処理します。
func (h *PaintingHandler) CreateFrame(c *gin.Context) {
	ownerID := c.GetUint(jwtmw.ContextUserID)

	var req api.CreateFrameRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Warn("create frame validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	p, err := h.uc.CreateFrame(c.Request.Context(), ownerID, req.Title, req.Description, entity.Visibility(req.Visibility), req.Tags)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidVisibility) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("create frame failed", "error", err, "owner_id", ownerID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	slog.Info("frame created", "owner_id", ownerID, "frame_number", p.FrameNumber)
	c.JSON(http.StatusCreated, toPaintingResponse(p))
}

// GetDetail はフレーム詳細APIエンドポイントを処理します。
// ownerIdクエリがない場合は認証済みユーザー自身のフレームを返します。
func (h *PaintingHandler) GetDetail(c *gin.Context) {
	frameNumber, ok := frameNumberParam(c)
	if !ok {
		return
	}
	requesterID := c.GetUint(jwtmw.ContextUserID)

	var ownerID *uint
	if s := c.Query("ownerId"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid ownerId"})
			return
		}
		owner := uint(id)
		ownerID = &owner
	}

	p, err := h.uc.GetDetail(c.Request.Context(), requesterID, ownerID, frameNumber)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAuthRequired):
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required"})
		case errors.Is(err, usecase.ErrPermissionDenied):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "permission denied"})
		case errors.Is(err, usecase.ErrFrameNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "frame not found"})
		default:
			slog.Error("get painting detail failed", "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, toPaintingResponse(p))
}

// UploadImage は画像アップロードAPIエンドポイントを処理します。
//
// Content-Type: multipart/form-data
// フィールド: file（画像ファイル、最大10MB）
func (h *PaintingHandler) UploadImage(c *gin.Context) {
	frameNumber, ok := frameNumberParam(c)
	if !ok {
		return
	}
	ownerID := c.GetUint(jwtmw.ContextUserID)

	file, err := c.FormFile("file")
	if err != nil {
		slog.Warn("image file missing", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "no file provided"})
		return
	}

	f, err := file.Open()
	if err != nil {
		slog.Error("failed to open uploaded file", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to read image"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close uploaded file", "error", err)
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("failed to read uploaded file", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to read image"})
		return
	}

	p, err := h.uc.AttachImage(c.Request.Context(), ownerID, frameNumber, data)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNoImageData), errors.Is(err, usecase.ErrImageTooLarge):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrFrameNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "frame not found"})
		default:
			slog.Error("attach image failed", "error", err, "owner_id", ownerID, "frame_number", frameNumber)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		return
	}

	slog.Info("image attached", "owner_id", ownerID, "frame_number", frameNumber)
	c.JSON(http.StatusOK, toPaintingResponse(p))
}

// DeleteImage は画像取り外しAPIエンドポイントを処理します。フレームは残ります。
func (h *PaintingHandler) DeleteImage(c *gin.Context) {
	frameNumber, ok := frameNumberParam(c)
	if !ok {
		return
	}
	ownerID := c.GetUint(jwtmw.ContextUserID)

	p, err := h.uc.DetachImage(c.Request.Context(), ownerID, frameNumber)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNoImage):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrFrameNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "frame not found"})
		default:
			slog.Error("detach image failed", "error", err, "owner_id", ownerID, "frame_number", frameNumber)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, toPaintingResponse(p))
}

// Update はメタデータ更新APIエンドポイントを処理します。
func (h *PaintingHandler) Update(c *gin.Context) {
	frameNumber, ok := frameNumberParam(c)
	if !ok {
		return
	}
	ownerID := c.GetUint(jwtmw.ContextUserID)

	var req api.UpdateFrameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update frame validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	upd := usecase.MetadataUpdate{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	}
	if req.Visibility != nil {
		v := entity.Visibility(*req.Visibility)
		upd.Visibility = &v
	}

	p, err := h.uc.UpdateMetadata(c.Request.Context(), ownerID, frameNumber, upd)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidVisibility):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrFrameNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "frame not found"})
		default:
			slog.Error("update frame failed", "error", err, "owner_id", ownerID, "frame_number", frameNumber)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, toPaintingResponse(p))
}

// Delete はフレーム削除APIエンドポイントを処理します。
// デフォルトフレーム（1〜10番）の削除は400で拒否されます。
func (h *PaintingHandler) Delete(c *gin.Context) {
	frameNumber, ok := frameNumberParam(c)
	if !ok {
		return
	}
	ownerID := c.GetUint(jwtmw.ContextUserID)

	if err := h.uc.DeleteFrame(c.Request.Context(), ownerID, frameNumber); err != nil {
		switch {
		case errors.Is(err, usecase.ErrProtectedFrame):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrFrameNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "frame not found"})
		default:
			slog.Error("delete frame failed", "error", err, "owner_id", ownerID, "frame_number", frameNumber)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		return
	}

	slog.Info("frame deleted", "owner_id", ownerID, "frame_number", frameNumber)
	c.Status(http.StatusNoContent)
}
