package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giapdoan01/BEArtGallery/internal/api"
	"github.com/giapdoan01/BEArtGallery/internal/feature/insights/domain/entity"
)

// mockInsightsUsecase はInsightsUsecaseインターフェースのモック実装です。
type mockInsightsUsecase struct {
	SuggestTagsFunc func(ctx context.Context, imageData []byte) ([]entity.Label, error)
	DescribeFunc    func(ctx context.Context, title string, tags []string) (*entity.ArtworkDescription, error)
}

func (m *mockInsightsUsecase) SuggestTags(ctx context.Context, imageData []byte) ([]entity.Label, error) {
	if m.SuggestTagsFunc != nil {
		return m.SuggestTagsFunc(ctx, imageData)
	}
	return nil, nil
}

func (m *mockInsightsUsecase) Describe(ctx context.Context, title string, tags []string) (*entity.ArtworkDescription, error) {
	if m.DescribeFunc != nil {
		return m.DescribeFunc(ctx, title, tags)
	}
	return &entity.ArtworkDescription{Title: title, Description: "mock description"}, nil
}

func newInsightsTestRouter(uc *mockInsightsUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewInsightsHandler(uc)

	router := gin.New()
	router.POST("/insights/suggest-tags", handler.SuggestTags)
	router.POST("/insights/describe", handler.Describe)
	return router
}

// multipartImage はfileフィールドを持つmultipartボディを組み立てます。
func multipartImage(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile(field, "artwork.jpg")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestInsightsHandler_SuggestTags(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockUC := &mockInsightsUsecase{
			SuggestTagsFunc: func(ctx context.Context, imageData []byte) ([]entity.Label, error) {
				assert.Equal(t, []byte("fake-image"), imageData)
				return []entity.Label{
					{Name: "Painting", Score: 0.98},
					{Name: "Watercolor", Score: 0.87},
				}, nil
			},
		}
		router := newInsightsTestRouter(mockUC)

		body, contentType := multipartImage(t, "file", []byte("fake-image"))
		req, _ := http.NewRequest(http.MethodPost, "/insights/suggest-tags", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp []api.TagSuggestionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 2)
		assert.Equal(t, "Painting", resp[0].Tag)
		assert.InDelta(t, 0.98, resp[0].Score, 0.001)
	})

	t.Run("success: no labels returns an empty array", func(t *testing.T) {
		router := newInsightsTestRouter(&mockInsightsUsecase{})

		body, contentType := multipartImage(t, "file", []byte("fake-image"))
		req, _ := http.NewRequest(http.MethodPost, "/insights/suggest-tags", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("failure: missing file field", func(t *testing.T) {
		router := newInsightsTestRouter(&mockInsightsUsecase{})

		body, contentType := multipartImage(t, "wrong-field", []byte("data"))
		req, _ := http.NewRequest(http.MethodPost, "/insights/suggest-tags", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("failure: detection error surfaces as bad gateway", func(t *testing.T) {
		mockUC := &mockInsightsUsecase{
			SuggestTagsFunc: func(ctx context.Context, imageData []byte) ([]entity.Label, error) {
				return nil, errors.New("vision api unavailable")
			},
		}
		router := newInsightsTestRouter(mockUC)

		body, contentType := multipartImage(t, "file", []byte("fake-image"))
		req, _ := http.NewRequest(http.MethodPost, "/insights/suggest-tags", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestInsightsHandler_Describe(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockUC := &mockInsightsUsecase{
			DescribeFunc: func(ctx context.Context, title string, tags []string) (*entity.ArtworkDescription, error) {
				assert.Equal(t, "Sunset Bay", title)
				assert.Equal(t, []string{"oil", "seascape"}, tags)
				return &entity.ArtworkDescription{
					Title:       title,
					Description: "A luminous seascape at dusk.",
				}, nil
			},
		}
		router := newInsightsTestRouter(mockUC)

		body, _ := json.Marshal(api.DescribeRequest{Title: "Sunset Bay", Tags: []string{"oil", "seascape"}})
		req, _ := http.NewRequest(http.MethodPost, "/insights/describe", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp api.DescribeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "A luminous seascape at dusk.", resp.Description)
	})

	t.Run("failure: missing title", func(t *testing.T) {
		router := newInsightsTestRouter(&mockInsightsUsecase{})

		body, _ := json.Marshal(gin.H{"tags": []string{"oil"}})
		req, _ := http.NewRequest(http.MethodPost, "/insights/describe", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("failure: generation error surfaces as bad gateway", func(t *testing.T) {
		mockUC := &mockInsightsUsecase{
			DescribeFunc: func(ctx context.Context, title string, tags []string) (*entity.ArtworkDescription, error) {
				return nil, errors.New("model overloaded")
			},
		}
		router := newInsightsTestRouter(mockUC)

		body, _ := json.Marshal(api.DescribeRequest{Title: "Sunset Bay"})
		req, _ := http.NewRequest(http.MethodPost, "/insights/describe", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
