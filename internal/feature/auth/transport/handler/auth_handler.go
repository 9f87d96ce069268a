// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/giapdoan01/BEArtGallery/internal/api"
	"github.com/giapdoan01/BEArtGallery/internal/feature/auth/domain/entity"
	"github.com/giapdoan01/BEArtGallery/internal/feature/auth/usecase"
	jwtmw "github.com/giapdoan01/BEArtGallery/internal/platform/jwt"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録し、デフォルトフレームを作成します。
	Register(ctx context.Context, email, username, password, displayName string) (*entity.User, error)
	// Login はユーザーを認証し、成功時にトークンペアとユーザー情報を返します。
	Login(ctx context.Context, email, password, userAgent, ipAddress string) (*usecase.TokenPair, *entity.User, error)
	// Refresh はリフレッシュトークンを検証し、新しいアクセストークンを発行します。
	Refresh(ctx context.Context, refreshToken string) (string, int64, error)
	// Logout はリフレッシュトークンのセッションを失効させます。
	Logout(ctx context.Context, refreshToken string) error
	// LogoutAll はユーザーの全セッションを失効させます。
	LogoutAll(ctx context.Context, userID uint) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseを注入します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - メール/ユーザー名の重複時も400を返却
// - 成功時は公開情報付きで201を返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Username, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmailAlreadyExists), errors.Is(err, usecase.ErrUsernameAlreadyExists):
			slog.Warn("register conflict", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("register failed", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		return
	}

	slog.Info("user registered", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, api.RegisterResponse{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - バリデーションエラー・認証失敗時は400を返却
// - 成功時はトークンペアとユーザー情報付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	pair, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
			slog.Warn("login failed", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid email or password"})
			return
		}
		// トークン発行やセッション保存の失敗は認証失敗ではない
		slog.Error("login failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}

	slog.Info("user login successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User: api.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	})
}

// Refresh はアクセストークン再発行APIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - トークンが無効・失効・期限切れの場合は401を返却
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req api.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("refresh validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	accessToken, expiresIn, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidRefreshToken),
			errors.Is(err, usecase.ErrSessionRevoked),
			errors.Is(err, usecase.ErrSessionExpired):
			slog.Warn("refresh rejected", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid refresh token"})
		default:
			slog.Error("refresh failed", "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, api.RefreshResponse{
		AccessToken: accessToken,
		ExpiresIn:   expiresIn,
	})
}

// Logout はリフレッシュトークンの失効APIエンドポイントを処理します。
// トークンが不正または既に無効な場合は400を返します（致命的エラーではありません）。
func (h *AuthHandler) Logout(c *gin.Context) {
	var req api.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("logout validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		if errors.Is(err, usecase.ErrInvalidRefreshToken) {
			slog.Warn("logout rejected", "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid token"})
			return
		}
		slog.Error("logout failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "logged out"})
}

// LogoutAll は認証済みユーザーの全セッションを失効させるAPIエンドポイントを処理します。
// 全デバイスからのサインアウトに相当します。
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)

	if err := h.auth.LogoutAll(c.Request.Context(), userID); err != nil {
		slog.Error("logout all failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	slog.Info("all sessions revoked", "user_id", userID)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "logged out from all devices"})
}
