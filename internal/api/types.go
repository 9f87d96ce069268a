// Package api は各フィーチャーのHTTPトランスポートで共有するリクエスト/レスポンス型を定義します。
package api

// ErrorResponse はエラー時の共通レスポンスボディです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse はメッセージのみを返す共通レスポンスボディです。
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse は /health エンドポイントのレスポンスです。
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}

// RegisterRequest は /register エンドポイントのリクエストボディです。
// Ginのbindingタグでバリデーション（必須・メール形式・パスワード長）を行います。
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Username    string `json:"username" binding:"required,min=3,max=32"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"displayName"`
}

// RegisterResponse は登録成功時のレスポンスです。
type RegisterResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// LoginRequest は /login エンドポイントのリクエストボディです。
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse はレスポンスに含めるユーザーの公開情報です。
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResponse はログイン成功時のトークンペアとユーザー情報です。
type LoginResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int64        `json:"expiresIn"`
	User         UserResponse `json:"user"`
}

// RefreshRequest は /token/refresh エンドポイントのリクエストボディです。
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshResponse はアクセストークン再発行時のレスポンスです。
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// LogoutRequest は /logout エンドポイントのリクエストボディです。
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// CreateFrameRequest は新規フレーム作成のリクエストボディです。全フィールド任意です。
type CreateFrameRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Visibility  string   `json:"visibility"`
	Tags        []string `json:"tags"`
}

// UpdateFrameRequest はフレームメタデータの部分更新リクエストです。
// nilのフィールドは変更しません。
type UpdateFrameRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Visibility  *string   `json:"visibility"`
	Tags        *[]string `json:"tags"`
}

// PaintingResponse はフレーム（絵画）1件のレスポンスです。
type PaintingResponse struct {
	ID            uint     `json:"id"`
	Owner         uint     `json:"owner"`
	OwnerUsername string   `json:"owner_username"`
	FrameNumber   int      `json:"frame_number"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"image_url"`
	ThumbnailURL  string   `json:"thumbnail_url"`
	Visibility    string   `json:"visibility"`
	Tags          []string `json:"tags"`
	HasImage      bool     `json:"has_image"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

// PageMeta はページネーションのメタ情報です。
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// PaintingListResponse はフレーム一覧のレスポンスです。
type PaintingListResponse struct {
	Items []PaintingResponse `json:"items"`
	Meta  PageMeta           `json:"meta"`
}

// TagSuggestionResponse は画像から提案されたタグ1件を表します。
type TagSuggestionResponse struct {
	Tag   string  `json:"tag"`
	Score float32 `json:"score"`
}

// DescribeRequest は作品紹介文生成のリクエストボディです。
type DescribeRequest struct {
	Title string   `json:"title" binding:"required"`
	Tags  []string `json:"tags"`
}

// DescribeResponse は生成された作品紹介文のレスポンスです。
type DescribeResponse struct {
	Description string `json:"description"`
}
