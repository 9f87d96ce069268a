// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/giapdoan01/BEArtGallery/internal/feature/auth/domain/entity"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// CreateWithDefaultFrames は新規ユーザーとデフォルトフレーム（1〜10番）を
	// 単一トランザクションで永続化します。メールアドレスまたはユーザー名が
	// 既に存在する場合、ErrEmailAlreadyExists / ErrUsernameAlreadyExistsを返します。
	CreateWithDefaultFrames(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// TokenGenerator はトークンの発行・検証のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenGenerator interface {
	// GenerateAccessToken は指定されたユーザーの署名済みアクセストークンを生成します。
	GenerateAccessToken(userID uint, email string) (string, error)
	// GenerateRefreshToken は署名済みリフレッシュトークンと、セッションの鍵となるjtiを生成します。
	GenerateRefreshToken(userID uint) (token string, jti string, expiresAt time.Time, err error)
	// ParseRefreshToken はリフレッシュトークンの署名と形式を検証します。
	ParseRefreshToken(token string) (jti string, userID uint, err error)
	// AccessTTL はアクセストークンの有効期間を返します。
	AccessTTL() time.Duration
}

// TokenPair はログイン成功時に発行されるトークンの組です。
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // アクセストークンの有効期間（秒）
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users    UserRepository
	sessions SessionRepository
	tokens   TokenGenerator
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, sessions SessionRepository, tokens TokenGenerator) *authUsecase {
	return &authUsecase{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	return nil
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録します。
// デフォルトフレーム（1〜10番）の作成はリポジトリ側で同一トランザクションに含まれます。
func (u *authUsecase) Register(ctx context.Context, email, username, password, displayName string) (*entity.User, error) {
	// パスワード強度を検証
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Email:       email,
		Username:    username,
		Password:    string(hashed),
		DisplayName: displayName,
	}
	if err := u.users.CreateWithDefaultFrames(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login はユーザーを認証し、成功時にトークンペアとユーザー情報を返します。
// リフレッシュトークンのjtiをセッションとして記録し、失効管理に使用します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password, userAgent, ipAddress string) (*TokenPair, *entity.User, error) {
	// メールアドレスでユーザーを検索
	user, err := u.users.FindByEmail(ctx, email)

	// ユーザーが存在しない場合のタイミング攻撃緩和用ダミーハッシュ
	// bcrypt.CompareHashAndPasswordが常に呼ばれることを保証する
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // ダミーハッシュ
	if err == nil {
		passwordHash = user.Password
	}

	// タイミング攻撃防止のため、常にパスワードを検証
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	// ユーザー未検出またはパスワード不一致の場合、汎用エラーを返す
	if err != nil || compareErr != nil {
		return nil, nil, ErrInvalidCredentials
	}

	accessToken, err := u.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate token: %w", err)
	}

	refreshToken, jti, expiresAt, err := u.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	// リフレッシュトークンの失効管理用セッションを記録
	session := &entity.Session{
		ID:        jti,
		UserID:    user.ID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	pair := &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.tokens.AccessTTL().Seconds()),
	}
	return pair, user, nil
}

// Refresh はリフレッシュトークンを検証し、新しいアクセストークンを発行します。
// 署名検証の後、セッションの失効・期限切れをストアで確認します。
func (u *authUsecase) Refresh(ctx context.Context, refreshToken string) (string, int64, error) {
	jti, userID, err := u.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", 0, ErrInvalidRefreshToken
	}

	session, err := u.sessions.FindByID(ctx, jti)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return "", 0, ErrInvalidRefreshToken
		}
		return "", 0, err
	}
	if session.IsRevoked() {
		return "", 0, ErrSessionRevoked
	}
	if session.IsExpired() {
		return "", 0, ErrSessionExpired
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return "", 0, ErrInvalidRefreshToken
	}

	accessToken, err := u.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate token: %w", err)
	}
	return accessToken, int64(u.tokens.AccessTTL().Seconds()), nil
}

// Logout はリフレッシュトークンのセッションを失効させます。
// 失効は一方向で、取り消すことはできません。
func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	jti, _, err := u.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	if err := u.sessions.Revoke(ctx, jti); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return ErrInvalidRefreshToken
		}
		return err
	}
	return nil
}

// LogoutAll はユーザーの全セッションを失効させます。
// 盗難が疑われるときに全デバイスからサインアウトするために使います。
func (u *authUsecase) LogoutAll(ctx context.Context, userID uint) error {
	return u.sessions.RevokeAllByUserID(ctx, userID)
}

// PurgeExpiredSessions は期限切れセッションをストレージから削除し、削除件数を返します。
// Redisは自前のTTLで揮発するため、実質的にはRDBフォールバック用の掃除です。
func (u *authUsecase) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return u.sessions.DeleteExpired(ctx)
}
