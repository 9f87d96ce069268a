// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/giapdoan01/BEArtGallery/internal/feature/auth/domain/entity"
	"github.com/giapdoan01/BEArtGallery/internal/feature/auth/usecase"
	galleryentity "github.com/giapdoan01/BEArtGallery/internal/feature/gallery/domain/entity"
)

// userGorm はUserRepositoryインターフェースのGORM実装です。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// CreateWithDefaultFrames はユーザーとデフォルトフレーム（1〜10番）を
// 単一トランザクションで作成します。どちらかが失敗した場合は全体をロールバックし、
// フレームが中途半端に作成されたユーザーが存在しない状態を保証します。
func (r *userGorm) CreateWithDefaultFrames(ctx context.Context, u *entity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return translateUniqueError(err)
		}

		frames := make([]galleryentity.Painting, 0, galleryentity.DefaultFrameCount)
		for i := 1; i <= galleryentity.DefaultFrameCount; i++ {
			frames = append(frames, galleryentity.Painting{
				OwnerID:     u.ID,
				FrameNumber: i,
				Title:       fmt.Sprintf("Frame %d", i),
				Visibility:  galleryentity.VisibilityPrivate,
				Tags:        []string{},
				HasImage:    false,
			})
		}
		return tx.Create(&frames).Error
	})
}

// FindByEmail はメールアドレスでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID はIDでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// translateUniqueError はユニーク制約違反をドメインエラーに変換します。
// PostgreSQLエラー23505: ユニークキーの重複エントリ
func translateUniqueError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if pgErr.ConstraintName == "uq_users_username" {
			return usecase.ErrUsernameAlreadyExists
		}
		return usecase.ErrEmailAlreadyExists
	}

	// テスト実行時のSQLiteはPgErrorを返さないため、メッセージで判定する
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint") {
		if strings.Contains(msg, "username") {
			return usecase.ErrUsernameAlreadyExists
		}
		return usecase.ErrEmailAlreadyExists
	}
	return err
}
