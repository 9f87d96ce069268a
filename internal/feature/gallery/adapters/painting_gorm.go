// Package adapters はgalleryフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/giapdoan01/BEArtGallery/internal/feature/gallery/domain/entity"
	"github.com/giapdoan01/BEArtGallery/internal/feature/gallery/usecase"
)

// paintingGorm はPaintingRepositoryインターフェースのGORM実装です。
type paintingGorm struct {
	db *gorm.DB
}

// paintingGormがPaintingRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.PaintingRepository = (*paintingGorm)(nil)

// NewPaintingGorm は指定されたgorm.DB接続でpaintingGormの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewPaintingGorm(db *gorm.DB) *paintingGorm {
	return &paintingGorm{db: db}
}

// likeEscaper はLIKEパターン内でそのまま解釈させたい文字をエスケープします。
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike は入力値をLIKEパターンに埋め込めるリテラルに変換します。
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// List は絞り込み条件に一致するフレームの1ページ分と総件数を返します。
// 並び順はID昇順で固定し、ページングを決定的にします。
func (r *paintingGorm) List(ctx context.Context, filter usecase.ListFilter, offset, limit int) ([]*entity.Painting, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Painting{})

	if filter.OwnerID != nil {
		q = q.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.Visibility != nil {
		q = q.Where("visibility = ?", *filter.Visibility)
	}
	if filter.HasImage != nil {
		q = q.Where("has_image = ?", *filter.HasImage)
	}
	if filter.Tag != "" {
		// タグはJSON配列として保存されているため、要素のJSON表現で完全一致検索する
		encoded, err := json.Marshal(filter.Tag)
		if err != nil {
			return nil, 0, err
		}
		q = q.Where(`tags LIKE ? ESCAPE '\'`, "%"+escapeLike(string(encoded))+"%")
	}
	if filter.Search != "" {
		s := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		q = q.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, s, s)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*entity.Painting
	if err := q.Preload("Owner").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// Create は新しいフレームをデータベースに追加します。
func (r *paintingGorm) Create(ctx context.Context, p *entity.Painting) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

// FindByOwnerAndFrame は (所有者, フレーム番号) でフレームを取得します。
// 一致しない場合、usecase.ErrFrameNotFoundを返します。
func (r *paintingGorm) FindByOwnerAndFrame(ctx context.Context, ownerID uint, frameNumber int) (*entity.Painting, error) {
	var p entity.Painting
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id = ? AND frame_number = ?", ownerID, frameNumber).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrFrameNotFound
		}
		return nil, err
	}
	return &p, nil
}

// MaxFrameNumber は所有者の最大フレーム番号を返します（フレームがない場合は0）。
func (r *paintingGorm) MaxFrameNumber(ctx context.Context, ownerID uint) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&entity.Painting{}).
		Where("owner_id = ?", ownerID).
		Select("COALESCE(MAX(frame_number), 0)").
		Scan(&max).Error
	return max, err
}

// Save は既存フレームの変更を永続化します。所有者レコードは更新しません。
func (r *paintingGorm) Save(ctx context.Context, p *entity.Painting) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

// Delete はフレームをデータベースから削除します。
func (r *paintingGorm) Delete(ctx context.Context, p *entity.Painting) error {
	return r.db.WithContext(ctx).Delete(&entity.Painting{}, p.ID).Error
}
