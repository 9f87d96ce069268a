package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/giapdoan01/BEArtGallery/internal/feature/gallery/domain/entity"
)

const (
	// MaxImageSize は画像アップロードの最大サイズ（10MB）です。
	MaxImageSize = 10 * 1024 * 1024
	// DefaultPageLimit は一覧取得のデフォルト件数です。
	DefaultPageLimit = 10
	// MaxPageLimit は一覧取得の最大件数です。
	MaxPageLimit = 100
)

// ListFilter は一覧取得の絞り込み条件です。nilのフィールドは条件なしを意味します。
type ListFilter struct {
	OwnerID    *uint
	Visibility *entity.Visibility
	HasImage   *bool // 三値: nil=指定なし / true / false
	Tag        string
	Search     string
}

// PageResult は一覧取得の1ページ分の結果とメタ情報です。
type PageResult struct {
	Items      []*entity.Painting
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// MetadataUpdate はメタデータ部分更新の入力です。nilのフィールドは変更しません。
type MetadataUpdate struct {
	Title       *string
	Description *string
	Visibility  *entity.Visibility
	Tags        *[]string
}

// PaintingRepository はフレームエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type PaintingRepository interface {
	// List は条件に一致するフレームのページと総件数を返します。
	List(ctx context.Context, filter ListFilter, offset, limit int) ([]*entity.Painting, int64, error)

	// Create は新しいフレームを永続化します。
	Create(ctx context.Context, p *entity.Painting) error

	// FindByOwnerAndFrame は (所有者, フレーム番号) でフレームを取得します。
	// 一致しない場合、ErrFrameNotFoundを返します。
	FindByOwnerAndFrame(ctx context.Context, ownerID uint, frameNumber int) (*entity.Painting, error)

	// MaxFrameNumber は所有者の最大フレーム番号を返します（フレームがない場合は0）。
	MaxFrameNumber(ctx context.Context, ownerID uint) (int, error)

	// Save は既存フレームの変更を永続化します。
	Save(ctx context.Context, p *entity.Painting) error

	// Delete はフレームを削除します。
	Delete(ctx context.Context, p *entity.Painting) error
}

// MediaAsset は画像ホストにアップロードされた資産への参照です。
type MediaAsset struct {
	AssetID      string // ホストが発行する不透明な識別子（削除時に使用）
	URL          string
	ThumbnailURL string
}

// MediaRepository は外部画像ホストとのやり取りを抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/media）ではなくコンシューマー（usecase）が定義します。
type MediaRepository interface {
	// Upload は画像をアップロードし、URL・サムネイルURL・資産IDを返します。
	// 同一フレームへの再アップロードは同じパスを上書きします。
	Upload(ctx context.Context, ownerID uint, frameNumber int, data []byte) (*MediaAsset, error)

	// Destroy は資産IDで画像を削除します。
	Destroy(ctx context.Context, assetID string) error

	// DeleteFolder はフレームの保存フォルダごと削除します。
	DeleteFolder(ctx context.Context, ownerID uint, frameNumber int) error
}

// paintingUsecase はフレーム操作のビジネスロジックを実装します。
type paintingUsecase struct {
	paintings PaintingRepository
	media     MediaRepository
}

// NewPaintingUsecase はpaintingUsecaseの新しいインスタンスを生成します。
func NewPaintingUsecase(paintings PaintingRepository, media MediaRepository) *paintingUsecase {
	return &paintingUsecase{paintings: paintings, media: media}
}

// List は絞り込み条件とページ番号で一覧を取得します。
// ページは1始まり、件数は1〜MaxPageLimitに正規化されます。
//
// 一覧は詳細取得と異なり他ユーザーのprivateフレームを除外しません。
// 元システムの公開契約をそのまま維持しています（DESIGN.md参照）。
func (u *paintingUsecase) List(ctx context.Context, filter ListFilter, page, limit int) (*PageResult, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	offset := (page - 1) * limit
	items, total, err := u.paintings.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &PageResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// CreateFrame は次のフレーム番号（最大値+1）で新しいフレームを作成します。
// タイトル未指定時は "Frame {n}"、公開範囲未指定時はprivateになります。
func (u *paintingUsecase) CreateFrame(ctx context.Context, ownerID uint, title, description string, visibility entity.Visibility, tags []string) (*entity.Painting, error) {
	if visibility == "" {
		visibility = entity.VisibilityPrivate
	}
	if !visibility.IsValid() {
		return nil, ErrInvalidVisibility
	}

	maxFrame, err := u.paintings.MaxFrameNumber(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	frameNumber := maxFrame + 1

	if title == "" {
		title = fmt.Sprintf("Frame %d", frameNumber)
	}
	if tags == nil {
		tags = []string{}
	}

	p := &entity.Painting{
		OwnerID:     ownerID,
		FrameNumber: frameNumber,
		Title:       title,
		Description: description,
		Visibility:  visibility,
		Tags:        tags,
		HasImage:    false,
	}
	if err := u.paintings.Create(ctx, p); err != nil {
		return nil, err
	}
	// レスポンスにはowner_usernameが含まれるため、Ownerをロードした状態で返す
	return u.paintings.FindByOwnerAndFrame(ctx, ownerID, frameNumber)
}

// GetDetail はフレームの詳細を取得します。
// ownerIDがnilの場合は認証済みリクエスターを所有者として扱います。
// privateフレームは所有者本人のみが閲覧できます。
func (u *paintingUsecase) GetDetail(ctx context.Context, requesterID uint, ownerID *uint, frameNumber int) (*entity.Painting, error) {
	lookupOwner := requesterID
	if ownerID != nil {
		lookupOwner = *ownerID
	} else if requesterID == 0 {
		// 所有者未指定かつ未認証では対象を特定できない
		return nil, ErrAuthRequired
	}

	p, err := u.paintings.FindByOwnerAndFrame(ctx, lookupOwner, frameNumber)
	if err != nil {
		return nil, err
	}

	if p.Visibility == entity.VisibilityPrivate && p.OwnerID != requesterID {
		return nil, ErrPermissionDenied
	}
	return p, nil
}

// UpdateMetadata はメタデータ（タイトル・説明・公開範囲・タグ）を部分更新します。
// 所有者スコープの検索のみで所有権を強制するため、他人のフレームは
// 「存在しない」のと区別がつきません。フレーム番号と所有者は不変です。
func (u *paintingUsecase) UpdateMetadata(ctx context.Context, ownerID uint, frameNumber int, upd MetadataUpdate) (*entity.Painting, error) {
	if upd.Visibility != nil && !upd.Visibility.IsValid() {
		return nil, ErrInvalidVisibility
	}

	p, err := u.paintings.FindByOwnerAndFrame(ctx, ownerID, frameNumber)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Visibility != nil {
		p.Visibility = *upd.Visibility
	}
	if upd.Tags != nil {
		p.Tags = *upd.Tags
	}

	if err := u.paintings.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AttachImage は画像をフレームにアップロードして添付します。
// 既存の画像がある場合はベストエフォートで削除してから差し替えます
// （削除失敗はログのみで処理を継続します）。
func (u *paintingUsecase) AttachImage(ctx context.Context, ownerID uint, frameNumber int, data []byte) (*entity.Painting, error) {
	if len(data) == 0 {
		return nil, ErrNoImageData
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	p, err := u.paintings.FindByOwnerAndFrame(ctx, ownerID, frameNumber)
	if err != nil {
		return nil, err
	}

	// 旧画像の削除はベストエフォート
	if p.HasImage && p.MediaAssetID != "" {
		if err := u.media.Destroy(ctx, p.MediaAssetID); err != nil {
			slog.Warn("failed to delete old image", "asset_id", p.MediaAssetID, "error", err)
		}
	}

	asset, err := u.media.Upload(ctx, ownerID, frameNumber, data)
	if err != nil {
		return nil, fmt.Errorf("media upload failed: %w", err)
	}

	p.ImageURL = asset.URL
	p.ThumbnailURL = asset.ThumbnailURL
	p.MediaAssetID = asset.AssetID
	p.HasImage = true

	if err := u.paintings.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DetachImage はフレームから画像を取り外します。フレーム自体は残ります。
func (u *paintingUsecase) DetachImage(ctx context.Context, ownerID uint, frameNumber int) (*entity.Painting, error) {
	p, err := u.paintings.FindByOwnerAndFrame(ctx, ownerID, frameNumber)
	if err != nil {
		return nil, err
	}
	if !p.HasImage {
		return nil, ErrNoImage
	}

	if p.MediaAssetID != "" {
		if err := u.media.Destroy(ctx, p.MediaAssetID); err != nil {
			return nil, fmt.Errorf("media delete failed: %w", err)
		}
	}

	p.ImageURL = ""
	p.ThumbnailURL = ""
	p.MediaAssetID = ""
	p.HasImage = false

	if err := u.paintings.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteFrame はフレームを完全に削除します。
// デフォルトフレーム（1〜10番）は番号のみで判定して保護します。
// 画像・フォルダの削除はベストエフォートです。
func (u *paintingUsecase) DeleteFrame(ctx context.Context, ownerID uint, frameNumber int) error {
	if frameNumber <= entity.DefaultFrameCount {
		return ErrProtectedFrame
	}

	p, err := u.paintings.FindByOwnerAndFrame(ctx, ownerID, frameNumber)
	if err != nil {
		return err
	}

	if p.HasImage && p.MediaAssetID != "" {
		if err := u.media.Destroy(ctx, p.MediaAssetID); err != nil {
			slog.Warn("failed to delete image for frame", "asset_id", p.MediaAssetID, "error", err)
		}
		if err := u.media.DeleteFolder(ctx, ownerID, frameNumber); err != nil {
			slog.Warn("failed to delete media folder", "owner_id", ownerID, "frame_number", frameNumber, "error", err)
		}
	}

	return u.paintings.Delete(ctx, p)
}
