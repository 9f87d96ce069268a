// Package entity はgalleryフィーチャーのドメインエンティティを定義します。
package entity

import (
	"time"

	authentity "github.com/giapdoan01/BEArtGallery/internal/feature/auth/domain/entity"
)

// Visibility はフレームの公開範囲を表す閉じた列挙型です。
type Visibility string

const (
	// VisibilityPrivate は所有者のみが閲覧できる状態です（デフォルト）。
	VisibilityPrivate Visibility = "private"
	// VisibilityPublic は誰でも閲覧できる状態です。
	VisibilityPublic Visibility = "public"
	// VisibilityUnlisted はURLを知っている人のみが閲覧できる状態です。
	VisibilityUnlisted Visibility = "unlisted"
)

// IsValid は公開範囲が定義済みの値かどうかを返します。
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPrivate, VisibilityPublic, VisibilityUnlisted:
		return true
	}
	return false
}

// DefaultFrameCount は登録時に自動作成されるデフォルトフレームの数です。
// フレーム番号1〜DefaultFrameCountは削除できません。
const DefaultFrameCount = 10

// Painting はユーザーが所有する番号付きの額縁（フレーム）を表します。
// (OwnerID, FrameNumber) の組はユーザーごとに一意です。
type Painting struct {
	ID uint `gorm:"primaryKey"`

	// OwnerID はこのフレームを所有するユーザーのIDです。登録後は不変です。
	OwnerID uint `gorm:"not null;uniqueIndex:uq_paintings_owner_frame"`

	// Owner は所有者のユーザーレコードです。レスポンスのowner_usernameに使用します。
	Owner authentity.User `gorm:"foreignKey:OwnerID"`

	// FrameNumber は所有者ごとの連番です。登録後は不変です。
	FrameNumber int `gorm:"not null;uniqueIndex:uq_paintings_owner_frame"`

	Title       string `gorm:"size:255"`
	Description string `gorm:"type:text"`

	// ImageURL / ThumbnailURL / MediaAssetID は画像添付時のみ設定されます。
	// MediaAssetID は画像ホストが発行する不透明な識別子で、削除時に使用します。
	ImageURL     string `gorm:"size:512"`
	ThumbnailURL string `gorm:"size:512"`
	MediaAssetID string `gorm:"size:255"`

	Visibility Visibility `gorm:"size:16;not null;default:private"`

	// Tags はJSONとして直列化された順序付きタグリストです。
	Tags []string `gorm:"serializer:json;type:text"`

	// HasImage はImageURLとMediaAssetIDの両方が設定されている場合のみtrueです。
	HasImage bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDefaultFrame はこのフレームが削除保護の対象かどうかを返します。
// 判定は番号のみに基づきます。
func (p *Painting) IsDefaultFrame() bool {
	return p.FrameNumber <= DefaultFrameCount
}
