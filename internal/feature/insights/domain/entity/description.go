package entity

// ArtworkDescription は作品の説明文生成結果を表します。
type ArtworkDescription struct {
	Title       string // 説明対象の作品タイトル
	Description string // AI生成の説明文
}
