// Package entity はinsightsフィーチャーのドメインモデルを定義します。
package entity

// Label は画像から検出されたラベルを表します。
type Label struct {
	Name  string  // 検出されたラベル名
	Score float32 // 信頼度スコア（0.0 ~ 1.0）
}
