package service

import "context"

// RealtimeNotifier は接続中ユーザーへのサーバー起点プッシュを定義します
// 配信はfire-and-forget（at-most-once）であり、未接続ユーザー宛の
// イベントはキューイングされず破棄されます
type RealtimeNotifier interface {
	// Notify はイベントを指定ユーザーに送信します
	// ユーザーが接続中で送信キューに載った場合にtrueを返します
	Notify(ctx context.Context, userID string, event any) bool

	// IsOnline はユーザーが現在接続中かを返します
	IsOnline(userID string) bool
}
