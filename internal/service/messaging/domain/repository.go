// internal/service/messaging/domain/repository.go
package domain

import (
	"context"
	"time"
)

// Repository 定义了私信的持久化接口。
type Repository interface {
	Insert(ctx context.Context, m *Message) error
	// Conversation 返回两个账户之间的全部私信，按时间升序
	Conversation(ctx context.Context, a, b int64) ([]MessageView, error)
	// MarkRead 把 sender 发给 recipient 的未读私信标记为已读，返回更新数量
	MarkRead(ctx context.Context, recipientID, senderID int64, at time.Time) (int64, error)
	// Conversations 返回账户的会话列表，最近活跃的在前
	Conversations(ctx context.Context, accountID int64) ([]ConversationSummary, error)
}
