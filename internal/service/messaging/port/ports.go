// internal/service/messaging/port/ports.go
package port

import (
	"context"

	"zirako/internal/service/messaging/domain"
)

// AccountReader 读取私信参与者；账户不存在时返回 (nil, nil)
type AccountReader interface {
	FindParticipant(ctx context.Context, id int64) (*domain.Participant, error)
}

// ListingReader 读取关联物品；物品不存在时返回 (nil, nil)
type ListingReader interface {
	FindListing(ctx context.Context, id int64) (*domain.ListingRef, error)
}

// ChatPublisher 把新私信推送给在线的收件人，失败不影响发送结果
type ChatPublisher interface {
	PublishChat(ctx context.Context, e *domain.ChatEvent) error
}

// OwnerNotifier 以邮件联系物品发布者
type OwnerNotifier interface {
	ContactOwner(ctx context.Context, sender *domain.Participant, listing *domain.ListingRef, message string) error
}

// TxManager 在同一个数据库事务中执行 fn
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
