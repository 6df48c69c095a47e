// internal/service/pickup/domain/repository.go
package domain

import (
	"context"
	"time"
)

// Repository 定义了回收预约的持久化接口。
type Repository interface {
	Insert(ctx context.Context, p *Pickup) error
	Get(ctx context.Context, id int64) (*Pickup, error)
	ListByAccount(ctx context.Context, accountID int64) ([]Pickup, error)

	// Cancel 仅当状态仍为 pending 或 confirmed 时改为 cancelled，否则返回 ErrNotCancellable
	Cancel(ctx context.Context, id int64, at time.Time) error

	// DueForReminder 返回指定日期、未取消且尚未提醒的预约
	DueForReminder(ctx context.Context, date time.Time, limit int) ([]Pickup, error)

	// MarkReminded 以 reminder_sent_at IS NULL 为条件写入提醒时间，已提醒时返回 ErrReminderAlreadySet
	MarkReminded(ctx context.Context, id int64, at time.Time) error
}
