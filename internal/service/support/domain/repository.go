// internal/service/support/domain/repository.go
package domain

import "context"

// Repository 定义了工单的持久化接口。
type Repository interface {
	Insert(ctx context.Context, t *Ticket) error
	// ListByAccount 返回账户提交的工单，最新的在前；status 为 nil 时不过滤
	ListByAccount(ctx context.Context, accountID int64, status *Status) ([]Ticket, error)
}
