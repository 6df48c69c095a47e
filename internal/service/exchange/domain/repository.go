// internal/service/exchange/domain/repository.go
package domain

import (
	"context"
	"time"
)

// ProposalView 是列表接口返回的提议，附带物品标题与双方名称
type ProposalView struct {
	Proposal
	OfferedTitle   string
	RequestedTitle string
	ProposerName   string
	ReceiverName   string
}

// ProposalRepository 定义了交换提议的持久化接口。
type ProposalRepository interface {
	// Get 按 ID 读取提议，不存在时返回 ErrProposalNotFound
	Get(ctx context.Context, id int64) (*Proposal, error)

	// Insert 保存新提议并回填 ID
	Insert(ctx context.Context, p *Proposal) error

	// UpdateStatus 仅当当前状态为 from 时更新为 to；
	// 条件不满足（已被并发决定）时返回 ErrAlreadyDecided。
	UpdateStatus(ctx context.Context, id int64, from, to Status, at time.Time) error

	// ListForAccount 返回账户作为发起方或接收方的提议，按创建时间倒序
	ListForAccount(ctx context.Context, accountID int64, status *Status) ([]ProposalView, error)
}
