// internal/service/exchange/domain/state.go
package domain

import "zirako/internal/pkg/apperr"

// Status 定义了交换提议的生命周期状态
type Status string

const (
	StatusPending  Status = "pending"  // 等待接收方决定
	StatusAccepted Status = "accepted" // 已接受，双方获得交换奖励（终态）
	StatusRejected Status = "rejected" // 已拒绝（终态）
)

// IsTerminal 判断状态是否不可再变更
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// ParseDecision 校验接收方提交的决定，只接受 accepted 与 rejected
func ParseDecision(s string) (Status, error) {
	switch Status(s) {
	case StatusAccepted, StatusRejected:
		return Status(s), nil
	default:
		return "", apperr.Validation("decision must be %q or %q", StatusAccepted, StatusRejected)
	}
}

// ParseStatusFilter 校验列表查询的状态过滤条件，空串表示不过滤
func ParseStatusFilter(s string) (*Status, error) {
	if s == "" {
		return nil, nil
	}
	switch st := Status(s); st {
	case StatusPending, StatusAccepted, StatusRejected:
		return &st, nil
	default:
		return nil, apperr.Validation("unknown status %q", s)
	}
}
