// internal/service/exchange/domain/proposal.go
package domain

import (
	"time"
	"unicode/utf8"
)

const maxMessageLength = 1000

// Listing 是交换流程需要的物品信息
type Listing struct {
	ID      int64
	OwnerID int64
	Title   string
}

// Proposal 是交换提议聚合的根实体
type Proposal struct {
	ID                 int64
	ProposerID         int64
	ReceiverID         int64
	OfferedListingID   int64
	RequestedListingID int64
	Message            string
	Status             Status
	CreatedAt          time.Time
	UpdatedAt          time.Time
	// DecidedAt 在决定之前为 nil
	DecidedAt *time.Time
}

// NewProposal 创建一个待决定的交换提议。
// offered 为 nil 或不属于发起人时视为无权操作；requested 为 nil 时视为不存在。
// 接收方总是 requested 物品的所有者。
func NewProposal(proposerID int64, offered, requested *Listing, message string, now time.Time) (*Proposal, error) {
	if offered == nil || offered.OwnerID != proposerID {
		return nil, ErrNotOwner
	}
	if requested == nil {
		return nil, ErrRequestedListingNotFound
	}
	if requested.OwnerID == proposerID {
		return nil, ErrSelfExchange
	}
	if utf8.RuneCountInString(message) > maxMessageLength {
		return nil, ErrMessageTooLong
	}
	return &Proposal{
		ProposerID:         proposerID,
		ReceiverID:         requested.OwnerID,
		OfferedListingID:   offered.ID,
		RequestedListingID: requested.ID,
		Message:            message,
		Status:             StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// Decide 由接收方接受或拒绝提议。
// 这里只做内存中的状态流转，持久化时仍需以 pending 为条件更新。
func (p *Proposal) Decide(actorID int64, decision Status, now time.Time) error {
	if actorID != p.ReceiverID {
		return ErrNotReceiver
	}
	if p.Status != StatusPending {
		return ErrAlreadyDecided
	}
	if decision != StatusAccepted && decision != StatusRejected {
		_, err := ParseDecision(string(decision))
		return err
	}
	p.Status = decision
	p.UpdatedAt = now
	p.DecidedAt = &now
	return nil
}
