// internal/service/exchange/application/dto.go
package application

import (
	"time"

	"zirako/internal/pkg/apperr"
	"zirako/internal/service/exchange/domain"
)

// ProposeRequest 是发起交换的请求体
type ProposeRequest struct {
	OfferedListingID   int64  `json:"offered_listing_id"`
	RequestedListingID int64  `json:"requested_listing_id"`
	Message            string `json:"message,omitempty"`
}

func (r *ProposeRequest) Validate() error {
	if r.OfferedListingID <= 0 || r.RequestedListingID <= 0 {
		return apperr.Validation("offered_listing_id and requested_listing_id are required")
	}
	if r.OfferedListingID == r.RequestedListingID {
		return apperr.Validation("offered and requested listings must differ")
	}
	return nil
}

// DecideRequest 是接收方决定提议的请求体
type DecideRequest struct {
	Decision string `json:"decision"`

	Status domain.Status `json:"-"`
}

func (r *DecideRequest) Validate() error {
	st, err := domain.ParseDecision(r.Decision)
	if err != nil {
		return err
	}
	r.Status = st
	return nil
}

// ProposalResponse 是提议的对外表示
type ProposalResponse struct {
	ID                 int64      `json:"id"`
	ProposerID         int64      `json:"proposer_id"`
	ReceiverID         int64      `json:"receiver_id"`
	OfferedListingID   int64      `json:"offered_listing_id"`
	RequestedListingID int64      `json:"requested_listing_id"`
	Message            string     `json:"message,omitempty"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	DecidedAt          *time.Time `json:"decided_at,omitempty"`

	OfferedTitle   string `json:"offered_title,omitempty"`
	RequestedTitle string `json:"requested_title,omitempty"`
	ProposerName   string `json:"proposer_name,omitempty"`
	ReceiverName   string `json:"receiver_name,omitempty"`
}

func ToProposalResponse(p *domain.Proposal) ProposalResponse {
	return ProposalResponse{
		ID:                 p.ID,
		ProposerID:         p.ProposerID,
		ReceiverID:         p.ReceiverID,
		OfferedListingID:   p.OfferedListingID,
		RequestedListingID: p.RequestedListingID,
		Message:            p.Message,
		Status:             string(p.Status),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
		DecidedAt:          p.DecidedAt,
	}
}

func ToProposalViewResponses(views []domain.ProposalView) []ProposalResponse {
	out := make([]ProposalResponse, 0, len(views))
	for i := range views {
		resp := ToProposalResponse(&views[i].Proposal)
		resp.OfferedTitle = views[i].OfferedTitle
		resp.RequestedTitle = views[i].RequestedTitle
		resp.ProposerName = views[i].ProposerName
		resp.ReceiverName = views[i].ReceiverName
		out = append(out, resp)
	}
	return out
}
