// internal/service/pickup/application/dto.go
package application

import (
	"time"

	"zirako/internal/service/pickup/domain"
)

// ScheduleRequest 是预约回收的请求体
type ScheduleRequest struct {
	Address     string `json:"address"`
	City        string `json:"city"`
	Date        string `json:"date"`
	Slot        string `json:"slot"`
	Description string `json:"description"`
}

func (r *ScheduleRequest) Validate() error {
	if r.Address == "" || r.City == "" || r.Date == "" || r.Slot == "" || r.Description == "" {
		return domain.ErrMissingFields
	}
	return nil
}

func (r *ScheduleRequest) request() domain.Request {
	return domain.Request{Address: r.Address, City: r.City, Date: r.Date, Slot: r.Slot, Description: r.Description}
}

// PickupResponse 是预约的对外表示
type PickupResponse struct {
	ID             int64      `json:"id"`
	Reference      string     `json:"reference"`
	Address        string     `json:"address"`
	City           string     `json:"city"`
	Date           string     `json:"date"`
	Slot           string     `json:"slot"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ScheduleResult 附带本次预约获得的积分
type ScheduleResult struct {
	PickupResponse
	PointsEarned int64 `json:"points_earned"`
}

func ToPickupResponse(p *domain.Pickup) PickupResponse {
	return PickupResponse{
		ID:             p.ID,
		Reference:      p.Reference(),
		Address:        p.Address,
		City:           p.City,
		Date:           p.DateString(),
		Slot:           p.Slot,
		Description:    p.Description,
		Status:         string(p.Status),
		ReminderSentAt: p.ReminderSentAt,
		CreatedAt:      p.CreatedAt,
	}
}

func ToPickupResponses(ps []domain.Pickup) []PickupResponse {
	out := make([]PickupResponse, 0, len(ps))
	for i := range ps {
		out = append(out, ToPickupResponse(&ps[i]))
	}
	return out
}
