// internal/service/pickup/domain/pickup.go
package domain

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// Status 是回收预约的状态
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Slots 是可预约的时间段
var Slots = []string{"08:00 - 10:00", "10:00 - 12:00", "12:00 - 14:00", "14:00 - 16:00", "16:00 - 18:00"}

// Zone 是预约日期所在的时区（哥伦比亚，无夏令时）
var Zone = time.FixedZone("COT", -5*60*60)

// Pickup 是一次上门回收预约
type Pickup struct {
	ID             int64
	AccountID      int64
	Address        string
	City           string
	Date           time.Time
	Slot           string
	Description    string
	Status         Status
	ReminderSentAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Request 是预约输入，日期格式为 YYYY-MM-DD
type Request struct {
	Address     string
	City        string
	Date        string
	Slot        string
	Description string
}

// NewPickup 校验输入并创建待确认的预约，日期按 Zone 判断不得早于今天
func NewPickup(accountID int64, r Request, now time.Time) (*Pickup, error) {
	address := strings.TrimSpace(r.Address)
	city := strings.TrimSpace(r.City)
	slot := strings.TrimSpace(r.Slot)
	desc := strings.TrimSpace(r.Description)
	if address == "" || city == "" || r.Date == "" || slot == "" || desc == "" {
		return nil, ErrMissingFields
	}
	date, err := ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	if date.Before(Today(now)) {
		return nil, ErrDateInPast
	}
	if !slices.Contains(Slots, slot) {
		return nil, ErrInvalidSlot
	}
	return &Pickup{
		AccountID:   accountID,
		Address:     address,
		City:        city,
		Date:        date,
		Slot:        slot,
		Description: desc,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ParseDate 解析 YYYY-MM-DD，也接受 RFC3339 时间戳并取其日期部分
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseInLocation(time.DateOnly, s, Zone); err == nil {
		return d, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.In(Zone).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, Zone), nil
	}
	return time.Time{}, ErrInvalidDate
}

// Today 返回 now 在 Zone 中的日期零点
func Today(now time.Time) time.Time {
	y, m, d := now.In(Zone).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, Zone)
}

// Cancellable 报告预约当前是否可以取消
func (p *Pickup) Cancellable() bool {
	return p.Status == StatusPending || p.Status == StatusConfirmed
}

// Cancel 校验操作人与状态，持久化时仍需以当前状态为条件更新
func (p *Pickup) Cancel(actorID int64, now time.Time) error {
	if p.AccountID != actorID {
		return ErrNotOwner
	}
	if !p.Cancellable() {
		return ErrNotCancellable
	}
	p.Status = StatusCancelled
	p.UpdatedAt = now
	return nil
}

// DateString 返回 YYYY-MM-DD 形式的预约日期
func (p *Pickup) DateString() string {
	return p.Date.In(Zone).Format(time.DateOnly)
}

// Reference 返回展示给用户的预约编号
func (p *Pickup) Reference() string {
	return "REC-" + strconv.FormatInt(p.ID, 10)
}
