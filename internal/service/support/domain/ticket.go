// internal/service/support/domain/ticket.go
package domain

import (
	"regexp"
	"strings"
	"time"

	"zirako/internal/pkg/apperr"
)

// Priority 是工单优先级
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority 解析优先级，兼容西班牙语写法
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "baja":
		return PriorityLow, true
	case "medium", "media":
		return PriorityMedium, true
	case "high", "alta":
		return PriorityHigh, true
	}
	return "", false
}

// Status 是工单状态
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// ParseStatusFilter 解析列表过滤条件，空串表示不过滤
func ParseStatusFilter(s string) (*Status, error) {
	if s == "" {
		return nil, nil
	}
	st := Status(s)
	switch st {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return &st, nil
	}
	return nil, apperr.Validation("invalid status %q", s)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Contact 是联系人信息，支持未注册用户
type Contact struct {
	Name  string
	Email string
}

func (c Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Email) == "" {
		return ErrMissingFields
	}
	if !emailPattern.MatchString(strings.TrimSpace(c.Email)) {
		return apperr.Validation("Formato de email inválido")
	}
	return nil
}

// Ticket 是一张支持工单；AccountID 为 nil 表示匿名提交
type Ticket struct {
	ID        int64
	AccountID *int64
	Contact
	Subject   string
	Message   string
	Category  string
	Priority  Priority
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Draft 是创建工单的输入
type Draft struct {
	Contact
	Subject  string
	Message  string
	Category string
}

func (d Draft) Validate() error {
	if strings.TrimSpace(d.Subject) == "" || strings.TrimSpace(d.Message) == "" {
		return ErrMissingFields
	}
	return d.Contact.Validate()
}

// Facts 返回供分诊规则使用的字段
func (d Draft) Facts(registered bool) Facts {
	return Facts{
		Subject:    strings.TrimSpace(d.Subject),
		Message:    strings.TrimSpace(d.Message),
		Category:   strings.ToLower(strings.TrimSpace(d.Category)),
		Registered: registered,
	}
}

// NewTicket 创建一张 open 状态的工单
func NewTicket(accountID int64, d Draft, priority Priority, now time.Time) *Ticket {
	t := &Ticket{
		Contact:   Contact{Name: strings.TrimSpace(d.Name), Email: strings.ToLower(strings.TrimSpace(d.Email))},
		Subject:   strings.TrimSpace(d.Subject),
		Message:   strings.TrimSpace(d.Message),
		Category:  strings.ToLower(strings.TrimSpace(d.Category)),
		Priority:  priority,
		Status:    StatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if accountID != 0 {
		t.AccountID = &accountID
	}
	return t
}
