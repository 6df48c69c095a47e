// internal/service/listing/domain/listing.go
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"zirako/internal/pkg/apperr"
	rewarddomain "zirako/internal/service/reward/domain"
)

// Kind 是物品的流转方式
type Kind string

const (
	KindSale     Kind = "sale"
	KindDonation Kind = "donation"
	KindExchange Kind = "exchange"
)

// Condition 是物品成色
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like_new"
	ConditionUsed    Condition = "used"
)

// Status 是物品的上架状态
type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusCompleted Status = "completed"
)

const (
	maxTitleLength = 200
	maxImages      = 10
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindSale, KindDonation, KindExchange:
		return k, nil
	}
	return "", apperr.Validation("unknown listing kind %q", s)
}

func ParseCondition(s string) (Condition, error) {
	switch c := Condition(s); c {
	case ConditionNew, ConditionLikeNew, ConditionUsed:
		return c, nil
	}
	return "", apperr.Validation("unknown condition %q", s)
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusAvailable, StatusReserved, StatusCompleted:
		return st, nil
	}
	return "", apperr.Validation("unknown status %q", s)
}

// RewardKind 返回完成该物品时发放给所有者的奖励类型。
// 交换类物品的奖励由交换决定时发放，这里返回 false。
func (k Kind) RewardKind() (rewarddomain.ActionKind, bool) {
	switch k {
	case KindDonation:
		return rewarddomain.ActionDonation, true
	case KindSale:
		return rewarddomain.ActionSale, true
	}
	return "", false
}

// Listing 是发布的物品
type Listing struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description string
	Category    string
	Kind        Kind
	Condition   Condition
	Price       decimal.Decimal
	City        string
	Images      []string
	Status      Status
	Views       int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListingView 是附带发布者信息的物品
type ListingView struct {
	Listing
	OwnerName    string
	OwnerPhone   string
	CategoryName string
}

// Draft 是创建物品时的输入
type Draft struct {
	Title       string
	Description string
	Category    string
	Kind        Kind
	Condition   Condition
	Price       decimal.Decimal
	City        string
	Images      []string
}

// NewListing 校验输入并创建一个 available 状态的物品。
// 捐赠与交换类物品的价格强制为 0。
func NewListing(ownerID int64, d Draft, now time.Time) (*Listing, error) {
	l := &Listing{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Category:    NormalizeCategory(d.Category),
		Kind:        d.Kind,
		Condition:   d.Condition,
		Price:       d.Price,
		City:        strings.TrimSpace(d.City),
		Images:      d.Images,
		Status:      StatusAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if l.Images == nil {
		l.Images = []string{}
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Listing) validate() error {
	if l.Title == "" || l.Description == "" || l.City == "" {
		return apperr.Validation("title, description and city are required")
	}
	if len([]rune(l.Title)) > maxTitleLength {
		return apperr.Validation("title is too long")
	}
	if _, err := ParseKind(string(l.Kind)); err != nil {
		return err
	}
	if _, err := ParseCondition(string(l.Condition)); err != nil {
		return err
	}
	if l.Price.IsNegative() {
		return apperr.Validation("price must not be negative")
	}
	if len(l.Images) > maxImages {
		return apperr.Validation("at most %d images", maxImages)
	}
	if l.Kind != KindSale {
		l.Price = decimal.Zero
	}
	return nil
}

// Patch 是部分更新，nil 字段保持不变
type Patch struct {
	Title       *string
	Description *string
	Category    *string
	Kind        *Kind
	Condition   *Condition
	Price       *decimal.Decimal
	City        *string
	Images      []string
	Status      *Status
}

// Apply 由所有者修改物品。完成状态只能通过 Complete 进入。
func (l *Listing) Apply(actorID int64, p Patch, now time.Time) error {
	if actorID != l.OwnerID {
		return ErrNotOwner
	}
	if l.Status == StatusCompleted {
		return ErrAlreadyCompleted
	}
	if p.Status != nil && *p.Status == StatusCompleted {
		return ErrCompleteViaAction
	}
	if p.Title != nil {
		l.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		l.Description = strings.TrimSpace(*p.Description)
	}
	if p.Category != nil {
		l.Category = NormalizeCategory(*p.Category)
	}
	if p.Kind != nil {
		l.Kind = *p.Kind
	}
	if p.Condition != nil {
		l.Condition = *p.Condition
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.City != nil {
		l.City = strings.TrimSpace(*p.City)
	}
	if p.Images != nil {
		l.Images = p.Images
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	l.UpdatedAt = now
	return l.validate()
}

// CanComplete 校验 actor 能否把物品标记为完成
func (l *Listing) CanComplete(actorID int64) error {
	if actorID != l.OwnerID {
		return ErrNotOwner
	}
	if l.Status == StatusCompleted {
		return ErrAlreadyCompleted
	}
	return nil
}
