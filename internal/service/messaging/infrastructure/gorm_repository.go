// internal/service/messaging/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"zirako/internal/pkg/database"
	"zirako/internal/service/messaging/domain"
)

// GormMessageRepository 是 domain.Repository 的 GORM 实现。
type GormMessageRepository struct {
	db *gorm.DB
}

func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) Insert(ctx context.Context, m *domain.Message) error {
	model := toMessageModel(m)
	if err := database.Conn(ctx, r.db).Create(model).Error; err != nil {
		return errors.Wrap(err, "insert message")
	}
	m.ID = model.ID
	return nil
}

type messageViewRow struct {
	MessageModel
	SenderName    string
	RecipientName string
}

func (r *GormMessageRepository) Conversation(ctx context.Context, a, b int64) ([]domain.MessageView, error) {
	var rows []messageViewRow
	err := database.Conn(ctx, r.db).Table("messages AS m").
		Select("m.*, s.name AS sender_name, rc.name AS recipient_name").
		Joins("JOIN accounts s ON s.id = m.sender_id").
		Joins("JOIN accounts rc ON rc.id = m.recipient_id").
		Where("(m.sender_id = ? AND m.recipient_id = ?) OR (m.sender_id = ? AND m.recipient_id = ?)", a, b, b, a).
		Order("m.created_at ASC, m.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "load conversation")
	}
	out := make([]domain.MessageView, 0, len(rows))
	for i := range rows {
		out = append(out, domain.MessageView{
			Message:       toDomainMessage(&rows[i].MessageModel),
			SenderName:    rows[i].SenderName,
			RecipientName: rows[i].RecipientName,
		})
	}
	return out, nil
}

func (r *GormMessageRepository) MarkRead(ctx context.Context, recipientID, senderID int64, at time.Time) (int64, error) {
	res := database.Conn(ctx, r.db).Model(&MessageModel{}).
		Where("recipient_id = ? AND sender_id = ? AND is_read = ?", recipientID, senderID, false).
		Updates(map[string]any{"is_read": true, "read_at": at})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "mark messages read")
	}
	return res.RowsAffected, nil
}

type conversationRow struct {
	CounterpartID int64
	LastID        int64
	Unread        int64
}

// Conversations 先按对方账户聚合出最后一条私信与未读数，再批量读取私信内容与对方名称
func (r *GormMessageRepository) Conversations(ctx context.Context, accountID int64) ([]domain.ConversationSummary, error) {
	conn := database.Conn(ctx, r.db)

	var groups []conversationRow
	err := conn.Raw(`SELECT CASE WHEN sender_id = ? THEN recipient_id ELSE sender_id END AS counterpart_id,
		MAX(id) AS last_id,
		SUM(CASE WHEN recipient_id = ? AND is_read = FALSE THEN 1 ELSE 0 END) AS unread
		FROM messages
		WHERE sender_id = ? OR recipient_id = ?
		GROUP BY counterpart_id`, accountID, accountID, accountID, accountID).
		Scan(&groups).Error
	if err != nil {
		return nil, errors.Wrap(err, "aggregate conversations")
	}
	if len(groups) == 0 {
		return nil, nil
	}

	lastIDs := make([]int64, 0, len(groups))
	counterpartIDs := make([]int64, 0, len(groups))
	for _, g := range groups {
		lastIDs = append(lastIDs, g.LastID)
		counterpartIDs = append(counterpartIDs, g.CounterpartID)
	}

	var last []MessageModel
	if err := conn.Where("id IN ?", lastIDs).Find(&last).Error; err != nil {
		return nil, errors.Wrap(err, "load last messages")
	}
	byID := make(map[int64]MessageModel, len(last))
	for _, m := range last {
		byID[m.ID] = m
	}

	var names []struct {
		ID   int64
		Name string
	}
	if err := conn.Table("accounts").Select("id, name").Where("id IN ?", counterpartIDs).Scan(&names).Error; err != nil {
		return nil, errors.Wrap(err, "load counterpart names")
	}
	nameOf := make(map[int64]string, len(names))
	for _, n := range names {
		nameOf[n.ID] = n.Name
	}

	out := make([]domain.ConversationSummary, 0, len(groups))
	for _, g := range groups {
		m := byID[g.LastID]
		out = append(out, domain.ConversationSummary{
			CounterpartID:   g.CounterpartID,
			CounterpartName: nameOf[g.CounterpartID],
			LastMessage:     m.Content,
			LastMessageAt:   m.CreatedAt,
			Unread:          g.Unread,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessageAt.After(out[j].LastMessageAt) })
	return out, nil
}
