package repository

import (
	"github.com/minglehq/mingle/internal/domain"
)

type LocalChatHeadRepository struct {
	db *DB
}

func newLocalChatHeadRepository(db *DB) LocalChatHeadRepository {
	return LocalChatHeadRepository{db}
}

// ReplaceChatHeads swaps the cached snapshot for the given one,
// heads with pending ids are skipped
func (r LocalChatHeadRepository) ReplaceChatHeads(heads ...*domain.ChatHead) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err = tx.Exec(`DELETE FROM chat_heads`); err != nil {
		return err
	}
	query := `
		INSERT INTO chat_heads (id, sender_id, sender_name, sender_avatar,
		                        receiver_id, receiver_name, receiver_avatar,
		                        last_message, last_message_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, h := range heads {
		if h.ID.Pending() {
			continue
		}
		args := []any{
			h.ID.Server,
			h.Sender.ID, h.Sender.Name, h.Sender.AvatarURL,
			h.Receiver.ID, h.Receiver.Name, h.Receiver.AvatarURL,
			h.LastMessage, fmtTime(h.LastMessageAt),
		}
		if _, err = tx.Exec(query, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r LocalChatHeadRepository) GetChatHeads() ([]*domain.ChatHead, error) {
	query := `
		SELECT id, sender_id, sender_name, sender_avatar,
		       receiver_id, receiver_name, receiver_avatar,
		       last_message, last_message_at
		FROM chat_heads
		ORDER BY last_message_at DESC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	heads := make([]*domain.ChatHead, 0)
	for rows.Next() {
		var h domain.ChatHead
		var id string
		var lastMsgAt *string
		args := []any{
			&id,
			&h.Sender.ID, &h.Sender.Name, &h.Sender.AvatarURL,
			&h.Receiver.ID, &h.Receiver.Name, &h.Receiver.AvatarURL,
			&h.LastMessage, &lastMsgAt,
		}
		if err = rows.Scan(args...); err != nil {
			return nil, err
		}
		h.ID = domain.ServerID(id)
		if t, terr := parseTime(lastMsgAt); terr == nil && t != nil {
			h.LastMessageAt = *t
		}
		heads = append(heads, &h)
	}
	return heads, rows.Err()
}
