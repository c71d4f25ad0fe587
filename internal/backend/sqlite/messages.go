package sqlite

import (
	"context"
	"fmt"

	"taskchat/internal/service"
)

// CreateConversation implements service.MessageStore.
func (s *Store) CreateConversation(ctx context.Context, userID string) (service.Conversation, error) {
	now := s.now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (user_id, created_at, updated_at) VALUES (?, ?, ?)`,
		userID, stamp(now), stamp(now))
	if err != nil {
		return service.Conversation{}, fmt.Errorf("insert conversation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return service.Conversation{}, fmt.Errorf("insert conversation: %w", err)
	}
	return service.Conversation{ID: id, UserID: userID, CreatedAt: now, UpdatedAt: now}, nil
}

// ListConversations implements service.MessageStore.
func (s *Store) ListConversations(ctx context.Context, userID string) ([]service.Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, created_at, updated_at FROM conversations
		 WHERE user_id = ? ORDER BY updated_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	var convs []service.Conversation
	for rows.Next() {
		var (
			c                service.Conversation
			created, updated int64
		)
		if err := rows.Scan(&c.ID, &c.UserID, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		c.CreatedAt = unstamp(created)
		c.UpdatedAt = unstamp(updated)
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

// ListTurns implements service.MessageStore.
func (s *Store) ListTurns(ctx context.Context, conversationID int64, userID string) ([]service.Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, user_id, role, content, created_at FROM messages
		 WHERE conversation_id = ? AND user_id = ? ORDER BY created_at, id`,
		conversationID, userID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var turns []service.Turn
	for rows.Next() {
		var (
			t       service.Turn
			role    string
			created int64
		)
		if err := rows.Scan(&t.ID, &t.ConversationID, &t.UserID, &role, &t.Content, &created); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		t.Role = service.Role(role)
		t.CreatedAt = unstamp(created)
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// AppendTurn implements service.MessageStore. The owning conversation's
// activity time is bumped in the same transaction.
func (s *Store) AppendTurn(ctx context.Context, conversationID int64, userID string, role service.Role, content string) (service.Turn, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return service.Turn{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := stamp(s.now())
	res, err := tx.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, user_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		conversationID, userID, string(role), content, now)
	if err != nil {
		return service.Turn{}, fmt.Errorf("insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return service.Turn{}, fmt.Errorf("insert message: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE conversations SET updated_at = ? WHERE id = ? AND user_id = ?`,
		now, conversationID, userID); err != nil {
		return service.Turn{}, fmt.Errorf("touch conversation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return service.Turn{}, fmt.Errorf("commit: %w", err)
	}
	return service.Turn{
		ID:             id,
		ConversationID: conversationID,
		UserID:         userID,
		Role:           role,
		Content:        content,
		CreatedAt:      unstamp(now),
	}, nil
}
