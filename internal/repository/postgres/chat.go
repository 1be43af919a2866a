package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pitstop/pitstop-api/internal/model"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
)

func (r *chatRepository) CreateConversation(ctx context.Context, conv *model.Conversation) error {
	query := `
		INSERT INTO conversations (id, customer_id, staff_id, subject, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	conv.CreatedAt = time.Now()
	conv.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		conv.ID, conv.CustomerID, conv.StaffID, conv.Subject,
		conv.CreatedAt, conv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

func (r *chatRepository) GetConversation(ctx context.Context, id uuid.UUID) (*model.Conversation, error) {
	query := `
		SELECT id, customer_id, staff_id, subject, created_at, updated_at, deleted_at
		FROM conversations
		WHERE id = $1 AND deleted_at IS NULL
	`
	var conv model.Conversation
	err := r.db.GetContext(ctx, &conv, query, id)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("conversation")
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &conv, nil
}

func (r *chatRepository) ListConversations(ctx context.Context, userID uuid.UUID) ([]*model.Conversation, error) {
	query := `
		SELECT id, customer_id, staff_id, subject, created_at, updated_at, deleted_at
		FROM conversations
		WHERE (customer_id = $1 OR staff_id = $1) AND deleted_at IS NULL
		ORDER BY updated_at DESC
	`
	var convs []*model.Conversation
	err := r.db.SelectContext(ctx, &convs, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return convs, nil
}

func (r *chatRepository) CreateMessage(ctx context.Context, msg *model.Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, sender_id, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	msg.CreatedAt = time.Now()
	msg.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.ConversationID, msg.SenderID, msg.Body,
		msg.CreatedAt, msg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	// Keep the conversation sorted by recent activity.
	_, err = r.db.ExecContext(ctx, `
		UPDATE conversations SET updated_at = $1 WHERE id = $2
	`, msg.CreatedAt, msg.ConversationID)
	if err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}
	return nil
}

func (r *chatRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, p *model.Pagination) ([]*model.Message, error) {
	p.Normalize()
	query := `
		SELECT id, conversation_id, sender_id, body, read_at,
			   created_at, updated_at, deleted_at
		FROM messages
		WHERE conversation_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var msgs []*model.Message
	err := r.db.SelectContext(ctx, &msgs, query, conversationID, p.PageSize, p.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}

func (r *chatRepository) CreateGroup(ctx context.Context, group *model.Group) error {
	query := `
		INSERT INTO groups (id, name, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	group.CreatedAt = time.Now()
	group.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		group.ID, group.Name, group.CreatedBy, group.CreatedAt, group.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

func (r *chatRepository) GetGroup(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	query := `
		SELECT id, name, created_by, created_at, updated_at, deleted_at
		FROM groups
		WHERE id = $1 AND deleted_at IS NULL
	`
	var group model.Group
	err := r.db.GetContext(ctx, &group, query, id)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("group")
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return &group, nil
}

func (r *chatRepository) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE groups SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("group")
	}

	return nil
}

func (r *chatRepository) AddGroupMember(ctx context.Context, groupID, userID uuid.UUID) error {
	query := `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

func (r *chatRepository) RemoveGroupMember(ctx context.Context, groupID, userID uuid.UUID) error {
	query := `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFoundMsg("user is not a member of this group")
	}

	return nil
}

func (r *chatRepository) IsGroupMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2
		)
	`
	var member bool
	err := r.db.GetContext(ctx, &member, query, groupID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check group membership: %w", err)
	}
	return member, nil
}

func (r *chatRepository) CreateGroupMessage(ctx context.Context, msg *model.GroupMessage) error {
	query := `
		INSERT INTO group_messages (id, group_id, sender_id, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	msg.CreatedAt = time.Now()
	msg.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.GroupID, msg.SenderID, msg.Body, msg.CreatedAt, msg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create group message: %w", err)
	}
	return nil
}

func (r *chatRepository) ListGroupMessages(ctx context.Context, groupID uuid.UUID, p *model.Pagination) ([]*model.GroupMessage, error) {
	p.Normalize()
	query := `
		SELECT id, group_id, sender_id, body, created_at, updated_at, deleted_at
		FROM group_messages
		WHERE group_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var msgs []*model.GroupMessage
	err := r.db.SelectContext(ctx, &msgs, query, groupID, p.PageSize, p.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list group messages: %w", err)
	}
	return msgs, nil
}
