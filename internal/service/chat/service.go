package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pitstop/pitstop-api/internal/model"
	"github.com/pitstop/pitstop-api/internal/repository"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
	"github.com/pitstop/pitstop-api/pkg/messaging"
)

const (
	topicMessages      = "chat.messages"
	topicGroupMessages = "chat.group_messages"
)

type Service struct {
	repo   repository.ChatRepository
	broker messaging.Broker
	logger *zerolog.Logger
}

func NewService(repo repository.ChatRepository, broker messaging.Broker, logger *zerolog.Logger) *Service {
	return &Service{repo: repo, broker: broker, logger: logger}
}

func (s *Service) StartConversation(ctx context.Context, customerID uuid.UUID, req *model.StartConversationRequest) (*model.Conversation, error) {
	conv := &model.Conversation{
		CustomerID: customerID,
		StaffID:    req.StaffID,
		Subject:    req.Subject,
	}
	conv.ID = uuid.New()

	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *Service) GetConversation(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) (*model.Conversation, error) {
	conv, err := s.repo.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && conv.CustomerID != requesterID && conv.StaffID != requesterID {
		return nil, apperrors.Forbidden("not a participant in this conversation")
	}
	return conv, nil
}

func (s *Service) ListConversations(ctx context.Context, userID uuid.UUID) ([]*model.Conversation, error) {
	return s.repo.ListConversations(ctx, userID)
}

func (s *Service) SendMessage(ctx context.Context, conversationID, senderID uuid.UUID, isAdmin bool, req *model.SendMessageRequest) (*model.Message, error) {
	conv, err := s.GetConversation(ctx, conversationID, senderID, isAdmin)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Body:           req.Body,
	}
	msg.ID = uuid.New()

	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.publish(ctx, topicMessages, "chat.message", msg)
	return msg, nil
}

func (s *Service) ListMessages(ctx context.Context, conversationID, requesterID uuid.UUID, isAdmin bool, p *model.Pagination) ([]*model.Message, error) {
	if _, err := s.GetConversation(ctx, conversationID, requesterID, isAdmin); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, conversationID, p)
}

func (s *Service) CreateGroup(ctx context.Context, creatorID uuid.UUID, req *model.CreateGroupRequest) (*model.Group, error) {
	group := &model.Group{
		Name:      req.Name,
		CreatedBy: creatorID,
	}
	group.ID = uuid.New()

	if err := s.repo.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	if err := s.repo.AddGroupMember(ctx, group.ID, creatorID); err != nil {
		return nil, fmt.Errorf("failed to add group creator: %w", err)
	}
	for _, memberID := range req.Members {
		if memberID == creatorID {
			continue
		}
		if err := s.repo.AddGroupMember(ctx, group.ID, memberID); err != nil {
			return nil, fmt.Errorf("failed to add group member: %w", err)
		}
	}
	return group, nil
}

func (s *Service) DeleteGroup(ctx context.Context, groupID, requesterID uuid.UUID, isAdmin bool) error {
	group, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !isAdmin && group.CreatedBy != requesterID {
		return apperrors.Forbidden("only the group creator can delete it")
	}
	return s.repo.DeleteGroup(ctx, groupID)
}

func (s *Service) AddMember(ctx context.Context, groupID, requesterID, userID uuid.UUID, isAdmin bool) error {
	group, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !isAdmin && group.CreatedBy != requesterID {
		return apperrors.Forbidden("only the group creator can manage members")
	}
	return s.repo.AddGroupMember(ctx, groupID, userID)
}

func (s *Service) RemoveMember(ctx context.Context, groupID, requesterID, userID uuid.UUID, isAdmin bool) error {
	group, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	// Members may leave on their own; removing others needs the creator.
	if !isAdmin && requesterID != userID && group.CreatedBy != requesterID {
		return apperrors.Forbidden("only the group creator can manage members")
	}
	return s.repo.RemoveGroupMember(ctx, groupID, userID)
}

func (s *Service) SendGroupMessage(ctx context.Context, groupID, senderID uuid.UUID, req *model.SendMessageRequest) (*model.GroupMessage, error) {
	member, err := s.repo.IsGroupMember(ctx, groupID, senderID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, apperrors.Forbidden("not a member of this group")
	}

	msg := &model.GroupMessage{
		GroupID:  groupID,
		SenderID: senderID,
		Body:     req.Body,
	}
	msg.ID = uuid.New()

	if err := s.repo.CreateGroupMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.publish(ctx, topicGroupMessages, "chat.group_message", msg)
	return msg, nil
}

func (s *Service) ListGroupMessages(ctx context.Context, groupID, requesterID uuid.UUID, isAdmin bool, p *model.Pagination) ([]*model.GroupMessage, error) {
	if !isAdmin {
		member, err := s.repo.IsGroupMember(ctx, groupID, requesterID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, apperrors.Forbidden("not a member of this group")
		}
	}
	return s.repo.ListGroupMessages(ctx, groupID, p)
}

// publish pushes the stored message to the broker for live listeners.
// Broker outages degrade to polling; they never fail the request.
func (s *Service) publish(ctx context.Context, topic, msgType string, payload interface{}) {
	if s.broker == nil {
		return
	}
	msg := &messaging.Message{Type: msgType, Payload: payload}
	if err := s.broker.Publish(ctx, topic, msg); err != nil {
		s.logger.Warn().Err(err).Str("topic", topic).Msg("failed to publish chat event")
	}
}
