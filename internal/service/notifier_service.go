package service

import (
	"context"
	"encoding/json"

	"ai-paper-reader-be/internal/dto"
	"ai-paper-reader-be/internal/pkg/logger"
	"ai-paper-reader-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type INotifierService interface {
	Consume(ctx context.Context) error
}

// notifierService drains the in-process notification topic and pushes
// each message to connected reader tabs over the websocket hub.
type notifierService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	hub       *websocket.Hub
	logger    logger.ILogger
}

func NewNotifierService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *websocket.Hub,
	log logger.ILogger,
) INotifierService {
	return &notifierService{
		pubSub:    pubSub,
		topicName: topicName,
		hub:       hub,
		logger:    log,
	}
}

func (s *notifierService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(msg)
		}
	}()

	return nil
}

func (s *notifierService) processMessage(msg *message.Message) {
	defer msg.Ack()

	var notification dto.Notification
	if err := json.Unmarshal(msg.Payload, &notification); err != nil {
		s.logger.Warn("NotifierService", "Dropping malformed notification", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	s.hub.Broadcast(notification)
}
