package app

import (
	"context"
	"fmt"

	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
)

// MessageSink persists a chat turn. Messages are stored in slice order.
type MessageSink interface {
	Persist(ctx context.Context, messages []*model.ChatMessage) error
}

// BatchPublisher hands a turn to a queue for asynchronous persistence.
type BatchPublisher interface {
	Publish(ctx context.Context, messages []model.ChatMessage) error
}

type directSink struct {
	messages MessageStore
}

// NewDirectSink writes turns straight to the message store in one
// transaction.
func NewDirectSink(messages MessageStore) MessageSink {
	return &directSink{messages: messages}
}

func (s *directSink) Persist(ctx context.Context, messages []*model.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}
	return s.messages.CreateBatch(ctx, messages)
}

type queuedSink struct {
	publisher BatchPublisher
}

// NewQueuedSink publishes turns; the persist worker writes them later.
func NewQueuedSink(publisher BatchPublisher) MessageSink {
	return &queuedSink{publisher: publisher}
}

func (s *queuedSink) Persist(ctx context.Context, messages []*model.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}
	batch := make([]model.ChatMessage, 0, len(messages))
	for _, m := range messages {
		batch = append(batch, *m)
	}
	if err := s.publisher.Publish(ctx, batch); err != nil {
		return fmt.Errorf("%w: %v", ErrMessageEnqueue, err)
	}
	return nil
}
