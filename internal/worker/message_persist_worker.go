package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
	"github.com/Quick-Genius/Apna-Lawyer/internal/platform/rabbitmq"
)

// ErrMalformedBatch marks a delivery that can never be stored.
var ErrMalformedBatch = errors.New("malformed message batch")

// retryDelay spaces out redeliveries while the store is failing.
const retryDelay = time.Second

// BatchWriter stores a turn in one transaction.
type BatchWriter interface {
	CreateBatch(ctx context.Context, messages []*model.ChatMessage) error
}

// HistoryInvalidator drops cached history once a turn is stored.
type HistoryInvalidator interface {
	DeleteHistory(ctx context.Context, sessionID uint) error
}

type MessagePersistWorker struct {
	conn      *amqp.Connection
	store     BatchWriter
	cache     HistoryInvalidator
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMessagePersistWorker builds the consumer. cache may be nil.
func NewMessagePersistWorker(conn *amqp.Connection, store BatchWriter, cache HistoryInvalidator, queueName string) *MessagePersistWorker {
	return &MessagePersistWorker{
		conn:      conn,
		store:     store,
		cache:     cache,
		queueName: queueName,
	}
}

func (w *MessagePersistWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}
	if err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}
	// One unacked turn at a time keeps turns of a session in order.
	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("set worker qos failed: %w", err)
	}

	deliveries, err := ch.Consume(w.queueName, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				if err := w.Handle(workerCtx, d.Body); err != nil {
					requeue := ShouldRequeue(err)
					log.Error().Err(err).Str("queue", w.queueName).Bool("requeue", requeue).Msg("persist chat turn failed")
					if requeue {
						select {
						case <-workerCtx.Done():
						case <-time.After(retryDelay):
						}
					}
					_ = d.Nack(false, requeue)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	log.Info().Str("queue", w.queueName).Msg("message persist worker started")
	return nil
}

// Handle decodes one published turn and stores it.
func (w *MessagePersistWorker) Handle(ctx context.Context, body []byte) error {
	var batch []model.ChatMessage
	if err := json.Unmarshal(body, &batch); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBatch, err)
	}
	if len(batch) == 0 {
		return nil
	}

	messages := make([]*model.ChatMessage, len(batch))
	for i := range batch {
		batch[i].ID = 0
		messages[i] = &batch[i]
	}
	if err := w.store.CreateBatch(ctx, messages); err != nil {
		return err
	}

	if w.cache != nil {
		sessionID := batch[0].SessionID
		if err := w.cache.DeleteHistory(ctx, sessionID); err != nil {
			log.Warn().Err(err).Uint("session_id", sessionID).Msg("drop cached history failed")
		}
	}
	return nil
}

// ShouldRequeue reports whether a failed delivery is worth another attempt.
// Store failures are retried; undecodable payloads are dropped.
func ShouldRequeue(err error) bool {
	return err != nil && !errors.Is(err, ErrMalformedBatch)
}

func (w *MessagePersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
