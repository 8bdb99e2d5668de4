package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
)

type fakeWriter struct {
	stored [][]*model.ChatMessage
	err    error
}

func (f *fakeWriter) CreateBatch(_ context.Context, messages []*model.ChatMessage) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, messages)
	return nil
}

type fakeCache struct {
	dropped []uint
}

func (f *fakeCache) DeleteHistory(_ context.Context, sessionID uint) error {
	f.dropped = append(f.dropped, sessionID)
	return nil
}

func TestHandleStoresTurnInOrder(t *testing.T) {
	store, cache := &fakeWriter{}, &fakeCache{}
	w := NewMessagePersistWorker(nil, store, cache, "chat.messages")

	body, err := json.Marshal([]model.ChatMessage{
		{ID: 99, SessionID: 4, Role: model.RoleUser, Content: "What is a lease?"},
		{SessionID: 4, Role: model.RoleAssistant, Content: "A lease is..."},
	})
	require.NoError(t, err)

	require.NoError(t, w.Handle(context.Background(), body))
	require.Len(t, store.stored, 1)
	turn := store.stored[0]
	require.Len(t, turn, 2)
	assert.Equal(t, model.RoleUser, turn[0].Role)
	assert.Equal(t, model.RoleAssistant, turn[1].Role)
	assert.Zero(t, turn[0].ID)
	assert.Equal(t, []uint{4}, cache.dropped)
}

func TestHandleRejectsGarbageAndStoreErrors(t *testing.T) {
	store := &fakeWriter{}
	w := NewMessagePersistWorker(nil, store, nil, "chat.messages")
	err := w.Handle(context.Background(), []byte("{not json"))
	assert.ErrorIs(t, err, ErrMalformedBatch)
	assert.False(t, ShouldRequeue(err))

	assert.NoError(t, w.Handle(context.Background(), []byte("[]")))
	assert.Empty(t, store.stored)

	store.err = errors.New("db down")
	err = w.Handle(context.Background(), []byte(`[{"session_id":1,"role":"user","content":"hi"}]`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformedBatch)
	assert.True(t, ShouldRequeue(err), "store failures must be retried")
}
