package fcm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/school-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	calls  [][]string
	fail   map[int]error
	msgs   []*messaging.MulticastMessage
	cancel context.CancelFunc
}

func (r *recordingSender) SendEachForMulticast(_ context.Context, m *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	idx := len(r.calls)
	r.calls = append(r.calls, m.Tokens)
	r.msgs = append(r.msgs, m)
	if r.cancel != nil {
		r.cancel()
	}
	if err := r.fail[idx]; err != nil {
		return nil, err
	}
	return &messaging.BatchResponse{SuccessCount: len(m.Tokens)}, nil
}

func tokens(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("tok-%d", i)
	}
	return out
}

func TestChunks_BoundedSizes(t *testing.T) {
	got := chunks(tokens(1201), 500)
	require.Len(t, got, 3)
	assert.Len(t, got[0], 500)
	assert.Len(t, got[1], 500)
	assert.Len(t, got[2], 201)
	assert.Empty(t, chunks(nil, 500))
}

func TestSendToTokens_FailedChunkDoesNotStopOthers(t *testing.T) {
	rec := &recordingSender{fail: map[int]error{0: errors.New("quota exceeded")}}
	g := newGateway(rec, 500)

	g.SendToTokens(context.Background(), tokens(1001), domain.PushPayload{Title: "t"})

	require.Len(t, rec.calls, 3)
	assert.Len(t, rec.calls[2], 1)
}

func TestSendToTokens_DisabledIsNoop(t *testing.T) {
	g := &Gateway{}
	assert.False(t, g.IsEnabled())
	g.SendToTokens(context.Background(), tokens(3), domain.PushPayload{})

	var nilGateway *Gateway
	assert.False(t, nilGateway.IsEnabled())
}

func TestSendToTokens_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := &recordingSender{cancel: cancel}
	g := newGateway(rec, 2)

	g.SendToTokens(ctx, tokens(6), domain.PushPayload{})
	assert.Len(t, rec.calls, 1)
}

func TestSendToToken_ImageOnlyPayload(t *testing.T) {
	rec := &recordingSender{}
	g := newGateway(rec, 0)

	g.SendToToken(context.Background(), "one", domain.PushPayload{Title: "Sports day", ImageURL: "https://cdn.example.com/p.png", Data: map[string]string{"type": "CIRCULAR"}})

	require.Len(t, rec.msgs, 1)
	m := rec.msgs[0]
	assert.Equal(t, []string{"one"}, m.Tokens)
	assert.Equal(t, "", m.Notification.Body)
	assert.Equal(t, "https://cdn.example.com/p.png", m.Notification.ImageURL)
	require.NotNil(t, m.APNS.FCMOptions)
	assert.True(t, m.APNS.Payload.Aps.MutableContent)
	assert.Equal(t, "CIRCULAR", m.Data["type"])
}
