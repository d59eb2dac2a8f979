package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSend_NilFrame(t *testing.T) {
	h := newTestHandler(t, nil)
	c := newClient(newMockConn(), h)

	assert.False(t, c.Send(nil))
}

func TestClientSend_QueueFullDrops(t *testing.T) {
	h := newTestHandler(t, nil)
	c := newClient(newMockConn(), h)

	frame := []byte(`{"type":"Pong"}`)
	for i := 0; i < sendQueueSize; i++ {
		require.True(t, c.Send(frame))
	}

	// The queue is full; the frame is dropped, not blocked on.
	assert.False(t, c.Send(frame))
}

func TestClientSend_AfterDisconnect(t *testing.T) {
	h := newTestHandler(t, nil)
	c := newClient(newMockConn(), h)

	c.Disconnect()

	assert.False(t, c.Send([]byte(`{}`)))
}

func TestDisconnect_Idempotent(t *testing.T) {
	h := newTestHandler(t, nil)
	c := newClient(newMockConn(), h)

	c.Disconnect()
	c.Disconnect()
}

func TestConnIDs_Unique(t *testing.T) {
	h := newTestHandler(t, nil)
	a := newClient(newMockConn(), h)
	b := newClient(newMockConn(), h)

	assert.NotEqual(t, a.connID, b.connID)
}

func TestPeerContext_Transitions(t *testing.T) {
	var ctx peerContext

	_, _, bound := ctx.get()
	assert.False(t, bound)

	peerID := uuid.New()
	ctx.bind("hot-espresso-42", peerID)

	roomID, gotPeer, bound := ctx.get()
	assert.True(t, bound)
	assert.Equal(t, "hot-espresso-42", roomID)
	assert.Equal(t, peerID, gotPeer)

	ctx.clear()
	roomID, gotPeer, bound = ctx.get()
	assert.False(t, bound)
	assert.Empty(t, roomID)
	assert.Equal(t, uuid.Nil, gotPeer)
}
