package egress

import (
	"testing"
	"time"

	"github.com/eclipse-uprotocol/up-streamer-go/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastQueueDeliversInOrderWithinCapacity(t *testing.T) {
	q := NewBroadcastQueue(4)
	q.Send(transport.Message{Payload: []byte("a")})
	q.Send(transport.Message{Payload: []byte("b")})

	msg, outcome, dropped := q.Recv()
	require.Equal(t, RecvMessage, outcome)
	assert.Equal(t, uint64(0), dropped)
	assert.Equal(t, []byte("a"), msg.Payload)

	msg, outcome, _ = q.Recv()
	require.Equal(t, RecvMessage, outcome)
	assert.Equal(t, []byte("b"), msg.Payload)
}

func TestBroadcastQueueDropsOldestOnOverflowAndReportsLag(t *testing.T) {
	q := NewBroadcastQueue(1)
	q.Send(transport.Message{Payload: []byte("first")})
	q.Send(transport.Message{Payload: []byte("second")})

	_, outcome, dropped := q.Recv()
	require.Equal(t, RecvLagged, outcome)
	assert.Equal(t, uint64(1), dropped)

	msg, outcome, _ := q.Recv()
	require.Equal(t, RecvMessage, outcome)
	assert.Equal(t, []byte("second"), msg.Payload)
}

func TestBroadcastQueueRecvBlocksUntilSend(t *testing.T) {
	q := NewBroadcastQueue(1)
	done := make(chan transport.Message, 1)
	go func() {
		msg, outcome, _ := q.Recv()
		if outcome == RecvMessage {
			done <- msg
		}
	}()

	time.Sleep(10 * time.Millisecond)
	q.Send(transport.Message{Payload: []byte("late")})

	select {
	case msg := <-done:
		assert.Equal(t, []byte("late"), msg.Payload)
	case <-time.After(time.Second):
		t.Fatal("Recv did not unblock after Send")
	}
}

func TestBroadcastQueueCloseUnblocksRecvAfterDraining(t *testing.T) {
	q := NewBroadcastQueue(2)
	q.Send(transport.Message{Payload: []byte("x")})
	q.Close()

	_, outcome, _ := q.Recv()
	require.Equal(t, RecvMessage, outcome)

	_, outcome, _ = q.Recv()
	assert.Equal(t, RecvClosed, outcome)
}

func TestBroadcastQueueCloseWithEmptyBufferUnblocksWaitingRecv(t *testing.T) {
	q := NewBroadcastQueue(1)
	done := make(chan RecvOutcome, 1)
	go func() {
		_, outcome, _ := q.Recv()
		done <- outcome
	}()

	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case outcome := <-done:
		assert.Equal(t, RecvClosed, outcome)
	case <-time.After(time.Second):
		t.Fatal("Recv did not unblock after Close")
	}
}
