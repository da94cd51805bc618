package hub

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := New(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

func TestSubscribeBroadcast(t *testing.T) {
	h, _ := startHub(t)

	client, ok := h.Subscribe()
	require.True(t, ok)
	assert.NotEmpty(t, client.ID())
	assert.Equal(t, 1, h.ClientCount())

	h.Broadcast(EventSelection, map[string]string{"id": "sw1"})

	select {
	case msg := <-client.Events():
		assert.Equal(t, EventSelection, msg.Type)
		assert.JSONEq(t, `{"id":"sw1"}`, string(msg.Data))
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}

	h.Unsubscribe(client)
	_, open := <-client.Events()
	assert.False(t, open)
	assert.Equal(t, 0, h.ClientCount())
}

func TestRunStopClosesClients(t *testing.T) {
	h, cancel := startHub(t)

	client, ok := h.Subscribe()
	require.True(t, ok)

	cancel()
	select {
	case _, open := <-client.Events():
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("client stream not closed")
	}

	_, ok = h.Subscribe()
	assert.False(t, ok)
	h.Unsubscribe(client)
}

func TestServeHTTP(t *testing.T) {
	h, _ := startHub(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	h.Broadcast(EventFrame, map[string]int{"seq": 7})

	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	var got []string
	deadline := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatal("stream ended early")
			}
			if strings.HasPrefix(line, "event:") || strings.HasPrefix(line, "data:") {
				got = append(got, line)
			}
		case <-deadline:
			t.Fatalf("timed out, got %v", got)
		}
	}
	assert.Equal(t, []string{"event: frame", `data: {"seq":7}`}, got)
}
