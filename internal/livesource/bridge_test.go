package livesource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBridge runs a WebSocket server that plays back scripted frames
// after acknowledging the subscribe.
func fakeBridge(t *testing.T, firstFrame bridgeFrame, rest []bridgeFrame) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		var sub subscribeFrame
		require.NoError(t, conn.ReadJSON(&sub))
		assert.Equal(t, ActionSubscribe, sub.Action)

		require.NoError(t, conn.WriteJSON(firstFrame))
		for _, f := range rest {
			require.NoError(t, conn.WriteJSON(f))
		}
		// Keep the connection open briefly so the client drains frames
		time.Sleep(200 * time.Millisecond)
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestBridgeClient_OpenAndReceiveEvents(t *testing.T) {
	srv := fakeBridge(t,
		bridgeFrame{Event: FrameConnected, RoomID: "room-1"},
		[]bridgeFrame{
			{Event: FrameLike, ViewerID: "v1", Count: 7},
			{Event: FrameGift, ViewerID: "v2", Diamonds: 99, Streaking: true},
			{Event: FrameComment, ViewerID: "v1", Text: "hello"},
			{Event: FrameShare, ViewerID: "v3"},
			{Event: FrameViewerCount, Total: 250},
			{Event: FrameStreamEnd},
		})
	defer srv.Close()

	client := NewBridgeClient(wsURL(srv), "")
	stream, err := client.Open(context.Background(), "somecaster")
	require.NoError(t, err)
	defer stream.Close()

	var got []Event
	for evt := range stream.Events {
		got = append(got, evt)
	}

	require.Len(t, got, 7)
	assert.Equal(t, ConnectedEvent{RoomID: "room-1"}, got[0])
	assert.Equal(t, LikeEvent{ViewerID: "v1", Count: 7}, got[1])
	assert.Equal(t, GiftEvent{ViewerID: "v2", Diamonds: 99, Streaking: true}, got[2])
	assert.Equal(t, CommentEvent{ViewerID: "v1", Text: "hello"}, got[3])
	assert.Equal(t, ShareEvent{ViewerID: "v3"}, got[4])
	assert.Equal(t, ViewerCountEvent{Total: 250}, got[5])
	assert.Equal(t, DisconnectedEvent{Reason: ReasonStreamEnded}, got[6])
	assert.NoError(t, stream.Err())
}

func TestBridgeClient_SubscribeRejected(t *testing.T) {
	tests := []struct {
		code    string
		wantErr error
	}{
		{ErrCodeUserOffline, ErrUserOffline},
		{ErrCodeUserNotFound, ErrUserNotFound},
		{ErrCodeSignature, ErrSignature},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			srv := fakeBridge(t, bridgeFrame{Event: FrameError, Code: tt.code, Message: "nope"}, nil)
			defer srv.Close()

			client := NewBridgeClient(wsURL(srv), "")
			_, err := client.Open(context.Background(), "somecaster")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}

func TestBridgeClient_UnknownRejectionCode(t *testing.T) {
	srv := fakeBridge(t, bridgeFrame{Event: FrameError, Code: "WEIRD", Message: "???"}, nil)
	defer srv.Close()

	client := NewBridgeClient(wsURL(srv), "")
	_, err := client.Open(context.Background(), "somecaster")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUserOffline))
	assert.Contains(t, err.Error(), "WEIRD")
}

func TestBridgeClient_DialFailure(t *testing.T) {
	client := NewBridgeClient("ws://127.0.0.1:1/", "")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := client.Open(ctx, "somecaster")
	assert.Error(t, err)
}

// A stopped consumer must not strand the reader: Close has to unblock
// a send stuck on a full event channel so the channel still closes.
func TestBridgeClient_CloseUnblocksFloodedReader(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		var sub subscribeFrame
		require.NoError(t, conn.ReadJSON(&sub))
		require.NoError(t, conn.WriteJSON(bridgeFrame{Event: FrameConnected, RoomID: "room-1"}))

		// Flood far past the channel buffer with nobody draining
		for i := 0; i < EventChannelBuffer*3; i++ {
			if err := conn.WriteJSON(bridgeFrame{Event: FrameLike, ViewerID: "v1", Count: 1}); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	client := NewBridgeClient(wsURL(srv), "")
	stream, err := client.Open(context.Background(), "somecaster")
	require.NoError(t, err)

	// Let the reader fill the buffer and block on the next send
	time.Sleep(100 * time.Millisecond)
	stream.Close()

	closed := make(chan struct{})
	go func() {
		for range stream.Events {
		}
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("event channel still open after close")
	}
}

func TestMapFrame_UnknownFrameIgnored(t *testing.T) {
	evt, terminal := mapFrame(bridgeFrame{Event: "future_thing"})
	assert.Nil(t, evt)
	assert.False(t, terminal)
}

func TestDecodeFrame(t *testing.T) {
	f, err := decodeFrame([]byte(`{"event":"gift","viewer_id":"v9","diamonds":42}`))
	require.NoError(t, err)
	assert.Equal(t, FrameGift, f.Event)
	assert.Equal(t, int64(42), f.Diamonds)

	_, err = decodeFrame([]byte(`{`))
	assert.Error(t, err)
}

func TestNewBridgeClient_DefaultURL(t *testing.T) {
	c := NewBridgeClient("", "pw")
	assert.Equal(t, DefaultBridgeURL, c.url)
}
