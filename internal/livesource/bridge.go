package livesource

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kalevra/GiftRally_Go/internal/logger"
)

// BridgeClient speaks JSON over WebSocket to a local live-source bridge
// process, one connection per monitored handle. The bridge owns the
// upstream SDK; this client only maps its frames onto typed events.
type BridgeClient struct {
	url      string
	password string
}

// NewBridgeClient creates a client for the given bridge endpoint
func NewBridgeClient(url, password string) *BridgeClient {
	if url == "" {
		url = DefaultBridgeURL
	}
	return &BridgeClient{url: url, password: password}
}

// subscribeFrame asks the bridge to join a room
type subscribeFrame struct {
	Action   string `json:"action"`
	Handle   string `json:"handle"`
	Password string `json:"password,omitempty"`
}

// bridgeFrame is the wire shape of every frame the bridge emits
type bridgeFrame struct {
	Event     string `json:"event"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message,omitempty"`
	RoomID    string `json:"room_id,omitempty"`
	ViewerID  string `json:"viewer_id,omitempty"`
	Count     int64  `json:"count,omitempty"`
	Diamonds  int64  `json:"diamonds,omitempty"`
	Streaking bool   `json:"streaking,omitempty"`
	Text      string `json:"text,omitempty"`
	Total     int    `json:"total,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Open dials the bridge, subscribes to the handle's room and blocks
// until the room connection is confirmed or rejected.
func (c *BridgeClient) Open(ctx context.Context, handle string) (*Stream, error) {
	log := logger.FromContext(ctx)

	dialer := websocket.Dialer{
		ReadBufferSize:  ReadBufferSize,
		WriteBufferSize: WriteBufferSize,
	}

	conn, resp, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to dial bridge: %w (status: %s)", err, resp.Status)
		}
		return nil, fmt.Errorf("failed to dial bridge: %w", err)
	}

	sub := subscribeFrame{Action: ActionSubscribe, Handle: handle, Password: c.password}
	_ = conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to send subscribe: %w", err)
	}

	// The first frame decides the outcome of the whole attempt
	_ = conn.SetReadDeadline(time.Now().Add(ConnectTimeout))
	var first bridgeFrame
	if err := conn.ReadJSON(&first); err != nil {
		conn.Close()
		return nil, fmt.Errorf("no subscribe response from bridge: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{})

	if first.Event == FrameError {
		conn.Close()
		return nil, mapErrorCode(first.Code, first.Message)
	}
	if first.Event != FrameConnected {
		conn.Close()
		return nil, fmt.Errorf("unexpected first frame from bridge: %q", first.Event)
	}

	log.Debug(LogMsgRoomConnected, "room_id", first.RoomID)

	events := make(chan Event, EventChannelBuffer)
	events <- ConnectedEvent{RoomID: first.RoomID}

	var (
		closeOnce sync.Once
		errMu     sync.Mutex
		termErr   error
	)
	done := make(chan struct{})
	closeConn := func() {
		closeOnce.Do(func() {
			close(done)
			conn.Close()
		})
	}

	// send delivers an event unless the stream has been closed. The
	// consumer stops draining after Close, so an unconditional channel
	// send would strand this goroutine on a busy room.
	send := func(evt Event) bool {
		select {
		case events <- evt:
			return true
		case <-done:
			return false
		}
	}

	go func() {
		defer close(events)
		for {
			var frame bridgeFrame
			if err := conn.ReadJSON(&frame); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					errMu.Lock()
					termErr = err
					errMu.Unlock()
				}
				send(DisconnectedEvent{Reason: ReasonConnectionLost})
				closeConn()
				return
			}

			evt, terminal := mapFrame(frame)
			if evt != nil && !send(evt) {
				return
			}
			if terminal {
				closeConn()
				return
			}
		}
	}()

	return NewStream(events, closeConn, func() error {
		errMu.Lock()
		defer errMu.Unlock()
		return termErr
	}), nil
}

// mapFrame translates one bridge frame into a typed event. The second
// return is true when the frame ends the stream.
func mapFrame(f bridgeFrame) (Event, bool) {
	switch f.Event {
	case FrameLike:
		return LikeEvent{ViewerID: f.ViewerID, Count: f.Count}, false
	case FrameGift:
		return GiftEvent{ViewerID: f.ViewerID, Diamonds: f.Diamonds, Streaking: f.Streaking}, false
	case FrameComment:
		return CommentEvent{ViewerID: f.ViewerID, Text: f.Text}, false
	case FrameShare:
		return ShareEvent{ViewerID: f.ViewerID}, false
	case FrameViewerCount:
		return ViewerCountEvent{Total: f.Total}, false
	case FrameStreamEnd:
		return DisconnectedEvent{Reason: ReasonStreamEnded}, true
	case FrameDisconnect:
		return DisconnectedEvent{Reason: f.Reason}, true
	default:
		// Unknown frames are ignored so bridge upgrades don't break us
		return nil, false
	}
}

func mapErrorCode(code, message string) error {
	switch code {
	case ErrCodeUserOffline:
		return fmt.Errorf("%w: %s", ErrUserOffline, message)
	case ErrCodeUserNotFound:
		return fmt.Errorf("%w: %s", ErrUserNotFound, message)
	case ErrCodeSignature:
		return fmt.Errorf("%w: %s", ErrSignature, message)
	default:
		return fmt.Errorf("bridge rejected subscribe (%s): %s", code, message)
	}
}

var _ Client = (*BridgeClient)(nil)

// decode helper kept for tests that feed raw frames
func decodeFrame(data []byte) (bridgeFrame, error) {
	var f bridgeFrame
	err := json.Unmarshal(data, &f)
	return f, err
}
