package livesource

import "time"

// Default configuration values
const (
	// DefaultBridgeURL is the default WebSocket URL of the bridge process
	DefaultBridgeURL = "ws://127.0.0.1:21213/"

	// ConnectTimeout bounds the wait for the bridge's subscribe response
	ConnectTimeout = 15 * time.Second

	// WriteTimeout is the timeout for writing messages
	WriteTimeout = 10 * time.Second

	// ReadBufferSize is the WebSocket read buffer size
	ReadBufferSize = 4096

	// WriteBufferSize is the WebSocket write buffer size
	WriteBufferSize = 4096

	// EventChannelBuffer sizes the per-stream event channel
	EventChannelBuffer = 256
)

// Bridge frame names
const (
	ActionSubscribe = "subscribe"

	FrameConnected   = "connected"
	FrameError       = "error"
	FrameLike        = "like"
	FrameGift        = "gift"
	FrameComment     = "comment"
	FrameShare       = "share"
	FrameViewerCount = "viewer_count"
	FrameStreamEnd   = "stream_end"
	FrameDisconnect  = "disconnect"
)

// Bridge error codes on subscribe rejection
const (
	ErrCodeUserOffline  = "USER_OFFLINE"
	ErrCodeUserNotFound = "USER_NOT_FOUND"
	ErrCodeSignature    = "SIGN_ERROR"
)

// Disconnect reasons
const (
	ReasonStreamEnded    = "stream ended"
	ReasonConnectionLost = "connection lost"
)

// Log messages
const (
	LogMsgRoomConnected = "Live room connected via bridge"
)
