package domain

import "time"

// ConnectionState describes the lifecycle of a monitored handle's connection
type ConnectionState string

const (
	StateConnecting   ConnectionState = "CONNECTING"
	StateConnected    ConnectionState = "CONNECTED"
	StateDisconnected ConnectionState = "DISCONNECTED"
	StateRetrying     ConnectionState = "RETRYING"
	StateStopped      ConnectionState = "STOPPED"
)

// MonitoredHandle identifies a live-broadcast source being watched.
// Persistent handles reconnect forever after a disconnect; transient
// handles get bounded retries and are never restarted.
type MonitoredHandle struct {
	Handle     string
	OwnerID    string // host user ID the handle maps to, empty if untracked
	Persistent bool
	CreatedAt  time.Time
}

// MonitorStatus is a snapshot of a supervised handle for status reporting
type MonitorStatus struct {
	Handle     string          `json:"handle"`
	OwnerID    string          `json:"owner_id,omitempty"`
	Persistent bool            `json:"persistent"`
	State      ConnectionState `json:"state"`
	Since      time.Time       `json:"since"`
}
