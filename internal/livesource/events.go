package livesource

// Event is a typed event from a live-broadcast source. The concrete
// types below are the full set this engine consumes; whatever wire
// format the source speaks is mapped into these explicitly.
type Event interface {
	isEvent()
}

// ConnectedEvent signals the room connection is established
type ConnectedEvent struct {
	RoomID string
}

// DisconnectedEvent signals a terminal disconnect or stream end
type DisconnectedEvent struct {
	Reason string
}

// LikeEvent carries a batch of likes from one viewer
type LikeEvent struct {
	ViewerID string
	Count    int64
}

// GiftEvent carries one gift occurrence. Streaking means the gift combo
// is still running; only the terminal event of a streak carries the
// final repeat count and should be accounted.
type GiftEvent struct {
	ViewerID  string
	Diamonds  int64
	Streaking bool
}

// CommentEvent carries one chat message
type CommentEvent struct {
	ViewerID string
	Text     string
}

// ShareEvent signals one viewer shared the broadcast
type ShareEvent struct {
	ViewerID string
}

// ViewerCountEvent is a concurrent-viewer-count sample
type ViewerCountEvent struct {
	Total int
}

func (ConnectedEvent) isEvent()    {}
func (DisconnectedEvent) isEvent() {}
func (LikeEvent) isEvent()         {}
func (GiftEvent) isEvent()         {}
func (CommentEvent) isEvent()      {}
func (ShareEvent) isEvent()        {}
func (ViewerCountEvent) isEvent()  {}
