package buffer

import (
	"sync"
)

// ViewerActivity accumulates one viewer's engagement inside the current
// buffer window. Fields are reset wholesale on every drain.
type ViewerActivity struct {
	Messages     int
	LikesSent    int64
	GiftDiamonds int64
	SharesSent   int
	Markers      map[string]struct{}
	SawAllCaps   bool
	SawEmojiOnly bool
}

// CommentMarks carries the heuristic results for one chat message.
// Sentiment is +1, -1 or 0 for the implicit poll tally.
type CommentMarks struct {
	Sentiment int
	Markers   []string
	AllCaps   bool
	EmojiOnly bool
}

// Snapshot is the immutable result of a drain. The Viewers map is owned
// by the snapshot; the buffer allocates a fresh one on drain.
type Snapshot struct {
	Likes        int64
	Diamonds     int64
	SampleSum    int64
	SampleCount  int
	SampleMax    int
	PollPositive int
	PollNegative int
	Viewers      map[string]*ViewerActivity
}

// Empty reports whether nothing was accumulated in the window
func (s Snapshot) Empty() bool {
	return s.Likes == 0 && s.Diamonds == 0 && s.SampleCount == 0 &&
		s.PollPositive == 0 && s.PollNegative == 0 && len(s.Viewers) == 0
}

// AvgViewers returns the mean of the window's viewer-count samples
func (s Snapshot) AvgViewers() float64 {
	if s.SampleCount == 0 {
		return 0
	}
	return float64(s.SampleSum) / float64(s.SampleCount)
}

// Buffer accumulates engagement for one monitored handle between
// flushes. Writers are the supervisor's event handlers; the only reader
// is the flush pipeline's Drain. The mutex makes a drain atomic with
// respect to writes: a write lands entirely in one window or the next.
type Buffer struct {
	mu sync.Mutex

	likes        int64
	diamonds     int64
	sampleSum    int64
	sampleCount  int
	sampleMax    int
	pollPositive int
	pollNegative int
	viewers      map[string]*ViewerActivity
}

// New creates an empty buffer
func New() *Buffer {
	return &Buffer{
		viewers: make(map[string]*ViewerActivity),
	}
}

func (b *Buffer) viewer(id string) *ViewerActivity {
	v, ok := b.viewers[id]
	if !ok {
		v = &ViewerActivity{Markers: make(map[string]struct{})}
		b.viewers[id] = v
	}
	return v
}

// AddLikes records a like event: count toward the handle total and the
// acting viewer's likes-sent.
func (b *Buffer) AddLikes(viewerID string, count int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.likes += count
	if viewerID != "" {
		b.viewer(viewerID).LikesSent += count
	}
}

// AddGift records the diamond value of a (non-streaking) gift event
func (b *Buffer) AddGift(viewerID string, diamonds int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.diamonds += diamonds
	if viewerID != "" {
		b.viewer(viewerID).GiftDiamonds += diamonds
	}
}

// AddComment records one chat message and its heuristic marks
func (b *Buffer) AddComment(viewerID string, marks CommentMarks) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case marks.Sentiment > 0:
		b.pollPositive++
	case marks.Sentiment < 0:
		b.pollNegative++
	}

	if viewerID == "" {
		return
	}
	v := b.viewer(viewerID)
	v.Messages++
	for _, m := range marks.Markers {
		v.Markers[m] = struct{}{}
	}
	if marks.AllCaps {
		v.SawAllCaps = true
	}
	if marks.EmojiOnly {
		v.SawEmojiOnly = true
	}
}

// AddShare records a share event for the acting viewer
func (b *Buffer) AddShare(viewerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if viewerID != "" {
		b.viewer(viewerID).SharesSent++
	}
}

// AddViewerSample records one concurrent-viewer-count sample
func (b *Buffer) AddViewerSample(total int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sampleSum += int64(total)
	b.sampleCount++
	if total > b.sampleMax {
		b.sampleMax = total
	}
}

// Drain atomically snapshots all accumulated values and resets the
// buffer to empty. Writes arriving during the drain land in the next
// window; nothing is lost or double counted.
func (b *Buffer) Drain() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := Snapshot{
		Likes:        b.likes,
		Diamonds:     b.diamonds,
		SampleSum:    b.sampleSum,
		SampleCount:  b.sampleCount,
		SampleMax:    b.sampleMax,
		PollPositive: b.pollPositive,
		PollNegative: b.pollNegative,
		Viewers:      b.viewers,
	}

	b.likes = 0
	b.diamonds = 0
	b.sampleSum = 0
	b.sampleCount = 0
	b.sampleMax = 0
	b.pollPositive = 0
	b.pollNegative = 0
	b.viewers = make(map[string]*ViewerActivity)

	return snap
}
