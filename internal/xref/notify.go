package xref

import "sync"

// NotificationKind tells what changed.
type NotificationKind uint8

const (
	// ModelUpdated is sent once per published batch.
	ModelUpdated NotificationKind = iota + 1
	// FileUpdated is sent for every file of a published batch.
	FileUpdated
)

func (k NotificationKind) String() string {
	switch k {
	case ModelUpdated:
		return "model"
	case FileUpdated:
		return "file"
	}
	return "unknown"
}

// Notification announces a publication. Path is set for FileUpdated.
type Notification struct {
	Kind NotificationKind
	Path string
	// Seq is the generation that was published.
	Seq uint64
}

// hub fans notifications out to subscribers. A subscriber that does not
// keep up loses notifications instead of blocking the worker.
type hub struct {
	mu   sync.Mutex
	subs map[int]chan Notification
	next int
}

func (h *hub) subscribe(buf int) (<-chan Notification, func()) {
	if buf <= 0 {
		buf = 64
	}
	ch := make(chan Notification, buf)
	h.mu.Lock()
	if h.subs == nil {
		h.subs = make(map[int]chan Notification)
	}
	id := h.next
	h.next++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			if c, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(c)
			}
			h.mu.Unlock()
		})
	}
}

func (h *hub) publish(ns ...Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		for _, n := range ns {
			select {
			case ch <- n:
			default:
			}
		}
	}
}

// closeAll ends every subscription.
func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		close(ch)
		delete(h.subs, id)
	}
}
