package services

import (
	"sync"
)

// Event types published when a user's notes change.
const (
	EventNoteCreated       = "note.created"
	EventNoteUpdated       = "note.updated"
	EventNoteDeleted       = "note.deleted"
	EventSectionCreated    = "section.created"
	EventSectionUpdated    = "section.updated"
	EventSectionDeleted    = "section.deleted"
	EventAnnotationCreated = "annotation.created"
	EventAnnotationUpdated = "annotation.updated"
	EventAnnotationDeleted = "annotation.deleted"
	EventFreeTextCreated   = "free_text.created"
	EventFreeTextUpdated   = "free_text.updated"
	EventFreeTextDeleted   = "free_text.deleted"
	EventTagCreated        = "tag.created"
	EventTagUpdated        = "tag.updated"
	EventTagDeleted        = "tag.deleted"
)

const subscriberBuffer = 32

// NoteEvent tells a subscriber which record changed so it can refetch.
type NoteEvent struct {
	Type   string `json:"type"`
	NoteID uint   `json:"note_id,omitempty"`
	ID     uint   `json:"id"`
}

// Hub fans note events out to every live connection of a user.
type Hub struct {
	mu   sync.RWMutex
	subs map[uint]map[chan NoteEvent]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint]map[chan NoteEvent]struct{})}
}

// Subscribe registers a listener for userID. The returned cancel func must be
// called once; it closes the channel.
func (h *Hub) Subscribe(userID uint) (<-chan NoteEvent, func()) {
	ch := make(chan NoteEvent, subscriberBuffer)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan NoteEvent]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[userID], ch)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers ev to userID's subscribers. Slow subscribers miss events
// rather than block the writer.
func (h *Hub) Publish(userID uint, ev NoteEvent) {
	if h == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[userID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribers returns the number of live listeners for userID.
func (h *Hub) Subscribers(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}
