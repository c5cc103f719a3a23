package models

import (
	"regexp"
)

var eventIDPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// ValidEventID reports whether id may be used as an event key and directory name.
func ValidEventID(id string) bool {
	return eventIDPattern.MatchString(id)
}

// Photo is a full/thumbnail pair. It has no identity of its own: it is
// addressed by its index inside Event.Photos.
type Photo struct {
	Full  string `json:"full"`
	Thumb string `json:"thumb"`
	Alt   string `json:"alt"`
}

// DayStats holds the counters of a single day bucket.
type DayStats struct {
	Views    int64 `json:"views"`
	Visitors int64 `json:"visitors"`
}

// Add accumulates o into s.
func (s *DayStats) Add(o DayStats) {
	s.Views += o.Views
	s.Visitors += o.Visitors
}

// Event is a photo album with its visit statistics.
type Event struct {
	Title    string              `json:"title"`
	Date     string              `json:"date,omitempty"`
	Location string              `json:"location,omitempty"`
	Note     string              `json:"note,omitempty"` // admin only
	Photos   []Photo             `json:"photos"`
	Views    int64               `json:"views"`
	Visitors int64               `json:"visitors"`
	Stats    map[string]DayStats `json:"stats,omitempty"` // keyed by YYYY-MM-DD
}

// Normalize fills nil collections so the event always serializes with an
// array of photos.
func (e *Event) Normalize() {
	if e.Photos == nil {
		e.Photos = []Photo{}
	}
}

// Clone returns a deep copy of the event.
func (e Event) Clone() Event {
	out := e
	out.Photos = make([]Photo, len(e.Photos))
	copy(out.Photos, e.Photos)
	if e.Stats != nil {
		out.Stats = make(map[string]DayStats, len(e.Stats))
		for k, v := range e.Stats {
			out.Stats[k] = v
		}
	}
	return out
}

// Public returns the event as shown to visitors.
func (e Event) Public() Event {
	out := e.Clone()
	out.Note = ""
	return out
}

// Admin is the authenticated principal of the gallery.
type Admin struct {
	Email   string `json:"email"`
	LoginAt string `json:"login_at,omitempty"`
}
