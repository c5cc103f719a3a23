package response

import (
	"event_gallery/internal/domain/models"
	"event_gallery/internal/transport/http/dto"
)

// Response is the envelope of every API reply: {"ok": true, ...} on success,
// {"ok": false, "error": "..."} on failure.
type Response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`

	EventID  string                   `json:"eventId,omitempty"`
	Event    *models.Event            `json:"event,omitempty"`
	Events   *models.EventsCollection `json:"events,omitempty"`
	Admin    *models.Admin            `json:"admin,omitempty"`
	Token    string                   `json:"token,omitempty"`
	Views    *int64                   `json:"views,omitempty"`
	Visitors *int64                   `json:"visitors,omitempty"`
	Stats    *dto.EventStats          `json:"stats,omitempty"`
}

func Success() Response {
	return Response{OK: true}
}

func Fail(msg string) Response {
	return Response{OK: false, Error: msg}
}

// WithEvents attaches the collection and, when id is set, that event.
func (r Response) WithEvents(id string, events models.EventsCollection) Response {
	r.EventID = id
	r.Events = &events
	if id != "" {
		if ev, ok := events.Get(id); ok {
			r.Event = &ev
		}
	}
	return r
}
