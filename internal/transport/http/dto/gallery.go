package dto

import (
	"event_gallery/internal/domain/models"
	"event_gallery/internal/lib/stats"
)

type DeleteEventRequest struct {
	EventID string `json:"event_id" form:"event_id" validate:"required"`
}

type DeletePhotoRequest struct {
	EventID    string `json:"event_id" form:"event_id" validate:"required"`
	PhotoIndex string `json:"photo_index" form:"photo_index" validate:"required"`
}

type UpdateEventMetaRequest struct {
	EventID string `json:"event_id" form:"event_id" validate:"required"`
	Title   string `json:"title" form:"title"`
	Note    string `json:"note" form:"note"`
}

type UpdatePhotoOrderRequest struct {
	EventID    string `json:"event_id" form:"event_id" validate:"required"`
	PhotosJSON string `json:"photos_json" form:"photos_json" validate:"required"`
}

type ViewEventRequest struct {
	EventID string `json:"event_id" form:"event_id" validate:"required"`
}

type EventStatsQuery struct {
	Unit string `query:"unit"`
	From string `query:"from"`
	To   string `query:"to"`
}

// ViewResult is the outcome of a recorded view.
type ViewResult struct {
	EventID    string
	Day        string
	Views      int64
	Visitors   int64
	FirstVisit bool
}

// EventStats is the statistics panel of one event.
type EventStats struct {
	Unit     stats.Unit      `json:"unit"`
	From     string          `json:"from"`
	To       string          `json:"to"`
	Today    string          `json:"today"`
	Total    models.DayStats `json:"total"`
	TodaySum models.DayStats `json:"todaySum"`
	Last7Sum models.DayStats `json:"last7Sum"`
	RangeSum models.DayStats `json:"rangeSum"`
	// Table lists the last 14 days, newest first.
	Table  []stats.Row  `json:"table"`
	Series stats.Series `json:"series"`
}
