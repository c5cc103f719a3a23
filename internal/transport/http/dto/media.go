package dto

import (
	"mime/multipart"
)

type UploadEventInput struct {
	EventID  string `form:"event_id"`
	Title    string `form:"title"`
	Date     string `form:"date"`
	Location string `form:"location"`

	Files []*multipart.FileHeader `form:"-"`
}
