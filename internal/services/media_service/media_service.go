package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"event_gallery/internal/domain/models"
	"event_gallery/internal/lib/imaging"
	"event_gallery/internal/lib/logger/sl"
	"event_gallery/internal/metrics"
	"event_gallery/internal/repository"
	storage "event_gallery/internal/storage/filestorage"
	"event_gallery/internal/transport/http/dto"
)

var (
	ErrMissingFields  = errors.New("event_id, title and date are required")
	ErrInvalidEventID = errors.New("invalid event id")
	ErrNoFiles        = errors.New("no files uploaded")
	ErrNoValidImages  = errors.New("no valid images")
	ErrFileTooLarge   = errors.New("file exceeds size limit")
)

const (
	DefaultFullWidth  = 1600
	DefaultThumbWidth = 600

	FullSuffix  = "_full.webp"
	ThumbSuffix = "_thumb.webp"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Resizer turns an uploaded image into a WebP no wider than maxWidth.
type Resizer interface {
	Resize(data []byte, maxWidth int) ([]byte, error)
}

type Config struct {
	FullWidth       int
	ThumbWidth      int
	MaxSize         int64
	DefaultLocation string
}

type MediaService struct {
	log         *slog.Logger
	repo        repository.EventStore
	fileStorage storage.FileStorage
	resizer     Resizer
	cfg         Config
}

func NewMediaService(log *slog.Logger, repo repository.EventStore, fileStorage storage.FileStorage, resizer Resizer, cfg Config) *MediaService {
	if cfg.FullWidth <= 0 {
		cfg.FullWidth = DefaultFullWidth
	}
	if cfg.ThumbWidth <= 0 {
		cfg.ThumbWidth = DefaultThumbWidth
	}

	return &MediaService{
		log:         log,
		repo:        repo,
		fileStorage: fileStorage,
		resizer:     resizer,
		cfg:         cfg,
	}
}

// UploadPhotos converts every acceptable file into a full/thumb pair and
// appends the results to the event, creating the event when it is new.
// Files that cannot be used are skipped.
func (s *MediaService) UploadPhotos(ctx context.Context, input dto.UploadEventInput) (models.EventsCollection, error) {
	const op = "media_service.UploadPhotos"

	eventID := strings.TrimSpace(input.EventID)
	title := strings.TrimSpace(input.Title)
	date := strings.TrimSpace(input.Date)
	location := strings.TrimSpace(input.Location)

	log := s.log.With(
		slog.String("op", op),
		slog.String("event_id", eventID),
		slog.Int("files", len(input.Files)),
	)

	if eventID == "" || title == "" || date == "" {
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, ErrMissingFields)
	}
	if !models.ValidEventID(eventID) {
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, ErrInvalidEventID)
	}
	if len(input.Files) == 0 {
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, ErrNoFiles)
	}

	log.Info("upload photos")

	alt := title + " - image"
	photos := make([]models.Photo, 0, len(input.Files))

	for _, fh := range input.Files {
		photo, err := s.processFile(ctx, eventID, alt, fh)
		if err != nil {
			log.Warn("skipping uploaded file", slog.String("file", fh.Filename), sl.Err(err))
			continue
		}
		photos = append(photos, photo)
	}

	if len(photos) == 0 {
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, ErrNoValidImages)
	}

	events, err := s.repo.Load(ctx)
	if err != nil {
		log.Error("failed to load events", sl.Err(err))
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, err)
	}

	ev, ok := events.Get(eventID)
	if !ok {
		if location == "" {
			location = s.cfg.DefaultLocation
		}
		ev = models.Event{
			Title:    title,
			Date:     date,
			Location: location,
			Photos:   []models.Photo{},
		}
		log.Info("creating new event")
	}

	ev = ev.Clone()
	ev.Photos = append(ev.Photos, photos...)
	events.Set(eventID, ev)

	if err := s.repo.Save(ctx, events); err != nil {
		log.Error("failed to save events", sl.Err(err))
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.PhotosUploadedTotal.Add(float64(len(photos)))
	log.Info("photos uploaded successfully", slog.Int("added", len(photos)))

	return events, nil
}

func (s *MediaService) processFile(ctx context.Context, eventID, alt string, fh *multipart.FileHeader) (models.Photo, error) {
	if s.cfg.MaxSize > 0 && fh.Size > s.cfg.MaxSize {
		metrics.UploadsSkippedTotal.WithLabelValues("too_large").Inc()
		return models.Photo{}, ErrFileTooLarge
	}

	data, err := readFile(fh)
	if err != nil {
		metrics.UploadsSkippedTotal.WithLabelValues("read").Inc()
		return models.Photo{}, err
	}

	if !slices.Contains(imaging.AllowedTypes, detectType(fh, data)) {
		metrics.UploadsSkippedTotal.WithLabelValues("type").Inc()
		return models.Photo{}, imaging.ErrUnsupportedType
	}

	full, err := s.resizer.Resize(data, s.cfg.FullWidth)
	if err != nil {
		metrics.UploadsSkippedTotal.WithLabelValues("decode").Inc()
		return models.Photo{}, fmt.Errorf("full: %w", err)
	}
	thumb, err := s.resizer.Resize(data, s.cfg.ThumbWidth)
	if err != nil {
		metrics.UploadsSkippedTotal.WithLabelValues("decode").Inc()
		return models.Photo{}, fmt.Errorf("thumb: %w", err)
	}

	base := SanitizeName(fh.Filename)
	fullName, thumbName := base+FullSuffix, base+ThumbSuffix

	if _, err := s.fileStorage.Write(ctx, eventID, fullName, full); err != nil {
		metrics.UploadsSkippedTotal.WithLabelValues("write").Inc()
		return models.Photo{}, err
	}
	if _, err := s.fileStorage.Write(ctx, eventID, thumbName, thumb); err != nil {
		metrics.UploadsSkippedTotal.WithLabelValues("write").Inc()
		_ = s.fileStorage.Delete(ctx, filepath.Join(eventID, fullName))
		return models.Photo{}, err
	}

	return models.Photo{
		Full:  s.fileStorage.URL(eventID, fullName),
		Thumb: s.fileStorage.URL(eventID, thumbName),
		Alt:   alt,
	}, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return data, nil
}

// detectType trusts the part's Content-Type and sniffs the bytes when the
// client sent none or a generic one.
func detectType(fh *multipart.FileHeader, data []byte) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil && mt != "application/octet-stream" {
			return mt
		}
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mt
}

// SanitizeName strips the extension from an upload's filename and replaces
// every run of characters outside [a-zA-Z0-9_-] with a single underscore.
func SanitizeName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = unsafeNameChars.ReplaceAllString(base, "_")
	if base == "" {
		return "image"
	}
	return base
}
