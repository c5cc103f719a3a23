package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"event_gallery/internal/domain/models"
	"event_gallery/internal/lib/logger/sl"
	"event_gallery/internal/repository"
	"event_gallery/internal/storage"
	filestorage "event_gallery/internal/storage/filestorage"
)

var ErrInvalidPhotos = errors.New("invalid photo list")

// GalleryService manages events and the photo lists inside them. Each call
// loads the whole collection, mutates it and saves it back.
type GalleryService struct {
	log   *slog.Logger
	repo  repository.EventStore
	files filestorage.FileStorage
}

func NewGalleryService(log *slog.Logger, repo repository.EventStore, files filestorage.FileStorage) *GalleryService {
	return &GalleryService{
		log:   log,
		repo:  repo,
		files: files,
	}
}

// List returns every event in collection order.
func (s *GalleryService) List(ctx context.Context) (models.EventsCollection, error) {
	const op = "service.GalleryService.List"

	events, err := s.repo.Load(ctx)
	if err != nil {
		s.log.Error("failed to load events", slog.String("op", op), sl.Err(err))
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

// DeleteEvent removes the event together with its image directory.
func (s *GalleryService) DeleteEvent(ctx context.Context, eventID string) (models.EventsCollection, error) {
	const op = "service.GalleryService.DeleteEvent"
	log := s.log.With(
		slog.String("op", op),
		slog.String("event_id", eventID),
	)

	log.Info("deleting event")

	events, err := s.repo.Load(ctx)
	if err != nil {
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, err)
	}

	if !events.Has(eventID) {
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}

	if models.ValidEventID(eventID) {
		if err := s.files.DeleteDir(ctx, eventID); err != nil {
			log.Warn("failed to remove event images", sl.Err(err))
		}
	}

	events.Delete(eventID)

	if err := s.repo.Save(ctx, events); err != nil {
		log.Error("failed to save events", sl.Err(err))
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("event deleted successfully")
	return events, nil
}

// DeletePhoto removes the photo at index and both of its files. Later photos
// shift down by one.
func (s *GalleryService) DeletePhoto(ctx context.Context, eventID string, index int) (models.EventsCollection, error) {
	const op = "service.GalleryService.DeletePhoto"
	log := s.log.With(
		slog.String("op", op),
		slog.String("event_id", eventID),
		slog.Int("index", index),
	)

	log.Info("deleting photo")

	events, err := s.repo.Load(ctx)
	if err != nil {
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, err)
	}

	ev, ok := events.Get(eventID)
	if !ok {
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}

	if index < 0 || index >= len(ev.Photos) {
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
	}

	photo := ev.Photos[index]

	ev = ev.Clone()
	ev.Photos = append(ev.Photos[:index], ev.Photos[index+1:]...)
	events.Set(eventID, ev)

	// Files go only once the entry is gone from the saved collection.
	if err := s.repo.Save(ctx, events); err != nil {
		log.Error("failed to save events", sl.Err(err))
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, url := range []string{photo.Full, photo.Thumb} {
		s.removePhotoFile(ctx, log, eventID, url)
	}

	log.Info("photo deleted successfully", slog.Int("remaining", len(ev.Photos)))
	return events, nil
}

// removePhotoFile deletes the file a photo URL points at. Only the basename
// is trusted, resolved inside the event's directory.
func (s *GalleryService) removePhotoFile(ctx context.Context, log *slog.Logger, eventID, url string) {
	if url == "" || !models.ValidEventID(eventID) {
		return
	}

	name := path.Base(url)
	if name == "." || name == "/" || name == ".." {
		return
	}

	err := s.files.Delete(ctx, path.Join(eventID, name))
	if err != nil && !errors.Is(err, storage.ErrFileNotFound) {
		log.Warn("failed to remove photo file", slog.String("file", name), sl.Err(err))
	}
}

// ReorderPhotos replaces the photo list verbatim with the client's version.
func (s *GalleryService) ReorderPhotos(ctx context.Context, eventID string, photos []models.Photo) (models.EventsCollection, error) {
	const op = "service.GalleryService.ReorderPhotos"
	log := s.log.With(
		slog.String("op", op),
		slog.String("event_id", eventID),
	)

	if photos == nil {
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, ErrInvalidPhotos)
	}

	events, err := s.repo.Load(ctx)
	if err != nil {
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, err)
	}

	ev, ok := events.Get(eventID)
	if !ok {
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}

	ev.Photos = append([]models.Photo{}, photos...)
	events.Set(eventID, ev)

	if err := s.repo.Save(ctx, events); err != nil {
		log.Error("failed to save events", sl.Err(err))
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("photo order updated", slog.Int("photos", len(photos)))
	return events, nil
}

// UpdateMeta sets the title when one is given and always sets the note, so
// an empty note clears it.
func (s *GalleryService) UpdateMeta(ctx context.Context, eventID, title, note string) (models.EventsCollection, error) {
	const op = "service.GalleryService.UpdateMeta"
	log := s.log.With(
		slog.String("op", op),
		slog.String("event_id", eventID),
	)

	events, err := s.repo.Load(ctx)
	if err != nil {
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, err)
	}

	ev, ok := events.Get(eventID)
	if !ok {
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}

	if title != "" {
		ev.Title = title
	}
	ev.Note = note
	events.Set(eventID, ev)

	if err := s.repo.Save(ctx, events); err != nil {
		log.Error("failed to save events", sl.Err(err))
		return models.EventsCollection{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("event meta updated")
	return events, nil
}
