package services_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"event_gallery/internal/domain/models"
	services "event_gallery/internal/services/media_service"
	storage "event_gallery/internal/storage/filestorage"
	"event_gallery/internal/transport/http/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// pngMagic is enough for content sniffing; the fake resizer never decodes.
var pngMagic = []byte("\x89PNG\r\n\x1a\n0000")

type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) Load(ctx context.Context) (models.EventsCollection, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.EventsCollection), args.Error(1)
}

func (m *MockEventStore) Save(ctx context.Context, events models.EventsCollection) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type fakeResizer struct {
	fail map[string]bool
}

func (r fakeResizer) Resize(data []byte, maxWidth int) ([]byte, error) {
	if r.fail[string(data)] {
		return nil, errors.New("cannot decode")
	}
	return []byte(fmt.Sprintf("webp:%d", maxWidth)), nil
}

type upload struct {
	name        string
	contentType string
	content     []byte
}

func createTestFiles(t *testing.T, files ...upload) []*multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photos[]"; filename="%s"`, f.name))
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := writer.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["photos[]"]
}

func setup(t *testing.T, resizer services.Resizer, cfg services.Config) (*services.MediaService, *MockEventStore, *storage.LocalFileStorage) {
	t.Helper()

	files, err := storage.NewLocalFileStorage(t.TempDir(), "/gallery-images")
	require.NoError(t, err)

	repo := new(MockEventStore)
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	return services.NewMediaService(log, repo, files, resizer, cfg), repo, files
}

func TestMediaService_UploadPhotos(t *testing.T) {
	ctx := context.Background()
	cfg := services.Config{DefaultLocation: "Town Hall"}

	t.Run("new event", func(t *testing.T) {
		service, repo, files := setup(t, fakeResizer{}, cfg)

		var saved models.EventsCollection
		repo.On("Load", ctx).Return(models.NewEventsCollection(), nil).Once()
		repo.On("Save", ctx, mock.Anything).
			Run(func(args mock.Arguments) { saved = args.Get(1).(models.EventsCollection) }).
			Return(nil).Once()

		input := dto.UploadEventInput{
			EventID: "summer-fest",
			Title:   "Summer Fest",
			Date:    "2025-07-01",
			Files: createTestFiles(t,
				upload{"My Photo (1).JPG", "image/jpeg", []byte("jpeg")},
				upload{"beach.png", "", pngMagic},
			),
		}

		events, err := service.UploadPhotos(ctx, input)
		require.NoError(t, err)

		ev, ok := events.Get("summer-fest")
		require.True(t, ok)
		assert.Equal(t, "Summer Fest", ev.Title)
		assert.Equal(t, "2025-07-01", ev.Date)
		assert.Equal(t, "Town Hall", ev.Location)
		require.Len(t, ev.Photos, 2)
		assert.Equal(t, models.Photo{
			Full:  "/gallery-images/summer-fest/My_Photo_1__full.webp",
			Thumb: "/gallery-images/summer-fest/My_Photo_1__thumb.webp",
			Alt:   "Summer Fest - image",
		}, ev.Photos[0])
		assert.Equal(t, "/gallery-images/summer-fest/beach_full.webp", ev.Photos[1].Full)

		assert.True(t, saved.Has("summer-fest"))

		full, err := os.ReadFile(filepath.Join(files.GetBaseDir(), "summer-fest", "beach_full.webp"))
		require.NoError(t, err)
		assert.Equal(t, "webp:1600", string(full))

		thumb, err := os.ReadFile(filepath.Join(files.GetBaseDir(), "summer-fest", "beach_thumb.webp"))
		require.NoError(t, err)
		assert.Equal(t, "webp:600", string(thumb))

		repo.AssertExpectations(t)
	})

	t.Run("existing event keeps metadata and appends", func(t *testing.T) {
		service, repo, _ := setup(t, fakeResizer{}, cfg)

		existing := models.NewEventsCollection()
		existing.Set("summer-fest", models.Event{
			Title:    "Original",
			Date:     "2025-06-30",
			Location: "Park",
			Photos:   []models.Photo{{Full: "/old_full.webp", Thumb: "/old_thumb.webp", Alt: "old"}},
		})
		repo.On("Load", ctx).Return(existing, nil).Once()
		repo.On("Save", ctx, mock.Anything).Return(nil).Once()

		events, err := service.UploadPhotos(ctx, dto.UploadEventInput{
			EventID:  "summer-fest",
			Title:    "Changed",
			Date:     "2025-07-01",
			Location: "Elsewhere",
			Files:    createTestFiles(t, upload{"new.webp", "image/webp", []byte("webp")}),
		})
		require.NoError(t, err)

		ev, _ := events.Get("summer-fest")
		assert.Equal(t, "Original", ev.Title)
		assert.Equal(t, "Park", ev.Location)
		require.Len(t, ev.Photos, 2)
		assert.Equal(t, "old", ev.Photos[0].Alt)
		assert.Equal(t, "Changed - image", ev.Photos[1].Alt)
	})

	t.Run("unusable files are skipped", func(t *testing.T) {
		service, repo, _ := setup(t, fakeResizer{fail: map[string]bool{"broken": true}}, cfg)

		repo.On("Load", ctx).Return(models.NewEventsCollection(), nil).Once()
		repo.On("Save", ctx, mock.Anything).Return(nil).Once()

		events, err := service.UploadPhotos(ctx, dto.UploadEventInput{
			EventID: "mixed",
			Title:   "Mixed",
			Date:    "2025-07-01",
			Files: createTestFiles(t,
				upload{"notes.txt", "text/plain", []byte("hello")},
				upload{"broken.jpg", "image/jpeg", []byte("broken")},
				upload{"ok.jpg", "image/jpeg", []byte("fine")},
			),
		})
		require.NoError(t, err)

		ev, _ := events.Get("mixed")
		require.Len(t, ev.Photos, 1)
		assert.Equal(t, "/gallery-images/mixed/ok_full.webp", ev.Photos[0].Full)
	})

	t.Run("oversize files are skipped", func(t *testing.T) {
		service, repo, _ := setup(t, fakeResizer{}, services.Config{MaxSize: 4})

		_, err := service.UploadPhotos(ctx, dto.UploadEventInput{
			EventID: "big",
			Title:   "Big",
			Date:    "2025-07-01",
			Files:   createTestFiles(t, upload{"huge.jpg", "image/jpeg", []byte("0123456789")}),
		})
		assert.ErrorIs(t, err, services.ErrNoValidImages)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("only disallowed types", func(t *testing.T) {
		service, repo, files := setup(t, fakeResizer{}, cfg)

		_, err := service.UploadPhotos(ctx, dto.UploadEventInput{
			EventID: "gifs",
			Title:   "Gifs",
			Date:    "2025-07-01",
			Files:   createTestFiles(t, upload{"anim.gif", "image/gif", []byte("GIF89a")}),
		})
		assert.ErrorIs(t, err, services.ErrNoValidImages)
		repo.AssertNotCalled(t, "Load", mock.Anything)

		_, statErr := os.Stat(filepath.Join(files.GetBaseDir(), "gifs"))
		assert.True(t, os.IsNotExist(statErr))
	})

	validationTests := []struct {
		name    string
		input   dto.UploadEventInput
		wantErr error
	}{
		{"missing title", dto.UploadEventInput{EventID: "a", Date: "2025-07-01"}, services.ErrMissingFields},
		{"missing date", dto.UploadEventInput{EventID: "a", Title: "A"}, services.ErrMissingFields},
		{"blank event id", dto.UploadEventInput{EventID: "  ", Title: "A", Date: "d"}, services.ErrMissingFields},
		{"uppercase id", dto.UploadEventInput{EventID: "Summer", Title: "A", Date: "d"}, services.ErrInvalidEventID},
		{"path in id", dto.UploadEventInput{EventID: "../etc", Title: "A", Date: "d"}, services.ErrInvalidEventID},
		{"no files", dto.UploadEventInput{EventID: "a", Title: "A", Date: "d"}, services.ErrNoFiles},
	}

	for _, tt := range validationTests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, _ := setup(t, fakeResizer{}, cfg)

			_, err := service.UploadPhotos(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Load", mock.Anything)
		})
	}
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"photo.jpg":             "photo",
		"My Photo (1).JPG":      "My_Photo_1_",
		"über-straße.png":       "_ber-stra_e",
		"dir/sub/pic.webp":      "pic",
		`C:\Users\kim\pic.jpeg`: "pic",
		"already_safe-name.png": "already_safe-name",
		".jpg":                  "image",
		"":                      "image",
	}

	for in, want := range tests {
		assert.Equal(t, want, services.SanitizeName(in), in)
	}
}
