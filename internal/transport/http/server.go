package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"event_gallery/internal/domain/models"
	"event_gallery/internal/lib/logger/sl"
	"event_gallery/internal/lib/stats"
	"event_gallery/internal/services/auth"
	gallery "event_gallery/internal/services/gallery_service"
	media "event_gallery/internal/services/media_service"
	statssvc "event_gallery/internal/services/stats_service"
	"event_gallery/internal/storage"
	"event_gallery/internal/transport/http/dto"
	"event_gallery/internal/transport/http/dto/request"
	"event_gallery/internal/transport/http/dto/response"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	_ "event_gallery/docs"
)

const (
	SessionName = "gallery_session"

	sessionEmail   = "admin_email"
	sessionLoginAt = "login_at"

	SeenCookiePrefix = "gallery_seen_"
	VisitorCookie    = "gallery_vid"

	visitorCookieMaxAge = 365 * 24 * 60 * 60
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (models.Admin, error)
}

type TokenService interface {
	GenerateToken(admin models.Admin) (string, error)
	ParseToken(token string) (models.Admin, error)
}

type GalleryService interface {
	List(ctx context.Context) (models.EventsCollection, error)
	DeleteEvent(ctx context.Context, eventID string) (models.EventsCollection, error)
	DeletePhoto(ctx context.Context, eventID string, index int) (models.EventsCollection, error)
	ReorderPhotos(ctx context.Context, eventID string, photos []models.Photo) (models.EventsCollection, error)
	UpdateMeta(ctx context.Context, eventID, title, note string) (models.EventsCollection, error)
}

type MediaService interface {
	UploadPhotos(ctx context.Context, input dto.UploadEventInput) (models.EventsCollection, error)
}

type StatsService interface {
	TrackView(ctx context.Context, eventID string, seen bool, visitorID string) (dto.ViewResult, error)
	EventStats(ctx context.Context, eventID string, q dto.EventStatsQuery) (dto.EventStats, error)
	Today() string
	UsesLedger() bool
	DedupTTL() time.Duration
}

// SessionOptions configures the admin session cookie.
type SessionOptions struct {
	MaxAge int
	Secure bool
}

type Routers struct {
	log            *slog.Logger
	AuthService    AuthService
	TokenService   TokenService
	GalleryService GalleryService
	MediaService   MediaService
	StatsService   StatsService
	session        SessionOptions
}

func NewRouter(
	log *slog.Logger,
	authService AuthService,
	tokenService TokenService,
	galleryService GalleryService,
	mediaService MediaService,
	statsService StatsService,
	sessionOpts SessionOptions,
) *Routers {
	return &Routers{
		log:            log,
		AuthService:    authService,
		TokenService:   tokenService,
		GalleryService: galleryService,
		MediaService:   mediaService,
		StatsService:   statsService,
		session:        sessionOpts,
	}
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, response.Fail(msg))
}

// CurrentAdmin returns the principal of the request, taken from the session
// cookie or else from an "Authorization: Bearer" token.
func (r *Routers) CurrentAdmin(c echo.Context) (models.Admin, bool) {
	if sess, err := session.Get(SessionName, c); err == nil {
		if email, ok := sess.Values[sessionEmail].(string); ok && email != "" {
			loginAt, _ := sess.Values[sessionLoginAt].(string)
			return models.Admin{Email: email, LoginAt: loginAt}, true
		}
	}

	if r.TokenService == nil {
		return models.Admin{}, false
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return models.Admin{}, false
	}

	admin, err := r.TokenService.ParseToken(strings.TrimSpace(token))
	if err != nil {
		return models.Admin{}, false
	}
	return admin, true
}

// RequireAdmin rejects requests without an authenticated admin.
func (r *Routers) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := r.CurrentAdmin(c); !ok {
			return fail(c, http.StatusUnauthorized, response.MsgLoginRequired)
		}
		return next(c)
	}
}

// ListEvents godoc
// @Summary List events
// @Description Returns every event in collection order. Private notes are only included for admins.
// @Tags gallery
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/gallery/events [get]
func (r *Routers) ListEvents(c echo.Context) error {
	const op = "http.routers.ListEvents"

	events, err := r.GalleryService.List(c.Request().Context())
	if err != nil {
		r.log.Error("failed to list events", slog.String("op", op), sl.Err(err))
		return fail(c, http.StatusInternalServerError, response.MsgInternal)
	}

	if _, ok := r.CurrentAdmin(c); !ok {
		events = events.Public()
	}

	resp := response.Success()
	resp.Events = &events
	return c.JSON(http.StatusOK, resp)
}

// Login godoc
// @Summary Admin login
// @Description Checks the admin credentials, starts a session and returns a bearer token.
// @Tags auth
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request body request.LoginRequest true "Credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/gallery/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LoginRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid format request", sl.Err(err))
		return fail(c, http.StatusBadRequest, response.MsgEmptyCredentials)
	}

	admin, err := r.AuthService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmptyCredentials):
			return fail(c, http.StatusBadRequest, response.MsgEmptyCredentials)
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
		}
		log.Error("login failed", sl.Err(err))
		return fail(c, http.StatusInternalServerError, response.MsgInternal)
	}

	sess, err := session.Get(SessionName, c)
	if sess == nil {
		log.Error("session store unavailable", sl.Err(err))
		return fail(c, http.StatusInternalServerError, response.MsgInternal)
	}
	// Start from a fresh session so a planted one is never promoted.
	sess.ID = ""
	sess.IsNew = true
	sess.Options = r.sessionOptions(r.session.MaxAge)
	sess.Values = map[interface{}]interface{}{
		sessionEmail:   admin.Email,
		sessionLoginAt: admin.LoginAt,
	}
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		log.Error("failed to save session", sl.Err(err))
		return fail(c, http.StatusInternalServerError, response.MsgInternal)
	}

	resp := response.Success()
	resp.Admin = &admin

	if r.TokenService != nil {
		token, err := r.TokenService.GenerateToken(admin)
		if err != nil {
			log.Error("failed to issue token", sl.Err(err))
		} else {
			resp.Token = token
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Admin logout
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/gallery/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	sess, err := session.Get(SessionName, c)
	if err == nil {
		sess.Values = map[interface{}]interface{}{}
		sess.Options = r.sessionOptions(-1)
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			r.log.Warn("failed to expire session", sl.Err(err))
		}
	}

	return c.JSON(http.StatusOK, response.Success())
}

// Me godoc
// @Summary Current admin
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Security ApiKeyAuth
// @Router /api/gallery/me [get]
func (r *Routers) Me(c echo.Context) error {
	admin, ok := r.CurrentAdmin(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, response.MsgNotLoggedIn)
	}

	resp := response.Success()
	resp.Admin = &admin
	return c.JSON(http.StatusOK, resp)
}

func (r *Routers) sessionOptions(maxAge int) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   r.session.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// UploadEvent godoc
// @Summary Upload photos
// @Description Resizes the images into full and thumbnail WebP files and appends them to the event, creating it when new.
// @Tags gallery
// @Accept multipart/form-data
// @Produce json
// @Param event_id formData string true "Event ID ([a-z0-9_-]+)"
// @Param title formData string true "Event title"
// @Param date formData string true "Event date"
// @Param location formData string false "Event location"
// @Param photos[] formData file true "Images (jpeg, png, webp)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 413 {object} response.Response
// @Security ApiKeyAuth
// @Router /api/gallery/upload_event [post]
func (r *Routers) UploadEvent(c echo.Context) error {
	const op = "http.routers.UploadEvent"

	log := r.log.With(
		slog.String("op", op),
	)

	startTime := time.Now()
	defer func() {
		log.Info("request completed", slog.Duration("duration", time.Since(startTime)))
	}()

	var input dto.UploadEventInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if form, err := c.MultipartForm(); err == nil {
		input.Files = append(input.Files, form.File["photos[]"]...)
		input.Files = append(input.Files, form.File["photos"]...)
	}

	events, err := r.MediaService.UploadPhotos(c.Request().Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrMissingFields):
			return fail(c, http.StatusBadRequest, response.MsgMissingUpload)
		case errors.Is(err, media.ErrInvalidEventID):
			return fail(c, http.StatusBadRequest, response.MsgInvalidEventID)
		case errors.Is(err, media.ErrNoFiles):
			return fail(c, http.StatusBadRequest, response.MsgNoFiles)
		case errors.Is(err, media.ErrNoValidImages):
			return fail(c, http.StatusBadRequest, response.MsgNoValidImages)
		}
		log.Error("upload failed", sl.Err(err))
		return fail(c, http.StatusInternalServerError, response.MsgInternal)
	}

	return c.JSON(http.StatusOK, response.Success().WithEvents(strings.TrimSpace(input.EventID), events))
}

// DeleteEvent godoc
// @Summary Delete event
// @Description Removes the event and its image directory.
// @Tags gallery
// @Accept x-www-form-urlencoded
// @Produce json
// @Param event_id formData string true "Event ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Security ApiKeyAuth
// @Router /api/gallery/delete_event [post]
func (r *Routers) DeleteEvent(c echo.Context) error {
	const op = "http.routers.DeleteEvent"

	var req dto.DeleteEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	req.EventID = strings.TrimSpace(req.EventID)
	if err := c.Validate(req); err != nil {
		return fail(c, http.StatusBadRequest, response.MsgMissingEventID)
	}

	events, err := r.GalleryService.DeleteEvent(c.Request().Context(), req.EventID)
	if err != nil {
		return r.galleryError(c, op, err)
	}

	resp := response.Success().WithEvents("", events)
	resp.EventID = req.EventID
	return c.JSON(http.StatusOK, resp)
}

// DeletePhoto godoc
// @Summary Delete photo
// @Description Removes the photo at photo_index and both of its files. Later photos shift down.
// @Tags gallery
// @Accept x-www-form-urlencoded
// @Produce json
// @Param event_id formData string true "Event ID"
// @Param photo_index formData integer true "Zero-based photo index"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Security ApiKeyAuth
// @Router /api/gallery/delete_photo [post]
func (r *Routers) DeletePhoto(c echo.Context) error {
	const op = "http.routers.DeletePhoto"

	var req dto.DeletePhotoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	req.EventID = strings.TrimSpace(req.EventID)
	if err := c.Validate(req); err != nil {
		return fail(c, http.StatusBadRequest, response.MsgMissingPhotoIndex)
	}

	index, err := strconv.Atoi(strings.TrimSpace(req.PhotoIndex))
	if err != nil || index < 0 {
		return fail(c, http.StatusBadRequest, response.MsgMissingPhotoIndex)
	}

	events, err := r.GalleryService.DeletePhoto(c.Request().Context(), req.EventID, index)
	if err != nil {
		return r.galleryError(c, op, err)
	}

	return c.JSON(http.StatusOK, response.Success().WithEvents(req.EventID, events))
}

// UpdateEventMeta godoc
// @Summary Update event title and note
// @Description The title changes only when non-empty; the note is always replaced.
// @Tags gallery
// @Accept x-www-form-urlencoded
// @Produce json
// @Param event_id formData string true "Event ID"
// @Param title formData string false "New title"
// @Param note formData string false "Private note"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Security ApiKeyAuth
// @Router /api/gallery/update_event_meta [post]
func (r *Routers) UpdateEventMeta(c echo.Context) error {
	const op = "http.routers.UpdateEventMeta"

	var req dto.UpdateEventMetaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	req.EventID = strings.TrimSpace(req.EventID)
	if err := c.Validate(req); err != nil {
		return fail(c, http.StatusBadRequest, response.MsgMissingEventID)
	}

	events, err := r.GalleryService.UpdateMeta(c.Request().Context(), req.EventID, strings.TrimSpace(req.Title), strings.TrimSpace(req.Note))
	if err != nil {
		return r.galleryError(c, op, err)
	}

	return c.JSON(http.StatusOK, response.Success().WithEvents(req.EventID, events))
}

// UpdatePhotoOrder godoc
// @Summary Replace photo order
// @Description Overwrites the event's photo list with the JSON array in photos_json.
// @Tags gallery
// @Accept x-www-form-urlencoded
// @Produce json
// @Param event_id formData string true "Event ID"
// @Param photos_json formData string true "JSON array of photos"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Security ApiKeyAuth
// @Router /api/gallery/update_photo_order [post]
func (r *Routers) UpdatePhotoOrder(c echo.Context) error {
	const op = "http.routers.UpdatePhotoOrder"

	var req dto.UpdatePhotoOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	req.EventID = strings.TrimSpace(req.EventID)
	if err := c.Validate(req); err != nil {
		return fail(c, http.StatusBadRequest, response.MsgMissingPhotosJSON)
	}

	var photos []models.Photo
	if err := json.Unmarshal([]byte(req.PhotosJSON), &photos); err != nil || photos == nil {
		return fail(c, http.StatusBadRequest, response.MsgInvalidPhotosJSON)
	}

	events, err := r.GalleryService.ReorderPhotos(c.Request().Context(), req.EventID, photos)
	if err != nil {
		return r.galleryError(c, op, err)
	}

	return c.JSON(http.StatusOK, response.Success().WithEvents(req.EventID, events))
}

func (r *Routers) galleryError(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrEventNotFound):
		return fail(c, http.StatusNotFound, response.MsgEventNotFound)
	case errors.Is(err, storage.ErrPhotoNotFound):
		return fail(c, http.StatusNotFound, response.MsgPhotoNotFound)
	case errors.Is(err, gallery.ErrInvalidPhotos):
		return fail(c, http.StatusBadRequest, response.MsgInvalidPhotosJSON)
	}

	r.log.Error("gallery operation failed", slog.String("op", op), sl.Err(err))
	return fail(c, http.StatusInternalServerError, response.MsgInternal)
}

// ViewEvent godoc
// @Summary Record a view
// @Description Counts a view; the visitor counter only grows on the first view of the day.
// @Tags stats
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request body dto.ViewEventRequest true "Event"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/gallery/view_event [post]
func (r *Routers) ViewEvent(c echo.Context) error {
	const op = "http.routers.ViewEvent"

	var req dto.ViewEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	req.EventID = strings.TrimSpace(req.EventID)
	if err := c.Validate(req); err != nil {
		return fail(c, http.StatusBadRequest, response.MsgMissingEventID)
	}

	seenCookie := SeenCookieName(req.EventID, r.StatsService.Today())
	seen := false
	if ck, err := c.Cookie(seenCookie); err == nil && ck.Value != "" {
		seen = true
	}

	visitorID := ""
	if r.StatsService.UsesLedger() {
		visitorID = r.visitorID(c)
	}

	res, err := r.StatsService.TrackView(c.Request().Context(), req.EventID, seen, visitorID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrEventNotFound):
			return fail(c, http.StatusNotFound, response.MsgEventNotFound)
		case errors.Is(err, statssvc.ErrMissingEventID):
			return fail(c, http.StatusBadRequest, response.MsgMissingEventID)
		}
		r.log.Error("failed to record view", slog.String("op", op), sl.Err(err))
		return fail(c, http.StatusInternalServerError, response.MsgInternal)
	}

	if !seen && models.ValidEventID(res.EventID) {
		c.SetCookie(&http.Cookie{
			Name:     SeenCookieName(res.EventID, res.Day),
			Value:    "1",
			Path:     "/",
			MaxAge:   int(r.StatsService.DedupTTL().Seconds()),
			HttpOnly: true,
			Secure:   r.session.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	resp := response.Success()
	resp.EventID = res.EventID
	resp.Views = &res.Views
	resp.Visitors = &res.Visitors
	return c.JSON(http.StatusOK, resp)
}

// visitorID returns the long-lived visitor cookie, issuing one if absent.
func (r *Routers) visitorID(c echo.Context) string {
	if ck, err := c.Cookie(VisitorCookie); err == nil {
		if _, err := uuid.Parse(ck.Value); err == nil {
			return ck.Value
		}
	}

	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   visitorCookieMaxAge,
		HttpOnly: true,
		Secure:   r.session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// SeenCookieName is the dedup cookie of one event on one day, e.g.
// gallery_seen_summer-fest_20250514.
func SeenCookieName(eventID, day string) string {
	return SeenCookiePrefix + eventID + "_" + strings.ReplaceAll(day, "-", "")
}

// EventStats godoc
// @Summary Event statistics
// @Description Totals, today, the last 7 days, a 14-day table and a series grouped by unit.
// @Tags stats
// @Produce json
// @Param event_id path string true "Event ID"
// @Param unit query string false "day, week, month or year" Enums(day, week, month, year)
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Security ApiKeyAuth
// @Router /api/gallery/events/{event_id}/stats [get]
func (r *Routers) EventStats(c echo.Context) error {
	const op = "http.routers.EventStats"

	var q dto.EventStatsQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	res, err := r.StatsService.EventStats(c.Request().Context(), c.Param("event_id"), q)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrEventNotFound):
			return fail(c, http.StatusNotFound, response.MsgEventNotFound)
		case errors.Is(err, stats.ErrInvalidUnit),
			errors.Is(err, stats.ErrInvalidDay),
			errors.Is(err, statssvc.ErrInvalidRange):
			return fail(c, http.StatusBadRequest, response.MsgInvalidStatsQuery)
		}
		r.log.Error("failed to build stats", slog.String("op", op), sl.Err(err))
		return fail(c, http.StatusInternalServerError, response.MsgInternal)
	}

	resp := response.Success()
	resp.EventID = c.Param("event_id")
	resp.Stats = &res
	return c.JSON(http.StatusOK, resp)
}

// Health godoc
// @Summary Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} response.Response
// @Router /health [get]
func (r *Routers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, response.Success())
}
