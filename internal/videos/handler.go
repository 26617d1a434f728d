// Package videos serves video upload, edit and delete for the developer
// and uploader dashboards, and persists videos with their questions.
package videos

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anagmk/Reel/internal/models"
	"github.com/anagmk/Reel/pkg/queue"
	"github.com/anagmk/Reel/pkg/response"
	"github.com/anagmk/Reel/pkg/storage"
)

// multipartOverhead is the allowance for form fields on top of the file.
const multipartOverhead = 1 << 20

// Store is the video and question persistence used by the handler.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error)
	Create(ctx context.Context, v *models.Video) error
	Update(ctx context.Context, v *models.Video) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetQuestionByVideo(ctx context.Context, videoID uuid.UUID) (*models.Question, error)
	SaveQuestion(ctx context.Context, q *models.Question) error
	DeleteQuestionByVideo(ctx context.Context, videoID uuid.UUID) error
}

// PurgeQueue accepts media deletes to retry out of band.
type PurgeQueue interface {
	EnqueueMediaPurge(ctx context.Context, payload queue.MediaPurgePayload) error
}

// Namespace describes one dashboard that manages videos.
type Namespace struct {
	Prefix          string // route prefix, e.g. "/admin"
	Dashboard       string // where the handler returns after a write
	RequireQuestion bool   // upload must carry a question
}

var (
	// AdminNamespace is the developer dashboard under /admin.
	AdminNamespace = Namespace{Prefix: "/admin", Dashboard: "/admin/developer"}
	// UploaderNamespace is the uploader dashboard under /uploader.
	UploaderNamespace = Namespace{Prefix: "/uploader", Dashboard: "/uploader/dashboard", RequireQuestion: true}
)

// Handler serves video CRUD for one namespace.
type Handler struct {
	store   Store
	media   storage.MediaStore
	purge   PurgeQueue
	maxSize int64
	ns      Namespace
	logger  *zap.Logger
	now     func() time.Time
}

// NewHandler creates a video handler. purge may be nil, in which case
// failed media deletes are only logged.
func NewHandler(store Store, media storage.MediaStore, purge PurgeQueue, maxSize int64, ns Namespace, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, media: media, purge: purge, maxSize: maxSize, ns: ns, logger: logger, now: time.Now}
}

func (h *Handler) page(extra gin.H) gin.H {
	data := gin.H{"Prefix": h.ns.Prefix, "Dashboard": h.ns.Dashboard, "RequireQuestion": h.ns.RequireQuestion}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.String("namespace", h.ns.Prefix), zap.Error(err))
	response.InternalText(c)
}

// atoiOr parses s, returning 0 for anything non-numeric.
func atoiOr(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// parseCorrect parses a correctAnswer field. ok is false when the value is
// not an integer in 0..3.
func parseCorrect(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n >= models.OptionCount {
		return 0, false
	}
	return n, true
}

// UploadPage handles GET …/upload-video.
func (h *Handler) UploadPage(c *gin.Context) {
	c.HTML(http.StatusOK, "admin/upload_video", h.page(nil))
}

// Upload handles POST …/upload-video.
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize+multipartOverhead)
	fh, err := c.FormFile("video")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			response.BadRequestText(c, "File too large")
			return
		}
		response.BadRequestText(c, "No file uploaded")
		return
	}
	if fh.Size > h.maxSize {
		response.BadRequestText(c, "File too large")
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !storage.IsVideoContentType(contentType) {
		response.BadRequestText(c, "Only video files are allowed")
		return
	}

	questionText := strings.TrimSpace(c.PostForm("question"))
	if questionText == "" && h.ns.RequireQuestion {
		response.BadRequestText(c, "Question is required")
		return
	}
	var correct int
	if questionText != "" {
		var ok bool
		if correct, ok = parseCorrect(c.PostForm("correctAnswer")); !ok {
			response.BadRequestText(c, "correctAnswer must be between 0 and 3")
			return
		}
	}

	ctx := c.Request.Context()
	file, err := fh.Open()
	if err != nil {
		h.fail(c, "open upload", err)
		return
	}
	defer file.Close()
	filePath, err := h.media.Put(ctx, storage.VideoKey(fh.Filename, h.now()), file, fh.Size, contentType)
	if err != nil {
		h.fail(c, "store video", err)
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		title = fh.Filename
	}
	video := &models.Video{
		Title:    title,
		FilePath: filePath,
		Duration: atoiOr(c.PostForm("duration")),
		Order:    atoiOr(c.PostForm("order")),
		IsActive: true,
	}
	if err := h.store.Create(ctx, video); err != nil {
		if derr := h.media.Delete(ctx, filePath); derr != nil {
			h.logger.Warn("remove orphaned upload", zap.String("file_path", filePath), zap.Error(derr))
		}
		h.fail(c, "create video", err)
		return
	}

	if questionText != "" {
		texts := make([]string, models.OptionCount)
		for i := range texts {
			texts[i] = strings.TrimSpace(c.PostForm("option" + strconv.Itoa(i+1)))
		}
		q := &models.Question{
			VideoID:      video.ID,
			QuestionText: questionText,
			Options:      models.BuildOptions(texts, correct),
			ShowAt:       models.ParseShowAt(c.PostForm("showAt")),
		}
		if err := h.store.SaveQuestion(ctx, q); err != nil {
			h.fail(c, "create question", err)
			return
		}
	}

	h.logger.Info("video uploaded",
		zap.String("namespace", h.ns.Prefix),
		zap.String("video_id", video.ID.String()),
		zap.String("file_path", filePath),
		zap.Int64("size", fh.Size),
	)
	c.Redirect(http.StatusFound, h.ns.Dashboard)
}

// load resolves :id. Unknown ids send the caller back to the dashboard.
func (h *Handler) load(c *gin.Context) (*models.Video, *models.Question, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, h.ns.Dashboard)
		return nil, nil, false
	}
	ctx := c.Request.Context()
	v, err := h.store.GetByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		c.Redirect(http.StatusFound, h.ns.Dashboard)
		return nil, nil, false
	}
	if err != nil {
		h.fail(c, "load video", err)
		return nil, nil, false
	}
	q, err := h.store.GetQuestionByVideo(ctx, v.ID)
	if errors.Is(err, models.ErrNotFound) {
		return v, nil, true
	}
	if err != nil {
		h.fail(c, "load question", err)
		return nil, nil, false
	}
	return v, q, true
}

// EditPage handles GET …/video/edit/:id.
func (h *Handler) EditPage(c *gin.Context) {
	v, q, ok := h.load(c)
	if !ok {
		return
	}
	var stored []models.Option
	correct := -1
	if q != nil {
		stored = q.Options
		correct = q.CorrectIndex()
	}
	c.HTML(http.StatusOK, "admin/edit_video", h.page(gin.H{
		"Video":    v,
		"Question": q,
		"Options":  models.BuildOptions(OptionTexts(nil, stored), correct),
	}))
}

// Edit handles POST …/video/edit/:id.
func (h *Handler) Edit(c *gin.Context) {
	v, q, ok := h.load(c)
	if !ok {
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		response.BadRequestText(c, "Invalid form")
		return
	}
	form := c.Request.PostForm

	if title := strings.TrimSpace(form.Get("title")); title != "" {
		v.Title = title
	}
	if _, ok := form["order"]; ok {
		v.Order = atoiOr(form.Get("order"))
	}
	if vals, ok := form["isActive"]; ok && len(vals) > 0 {
		// A checkbox after a hidden "false" input submits both; the last wins.
		active, err := strconv.ParseBool(vals[len(vals)-1])
		v.IsActive = err == nil && active
	}

	submitted := make(map[string]string)
	for i := 0; i <= models.OptionCount; i++ {
		name := "option" + strconv.Itoa(i)
		if _, ok := form[name]; ok {
			submitted[name] = form.Get(name)
		}
	}
	text := strings.TrimSpace(form.Get("questionText"))

	correct := -1
	if q != nil {
		correct = q.CorrectIndex()
	}
	if raw := strings.TrimSpace(form.Get("correctAnswer")); raw != "" {
		n, ok := parseCorrect(raw)
		if !ok {
			response.BadRequestText(c, "correctAnswer must be between 0 and 3")
			return
		}
		correct = n
	}

	ctx := c.Request.Context()
	if err := h.store.Update(ctx, v); err != nil {
		h.fail(c, "update video", err)
		return
	}

	switch {
	case q != nil:
		if text != "" {
			q.QuestionText = text
		}
		if _, ok := form["showAt"]; ok {
			q.ShowAt = models.ParseShowAt(form.Get("showAt"))
		}
		q.Options = models.BuildOptions(OptionTexts(submitted, q.Options), correct)
	case text != "":
		q = &models.Question{
			VideoID:      v.ID,
			QuestionText: text,
			Options:      models.BuildOptions(OptionTexts(submitted, nil), correct),
			ShowAt:       models.ParseShowAt(form.Get("showAt")),
		}
	}
	if q != nil {
		if err := h.store.SaveQuestion(ctx, q); err != nil {
			h.fail(c, "save question", err)
			return
		}
	}
	c.Redirect(http.StatusFound, h.ns.Dashboard)
}

// Delete handles GET …/video/delete/:id. The media delete is best effort;
// the records are removed regardless.
func (h *Handler) Delete(c *gin.Context) {
	v, _, ok := h.load(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if v.FilePath != "" {
		if err := h.media.Delete(ctx, v.FilePath); err != nil {
			h.purgeLater(ctx, v, err)
		}
	}
	if err := h.store.DeleteQuestionByVideo(ctx, v.ID); err != nil {
		h.fail(c, "delete question", err)
		return
	}
	if err := h.store.Delete(ctx, v.ID); err != nil && !errors.Is(err, models.ErrNotFound) {
		h.fail(c, "delete video", err)
		return
	}
	h.logger.Info("video deleted", zap.String("namespace", h.ns.Prefix), zap.String("video_id", v.ID.String()))
	c.Redirect(http.StatusFound, h.ns.Dashboard)
}

func (h *Handler) purgeLater(ctx context.Context, v *models.Video, cause error) {
	log := h.logger.With(zap.String("video_id", v.ID.String()), zap.String("file_path", v.FilePath))
	if errors.Is(cause, fs.ErrNotExist) || errors.Is(cause, storage.ErrForeignPath) || h.purge == nil {
		log.Warn("media delete failed", zap.Error(cause))
		return
	}
	if err := h.purge.EnqueueMediaPurge(ctx, queue.MediaPurgePayload{VideoID: v.ID, FilePath: v.FilePath}); err != nil {
		log.Error("enqueue media purge", zap.NamedError("cause", cause), zap.Error(err))
		return
	}
	log.Warn("media delete failed, queued for retry", zap.Error(cause))
}
