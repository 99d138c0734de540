package audit

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/server/middleware"
	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/server/respond"
	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/util"
)

const maxUploadSize = 10 << 20 // 10MB

// Runner executes one audit.
type Runner interface {
	Run(ctx context.Context, req Request) Response
}

// Handler exposes the pipeline over HTTP.
type Handler struct {
	Runner   Runner
	Sessions SessionStore
}

// NewHandler constructs a Handler.
func NewHandler(runner Runner, sessions SessionStore) *Handler {
	if sessions == nil {
		sessions = NewMemorySessions()
	}
	return &Handler{Runner: runner, Sessions: sessions}
}

// RegisterRoutes attaches audit routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/audits", h.create)
	rg.GET("/audits/current", h.current)
	rg.DELETE("/audits/current", h.reset)
}

type auditResponse struct {
	State    State    `json:"state"`
	Feedback string   `json:"feedback,omitempty"`
	FileName string   `json:"fileName,omitempty"`
	Trail    []string `json:"trail,omitempty"`
}

func (h *Handler) create(c *gin.Context) {
	key := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeMissingInput, msgMissingDocument, nil)
		return
	}
	if !isPDF(fileHeader.Filename, fileHeader.Header.Get("Content-Type")) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "only PDF documents are supported", nil)
		return
	}
	name, err := util.DisplayFileName(fileHeader.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	session, _ := h.Sessions.Get(key)
	resp := h.Runner.Run(c.Request.Context(), Request{
		Document:       data,
		FileName:       name,
		TargetRole:     c.PostForm("targetRole"),
		JobDescription: c.PostForm("jobDescription"),
		Session:        session,
	})
	h.Sessions.Put(key, resp.Session)
	c.Set(middleware.AuditStateKey, string(resp.State))

	if resp.Err != nil {
		h.writeFailure(c, resp)
		return
	}

	respond.JSON(c, http.StatusOK, auditResponse{
		State:    resp.State,
		Feedback: resp.Feedback,
		FileName: resp.Session.FileName,
		Trail:    trailStrings(resp.Trail),
	})
}

func (h *Handler) writeFailure(c *gin.Context, resp Response) {
	details := map[string]any{
		"state": resp.State,
		"trail": trailStrings(resp.Trail),
	}
	f, ok := FailureOf(resp.Err)
	if !ok {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "audit failed", details)
		return
	}
	c.Set(middleware.FailureKindKey, string(f.Kind))

	switch f.Kind {
	case KindMissingInput:
		respond.Error(c, http.StatusBadRequest, ErrorCodeMissingInput, f.Message, details)
	case KindThrottled:
		respond.Throttled(c, http.StatusTooManyRequests, ErrorCodeThrottled, f.Message, f.RetryAfter, details)
	case KindExtraction:
		respond.Error(c, http.StatusUnprocessableEntity, ErrorCodeExtraction, f.Message, details)
	default:
		respond.Error(c, http.StatusBadGateway, ErrorCodeGeneration, f.Message, details)
	}
}

func (h *Handler) current(c *gin.Context) {
	session, ok := h.Sessions.Get(middleware.UserIDFromContext(c))
	if !ok || session.Feedback == "" {
		respond.Error(c, http.StatusNotFound, "not_found", "no audit yet", nil)
		return
	}
	respond.JSON(c, http.StatusOK, auditResponse{
		State:    StateGenerated,
		Feedback: session.Feedback,
		FileName: session.FileName,
	})
}

// reset clears the shown feedback. LastCallAt survives.
func (h *Handler) reset(c *gin.Context) {
	key := middleware.UserIDFromContext(c)
	session, ok := h.Sessions.Get(key)
	if ok {
		h.Sessions.Put(key, Session{LastCallAt: session.LastCallAt})
	}
	c.Status(http.StatusNoContent)
}

func isPDF(name, contentType string) bool {
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		return true
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	return mediaType == "application/pdf"
}

func trailStrings(trail []State) []string {
	out := make([]string, 0, len(trail))
	for _, s := range trail {
		out = append(out, string(s))
	}
	return out
}
