package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/todo-tenant-api/internal/application"
	"github.com/oksasatya/todo-tenant-api/internal/domain/entity"
	"github.com/oksasatya/todo-tenant-api/pkg/response"
	"github.com/oksasatya/todo-tenant-api/pkg/validation"
)

// multipart overhead allowed on top of the image limit
const formSlack = 1 << 20

type TodoHandler struct {
	Svc           *application.TodoService
	Logger        *logrus.Logger
	MaxImageBytes int64
}

func NewTodoHandler(svc *application.TodoService, logger *logrus.Logger, maxImageBytes int64) *TodoHandler {
	return &TodoHandler{Svc: svc, Logger: logger, MaxImageBytes: maxImageBytes}
}

type todoRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description" binding:"max=2000"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	Priority    string     `json:"priority" binding:"omitempty,priority"`
	Status      string     `json:"status" binding:"omitempty,status"`
	ImageURL    *string    `json:"image_url" binding:"omitempty,url"`
}

func (r todoRequest) input() application.TodoInput {
	return application.TodoInput{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		DueDate:     r.DueDate,
		Priority:    r.Priority,
		Status:      r.Status,
		ImageURL:    r.ImageURL,
	}
}

type todoResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Overdue     bool       `json:"overdue"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	ImageURL    string     `json:"image_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toTodoResponse(t *entity.Todo) todoResponse {
	return todoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		DueDate:     t.DueDate,
		Overdue:     t.Overdue,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		ImageURL:    t.ImageURL,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTodoResponses(list []*entity.Todo) []todoResponse {
	out := make([]todoResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTodoResponse(t))
	}
	return out
}

func (h *TodoHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	list, err := h.Svc.List(c.Request.Context(), *p)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, toTodoResponses(list), "todos", map[string]any{"total": len(list)})
}

func (h *TodoHandler) Overdue(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	list, err := h.Svc.Overdue(c.Request.Context(), *p)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, toTodoResponses(list), "overdue todos", map[string]any{"total": len(list)})
}

func (h *TodoHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req todoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	td, err := h.Svc.Create(c.Request.Context(), *p, req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusCreated, toTodoResponse(td), "todo created", nil)
}

func (h *TodoHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req todoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	td, err := h.Svc.Update(c.Request.Context(), *p, c.Param("id"), req.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, toTodoResponse(td), "todo updated", nil)
}

func (h *TodoHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), *p, c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK[any](c, http.StatusOK, map[string]any{"deleted": true}, "todo deleted", nil)
}

// UploadImage expects a multipart form with the file in the "image" field.
func (h *TodoHandler) UploadImage(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if h.MaxImageBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxImageBytes+formSlack)
	}
	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, h.Logger, application.ErrImageTooLarge)
			return
		}
		response.Fail(c, http.StatusBadRequest, "invalid payload", map[string]string{"image": "is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	td, err := h.Svc.AttachImage(c.Request.Context(), *p, c.Param("id"), application.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, toTodoResponse(td), "image uploaded", nil)
}
