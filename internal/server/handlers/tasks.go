package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/paronov/taskmaster/internal/models"
	"github.com/paronov/taskmaster/internal/server/storage"
	"github.com/paronov/taskmaster/internal/validation"
	"github.com/paronov/taskmaster/pkg/api"
)

// sortableTaskFields are the fields accepted by the sortBy query parameter.
var sortableTaskFields = map[string]bool{
	"created_at":  true,
	"updated_at":  true,
	"description": true,
	"completed":   true,
}

// TaskHandler serves the task CRUD endpoints. Every operation is scoped to
// the authenticated owner.
type TaskHandler struct {
	logger *slog.Logger
	tasks  storage.TaskStorage
}

// NewTaskHandler creates a new handler for the task endpoints.
func NewTaskHandler(logger *slog.Logger, tasks storage.TaskStorage) *TaskHandler {
	return &TaskHandler{
		logger: logger,
		tasks:  tasks,
	}
}

// Create handles POST /api/v1/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "please authenticate", http.StatusUnauthorized)
		return
	}

	var req api.CreateTaskRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.logger.WarnContext(ctx, "failed to decode task request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateDescription(req.Description); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	task := &models.Task{
		ID:          primitive.NewObjectID(),
		Description: strings.TrimSpace(req.Description),
		Completed:   req.Completed,
		Owner:       user.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.tasks.CreateTask(ctx, task); err != nil {
		sendServiceError(h.logger, w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "task created",
		slog.String("task_id", task.ID.Hex()),
		slog.String("user_id", user.ID.Hex()))

	sendJSON(h.logger, w, toAPITask(task), http.StatusCreated)
}

// List handles GET /api/v1/tasks.
// Query parameters: completed=true|false, limit, skip,
// sortBy=<field>[:asc|:desc].
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "please authenticate", http.StatusUnauthorized)
		return
	}

	filter, err := taskFilterFromQuery(r)
	if err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	tasks, err := h.tasks.ListTasks(ctx, user.ID, filter)
	if err != nil {
		sendServiceError(h.logger, w, r, err)
		return
	}

	resp := api.TaskListResponse{
		Tasks: make([]api.Task, 0, len(tasks)),
		Count: len(tasks),
	}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, toAPITask(t))
	}
	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Get handles GET /api/v1/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "please authenticate", http.StatusUnauthorized)
		return
	}

	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		sendError(h.logger, w, "not found", http.StatusNotFound)
		return
	}

	task, err := h.tasks.GetTask(ctx, id, user.ID)
	if err != nil {
		sendServiceError(h.logger, w, r, err)
		return
	}

	sendJSON(h.logger, w, toAPITask(task), http.StatusOK)
}

// Update handles PATCH /api/v1/tasks/{id}.
// Only description and completed may be updated.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "please authenticate", http.StatusUnauthorized)
		return
	}

	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		sendError(h.logger, w, "not found", http.StatusNotFound)
		return
	}

	var req api.UpdateTaskRequest
	if err := decodeJSON(r, &req, true); err != nil {
		h.logger.WarnContext(ctx, "rejected task update", slog.Any("error", err))
		sendError(h.logger, w, "invalid updates", http.StatusBadRequest)
		return
	}

	task, err := h.tasks.GetTask(ctx, id, user.ID)
	if err != nil {
		sendServiceError(h.logger, w, r, err)
		return
	}

	if req.Description != nil {
		if err := validation.ValidateDescription(*req.Description); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		task.Description = strings.TrimSpace(*req.Description)
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	task.UpdatedAt = time.Now()

	if err := h.tasks.UpdateTask(ctx, task); err != nil {
		sendServiceError(h.logger, w, r, err)
		return
	}

	sendJSON(h.logger, w, toAPITask(task), http.StatusOK)
}

// Delete handles DELETE /api/v1/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := UserFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "please authenticate", http.StatusUnauthorized)
		return
	}

	id, err := primitive.ObjectIDFromHex(r.PathValue("id"))
	if err != nil {
		sendError(h.logger, w, "not found", http.StatusNotFound)
		return
	}

	if err := h.tasks.DeleteTask(ctx, id, user.ID); err != nil {
		sendServiceError(h.logger, w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "task deleted",
		slog.String("task_id", id.Hex()),
		slog.String("user_id", user.ID.Hex()))

	w.WriteHeader(http.StatusNoContent)
}

// taskFilterFromQuery parses the listing query parameters.
func taskFilterFromQuery(r *http.Request) (storage.TaskFilter, error) {
	var filter storage.TaskFilter
	q := r.URL.Query()

	if v := q.Get("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			return filter, fmt.Errorf("invalid completed value %q", v)
		}
		filter.Completed = &completed
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.ParseInt(v, 10, 64)
		if err != nil || limit < 0 {
			return filter, fmt.Errorf("invalid limit value %q", v)
		}
		filter.Limit = limit
	}

	if v := q.Get("skip"); v != "" {
		skip, err := strconv.ParseInt(v, 10, 64)
		if err != nil || skip < 0 {
			return filter, fmt.Errorf("invalid skip value %q", v)
		}
		filter.Skip = skip
	}

	if v := q.Get("sortBy"); v != "" {
		field, dir, found := strings.Cut(v, ":")
		if !sortableTaskFields[field] {
			return filter, fmt.Errorf("cannot sort by %q", field)
		}
		filter.SortField = field
		filter.SortAsc = true
		if found {
			switch dir {
			case "asc":
			case "desc":
				filter.SortAsc = false
			default:
				return filter, fmt.Errorf("invalid sort direction %q", dir)
			}
		}
	}

	return filter, nil
}
