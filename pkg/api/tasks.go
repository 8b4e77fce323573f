package api

import "time"

// Task is the wire representation of a task.
type Task struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateTaskRequest is the body of POST /api/v1/tasks.
type CreateTaskRequest struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// UpdateTaskRequest is the body of PATCH /api/v1/tasks/{id}.
type UpdateTaskRequest struct {
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// TaskListResponse is returned by GET /api/v1/tasks.
type TaskListResponse struct {
	Tasks []Task `json:"tasks"`
	Count int    `json:"count"`
}
