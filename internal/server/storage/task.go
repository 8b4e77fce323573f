package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/paronov/taskmaster/internal/models"
)

// TaskFilter narrows and orders a task listing.
// A nil Completed means no completion filter; Limit == 0 means no limit.
type TaskFilter struct {
	Completed *bool
	Limit     int64
	Skip      int64
	SortField string
	SortAsc   bool
}

// TaskStorage defines the interface for task persistence.
// Every operation is scoped to the owning user: a task id belonging to a
// different owner behaves exactly like a missing task.
type TaskStorage interface {
	// CreateTask inserts a new task document.
	CreateTask(ctx context.Context, task *models.Task) error

	// GetTask retrieves a task by id for the given owner.
	// Returns ErrTaskNotFound if no such task exists.
	GetTask(ctx context.Context, id, owner primitive.ObjectID) (*models.Task, error)

	// ListTasks retrieves the owner's tasks matching the filter.
	// Returns an empty slice if none match.
	ListTasks(ctx context.Context, owner primitive.ObjectID, filter TaskFilter) ([]*models.Task, error)

	// UpdateTask overwrites description and completed of an existing task.
	// Returns ErrTaskNotFound if no task matches id+owner.
	UpdateTask(ctx context.Context, task *models.Task) error

	// DeleteTask deletes a task by id for the given owner.
	// Returns ErrTaskNotFound if no such task exists.
	DeleteTask(ctx context.Context, id, owner primitive.ObjectID) error

	// DeleteUserTasks deletes every task owned by the given user.
	// Returns the number of deleted tasks.
	DeleteUserTasks(ctx context.Context, owner primitive.ObjectID) (int64, error)
}
