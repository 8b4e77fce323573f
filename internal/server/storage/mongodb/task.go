package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/paronov/taskmaster/internal/models"
	"github.com/paronov/taskmaster/internal/server/storage"
)

// CreateTask inserts a new task document.
func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	_, err := s.tasks.InsertOne(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by id for the given owner. A task belonging to
// another owner is indistinguishable from a missing one.
func (s *Storage) GetTask(ctx context.Context, id, owner primitive.ObjectID) (*models.Task, error) {
	task := &models.Task{}
	err := s.tasks.FindOne(ctx, bson.M{"_id": id, "owner": owner}).Decode(task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// ListTasks retrieves the owner's tasks matching the filter.
func (s *Storage) ListTasks(ctx context.Context, owner primitive.ObjectID, filter storage.TaskFilter) ([]*models.Task, error) {
	query := bson.M{"owner": owner}
	if filter.Completed != nil {
		query["completed"] = *filter.Completed
	}

	opts := options.Find()
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}
	if filter.Skip > 0 {
		opts.SetSkip(filter.Skip)
	}
	if filter.SortField != "" {
		order := -1
		if filter.SortAsc {
			order = 1
		}
		opts.SetSort(bson.D{{Key: filter.SortField, Value: order}})
	}

	cursor, err := s.tasks.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []*models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask overwrites description and completed of an existing task.
func (s *Storage) UpdateTask(ctx context.Context, task *models.Task) error {
	update := bson.M{"$set": bson.M{
		"description": task.Description,
		"completed":   task.Completed,
		"updated_at":  task.UpdatedAt,
	}}

	res, err := s.tasks.UpdateOne(ctx, bson.M{"_id": task.ID, "owner": task.Owner}, update)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrTaskNotFound
	}
	return nil
}

// DeleteTask deletes a task by id for the given owner.
func (s *Storage) DeleteTask(ctx context.Context, id, owner primitive.ObjectID) error {
	res, err := s.tasks.DeleteOne(ctx, bson.M{"_id": id, "owner": owner})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrTaskNotFound
	}
	return nil
}

// DeleteUserTasks deletes every task owned by the given user. Used when an
// account is deleted so tasks are not orphaned.
func (s *Storage) DeleteUserTasks(ctx context.Context, owner primitive.ObjectID) (int64, error) {
	res, err := s.tasks.DeleteMany(ctx, bson.M{"owner": owner})
	if err != nil {
		return 0, fmt.Errorf("failed to delete user tasks: %w", err)
	}
	return res.DeletedCount, nil
}
