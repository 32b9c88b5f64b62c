package services

import (
	"context"

	"github.com/gestor-tareas/apiserver/types"
)

// TaskRepository defines persistence operations for tasks. Every
// operation is scoped to an owner; a task belonging to someone else
// surfaces as store.ErrNotFound.
type TaskRepository interface {
	List(ctx context.Context, ownerID int) ([]types.Task, error)
	ListByDueDate(ctx context.Context, ownerID int, dueDate string) ([]types.Task, error)
	Get(ctx context.Context, ownerID, id int) (types.Task, error)
	Create(ctx context.Context, task types.Task) (types.Task, error)
	Update(ctx context.Context, task types.Task) (types.Task, error)
	Delete(ctx context.Context, ownerID, id int) error
}

// TaskService encapsulates task use-cases.
type TaskService struct {
	repo TaskRepository
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) List(ctx context.Context, ownerID int) ([]types.Task, error) {
	return s.repo.List(ctx, ownerID)
}

func (s *TaskService) ListByDueDate(ctx context.Context, ownerID int, dueDate string) ([]types.Task, error) {
	return s.repo.ListByDueDate(ctx, ownerID, dueDate)
}

func (s *TaskService) Get(ctx context.Context, ownerID, id int) (types.Task, error) {
	return s.repo.Get(ctx, ownerID, id)
}

// Create persists a new task for ownerID. New tasks always start
// incomplete, whatever the caller sent.
func (s *TaskService) Create(ctx context.Context, ownerID int, task types.Task) (types.Task, error) {
	task.OwnerID = ownerID
	task.Completed = false
	if task.Priority == "" {
		task.Priority = types.PriorityMedia
	}
	return s.repo.Create(ctx, task)
}

// Update applies a partial update to an owned task. Fields absent from
// the update keep their prior value.
func (s *TaskService) Update(ctx context.Context, ownerID, id int, update types.TaskUpdate) (types.Task, error) {
	task, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return types.Task{}, err
	}

	update.Apply(&task)
	return s.repo.Update(ctx, task)
}

func (s *TaskService) Delete(ctx context.Context, ownerID, id int) error {
	return s.repo.Delete(ctx, ownerID, id)
}
