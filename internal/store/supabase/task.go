package supabase

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gestor-tareas/apiserver/internal/store"
	"github.com/gestor-tareas/apiserver/types"
)

const tasksTable = "tareas"

// TaskRepository handles persistence for tasks via the remote REST API.
// Every request filters by usuario_id so a caller never touches another
// user's rows.
type TaskRepository struct {
	client *Client
}

func NewTaskRepository(client *Client) *TaskRepository {
	return &TaskRepository{client: client}
}

func (r *TaskRepository) List(ctx context.Context, ownerID int) ([]types.Task, error) {
	query := url.Values{
		"usuario_id": {eq(ownerID)},
		"select":     {"*"},
		"order":      {"id"},
	}
	var tasks []types.Task
	if err := r.client.do(ctx, http.MethodGet, tasksTable, query, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []types.Task{}
	}
	return tasks, nil
}

func (r *TaskRepository) ListByDueDate(ctx context.Context, ownerID int, dueDate string) ([]types.Task, error) {
	query := url.Values{
		"usuario_id":   {eq(ownerID)},
		"fecha_limite": {eq(dueDate)},
		"select":       {"*"},
		"order":        {"id"},
	}
	var tasks []types.Task
	if err := r.client.do(ctx, http.MethodGet, tasksTable, query, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []types.Task{}
	}
	return tasks, nil
}

func (r *TaskRepository) Get(ctx context.Context, ownerID, id int) (types.Task, error) {
	query := url.Values{
		"usuario_id": {eq(ownerID)},
		"id":         {eq(id)},
		"select":     {"*"},
	}
	var tasks []types.Task
	if err := r.client.do(ctx, http.MethodGet, tasksTable, query, nil, &tasks); err != nil {
		return types.Task{}, err
	}
	if len(tasks) == 0 {
		return types.Task{}, store.ErrNotFound
	}
	return tasks[0], nil
}

func (r *TaskRepository) Create(ctx context.Context, task types.Task) (types.Task, error) {
	// The id is generated remotely, so the insert body omits it.
	payload := struct {
		Title       string  `json:"titulo"`
		Description string  `json:"descripcion"`
		Priority    string  `json:"prioridad"`
		DueDate     *string `json:"fecha_limite"`
		Completed   bool    `json:"completada"`
		OwnerID     int     `json:"usuario_id"`
	}{task.Title, task.Description, task.Priority, task.DueDate, task.Completed, task.OwnerID}

	query := url.Values{"select": {"*"}}
	var tasks []types.Task
	if err := r.client.do(ctx, http.MethodPost, tasksTable, query, payload, &tasks); err != nil {
		return types.Task{}, err
	}
	if len(tasks) == 0 {
		return types.Task{}, store.ErrNotFound
	}
	return tasks[0], nil
}

func (r *TaskRepository) Update(ctx context.Context, task types.Task) (types.Task, error) {
	payload := struct {
		Title       string  `json:"titulo"`
		Description string  `json:"descripcion"`
		Priority    string  `json:"prioridad"`
		DueDate     *string `json:"fecha_limite"`
		Completed   bool    `json:"completada"`
	}{task.Title, task.Description, task.Priority, task.DueDate, task.Completed}

	query := url.Values{
		"usuario_id": {eq(task.OwnerID)},
		"id":         {eq(task.ID)},
		"select":     {"*"},
	}
	var tasks []types.Task
	if err := r.client.do(ctx, http.MethodPatch, tasksTable, query, payload, &tasks); err != nil {
		return types.Task{}, err
	}
	if len(tasks) == 0 {
		return types.Task{}, store.ErrNotFound
	}
	return tasks[0], nil
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID, id int) error {
	query := url.Values{
		"usuario_id": {eq(ownerID)},
		"id":         {eq(id)},
	}
	var tasks []types.Task
	if err := r.client.do(ctx, http.MethodDelete, tasksTable, query, nil, &tasks); err != nil {
		return err
	}
	if len(tasks) == 0 {
		return store.ErrNotFound
	}
	return nil
}
