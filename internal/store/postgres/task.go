package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gestor-tareas/apiserver/internal/store"
	"github.com/gestor-tareas/apiserver/types"
)

// TaskRepository handles persistence for tasks. Every query filters by
// usuario_id so a caller never touches another user's rows.
type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) List(ctx context.Context, ownerID int) ([]types.Task, error) {
	const query = `
		SELECT id, titulo, descripcion, prioridad, fecha_limite, completada, usuario_id
		FROM tareas
		WHERE usuario_id = $1
		ORDER BY id`
	return r.queryTasks(ctx, query, ownerID)
}

func (r *TaskRepository) ListByDueDate(ctx context.Context, ownerID int, dueDate string) ([]types.Task, error) {
	const query = `
		SELECT id, titulo, descripcion, prioridad, fecha_limite, completada, usuario_id
		FROM tareas
		WHERE usuario_id = $1 AND fecha_limite = $2
		ORDER BY id`
	return r.queryTasks(ctx, query, ownerID, dueDate)
}

func (r *TaskRepository) Get(ctx context.Context, ownerID, id int) (types.Task, error) {
	const query = `
		SELECT id, titulo, descripcion, prioridad, fecha_limite, completada, usuario_id
		FROM tareas
		WHERE usuario_id = $1 AND id = $2`
	var task types.Task
	var dueDate sql.NullString
	err := r.db.QueryRowContext(ctx, query, ownerID, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Priority,
		&dueDate,
		&task.Completed,
		&task.OwnerID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Task{}, store.ErrNotFound
		}
		return types.Task{}, err
	}
	if dueDate.Valid {
		task.DueDate = &dueDate.String
	}
	return task, nil
}

func (r *TaskRepository) Create(ctx context.Context, task types.Task) (types.Task, error) {
	const query = `
		INSERT INTO tareas (titulo, descripcion, prioridad, fecha_limite, completada, usuario_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Priority,
		nullString(task.DueDate),
		task.Completed,
		task.OwnerID,
	).Scan(&task.ID); err != nil {
		return types.Task{}, err
	}
	return task, nil
}

func (r *TaskRepository) Update(ctx context.Context, task types.Task) (types.Task, error) {
	const query = `
		UPDATE tareas
		SET titulo = $1,
			descripcion = $2,
			prioridad = $3,
			fecha_limite = $4,
			completada = $5
		WHERE usuario_id = $6 AND id = $7`
	result, err := r.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Priority,
		nullString(task.DueDate),
		task.Completed,
		task.OwnerID,
		task.ID,
	)
	if err != nil {
		return types.Task{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Task{}, err
	}
	if affected == 0 {
		return types.Task{}, store.ErrNotFound
	}
	return task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID, id int) error {
	const query = `DELETE FROM tareas WHERE usuario_id = $1 AND id = $2`
	result, err := r.db.ExecContext(ctx, query, ownerID, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]types.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]types.Task, 0)
	for rows.Next() {
		var task types.Task
		var dueDate sql.NullString
		if err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Priority,
			&dueDate,
			&task.Completed,
			&task.OwnerID,
		); err != nil {
			return nil, err
		}
		if dueDate.Valid {
			task.DueDate = &dueDate.String
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
