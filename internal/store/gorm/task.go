package gorm

import (
	"context"
	"errors"

	"github.com/gestor-tareas/apiserver/internal/store"
	"github.com/gestor-tareas/apiserver/types"
	libgorm "gorm.io/gorm"
)

type taskModel struct {
	ID          int     `gorm:"primaryKey"`
	Title       string  `gorm:"column:titulo"`
	Description string  `gorm:"column:descripcion"`
	Priority    string  `gorm:"column:prioridad"`
	DueDate     *string `gorm:"column:fecha_limite"`
	Completed   bool    `gorm:"column:completada;default:false"`
	OwnerID     int     `gorm:"column:usuario_id;index"`
}

func (taskModel) TableName() string { return "tareas" }

func (m taskModel) toTask() types.Task {
	return types.Task{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Priority:    m.Priority,
		DueDate:     m.DueDate,
		Completed:   m.Completed,
		OwnerID:     m.OwnerID,
	}
}

func fromTask(task types.Task) taskModel {
	return taskModel{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		Completed:   task.Completed,
		OwnerID:     task.OwnerID,
	}
}

// TaskRepository handles persistence for tasks. Every query filters by
// usuario_id so a caller never touches another user's rows.
type TaskRepository struct {
	db *libgorm.DB
}

func NewTaskRepository(db *libgorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) List(ctx context.Context, ownerID int) ([]types.Task, error) {
	var rows []taskModel
	if err := r.db.WithContext(ctx).
		Where("usuario_id = ?", ownerID).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toTasks(rows), nil
}

func (r *TaskRepository) ListByDueDate(ctx context.Context, ownerID int, dueDate string) ([]types.Task, error) {
	var rows []taskModel
	if err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND fecha_limite = ?", ownerID, dueDate).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toTasks(rows), nil
}

func (r *TaskRepository) Get(ctx context.Context, ownerID, id int) (types.Task, error) {
	var row taskModel
	if err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND id = ?", ownerID, id).
		First(&row).Error; err != nil {
		if errors.Is(err, libgorm.ErrRecordNotFound) {
			return types.Task{}, store.ErrNotFound
		}
		return types.Task{}, err
	}
	return row.toTask(), nil
}

func (r *TaskRepository) Create(ctx context.Context, task types.Task) (types.Task, error) {
	row := fromTask(task)
	row.ID = 0
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return types.Task{}, err
	}
	return row.toTask(), nil
}

func (r *TaskRepository) Update(ctx context.Context, task types.Task) (types.Task, error) {
	result := r.db.WithContext(ctx).
		Model(&taskModel{}).
		Where("usuario_id = ? AND id = ?", task.OwnerID, task.ID).
		Updates(map[string]any{
			"titulo":       task.Title,
			"descripcion":  task.Description,
			"prioridad":    task.Priority,
			"fecha_limite": task.DueDate,
			"completada":   task.Completed,
		})
	if result.Error != nil {
		return types.Task{}, result.Error
	}
	if result.RowsAffected == 0 {
		return types.Task{}, store.ErrNotFound
	}
	return task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID, id int) error {
	result := r.db.WithContext(ctx).
		Where("usuario_id = ? AND id = ?", ownerID, id).
		Delete(&taskModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func toTasks(rows []taskModel) []types.Task {
	tasks := make([]types.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.toTask())
	}
	return tasks
}
