package types

// Task priorities. Free-form strings on the wire; PriorityMedia is the
// default applied when a task is created without one.
const (
	PriorityBaja  = "baja"
	PriorityMedia = "media"
	PriorityAlta  = "alta"
)

// Task represents a single item in a user's task list.
// JSON field names follow the Spanish wire contract of the API.
type Task struct {
	// ID is the unique identifier of the task.
	ID int `json:"id" db:"id"`

	// Title is the human-readable name of the task. Required, non-empty.
	Title string `json:"titulo" db:"titulo"`

	// Description is an optional free-form note.
	Description string `json:"descripcion" db:"descripcion"`

	// Priority is the relative priority of the task ("baja", "media",
	// "alta"). Defaults to "media".
	Priority string `json:"prioridad" db:"prioridad"`

	// DueDate is an optional due date in YYYY-MM-DD form. Nil when the
	// task has no due date.
	DueDate *string `json:"fecha_limite" db:"fecha_limite"`

	// Completed marks the task as done. Defaults to false.
	Completed bool `json:"completada" db:"completada"`

	// OwnerID references the user that owns the task. Every query over
	// tasks filters by this field.
	OwnerID int `json:"usuario_id" db:"usuario_id"`
}

// TaskUpdate is a partial update to a task. Nil fields are left
// untouched; the zero value changes nothing.
type TaskUpdate struct {
	Title       *string `json:"titulo"`
	Description *string `json:"descripcion"`
	Priority    *string `json:"prioridad"`
	DueDate     *string `json:"fecha_limite"`
	Completed   *bool   `json:"completada"`
}

// Apply merges the set fields of the update into the task.
func (u TaskUpdate) Apply(task *Task) {
	if u.Title != nil {
		task.Title = *u.Title
	}
	if u.Description != nil {
		task.Description = *u.Description
	}
	if u.Priority != nil {
		task.Priority = *u.Priority
	}
	if u.DueDate != nil {
		task.DueDate = u.DueDate
	}
	if u.Completed != nil {
		task.Completed = *u.Completed
	}
}
