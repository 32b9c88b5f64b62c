package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gestor-tareas/apiserver/internal/services"
	"github.com/gestor-tareas/apiserver/internal/store"
	"github.com/gestor-tareas/apiserver/types"
	"github.com/go-chi/chi/v5"
)

const (
	msgTitleRequired = "El título es obligatorio"
	msgDateRequired  = "Falta el parámetro fecha"
	msgTaskNotFound  = "Tarea no encontrada o no autorizada"
	msgTaskDeleted   = "Tarea eliminada"
)

// TaskHandler provides HTTP handlers for tasks. Every handler resolves
// the caller's identity from the request context and passes it down
// explicitly; no task is ever read or mutated outside that partition.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler constructs a handler with the provided service.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// TaskRouter registers task routes on the given router. All routes
// require authentication.
func TaskRouter(r chi.Router, taskService *services.TaskService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewTaskHandler(taskService)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/tareas", handler.ListTasks)
		r.Post("/tareas", handler.CreateTask)
		r.Get("/tareas_por_fecha", handler.ListTasksByDate)
		r.Route("/tareas/{taskID}", func(r chi.Router) {
			r.Put("/", handler.UpdateTask)
			r.Delete("/", handler.DeleteTask)
		})
	})
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	ownerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	tasks, err := h.taskService.List(r.Context(), ownerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "No se pudieron obtener las tareas")
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) ListTasksByDate(w http.ResponseWriter, r *http.Request) {
	ownerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	fecha := strings.TrimSpace(r.URL.Query().Get("fecha"))
	if fecha == "" {
		writeError(w, http.StatusBadRequest, msgDateRequired)
		return
	}

	tasks, err := h.taskService.ListByDueDate(r.Context(), ownerID, fecha)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "No se pudieron obtener las tareas")
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	ownerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequestBody)
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, msgTitleRequired)
		return
	}

	task, err := h.taskService.Create(r.Context(), ownerID, types.Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "No se pudo crear la tarea")
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ownerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	id, err := parseTaskID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, msgTaskNotFound)
		return
	}

	var update types.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequestBody)
		return
	}

	task, err := h.taskService.Update(r.Context(), ownerID, id, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgTaskNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, "No se pudo actualizar la tarea")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ownerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	id, err := parseTaskID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, msgTaskNotFound)
		return
	}

	if err := h.taskService.Delete(r.Context(), ownerID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgTaskNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, "No se pudo eliminar la tarea")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: msgTaskDeleted})
}

// CreateTaskRequest is the typed payload for task creation.
type CreateTaskRequest struct {
	Title       string  `json:"titulo"`
	Description string  `json:"descripcion"`
	Priority    string  `json:"prioridad"`
	DueDate     *string `json:"fecha_limite"`
}

func parseTaskID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "taskID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid task id")
	}
	return id, nil
}
