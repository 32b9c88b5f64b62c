package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gestor-tareas/apiserver/internal/services"
	"github.com/gestor-tareas/apiserver/internal/store"
	"github.com/gestor-tareas/apiserver/types"
	"github.com/go-chi/chi/v5"
)

const testSecret = "test-secret"

// fakeUserRepo is an in-memory services.UserRepository.
type fakeUserRepo struct {
	nextID int
	users  map[int]types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]types.User)}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	if _, err := r.GetByEmail(ctx, user.Email); err == nil {
		return types.User{}, store.ErrConflict
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return user, nil
}

// fakeTaskRepo is an in-memory services.TaskRepository with the same
// ownership scoping as the real backends.
type fakeTaskRepo struct {
	nextID int
	tasks  []types.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{nextID: 1}
}

func (r *fakeTaskRepo) List(ctx context.Context, ownerID int) ([]types.Task, error) {
	tasks := make([]types.Task, 0)
	for _, task := range r.tasks {
		if task.OwnerID == ownerID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (r *fakeTaskRepo) ListByDueDate(ctx context.Context, ownerID int, dueDate string) ([]types.Task, error) {
	tasks := make([]types.Task, 0)
	for _, task := range r.tasks {
		if task.OwnerID == ownerID && task.DueDate != nil && *task.DueDate == dueDate {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (r *fakeTaskRepo) Get(ctx context.Context, ownerID, id int) (types.Task, error) {
	for _, task := range r.tasks {
		if task.OwnerID == ownerID && task.ID == id {
			return task, nil
		}
	}
	return types.Task{}, store.ErrNotFound
}

func (r *fakeTaskRepo) Create(ctx context.Context, task types.Task) (types.Task, error) {
	task.ID = r.nextID
	r.nextID++
	r.tasks = append(r.tasks, task)
	return task, nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, task types.Task) (types.Task, error) {
	for i, existing := range r.tasks {
		if existing.OwnerID == task.OwnerID && existing.ID == task.ID {
			r.tasks[i] = task
			return task, nil
		}
	}
	return types.Task{}, store.ErrNotFound
}

func (r *fakeTaskRepo) Delete(ctx context.Context, ownerID, id int) error {
	for i, existing := range r.tasks {
		if existing.OwnerID == ownerID && existing.ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// newTestRouter wires the full /api surface over in-memory repositories.
func newTestRouter(tokenTTL time.Duration) chi.Router {
	userService := services.NewUserService(newFakeUserRepo())
	taskService := services.NewTaskService(newFakeTaskRepo())

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		r.Get("/", Index)
		AuthRouter(r, userService, testSecret, tokenTTL)
		TaskRouter(r, taskService, RequireAuth(testSecret))
	})
	return router
}

// doJSON performs a request against the router, encoding body as JSON
// and attaching token as a bearer credential when non-empty.
func doJSON(t *testing.T, router chi.Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// httptestRequest builds a request with a raw Authorization header value,
// for middleware cases doJSON cannot express.
func httptestRequest(method, path, authHeader string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	return req
}

func serve(router chi.Router, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

// registerAndLogin creates an account and returns a valid token for it.
func registerAndLogin(t *testing.T, router chi.Router, name, email, password string) string {
	t.Helper()

	rr := doJSON(t, router, http.MethodPost, "/api/register", "", map[string]string{
		"nombre":   name,
		"email":    email,
		"password": password,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register %s: got status %d, body %s", email, rr.Code, rr.Body.String())
	}

	rr = doJSON(t, router, http.MethodPost, "/api/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login %s: got status %d, body %s", email, rr.Code, rr.Body.String())
	}

	var resp LoginResponse
	decodeBody(t, rr, &resp)
	if resp.Token == "" {
		t.Fatalf("login %s: empty token", email)
	}
	return resp.Token
}
