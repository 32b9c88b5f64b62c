package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gestor-tareas/apiserver/internal/store"
	"github.com/gestor-tareas/apiserver/types"
)

const usersTable = "usuarios"

// userRow mirrors the usuarios table on the wire. Unlike types.User it
// carries the password hash as a JSON field, which the remote API returns.
type userRow struct {
	ID       int    `json:"id"`
	Name     string `json:"nombre"`
	Email    string `json:"email"`
	Role     string `json:"rol"`
	Password string `json:"password"`
}

func (r userRow) toUser() types.User {
	return types.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Role:         r.Role,
		PasswordHash: r.Password,
	}
}

// UserRepository handles persistence for users via the remote REST API.
type UserRepository struct {
	client *Client
}

func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	return r.getOne(ctx, url.Values{"id": {eq(id)}, "select": {"*"}})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return r.getOne(ctx, url.Values{"email": {eq(email)}, "select": {"*"}})
}

func (r *UserRepository) getOne(ctx context.Context, query url.Values) (types.User, error) {
	var rows []userRow
	if err := r.client.do(ctx, http.MethodGet, usersTable, query, nil, &rows); err != nil {
		return types.User{}, err
	}
	if len(rows) == 0 {
		return types.User{}, store.ErrNotFound
	}
	return rows[0].toUser(), nil
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	// The remote table has no uniqueness guarantee we can rely on from
	// this side, so existence is checked first, as a single extra lookup.
	if _, err := r.GetByEmail(ctx, user.Email); err == nil {
		return types.User{}, store.ErrConflict
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	// The id is generated remotely, so the insert body omits it.
	payload := struct {
		Name     string `json:"nombre"`
		Email    string `json:"email"`
		Role     string `json:"rol"`
		Password string `json:"password"`
	}{user.Name, user.Email, user.Role, user.PasswordHash}

	var rows []userRow
	query := url.Values{"select": {"*"}}
	if err := r.client.do(ctx, http.MethodPost, usersTable, query, payload, &rows); err != nil {
		return types.User{}, err
	}
	if len(rows) == 0 {
		return types.User{}, store.ErrNotFound
	}
	return rows[0].toUser(), nil
}
