package types

// Role values stored in the rol column.
const (
	RoleUser  = "usuario"
	RoleAdmin = "admin"
)

// User represents an account in the system.
// JSON field names follow the Spanish wire contract of the API.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Name is the user's display name.
	Name string `json:"nombre" db:"nombre"`

	// Email is the user's email address. It is unique across accounts
	// and is the login identifier.
	Email string `json:"email" db:"email"`

	// Role indicates the user's authorization level within the system
	// ("usuario" or "admin").
	Role string `json:"rol" db:"rol"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password"`
}
