package gorm

import (
	"context"
	"errors"

	"github.com/gestor-tareas/apiserver/internal/store"
	"github.com/gestor-tareas/apiserver/types"
	libgorm "gorm.io/gorm"
)

type userModel struct {
	ID           int    `gorm:"primaryKey"`
	Name         string `gorm:"column:nombre"`
	Email        string `gorm:"column:email;uniqueIndex"`
	Role         string `gorm:"column:rol"`
	PasswordHash string `gorm:"column:password"`
}

func (userModel) TableName() string { return "usuarios" }

func (m userModel) toUser() types.User {
	return types.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Role:         m.Role,
		PasswordHash: m.PasswordHash,
	}
}

// UserRepository handles persistence for users.
type UserRepository struct {
	db *libgorm.DB
}

func NewUserRepository(db *libgorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	var user userModel
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, libgorm.ErrRecordNotFound) {
			return types.User{}, store.ErrNotFound
		}
		return types.User{}, err
	}
	return user.toUser(), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	var user userModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, libgorm.ErrRecordNotFound) {
			return types.User{}, store.ErrNotFound
		}
		return types.User{}, err
	}
	return user.toUser(), nil
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	row := userModel{
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		PasswordHash: user.PasswordHash,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, libgorm.ErrDuplicatedKey) {
			return types.User{}, store.ErrConflict
		}
		return types.User{}, err
	}
	user.ID = row.ID
	return user, nil
}
