package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/frahmantamala/task-gamification/internal"
	"github.com/frahmantamala/task-gamification/internal/auth"
	userDatamodel "github.com/frahmantamala/task-gamification/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*auth.Account, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return toAccount(&u), nil
}

func (r *Repository) GetAccountByID(ctx context.Context, id int64) (*auth.Account, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return toAccount(&u), nil
}

func (r *Repository) CreateAccount(ctx context.Context, account *auth.Account) error {
	u := userDatamodel.User{
		Email:        account.Email,
		Name:         account.Name,
		PasswordHash: account.PasswordHash,
		Role:         string(account.Role),
		Points:       account.Points,
		BusinessID:   account.BusinessID,
	}
	if err := r.db.WithContext(ctx).Create(&u).Error; err != nil {
		if isUniqueViolation(err) {
			return internal.ErrUserExists
		}
		return err
	}
	account.ID = u.ID
	return nil
}

func toAccount(u *userDatamodel.User) *auth.Account {
	return &auth.Account{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         auth.Role(u.Role),
		Points:       u.Points,
		BusinessID:   u.BusinessID,
		PasswordHash: u.PasswordHash,
	}
}

// isUniqueViolation covers postgres (23505) and sqlite wording.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "UNIQUE constraint failed")
}
