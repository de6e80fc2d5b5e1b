package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/raaghavgupta2020/budget-app/internal/models"
	"github.com/raaghavgupta2020/budget-app/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// dummyHash is compared against when authenticating an unknown username,
// so the missing-user path costs the same as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("budget-app-dummy"), bcrypt.DefaultCost)

// AccountStore manages user accounts.
type AccountStore struct {
	db         *gorm.DB
	bcryptCost int
}

func NewAccountStore(db *gorm.DB, bcryptCost int) *AccountStore {
	return &AccountStore{db: db, bcryptCost: bcryptCost}
}

// Create registers a new account. Uniqueness comes from the unique index on
// username: the insert itself is the check, so two concurrent registrations
// of the same name cannot both succeed.
func (s *AccountStore) Create(ctx context.Context, username, rawPassword string) (*models.User, error) {
	hash, err := util.HashPassword(rawPassword, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// FindByUsername looks up one account. Returns ErrNotFound when absent.
func (s *AccountStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// ListAll returns every account. No ordering or pagination.
func (s *AccountStore) ListAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Authenticate verifies a username/password pair. It fails closed: an
// unknown username and a wrong password both return ErrInvalidCredentials.
func (s *AccountStore) Authenticate(ctx context.Context, username, rawPassword string) (*models.User, error) {
	user, err := s.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// burn a compare so timing does not leak existence
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(rawPassword))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !util.CheckPassword(rawPassword, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
