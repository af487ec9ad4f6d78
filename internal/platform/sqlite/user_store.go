package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserStore implements store.UserStore on SQLite through gorm.
type UserStore struct {
	db         *gorm.DB
	bcryptCost int
	logger     *slog.Logger
}

// NewUserStore creates a UserStore. A bcryptCost outside bcrypt's accepted
// range falls back to bcrypt.DefaultCost.
func NewUserStore(db *gorm.DB, bcryptCost int, logger *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStore{
		db:         db,
		bcryptCost: bcryptCost,
		logger:     logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*UserStore)(nil)

// Create implements store.UserStore.Create
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user.Email = domain.NormalizeEmail(user.Email)
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	if user.HashedPassword == "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
		if err != nil {
			return store.NewStoreError("user", "create", "failed to hash password", err)
		}
		user.HashedPassword = string(hash)
	}
	user.Password = ""

	row := newUserRow(user)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %w", store.ErrEmailExists, err)
		}
		log.Error("failed to create user", slog.String("error", err.Error()))
		return store.NewStoreError("user", "create", "failed to insert user", mapError(err))
	}

	log.Info("user created successfully", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, "id = ?", id.String())
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, "email = ?", domain.NormalizeEmail(email))
}

// Update implements store.UserStore.Update
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user.Email = domain.NormalizeEmail(user.Email)
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	res := s.db.WithContext(ctx).Model(&userRow{}).
		Where("id = ?", user.ID.String()).
		Updates(map[string]any{
			"name":       user.Name,
			"email":      user.Email,
			"updated_at": user.UpdatedAt.UTC(),
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %w", store.ErrEmailExists, res.Error)
		}
		log.Error("failed to update user", slog.String("error", res.Error.Error()))
		return store.NewStoreError("user", "update", "failed to update user", mapError(res.Error))
	}
	if res.RowsAffected == 0 {
		return store.ErrUserNotFound
	}

	log.Info("user updated successfully", slog.String("user_id", user.ID.String()))
	return nil
}

func (s *UserStore) getOne(ctx context.Context, cond string, arg any) (*domain.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).Where(cond, arg).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, store.NewStoreError("user", "get", "failed to get user", mapError(err))
	}
	user, err := row.toDomain()
	if err != nil {
		return nil, store.NewStoreError("user", "get", "corrupt user row", err)
	}
	return user, nil
}
