package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/mocks"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_RegisterUser(t *testing.T) {
	t.Run("stores a validated user", func(t *testing.T) {
		userStore := new(mocks.UserStore)
		svc := service.NewUserService(userStore, &mocks.MockPasswordVerifier{}, quietLogger())
		userStore.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "ada@example.com" && u.Role == domain.RoleUser
		})).Return(nil)

		user, err := svc.RegisterUser(context.Background(), "Ada", " Ada@Example.com ", "lovelace1")
		require.NoError(t, err)
		assert.Equal(t, "Ada", user.Name)
		userStore.AssertExpectations(t)
	})

	t.Run("invalid input never reaches the store", func(t *testing.T) {
		userStore := new(mocks.UserStore)
		svc := service.NewUserService(userStore, &mocks.MockPasswordVerifier{}, quietLogger())

		_, err := svc.RegisterUser(context.Background(), "A", "not-an-email", "short")
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.ElementsMatch(t, []string{"name", "email", "password", "password"}, verr.Fields())
		userStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate email", func(t *testing.T) {
		userStore := new(mocks.UserStore)
		svc := service.NewUserService(userStore, &mocks.MockPasswordVerifier{}, quietLogger())
		userStore.On("Create", mock.Anything, mock.Anything).Return(store.ErrEmailExists)

		_, err := svc.RegisterUser(context.Background(), "Ada", "ada@example.com", "lovelace1")
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "ada@example.com", HashedPassword: "hash"}

	tests := []struct {
		name      string
		lookupErr error
		matches   bool
		wantErr   error
	}{
		{name: "valid credentials", matches: true},
		{name: "wrong password", matches: false, wantErr: service.ErrInvalidCredentials},
		{name: "unknown email", lookupErr: store.ErrUserNotFound, wantErr: service.ErrInvalidCredentials},
		{name: "store failure", lookupErr: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userStore := new(mocks.UserStore)
			verifier := &mocks.MockPasswordVerifier{ShouldSucceed: tt.matches}
			svc := service.NewUserService(userStore, verifier, quietLogger())

			if tt.lookupErr != nil {
				userStore.On("GetByEmail", mock.Anything, "ada@example.com").Return(nil, tt.lookupErr)
			} else {
				userStore.On("GetByEmail", mock.Anything, "ada@example.com").Return(user, nil)
			}

			got, err := svc.Authenticate(context.Background(), "ada@example.com", "lovelace1")
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			case tt.lookupErr != nil:
				assert.ErrorIs(t, err, tt.lookupErr)
				assert.NotErrorIs(t, err, service.ErrInvalidCredentials)
			default:
				require.NoError(t, err)
				assert.Equal(t, user, got)
			}
		})
	}

	t.Run("malformed request is a validation error", func(t *testing.T) {
		svc := service.NewUserService(new(mocks.UserStore), &mocks.MockPasswordVerifier{}, quietLogger())
		_, err := svc.Authenticate(context.Background(), "", "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestUserService_GetUser(t *testing.T) {
	userStore := new(mocks.UserStore)
	svc := service.NewUserService(userStore, &mocks.MockPasswordVerifier{}, quietLogger())
	id := uuid.New()
	userStore.On("GetByID", mock.Anything, id).Return(nil, store.ErrUserNotFound)

	_, err := svc.GetUser(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	userID := uuid.New()
	existing := func() *domain.User {
		return &domain.User{ID: userID, Name: "Ada", Email: "ada@example.com", Role: domain.RoleUser, HashedPassword: "hash"}
	}

	t.Run("updates name and normalized email", func(t *testing.T) {
		userStore := new(mocks.UserStore)
		svc := service.NewUserService(userStore, &mocks.MockPasswordVerifier{}, quietLogger())
		userStore.On("GetByID", mock.Anything, userID).Return(existing(), nil)
		userStore.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Name == "Countess" && u.Email == "countess@example.com"
		})).Return(nil)

		patch := domain.ProfilePatch{Name: ptr(" Countess "), Email: ptr("Countess@Example.com")}
		user, err := svc.UpdateProfile(context.Background(), userID, patch)
		require.NoError(t, err)
		assert.Equal(t, "countess@example.com", user.Email)
		assert.False(t, user.UpdatedAt.IsZero())
		userStore.AssertExpectations(t)
	})

	t.Run("invalid patch never reaches the store", func(t *testing.T) {
		userStore := new(mocks.UserStore)
		svc := service.NewUserService(userStore, &mocks.MockPasswordVerifier{}, quietLogger())

		_, err := svc.UpdateProfile(context.Background(), userID, domain.ProfilePatch{Email: ptr("bad")})
		assert.ErrorIs(t, err, domain.ErrValidation)
		userStore.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		userStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("email taken by another account", func(t *testing.T) {
		userStore := new(mocks.UserStore)
		svc := service.NewUserService(userStore, &mocks.MockPasswordVerifier{}, quietLogger())
		userStore.On("GetByID", mock.Anything, userID).Return(existing(), nil)
		userStore.On("Update", mock.Anything, mock.Anything).Return(store.ErrEmailExists)

		_, err := svc.UpdateProfile(context.Background(), userID, domain.ProfilePatch{Email: ptr("grace@example.com")})
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("unknown user", func(t *testing.T) {
		userStore := new(mocks.UserStore)
		svc := service.NewUserService(userStore, &mocks.MockPasswordVerifier{}, quietLogger())
		userStore.On("GetByID", mock.Anything, userID).Return(nil, store.ErrUserNotFound)

		_, err := svc.UpdateProfile(context.Background(), userID, domain.ProfilePatch{Name: ptr("Countess")})
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		userStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
