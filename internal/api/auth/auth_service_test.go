package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/studyhub/internal/models"
	"github.com/FACorreiaa/studyhub/internal/security/password"
	"github.com/FACorreiaa/studyhub/internal/security/token"
	"github.com/FACorreiaa/studyhub/internal/types"
)

// MockAuthRepo is a mock implementation of the AuthRepo interface
type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepo) GetActiveUserByUserID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepo) GetActiveUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepo) UpdateLastLogin(ctx context.Context, id int64) (time.Time, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(time.Time), args.Error(1)
}

const testSecret = "test-secret"

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCodec(t *testing.T) *token.Codec {
	t.Helper()
	codec, err := token.NewCodec(testSecret, token.WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	return codec
}

func setupAuthService(t *testing.T) (*AuthServiceImpl, *MockAuthRepo, *token.Codec) {
	t.Helper()
	repo := new(MockAuthRepo)
	codec := newTestCodec(t)
	svc := NewAuthService(repo, password.NewSHA256Hasher(), codec, token.DefaultTTL, discardLogger())
	return svc, repo, codec
}

func storedUser(id int64, userID, username, plain string) *models.User {
	u := models.NewUser(userID, username, password.Digest(plain))
	u.ID = id
	u.CreatedAt = testNow.Add(-24 * time.Hour)
	u.UpdatedAt = u.CreatedAt
	return u
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, repo, codec := setupAuthService(t)
		repo.On("ExistsByUserID", mock.Anything, "testuser1").Return(false, nil)
		repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.UserID == "testuser1" &&
				u.Username == "Tester" &&
				u.PasswordHash == password.Digest("Passw0rd") &&
				u.IsActive
		})).Return(storedUser(1, "testuser1", "Tester", "Passw0rd"), nil)

		signed, user, err := svc.Signup(ctx, types.SignupRequest{UserID: "testuser1", Password: "Passw0rd", Username: "Tester"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)

		claims, ok := codec.Verify(signed)
		require.True(t, ok)
		assert.Equal(t, int64(1), claims.ID)
		assert.Equal(t, "testuser1", claims.UserID)
		assert.Equal(t, "Tester", claims.Username)
		assert.Equal(t, testNow.Add(token.DefaultTTL).Unix(), claims.ExpiresAt.Unix())
		repo.AssertExpectations(t)
	})

	t.Run("ValidationOrder", func(t *testing.T) {
		tests := []struct {
			name string
			req  types.SignupRequest
			want string
		}{
			{"MissingUserID", types.SignupRequest{Password: "Passw0rd", Username: "Tester"}, MsgSignupMissingFields},
			{"MissingUsername", types.SignupRequest{UserID: "BAD", Password: "weak", Username: ""}, MsgSignupMissingFields},
			{"BadIdentifier", types.SignupRequest{UserID: "Bad-Id", Password: "Passw0rd", Username: "Tester"}, MsgInvalidIdentifier},
			{"IdentifierBeforePassword", types.SignupRequest{UserID: "abc", Password: "weak", Username: "T"}, MsgInvalidIdentifier},
			{"WeakPassword", types.SignupRequest{UserID: "testuser1", Password: "password", Username: "Tester"}, MsgWeakPassword},
			{"PasswordBeforeUsername", types.SignupRequest{UserID: "testuser1", Password: "short", Username: "T"}, MsgWeakPassword},
			{"ShortUsername", types.SignupRequest{UserID: "testuser1", Password: "Passw0rd", Username: "T"}, MsgInvalidUsername},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, repo, _ := setupAuthService(t)

				_, _, err := svc.Signup(ctx, tt.req)
				require.Error(t, err)
				var verr *types.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.want, verr.Message)
				assert.ErrorIs(t, err, types.ErrValidation)
				repo.AssertNotCalled(t, "ExistsByUserID", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("DuplicateUserID", func(t *testing.T) {
		svc, repo, _ := setupAuthService(t)
		repo.On("ExistsByUserID", mock.Anything, "testuser1").Return(true, nil)

		_, _, err := svc.Signup(ctx, types.SignupRequest{UserID: "testuser1", Password: "Passw0rd", Username: "Tester"})
		assert.ErrorIs(t, err, types.ErrConflict)
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("InsertRaceIsConflict", func(t *testing.T) {
		svc, repo, _ := setupAuthService(t)
		repo.On("ExistsByUserID", mock.Anything, "testuser1").Return(false, nil)
		repo.On("CreateUser", mock.Anything, mock.Anything).Return(nil, types.ErrConflict)

		_, _, err := svc.Signup(ctx, types.SignupRequest{UserID: "testuser1", Password: "Passw0rd", Username: "Tester"})
		assert.ErrorIs(t, err, types.ErrConflict)
	})

	t.Run("RepositoryFailure", func(t *testing.T) {
		svc, repo, _ := setupAuthService(t)
		repo.On("ExistsByUserID", mock.Anything, "testuser1").Return(false, errors.New("db down"))

		_, _, err := svc.Signup(ctx, types.SignupRequest{UserID: "testuser1", Password: "Passw0rd", Username: "Tester"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
		assert.NotErrorIs(t, err, types.ErrConflict)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	lastLogin := testNow.Add(-time.Second)

	t.Run("Success", func(t *testing.T) {
		svc, repo, codec := setupAuthService(t)
		repo.On("GetActiveUserByUserID", mock.Anything, "testuser1").Return(storedUser(5, "testuser1", "Tester", "Passw0rd"), nil)
		repo.On("UpdateLastLogin", mock.Anything, int64(5)).Return(lastLogin, nil)

		signed, user, err := svc.Login(ctx, types.LoginRequest{UserID: "testuser1", Password: "Passw0rd"})
		require.NoError(t, err)
		require.NotNil(t, user.LastLogin)
		assert.Equal(t, lastLogin, *user.LastLogin)

		claims, ok := codec.Verify(signed)
		require.True(t, ok)
		assert.Equal(t, int64(5), claims.ID)
		repo.AssertExpectations(t)
	})

	t.Run("MissingFields", func(t *testing.T) {
		svc, _, _ := setupAuthService(t)

		_, _, err := svc.Login(ctx, types.LoginRequest{UserID: "testuser1"})
		var verr *types.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, MsgLoginMissingFields, verr.Message)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		svc, repo, _ := setupAuthService(t)
		repo.On("GetActiveUserByUserID", mock.Anything, "testuser1").Return(storedUser(5, "testuser1", "Tester", "Passw0rd"), nil)

		_, _, err := svc.Login(ctx, types.LoginRequest{UserID: "testuser1", Password: "Wrong123"})
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		repo.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything)
	})

	t.Run("UnknownUserLooksLikeWrongPassword", func(t *testing.T) {
		svc, repo, _ := setupAuthService(t)
		repo.On("GetActiveUserByUserID", mock.Anything, "ghost").Return(nil, types.ErrNotFound)

		_, _, err := svc.Login(ctx, types.LoginRequest{UserID: "ghost", Password: "Passw0rd"})
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		assert.NotErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("UpdateLastLoginFailure", func(t *testing.T) {
		svc, repo, _ := setupAuthService(t)
		repo.On("GetActiveUserByUserID", mock.Anything, "testuser1").Return(storedUser(5, "testuser1", "Tester", "Passw0rd"), nil)
		repo.On("UpdateLastLogin", mock.Anything, int64(5)).Return(time.Time{}, errors.New("db down"))

		_, _, err := svc.Login(ctx, types.LoginRequest{UserID: "testuser1", Password: "Passw0rd"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, types.ErrUnauthenticated)
	})
}

func TestAuthService_GetUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		svc, repo, _ := setupAuthService(t)
		repo.On("GetActiveUserByID", mock.Anything, int64(5)).Return(storedUser(5, "testuser1", "Tester", "Passw0rd"), nil)

		user, err := svc.GetUser(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, "testuser1", user.UserID)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc, repo, _ := setupAuthService(t)
		repo.On("GetActiveUserByID", mock.Anything, int64(6)).Return(nil, types.ErrNotFound)

		_, err := svc.GetUser(ctx, 6)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestNewAuthService_DefaultTTL(t *testing.T) {
	svc := NewAuthService(new(MockAuthRepo), password.NewSHA256Hasher(), newTestCodec(t), 0, discardLogger())
	assert.Equal(t, token.DefaultTTL, svc.tokenTTL)
}
