package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/giapdoan01/BEArtGallery/internal/feature/auth/domain/entity"
)

// mockUserRepository is a mock implementation of the UserRepository interface.
// It simulates database operations during testing.
type mockUserRepository struct {
	// CreateWithDefaultFramesFunc is called when the CreateWithDefaultFrames method is invoked.
	CreateWithDefaultFramesFunc func(ctx context.Context, user *entity.User) error
	// FindByEmailFunc is called when the FindByEmail method is invoked.
	FindByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
	// FindByIDFunc is called when the FindByID method is invoked.
	FindByIDFunc func(ctx context.Context, id uint) (*entity.User, error)
}

func (m *mockUserRepository) CreateWithDefaultFrames(ctx context.Context, user *entity.User) error {
	if m.CreateWithDefaultFramesFunc != nil {
		return m.CreateWithDefaultFramesFunc(ctx, user)
	}
	return nil // Default: success
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound
}

// mockSessionRepository is a mock implementation of the SessionRepository interface.
type mockSessionRepository struct {
	CreateFunc            func(ctx context.Context, session *entity.Session) error
	FindByIDFunc          func(ctx context.Context, id string) (*entity.Session, error)
	RevokeFunc            func(ctx context.Context, id string) error
	RevokeAllByUserIDFunc func(ctx context.Context, userID uint) error
	DeleteExpiredFunc     func(ctx context.Context) (int64, error)
}

func (m *mockSessionRepository) Create(ctx context.Context, session *entity.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	return nil
}

func (m *mockSessionRepository) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrSessionNotFound
}

func (m *mockSessionRepository) Revoke(ctx context.Context, id string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, id)
	}
	return nil
}

func (m *mockSessionRepository) RevokeAllByUserID(ctx context.Context, userID uint) error {
	if m.RevokeAllByUserIDFunc != nil {
		return m.RevokeAllByUserIDFunc(ctx, userID)
	}
	return nil
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	return 0, nil
}

// mockTokenGenerator is a mock implementation of the TokenGenerator interface.
type mockTokenGenerator struct {
	GenerateAccessTokenFunc  func(userID uint, email string) (string, error)
	GenerateRefreshTokenFunc func(userID uint) (string, string, time.Time, error)
	ParseRefreshTokenFunc    func(token string) (string, uint, error)
}

func (m *mockTokenGenerator) GenerateAccessToken(userID uint, email string) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(userID, email)
	}
	return "mock-access-token", nil
}

func (m *mockTokenGenerator) GenerateRefreshToken(userID uint) (string, string, time.Time, error) {
	if m.GenerateRefreshTokenFunc != nil {
		return m.GenerateRefreshTokenFunc(userID)
	}
	return "mock-refresh-token", "mock-jti", time.Now().Add(168 * time.Hour), nil
}

func (m *mockTokenGenerator) ParseRefreshToken(token string) (string, uint, error) {
	if m.ParseRefreshTokenFunc != nil {
		return m.ParseRefreshTokenFunc(token)
	}
	return "mock-jti", 1, nil
}

func (m *mockTokenGenerator) AccessTTL() time.Duration {
	return time.Hour
}

func TestAuthUsecase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("successful registration hashes the password", func(t *testing.T) {
		mockUsers := &mockUserRepository{
			CreateWithDefaultFramesFunc: func(ctx context.Context, user *entity.User) error {
				// Verify that the password is hashed
				if len(user.Password) == 0 || user.Password == "password123" {
					t.Errorf("password is not hashed")
				}
				// Verify that it's a valid bcrypt hash
				if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")); err != nil {
					t.Errorf("invalid bcrypt hash: %v", err)
				}
				user.ID = 1
				return nil
			},
		}

		uc := NewAuthUsecase(mockUsers, &mockSessionRepository{}, &mockTokenGenerator{})
		user, err := uc.Register(ctx, "test@example.com", "tester", "password123", "Tester")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Email != "test@example.com" || user.Username != "tester" {
			t.Errorf("unexpected user: %+v", user)
		}
	})

	t.Run("password shorter than 8 characters is rejected", func(t *testing.T) {
		called := false
		mockUsers := &mockUserRepository{
			CreateWithDefaultFramesFunc: func(ctx context.Context, user *entity.User) error {
				called = true
				return nil
			},
		}

		uc := NewAuthUsecase(mockUsers, &mockSessionRepository{}, &mockTokenGenerator{})
		_, err := uc.Register(ctx, "test@example.com", "tester", "short", "")

		if err == nil {
			t.Fatal("expected error but got nil")
		}
		if called {
			t.Error("repository should not be called for an invalid password")
		}
	})

	t.Run("duplicate email is passed through", func(t *testing.T) {
		mockUsers := &mockUserRepository{
			CreateWithDefaultFramesFunc: func(ctx context.Context, user *entity.User) error {
				return ErrEmailAlreadyExists
			},
		}

		uc := NewAuthUsecase(mockUsers, &mockSessionRepository{}, &mockTokenGenerator{})
		_, err := uc.Register(ctx, "taken@example.com", "tester", "password123", "")

		if !errors.Is(err, ErrEmailAlreadyExists) {
			t.Errorf("expected ErrEmailAlreadyExists, got: %v", err)
		}
	})
}

func TestAuthUsecase_Login(t *testing.T) {
	ctx := context.Background()

	// Hashed password for testing
	password := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	testUser := &entity.User{
		ID:       1,
		Email:    "test@example.com",
		Username: "tester",
		Password: string(hashedPassword),
	}

	t.Run("successful login records a session keyed by the jti", func(t *testing.T) {
		var createdSession *entity.Session
		mockUsers := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				if email == testUser.Email {
					return testUser, nil
				}
				return nil, ErrUserNotFound
			},
		}
		mockSessions := &mockSessionRepository{
			CreateFunc: func(ctx context.Context, session *entity.Session) error {
				createdSession = session
				return nil
			},
		}

		uc := NewAuthUsecase(mockUsers, mockSessions, &mockTokenGenerator{})
		pair, user, err := uc.Login(ctx, "test@example.com", "password123", "test-agent", "127.0.0.1")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pair.AccessToken != "mock-access-token" {
			t.Errorf("unexpected access token: %s", pair.AccessToken)
		}
		if pair.RefreshToken != "mock-refresh-token" {
			t.Errorf("unexpected refresh token: %s", pair.RefreshToken)
		}
		if pair.ExpiresIn != 3600 {
			t.Errorf("expected expiresIn 3600, got: %d", pair.ExpiresIn)
		}
		if user.ID != testUser.ID {
			t.Errorf("unexpected user: %+v", user)
		}
		if createdSession == nil {
			t.Fatal("session was not created")
		}
		if createdSession.ID != "mock-jti" || createdSession.UserID != testUser.ID {
			t.Errorf("unexpected session: %+v", createdSession)
		}
		if createdSession.UserAgent != "test-agent" || createdSession.IPAddress != "127.0.0.1" {
			t.Errorf("session is missing client metadata: %+v", createdSession)
		}
	})

	t.Run("unknown user yields generic credentials error", func(t *testing.T) {
		uc := NewAuthUsecase(&mockUserRepository{}, &mockSessionRepository{}, &mockTokenGenerator{})
		_, _, err := uc.Login(ctx, "wrong@example.com", "password123", "", "")

		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got: %v", err)
		}
	})

	t.Run("incorrect password yields generic credentials error", func(t *testing.T) {
		mockUsers := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return testUser, nil
			},
		}

		uc := NewAuthUsecase(mockUsers, &mockSessionRepository{}, &mockTokenGenerator{})
		_, _, err := uc.Login(ctx, "test@example.com", "wrong-password", "", "")

		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got: %v", err)
		}
	})

	t.Run("session store failure aborts the login", func(t *testing.T) {
		mockUsers := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return testUser, nil
			},
		}
		mockSessions := &mockSessionRepository{
			CreateFunc: func(ctx context.Context, session *entity.Session) error {
				return errors.New("store unavailable")
			},
		}

		uc := NewAuthUsecase(mockUsers, mockSessions, &mockTokenGenerator{})
		_, _, err := uc.Login(ctx, "test@example.com", "password123", "", "")

		if err == nil {
			t.Fatal("expected error but got nil")
		}
	})
}

func TestAuthUsecase_Refresh(t *testing.T) {
	ctx := context.Background()

	testUser := &entity.User{ID: 1, Email: "test@example.com"}
	validSession := func() *entity.Session {
		return &entity.Session{
			ID:        "mock-jti",
			UserID:    1,
			CreatedAt: time.Now(),
			ExpiresAt: time.Now().Add(time.Hour),
		}
	}

	t.Run("valid refresh token yields a new access token", func(t *testing.T) {
		mockUsers := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.User, error) {
				return testUser, nil
			},
		}
		mockSessions := &mockSessionRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.Session, error) {
				if id != "mock-jti" {
					t.Errorf("unexpected session lookup: %s", id)
				}
				return validSession(), nil
			},
		}

		uc := NewAuthUsecase(mockUsers, mockSessions, &mockTokenGenerator{})
		token, expiresIn, err := uc.Refresh(ctx, "some-refresh-token")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "mock-access-token" {
			t.Errorf("unexpected token: %s", token)
		}
		if expiresIn != 3600 {
			t.Errorf("expected expiresIn 3600, got: %d", expiresIn)
		}
	})

	t.Run("malformed token is rejected", func(t *testing.T) {
		mockTokens := &mockTokenGenerator{
			ParseRefreshTokenFunc: func(token string) (string, uint, error) {
				return "", 0, errors.New("bad signature")
			},
		}

		uc := NewAuthUsecase(&mockUserRepository{}, &mockSessionRepository{}, mockTokens)
		_, _, err := uc.Refresh(ctx, "garbage")

		if !errors.Is(err, ErrInvalidRefreshToken) {
			t.Errorf("expected ErrInvalidRefreshToken, got: %v", err)
		}
	})

	t.Run("unknown session is rejected", func(t *testing.T) {
		uc := NewAuthUsecase(&mockUserRepository{}, &mockSessionRepository{}, &mockTokenGenerator{})
		_, _, err := uc.Refresh(ctx, "some-refresh-token")

		if !errors.Is(err, ErrInvalidRefreshToken) {
			t.Errorf("expected ErrInvalidRefreshToken, got: %v", err)
		}
	})

	t.Run("revoked session is rejected", func(t *testing.T) {
		mockSessions := &mockSessionRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.Session, error) {
				s := validSession()
				now := time.Now()
				s.RevokedAt = &now
				return s, nil
			},
		}

		uc := NewAuthUsecase(&mockUserRepository{}, mockSessions, &mockTokenGenerator{})
		_, _, err := uc.Refresh(ctx, "some-refresh-token")

		if !errors.Is(err, ErrSessionRevoked) {
			t.Errorf("expected ErrSessionRevoked, got: %v", err)
		}
	})

	t.Run("expired session is rejected", func(t *testing.T) {
		mockSessions := &mockSessionRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.Session, error) {
				s := validSession()
				s.ExpiresAt = time.Now().Add(-time.Minute)
				return s, nil
			},
		}

		uc := NewAuthUsecase(&mockUserRepository{}, mockSessions, &mockTokenGenerator{})
		_, _, err := uc.Refresh(ctx, "some-refresh-token")

		if !errors.Is(err, ErrSessionExpired) {
			t.Errorf("expected ErrSessionExpired, got: %v", err)
		}
	})
}

func TestAuthUsecase_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("successful logout revokes the session", func(t *testing.T) {
		revoked := ""
		mockSessions := &mockSessionRepository{
			RevokeFunc: func(ctx context.Context, id string) error {
				revoked = id
				return nil
			},
		}

		uc := NewAuthUsecase(&mockUserRepository{}, mockSessions, &mockTokenGenerator{})
		if err := uc.Logout(ctx, "some-refresh-token"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if revoked != "mock-jti" {
			t.Errorf("expected session mock-jti to be revoked, got: %q", revoked)
		}
	})

	t.Run("malformed token is rejected", func(t *testing.T) {
		mockTokens := &mockTokenGenerator{
			ParseRefreshTokenFunc: func(token string) (string, uint, error) {
				return "", 0, errors.New("bad signature")
			},
		}

		uc := NewAuthUsecase(&mockUserRepository{}, &mockSessionRepository{}, mockTokens)
		err := uc.Logout(ctx, "garbage")

		if !errors.Is(err, ErrInvalidRefreshToken) {
			t.Errorf("expected ErrInvalidRefreshToken, got: %v", err)
		}
	})

	t.Run("unknown session is treated as invalid token", func(t *testing.T) {
		mockSessions := &mockSessionRepository{
			RevokeFunc: func(ctx context.Context, id string) error {
				return ErrSessionNotFound
			},
		}

		uc := NewAuthUsecase(&mockUserRepository{}, mockSessions, &mockTokenGenerator{})
		err := uc.Logout(ctx, "some-refresh-token")

		if !errors.Is(err, ErrInvalidRefreshToken) {
			t.Errorf("expected ErrInvalidRefreshToken, got: %v", err)
		}
	})
}

func TestAuthUsecase_LogoutAll(t *testing.T) {
	ctx := context.Background()

	t.Run("all sessions of the user are revoked", func(t *testing.T) {
		var revokedUser uint
		mockSessions := &mockSessionRepository{
			RevokeAllByUserIDFunc: func(ctx context.Context, userID uint) error {
				revokedUser = userID
				return nil
			},
		}

		uc := NewAuthUsecase(&mockUserRepository{}, mockSessions, &mockTokenGenerator{})
		if err := uc.LogoutAll(ctx, 42); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if revokedUser != 42 {
			t.Errorf("expected sessions of user 42 to be revoked, got: %d", revokedUser)
		}
	})

	t.Run("storage errors are propagated", func(t *testing.T) {
		storeErr := errors.New("redis down")
		mockSessions := &mockSessionRepository{
			RevokeAllByUserIDFunc: func(ctx context.Context, userID uint) error {
				return storeErr
			},
		}

		uc := NewAuthUsecase(&mockUserRepository{}, mockSessions, &mockTokenGenerator{})
		if err := uc.LogoutAll(ctx, 42); !errors.Is(err, storeErr) {
			t.Errorf("expected storage error, got: %v", err)
		}
	})
}

func TestAuthUsecase_PurgeExpiredSessions(t *testing.T) {
	ctx := context.Background()

	mockSessions := &mockSessionRepository{
		DeleteExpiredFunc: func(ctx context.Context) (int64, error) {
			return 3, nil
		},
	}

	uc := NewAuthUsecase(&mockUserRepository{}, mockSessions, &mockTokenGenerator{})
	n, err := uc.PurgeExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 purged sessions, got %d", n)
	}
}
