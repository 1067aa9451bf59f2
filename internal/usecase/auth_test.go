package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/V4T54L/leatherstore/internal/domain"
	"github.com/V4T54L/leatherstore/internal/domain/mocks"
	"github.com/V4T54L/leatherstore/internal/pkg/logger"
	"github.com/V4T54L/leatherstore/internal/pkg/logger/loggertest"
)

type authFixture struct {
	uc       *AuthUseCase
	users    *mocks.MockUserRepository
	sessions *mocks.MockSessionRepository
	capture  *loggertest.Capture
}

func newAuthFixture(t *testing.T, users ...domain.User) authFixture {
	t.Helper()
	actions, capture := newActions()
	f := authFixture{
		users:    mocks.NewMockUserRepository(users...),
		sessions: mocks.NewMockSessionRepository(),
		capture:  capture,
	}
	f.uc = NewAuthUseCase(f.users, f.sessions, actions, discardLogger())
	f.uc.hashCost = bcrypt.MinCost
	return f
}

func TestAuthUseCase_LoginSuccess(t *testing.T) {
	f := newAuthFixture(t, domain.User{ID: 7, Username: "alice", PasswordHash: hashFor(t, "secret1"), Role: domain.RoleManager, IsActive: true})
	ctx := requestContext(nil)

	user, session, err := f.uc.Login(ctx, " alice ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, int64(7), session.UserID)

	events := f.capture.Events()
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, logger.ChannelAuth, e.Channel)
	assert.Equal(t, logger.LevelInfo, e.Level)
	assert.Equal(t, ActionUserLogin, e.Action)
	assert.Equal(t, logger.StatusSuccess, e.Status)
	assert.Equal(t, "alice", e.Extra["username"])
	assert.Equal(t, "manager", e.Extra["role"])
	require.NotNil(t, e.Actor)
	assert.Equal(t, logger.Actor{ID: 7, Username: "alice", Role: "manager"}, *e.Actor)
	assert.Equal(t, "203.0.113.7", e.ClientAddress)

	// Later events of the same request carry the new actor.
	require.NotNil(t, logger.ActorFromContext(ctx))
	assert.Equal(t, int64(7), logger.ActorFromContext(ctx).ID)
}

func TestAuthUseCase_LoginRejections(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
		reason   string
	}{
		{name: "unknown user", username: "mallory", password: "secret1", wantErr: ErrInvalidCredentials, reason: ReasonInvalidCredentials},
		{name: "wrong password", username: "alice", password: "wrong", wantErr: ErrInvalidCredentials, reason: ReasonInvalidCredentials},
		{name: "deactivated", username: "bob", password: "secret2", wantErr: ErrAccountDeactivated, reason: ReasonAccountDeactivated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t,
				domain.User{ID: 1, Username: "alice", PasswordHash: hashFor(t, "secret1"), Role: domain.RoleUser, IsActive: true},
				domain.User{ID: 2, Username: "bob", PasswordHash: hashFor(t, "secret2"), Role: domain.RoleUser, IsActive: false},
			)

			_, _, err := f.uc.Login(requestContext(nil), tt.username, tt.password)
			require.ErrorIs(t, err, tt.wantErr)

			events := f.capture.Events()
			require.Len(t, events, 1)
			assert.Equal(t, logger.LevelWarning, events[0].Level)
			assert.Equal(t, logger.StatusError, events[0].Status)
			assert.Equal(t, tt.reason, events[0].Extra["reason"])
			assert.Empty(t, f.sessions.Sessions)
		})
	}
}

func TestAuthUseCase_LoginDeactivatedWithWrongPasswordLooksInvalid(t *testing.T) {
	f := newAuthFixture(t, domain.User{ID: 2, Username: "bob", PasswordHash: hashFor(t, "secret2"), IsActive: false})

	_, _, err := f.uc.Login(context.Background(), "bob", "nope")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Len(t, f.capture.Events(), 1)
	assert.Equal(t, ReasonInvalidCredentials, f.capture.Events()[0].Extra["reason"])
}

func TestAuthUseCase_DeactivatedLoginReachesAuthLogByDefault(t *testing.T) {
	dir := t.TempDir()
	router, err := logger.NewRouter(logger.Config{Dir: dir, Format: logger.FormatJSON})
	require.NoError(t, err)
	t.Cleanup(func() { router.Close() })

	users := mocks.NewMockUserRepository(domain.User{ID: 2, Username: "bob", PasswordHash: hashFor(t, "secret2"), IsActive: false})
	uc := NewAuthUseCase(users, mocks.NewMockSessionRepository(), logger.NewActionLogger(router), router.Logger(logger.ChannelAuth))

	_, _, err = uc.Login(requestContext(nil), "bob", "secret2")
	require.ErrorIs(t, err, ErrAccountDeactivated)

	data, err := os.ReadFile(filepath.Join(dir, "auth.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var note, rejection map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &note))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rejection))
	assert.Equal(t, "INFO", note["level"])
	assert.Equal(t, "login attempt for deactivated account", note["message"])
	assert.Equal(t, "WARNING", rejection["level"])
	assert.Equal(t, ActionUserLogin, rejection["action"])
}

func TestAuthUseCase_LoginStorageFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.users.GetErr = errors.New("connection reset")

	_, _, err := f.uc.Login(context.Background(), "alice", "secret1")
	require.Error(t, err)

	events := f.capture.Events()
	require.Len(t, events, 1)
	assert.Equal(t, logger.LevelError, events[0].Level)
	assert.Contains(t, events[0].Exception, "connection reset")
}

func TestAuthUseCase_LoginRequiresBothFields(t *testing.T) {
	f := newAuthFixture(t)

	_, _, err := f.uc.Login(context.Background(), "  ", "x")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.capture.Events())
}

func TestAuthUseCase_Register(t *testing.T) {
	f := newAuthFixture(t)

	user, err := f.uc.Register(requestContext(nil), RegisterInput{
		Username:        "carol",
		Email:           "carol@example.com",
		Password:        "hunter22",
		PasswordConfirm: "hunter22",
		FullName:        " Carol ",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.Equal(t, "Carol", user.FullName)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter22")))

	events := f.capture.Channel(logger.ChannelAuth)
	require.Len(t, events, 1)
	assert.Equal(t, ActionUserRegister, events[0].Action)
	assert.Equal(t, &logger.Entity{Type: EntityUser, ID: user.ID}, events[0].Entity)
}

func TestAuthUseCase_RegisterValidation(t *testing.T) {
	valid := RegisterInput{Username: "dave", Email: "dave@example.com", Password: "secret", PasswordConfirm: "secret"}
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{name: "missing username", mutate: func(in *RegisterInput) { in.Username = " " }},
		{name: "mismatch", mutate: func(in *RegisterInput) { in.PasswordConfirm = "other1" }},
		{name: "short password", mutate: func(in *RegisterInput) { in.Password, in.PasswordConfirm = "abc", "abc" }},
		{name: "bad email", mutate: func(in *RegisterInput) { in.Email = "not-an-email" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			in := valid
			tt.mutate(&in)

			_, err := f.uc.Register(context.Background(), in)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, f.users.Users)
			assert.Empty(t, f.capture.Events())
		})
	}
}

func TestAuthUseCase_RegisterDuplicateIsLoggedAsFailure(t *testing.T) {
	f := newAuthFixture(t, domain.User{ID: 1, Username: "dave", Email: "dave@example.com"})

	_, err := f.uc.Register(context.Background(), RegisterInput{Username: "dave", Email: "d2@example.com", Password: "secret", PasswordConfirm: "secret"})
	require.ErrorIs(t, err, domain.ErrDuplicate)
	require.Len(t, f.capture.Events(), 1)
	assert.Equal(t, logger.LevelError, f.capture.Events()[0].Level)
}

func TestAuthUseCase_Authenticate(t *testing.T) {
	f := newAuthFixture(t,
		domain.User{ID: 1, Username: "alice", IsActive: true},
		domain.User{ID: 2, Username: "bob", IsActive: false},
	)
	ctx := context.Background()
	active, _ := f.sessions.Create(ctx, 1)
	inactive, _ := f.sessions.Create(ctx, 2)

	user, err := f.uc.Authenticate(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = f.uc.Authenticate(ctx, inactive.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotContains(t, f.sessions.Sessions, inactive.ID)

	_, err = f.uc.Authenticate(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAuthUseCase_Logout(t *testing.T) {
	f := newAuthFixture(t, domain.User{ID: 1, Username: "alice", Role: domain.RoleUser, IsActive: true})
	ctx := requestContext(&logger.Actor{ID: 1, Username: "alice", Role: "user"})
	s, _ := f.sessions.Create(ctx, 1)

	require.NoError(t, f.uc.Logout(ctx, s.ID))
	assert.Empty(t, f.sessions.Sessions)

	events := f.capture.Events()
	require.Len(t, events, 1)
	assert.Equal(t, ActionUserLogout, events[0].Action)
	assert.Equal(t, "alice", events[0].Actor.Username)
	assert.Equal(t, &logger.Entity{Type: EntityUser, ID: int64(1)}, events[0].Entity)
}

func TestAuthUseCase_UpdateProfile(t *testing.T) {
	f := newAuthFixture(t, domain.User{ID: 1, Username: "alice", Email: "a@example.com", IsActive: true})

	_, err := f.uc.UpdateProfile(context.Background(), 1, ProfileInput{Email: "a@example.com", Password: "short"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	user, err := f.uc.UpdateProfile(context.Background(), 1, ProfileInput{Email: "new@example.com", Phone: "555", Password: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", f.users.Users[1].Email)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("longenough")))

	events := f.capture.Events()
	require.Len(t, events, 1)
	assert.Equal(t, []string{"email", "phone", "password"}, events[0].Extra["fields"])
}
