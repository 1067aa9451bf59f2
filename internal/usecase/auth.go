package usecase

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/V4T54L/leatherstore/internal/domain"
	"github.com/V4T54L/leatherstore/internal/pkg/logger"
)

const (
	minRegisterPasswordLen = 6
	minProfilePasswordLen  = 8
)

var emailPattern = regexp.MustCompile(`^[\w.+-]+@[\w.-]+\.\w+$`)

// AuthUseCase handles registration, login, logout and profile changes.
type AuthUseCase struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	actions  *logger.ActionLogger
	// authLog receives pre-outcome notes about login attempts.
	authLog  *slog.Logger
	hashCost int
}

// NewAuthUseCase creates a new AuthUseCase. authLog should write to the auth channel.
func NewAuthUseCase(users domain.UserRepository, sessions domain.SessionRepository, actions *logger.ActionLogger, authLog *slog.Logger) *AuthUseCase {
	return &AuthUseCase{
		users:    users,
		sessions: sessions,
		actions:  actions,
		authLog:  authLog,
		hashCost: bcrypt.DefaultCost,
	}
}

// HashPassword hashes password with the configured bcrypt cost.
func (uc *AuthUseCase) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login verifies the credentials and opens a session. Unknown users and wrong
// passwords are indistinguishable to the caller. A deactivated account is only
// reported once the password has been verified.
func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (*domain.User, *domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, nil, invalid("username and password are required")
	}

	action := logger.Action{
		Name:    ActionUserLogin,
		Channel: logger.ChannelAuth,
		Extra:   map[string]any{"username": username},
	}

	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.actions.Reject(ctx, action, ReasonInvalidCredentials)
			return nil, nil, ErrInvalidCredentials
		}
		uc.actions.Fail(ctx, action, err)
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		uc.actions.Reject(ctx, action, ReasonInvalidCredentials)
		return nil, nil, ErrInvalidCredentials
	}

	actor := ActorOf(user)
	action.Actor = &actor
	action.EntityType = EntityUser
	action.EntityID = user.ID

	if !user.IsActive {
		uc.authLog.InfoContext(ctx, "login attempt for deactivated account", "username", user.Username, "user_id", user.ID)
		uc.actions.Reject(ctx, action, ReasonAccountDeactivated)
		return nil, nil, ErrAccountDeactivated
	}

	session, err := uc.sessions.Create(ctx, user.ID)
	if err != nil {
		uc.actions.Fail(ctx, action, err)
		return nil, nil, err
	}

	action.Extra["role"] = string(user.Role)
	uc.actions.Succeed(ctx, action)
	logger.SetActor(ctx, actor)
	return user, session, nil
}

// Logout ends the session.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID string) error {
	return uc.actions.Perform(ctx, logger.Action{Name: ActionUserLogout, Channel: logger.ChannelAuth},
		func(ctx context.Context, o *logger.Outcome) error {
			if actor := logger.ActorFromContext(ctx); actor != nil {
				o.SetEntity(EntityUser, actor.ID)
			}
			return uc.sessions.Delete(ctx, sessionID)
		})
}

// Authenticate resolves a session id to an active user. Sessions of deactivated
// users are dropped.
func (uc *AuthUseCase) Authenticate(ctx context.Context, sessionID string) (*domain.User, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	user, err := uc.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrNotFound
	}
	return user, nil
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	FullName        string
	Phone           string
}

func (in *RegisterInput) validate() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)

	if in.Username == "" || in.Email == "" || in.Password == "" || in.PasswordConfirm == "" {
		return invalid("please fill in all required fields")
	}
	if in.Password != in.PasswordConfirm {
		return invalid("passwords do not match")
	}
	if len(in.Password) < minRegisterPasswordLen {
		return invalid("password must be at least %d characters", minRegisterPasswordLen)
	}
	if !emailPattern.MatchString(in.Email) {
		return invalid("invalid email address")
	}
	return nil
}

// Register creates a customer account.
func (uc *AuthUseCase) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	user := &domain.User{
		Username: in.Username,
		Email:    in.Email,
		FullName: in.FullName,
		Phone:    in.Phone,
		Role:     domain.RoleUser,
		IsActive: true,
	}
	action := logger.Action{
		Name:    ActionUserRegister,
		Channel: logger.ChannelAuth,
		Extra:   map[string]any{"username": in.Username, "email": in.Email},
	}
	err := uc.actions.Perform(ctx, action, func(ctx context.Context, o *logger.Outcome) error {
		hash, err := uc.HashPassword(in.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		if err := uc.users.Create(ctx, user); err != nil {
			return err
		}
		o.SetEntity(EntityUser, user.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ProfileInput is the profile form. An empty Password keeps the current one.
type ProfileInput struct {
	FullName string
	Email    string
	Phone    string
	Address  string
	Password string
}

// UpdateProfile changes the user's own profile.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, userID int64, in ProfileInput) (*domain.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if !emailPattern.MatchString(in.Email) {
		return nil, invalid("invalid email address")
	}
	if in.Password != "" && len(in.Password) < minProfilePasswordLen {
		return nil, invalid("password must be at least %d characters", minProfilePasswordLen)
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = uc.actions.Perform(ctx, logger.Action{Name: ActionProfileUpdate, EntityType: EntityUser, EntityID: userID},
		func(ctx context.Context, o *logger.Outcome) error {
			var changed []string
			if user.Email != in.Email {
				changed = append(changed, "email")
			}
			if user.FullName != in.FullName {
				changed = append(changed, "full_name")
			}
			if user.Phone != in.Phone {
				changed = append(changed, "phone")
			}
			if user.Address != in.Address {
				changed = append(changed, "address")
			}
			user.Email, user.FullName, user.Phone, user.Address = in.Email, in.FullName, in.Phone, in.Address

			if in.Password != "" {
				hash, err := uc.HashPassword(in.Password)
				if err != nil {
					return err
				}
				user.PasswordHash = hash
				changed = append(changed, "password")
			}
			o.Set("fields", changed)
			return uc.users.Update(ctx, user)
		})
	if err != nil {
		return nil, err
	}
	return user, nil
}
