package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/frahmantamala/evaluation-platform/internal/core/datamodel/identity"
	"github.com/frahmantamala/evaluation-platform/internal/core/events"
	"github.com/frahmantamala/evaluation-platform/internal/mail"
	"github.com/frahmantamala/evaluation-platform/internal/token"
	"github.com/frahmantamala/evaluation-platform/internal/user"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo       RepositoryAPI
	issuer     *token.Issuer
	bcryptCost int
	mailer     Mailer
	events     events.Publisher
	logger     *slog.Logger

	studentDomain string

	generatePassword func() (string, error)
}

func NewService(repo RepositoryAPI, issuer *token.Issuer, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:             repo,
		issuer:           issuer,
		bcryptCost:       bcryptCost,
		logger:           logger,
		studentDomain:    DefaultStudentMailDomain,
		generatePassword: GenerateRandomPassword,
	}
}

func (s *Service) WithMailer(m Mailer) *Service {
	s.mailer = m
	return s
}

func (s *Service) WithPublisher(p events.Publisher) *Service {
	s.events = p
	return s
}

// WithStudentMailDomain sets the domain RequestPassword accepts. An empty
// domain keeps the default.
func (s *Service) WithStudentMailDomain(domain string) *Service {
	if domain = strings.TrimSpace(domain); domain != "" {
		s.studentDomain = domain
	}
	return s
}

// Authenticate verifies credentials and issues a token pair. Unknown users,
// inactive accounts and wrong passwords all yield ErrAuthenticationFailed.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (*AuthResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByLogin(ctx, dto.Username)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			s.logger.InfoContext(ctx, "login rejected", "reason", "unknown user")
			return nil, internal.ErrAuthenticationFailed
		}
		return nil, internal.NewInternalError("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.InfoContext(ctx, "login rejected", "reason", "bad password", "user_id", u.ID)
		return nil, internal.ErrAuthenticationFailed
	}

	if !u.IsActive {
		s.logger.InfoContext(ctx, "login rejected", "reason", "inactive account", "user_id", u.ID)
		return nil, internal.ErrAuthenticationFailed
	}

	result, err := s.issue(u)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewUserEvent(events.EventTypeLoginSucceeded, u.ID, u.Username, u.ID))
	s.logger.InfoContext(ctx, "user logged in", "user_id", u.ID, "roles", result.User.Roles)
	return result, nil
}

// RefreshTokens exchanges a valid refresh token for a new pair. Roles and
// permissions are read again from the store, never copied from the token.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (*AuthResult, error) {
	dto := RefreshTokenDTO{RefreshToken: refreshToken}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	claims, err := s.issuer.VerifyType(dto.RefreshToken, token.TypeRefresh)
	if err != nil {
		s.logger.InfoContext(ctx, "refresh rejected", "error", err)
		return nil, internal.ErrTokenInvalid
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, internal.ErrTokenInvalid
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			s.logger.InfoContext(ctx, "refresh rejected", "reason", "user no longer exists", "user_id", userID)
			return nil, internal.ErrTokenInvalid
		}
		return nil, internal.NewInternalError("failed to load user", err)
	}

	if !u.IsActive {
		s.logger.InfoContext(ctx, "refresh rejected", "reason", "inactive account", "user_id", u.ID)
		return nil, internal.ErrAuthenticationFailed
	}

	result, err := s.issue(u)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewUserEvent(events.EventTypeTokenRefreshed, u.ID, u.Username, u.ID))
	return result, nil
}

// Logout is advisory. Nothing is revoked; issued tokens stay valid until
// they expire.
func (s *Service) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		s.logger.InfoContext(ctx, "logout without token")
		return
	}
	claims, err := s.issuer.Verify(refreshToken)
	if err != nil {
		s.logger.InfoContext(ctx, "logout with unusable token", "error", err)
		return
	}
	s.logger.InfoContext(ctx, "user logged out", "user_id", claims.Subject)
}

func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*user.View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, dto.Username, dto.Email); err != nil {
		return nil, err
	}

	hash, err := s.hash(dto.Password)
	if err != nil {
		return nil, err
	}

	u := &identity.User{
		Username:     dto.Username,
		Email:        dto.Email,
		PasswordHash: hash,
		FullName:     dto.FullName,
		IsActive:     true,
	}
	if dto.StudentCode != "" {
		code := dto.StudentCode
		u.StudentCode = &code
	}

	if err := s.repo.CreateWithRoles(ctx, u, []string{DefaultRole}); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		return nil, internal.NewInternalError("failed to create user", err)
	}

	created, err := s.repo.FindByID(ctx, u.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to reload user", err)
	}

	s.publish(ctx, events.NewUserEvent(events.EventTypeUserRegistered, created.ID, created.Username, 0))
	s.logger.InfoContext(ctx, "user registered", "user_id", created.ID)
	return user.FromDataModel(created), nil
}

// RequestPassword issues a fresh random password for the student owning
// email, creating the account on first use, and mails it. The student code
// and username derive from the mailbox name. Only an account whose stored
// email equals the request is reset; a username already held under another
// email is refused.
func (s *Service) RequestPassword(ctx context.Context, dto RequestPasswordDTO) error {
	if err := dto.Validate(s.studentDomain); err != nil {
		return err
	}

	local := dto.Email[:strings.Index(dto.Email, "@")]
	studentCode := strings.ToUpper(local)
	username := strings.ToLower(local)

	password, err := s.generatePassword()
	if err != nil {
		return internal.NewInternalError("failed to generate password", err)
	}
	hash, err := s.hash(password)
	if err != nil {
		return err
	}

	existing, err := s.repo.FindByEmail(ctx, dto.Email)
	switch {
	case err == nil:
		if err := s.repo.UpdatePassword(ctx, existing.ID, hash); err != nil {
			return internal.NewInternalError("failed to update password", err)
		}
		s.logger.InfoContext(ctx, "password reset for existing account", "user_id", existing.ID)
	case errors.Is(err, internal.ErrUserNotFound):
		taken, err := s.repo.ExistsByUsername(ctx, username)
		if err != nil {
			return internal.NewInternalError("failed to check username", err)
		}
		if taken {
			s.logger.WarnContext(ctx, "password request refused", "reason", "username held by another email", "username", username)
			return internal.ErrDuplicateUsername
		}
		u := &identity.User{
			Username:     username,
			Email:        dto.Email,
			PasswordHash: hash,
			FullName:     studentCode,
			IsActive:     true,
			StudentCode:  &studentCode,
		}
		if err := s.repo.CreateWithRoles(ctx, u, []string{DefaultRole}); err != nil {
			return internal.NewInternalError("failed to create account", err)
		}
		existing = u
		s.logger.InfoContext(ctx, "account created on password request", "user_id", u.ID)
	default:
		return internal.NewInternalError("failed to load user", err)
	}

	if s.mailer != nil {
		if err := s.mailer.Enqueue(mail.PasswordMessage(dto.Email, existing.Username, password)); err != nil {
			return internal.NewInternalError("failed to queue password mail", err)
		}
	} else {
		s.logger.WarnContext(ctx, "no mailer configured, password not delivered", "user_id", existing.ID)
	}

	s.publish(ctx, events.NewUserEvent(events.EventTypePasswordRequested, existing.ID, existing.Username, 0))
	return nil
}

func (s *Service) CurrentUser(ctx context.Context, userID int64) (*user.View, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, internal.NewInternalError("failed to load user", err)
	}
	return user.FromDataModel(u), nil
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return internal.ErrUserNotFound
		}
		return internal.NewInternalError("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.CurrentPassword)); err != nil {
		return internal.ErrAuthenticationFailed
	}

	hash, err := s.hash(dto.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return internal.NewInternalError("failed to update password", err)
	}

	s.logger.InfoContext(ctx, "password changed", "user_id", u.ID)
	return nil
}

func (s *Service) issue(u *identity.User) (*AuthResult, error) {
	view := user.FromDataModel(u)

	pair, err := s.issuer.Issue(token.Subject{
		UserID:      u.ID,
		Username:    u.Username,
		Roles:       view.Roles,
		Permissions: view.Permissions,
	})
	if err != nil {
		return nil, internal.NewInternalError("failed to issue tokens", err)
	}

	return &AuthResult{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		TokenType:        TokenTypeBearer,
		ExpiresIn:        int64(s.issuer.AccessTTL().Seconds()),
		RefreshExpiresIn: int64(s.issuer.RefreshTTL().Seconds()),
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
		User:             view,
	}, nil
}

func (s *Service) ensureUnique(ctx context.Context, username, email string) error {
	taken, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return internal.NewInternalError("failed to check username", err)
	}
	if taken {
		return internal.ErrDuplicateUsername
	}

	taken, err = s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return internal.NewInternalError("failed to check email", err)
	}
	if taken {
		return internal.ErrDuplicateEmail
	}
	return nil
}

func (s *Service) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", internal.NewInternalError("failed to hash password", fmt.Errorf("bcrypt: %w", err))
	}
	return string(h), nil
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", "event_type", e.EventType(), "error", err)
	}
}

var _ ServiceAPI = (*Service)(nil)
