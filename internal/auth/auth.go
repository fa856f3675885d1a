package auth

import (
	"context"
	"time"

	"github.com/frahmantamala/evaluation-platform/internal/core/datamodel/identity"
	"github.com/frahmantamala/evaluation-platform/internal/mail"
	"github.com/frahmantamala/evaluation-platform/internal/rbac"
	"github.com/frahmantamala/evaluation-platform/internal/user"
)

// DefaultRole is granted to self-registered and password-requested accounts.
const DefaultRole = rbac.RoleStudent

const TokenTypeBearer = "Bearer"

// RepositoryAPI is the credential store. Every returned user carries its
// roles and their permissions, loaded as one snapshot.
type RepositoryAPI interface {
	FindByLogin(ctx context.Context, login string) (*identity.User, error)
	FindByID(ctx context.Context, id int64) (*identity.User, error)
	FindByEmail(ctx context.Context, email string) (*identity.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CreateWithRoles(ctx context.Context, u *identity.User, roleNames []string) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (*AuthResult, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string)
	Register(ctx context.Context, dto RegisterDTO) (*user.View, error)
	RequestPassword(ctx context.Context, dto RequestPasswordDTO) error
	CurrentUser(ctx context.Context, userID int64) (*user.View, error)
	ChangePassword(ctx context.Context, userID int64, dto ChangePasswordDTO) error
}

// Mailer queues outgoing mail.
type Mailer interface {
	Enqueue(msg mail.Message) error
}

type AuthResult struct {
	AccessToken      string     `json:"access_token"`
	RefreshToken     string     `json:"refresh_token"`
	TokenType        string     `json:"token_type"`
	ExpiresIn        int64      `json:"expires_in"`
	RefreshExpiresIn int64      `json:"refresh_expires_in"`
	AccessExpiresAt  time.Time  `json:"access_expires_at"`
	RefreshExpiresAt time.Time  `json:"refresh_expires_at"`
	User             *user.View `json:"user"`
}
