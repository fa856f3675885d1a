package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/frahmantamala/evaluation-platform/internal/core/datamodel/identity"
	"github.com/frahmantamala/evaluation-platform/internal/core/events"
	"github.com/frahmantamala/evaluation-platform/internal/mail"
	"github.com/frahmantamala/evaluation-platform/internal/token"
	"github.com/frahmantamala/evaluation-platform/pkg/logger"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

const testSecret = "test-secret-that-is-at-least-32-bytes-long"

// memoryRepository is an in-memory credential store for service tests.
type memoryRepository struct {
	mu     sync.Mutex
	users  map[int64]*identity.User
	roles  map[string]identity.Role
	nextID int64
	err    error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		users: map[int64]*identity.User{},
		roles: map[string]identity.Role{
			"STUDENT": {Name: "STUDENT", Permissions: []identity.Permission{
				{Name: "STUDENT:READ"}, {Name: "EVALUATION:CREATE"},
			}},
			"ADMIN": {Name: "ADMIN", Permissions: []identity.Permission{
				{Name: "USER:MANAGE"}, {Name: "SYSTEM:MANAGE"}, {Name: "STUDENT:READ"},
			}},
		},
	}
}

func (m *memoryRepository) addUser(username, email, password string, active bool, roles ...string) *identity.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	u := &identity.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.ToUpper(username),
		IsActive:     active,
	}
	gomega.Expect(m.CreateWithRoles(context.Background(), u, roles)).To(gomega.Succeed())
	return u
}

func (m *memoryRepository) FindByLogin(_ context.Context, login string) (*identity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if strings.Contains(login, "@") && u.Email == login {
			return u, nil
		}
		if !strings.Contains(login, "@") && strings.EqualFold(u.Username, login) {
			return u, nil
		}
	}
	return nil, internal.ErrUserNotFound
}

func (m *memoryRepository) FindByID(_ context.Context, id int64) (*identity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (m *memoryRepository) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, internal.ErrUserNotFound
}

func (m *memoryRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepository) CreateWithRoles(_ context.Context, u *identity.User, roleNames []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	roles := make([]identity.Role, 0, len(roleNames))
	for _, name := range roleNames {
		r, ok := m.roles[name]
		if !ok {
			return internal.ErrRoleNotFound
		}
		roles = append(roles, r)
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	u.Roles = roles
	m.users[u.ID] = u
	return nil
}

func (m *memoryRepository) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return internal.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (r *recordingMailer) Enqueue(msg mail.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, e.EventType())
	return nil
}

func (r *recordingPublisher) published() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.types...)
}

func newTestIssuer() *token.Issuer {
	issuer, err := token.NewIssuer(testSecret, 15*time.Minute, 24*time.Hour)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return issuer
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		ctx       context.Context
		repo      *memoryRepository
		issuer    *token.Issuer
		mailer    *recordingMailer
		publisher *recordingPublisher
		service   *Service
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		repo = newMemoryRepository()
		issuer = newTestIssuer()
		mailer = &recordingMailer{}
		publisher = &recordingPublisher{}
		service = NewService(repo, issuer, bcrypt.MinCost, logger.Discard()).
			WithMailer(mailer).
			WithPublisher(publisher)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.BeforeEach(func() {
			repo.addUser("student", "student@ptit.edu.vn", "Student123!", true, "STUDENT")
			repo.addUser("sleeper", "sleeper@ptit.edu.vn", "Sleeper123!", false, "STUDENT")
		})

		ginkgo.It("issues a token pair for a valid username", func() {
			// Given
			dto := LoginDTO{Username: "student", Password: "Student123!"}

			// When
			result, err := service.Authenticate(ctx, dto)

			// Then
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(result.AccessToken).NotTo(gomega.BeEmpty())
			gomega.Expect(result.RefreshToken).NotTo(gomega.Equal(result.AccessToken))
			gomega.Expect(result.TokenType).To(gomega.Equal("Bearer"))
			gomega.Expect(result.ExpiresIn).To(gomega.Equal(int64(900)))
			gomega.Expect(result.RefreshExpiresIn).To(gomega.Equal(int64(86400)))
			gomega.Expect(result.User.Roles).To(gomega.Equal([]string{"STUDENT"}))
		})

		ginkgo.It("accepts the email and ignores username case", func() {
			_, err := service.Authenticate(ctx, LoginDTO{Username: "student@ptit.edu.vn", Password: "Student123!"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.Authenticate(ctx, LoginDTO{Username: "  STUDENT ", Password: "Student123!"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("embeds roles and effective permissions in the access token", func() {
			result, err := service.Authenticate(ctx, LoginDTO{Username: "student", Password: "Student123!"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			claims, err := issuer.VerifyType(result.AccessToken, token.TypeAccess)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(claims.Username).To(gomega.Equal("student"))
			gomega.Expect(claims.Roles).To(gomega.Equal([]string{"STUDENT"}))
			gomega.Expect(claims.Permissions).To(gomega.Equal([]string{"EVALUATION:CREATE", "STUDENT:READ"}))

			refresh, err := issuer.VerifyType(result.RefreshToken, token.TypeRefresh)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(refresh.Subject).To(gomega.Equal(claims.Subject))
		})

		ginkgo.It("publishes a login event", func() {
			_, err := service.Authenticate(ctx, LoginDTO{Username: "student", Password: "Student123!"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(publisher.published()).To(gomega.ContainElement(events.EventTypeLoginSucceeded))
		})

		ginkgo.DescribeTable("collapses every credential failure into one error",
			func(username, password string) {
				result, err := service.Authenticate(ctx, LoginDTO{Username: username, Password: password})
				gomega.Expect(result).To(gomega.BeNil())
				gomega.Expect(err).To(gomega.MatchError(internal.ErrAuthenticationFailed))
			},
			ginkgo.Entry("wrong password", "student", "nope"),
			ginkgo.Entry("unknown user", "ghost", "Student123!"),
			ginkgo.Entry("inactive account", "sleeper", "Sleeper123!"),
		)

		ginkgo.It("rejects an empty username as a validation error", func() {
			_, err := service.Authenticate(ctx, LoginDTO{Password: "x"})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
		})

		ginkgo.It("reports store failures as internal errors", func() {
			// Given
			repo.err = errors.New("connection reset")

			// When
			_, err := service.Authenticate(ctx, LoginDTO{Username: "student", Password: "Student123!"})

			// Then
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeInternal))
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		var (
			student *identity.User
			pair    *AuthResult
		)

		ginkgo.BeforeEach(func() {
			student = repo.addUser("student", "student@ptit.edu.vn", "Student123!", true, "STUDENT")
			var err error
			pair, err = service.Authenticate(ctx, LoginDTO{Username: "student", Password: "Student123!"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("issues a new pair with roles read again from the store", func() {
			student.Roles = append(student.Roles, repo.roles["ADMIN"])

			result, err := service.RefreshTokens(ctx, pair.RefreshToken)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			claims, err := issuer.VerifyType(result.AccessToken, token.TypeAccess)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(claims.Roles).To(gomega.ConsistOf("STUDENT", "ADMIN"))
			gomega.Expect(claims.Permissions).To(gomega.ContainElement("SYSTEM:MANAGE"))
			gomega.Expect(claims.ID).NotTo(gomega.BeEmpty())
			gomega.Expect(publisher.published()).To(gomega.ContainElement(events.EventTypeTokenRefreshed))
		})

		ginkgo.It("refuses an access token", func() {
			_, err := service.RefreshTokens(ctx, pair.AccessToken)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrTokenInvalid))
		})

		ginkgo.It("refuses garbage", func() {
			_, err := service.RefreshTokens(ctx, "not.a.jwt")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrTokenInvalid))
		})

		ginkgo.It("refuses a token signed with another secret", func() {
			other, err := token.NewIssuer("another-secret-that-is-32-bytes-or-more", time.Minute, time.Hour)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			foreign, err := other.Issue(token.Subject{UserID: student.ID, Username: "student"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.RefreshTokens(ctx, foreign.RefreshToken)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrTokenInvalid))
		})

		ginkgo.It("refuses a user that no longer exists", func() {
			delete(repo.users, student.ID)
			_, err := service.RefreshTokens(ctx, pair.RefreshToken)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrTokenInvalid))
		})

		ginkgo.It("refuses a deactivated user", func() {
			student.IsActive = false
			_, err := service.RefreshTokens(ctx, pair.RefreshToken)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAuthenticationFailed))
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("accepts missing and unusable tokens", func() {
			gomega.Expect(func() {
				service.Logout(ctx, "")
				service.Logout(ctx, "garbage")
			}).NotTo(gomega.Panic())
		})
	})

	ginkgo.Describe("Register", func() {
		dto := func() RegisterDTO {
			return RegisterDTO{
				Username:    "n21dccn001",
				Email:       "N21DCCN001@student.ptithcm.edu.vn",
				Password:    "secret1",
				FullName:    "Nguyen Van A",
				StudentCode: "n21dccn001",
			}
		}

		ginkgo.It("creates an active STUDENT account", func() {
			view, err := service.Register(ctx, dto())

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(view.ID).To(gomega.BeNumerically(">", 0))
			gomega.Expect(view.Email).To(gomega.Equal("n21dccn001@student.ptithcm.edu.vn"))
			gomega.Expect(*view.StudentCode).To(gomega.Equal("N21DCCN001"))
			gomega.Expect(view.Roles).To(gomega.Equal([]string{DefaultRole}))
			gomega.Expect(view.IsActive).To(gomega.BeTrue())

			stored := repo.users[view.ID]
			gomega.Expect(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1"))).To(gomega.Succeed())
		})

		ginkgo.It("rejects a taken username", func() {
			// Given
			repo.addUser("N21DCCN001", "other@ptit.edu.vn", "x", true, "STUDENT")

			// When
			_, err := service.Register(ctx, dto())

			// Then
			gomega.Expect(err).To(gomega.MatchError(internal.ErrDuplicateUsername))
		})

		ginkgo.It("rejects a taken email", func() {
			repo.addUser("someone", "n21dccn001@student.ptithcm.edu.vn", "x", true, "STUDENT")
			_, err := service.Register(ctx, dto())
			gomega.Expect(err).To(gomega.MatchError(internal.ErrDuplicateEmail))
		})

		ginkgo.It("fails when the default role is missing", func() {
			delete(repo.roles, DefaultRole)
			_, err := service.Register(ctx, dto())
			gomega.Expect(err).To(gomega.MatchError(internal.ErrRoleNotFound))
		})

		ginkgo.It("reports every invalid field", func() {
			_, err := service.Register(ctx, RegisterDTO{Username: "ab", Email: "nope", Password: "1"})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.FieldErrors()).To(gomega.HaveLen(4))
		})
	})

	ginkgo.Describe("RequestPassword", func() {
		ginkgo.BeforeEach(func() {
			service.generatePassword = func() (string, error) { return "Fresh1234", nil }
		})

		ginkgo.It("creates the account on first request and mails the password", func() {
			err := service.RequestPassword(ctx, RequestPasswordDTO{Email: "N21DCCN002@student.ptithcm.edu.vn"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			u, err := repo.FindByLogin(ctx, "n21dccn002")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(u.Email).To(gomega.Equal("n21dccn002@student.ptithcm.edu.vn"))
			gomega.Expect(*u.StudentCode).To(gomega.Equal("N21DCCN002"))
			gomega.Expect(u.IsActive).To(gomega.BeTrue())
			gomega.Expect(u.Roles).To(gomega.HaveLen(1))

			gomega.Expect(mailer.sent).To(gomega.HaveLen(1))
			gomega.Expect(mailer.sent[0].To).To(gomega.Equal("n21dccn002@student.ptithcm.edu.vn"))
			gomega.Expect(mailer.sent[0].Body).To(gomega.ContainSubstring("Fresh1234"))
			gomega.Expect(publisher.published()).To(gomega.ContainElement(events.EventTypePasswordRequested))

			_, err = service.Authenticate(ctx, LoginDTO{Username: "n21dccn002", Password: "Fresh1234"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("resets the password of an existing account", func() {
			existing := repo.addUser("n21dccn003", "n21dccn003@student.ptithcm.edu.vn", "OldPass1", true, "STUDENT")

			err := service.RequestPassword(ctx, RequestPasswordDTO{Email: "n21dccn003@student.ptithcm.edu.vn"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(repo.users).To(gomega.HaveLen(1))

			_, err = service.Authenticate(ctx, LoginDTO{Username: existing.Username, Password: "OldPass1"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAuthenticationFailed))
			_, err = service.Authenticate(ctx, LoginDTO{Username: existing.Username, Password: "Fresh1234"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("fails when the mail queue refuses the message", func() {
			mailer.err = mail.ErrQueueFull
			err := service.RequestPassword(ctx, RequestPasswordDTO{Email: "n21dccn004@student.ptithcm.edu.vn"})
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(errors.Is(err, mail.ErrQueueFull)).To(gomega.BeTrue())
		})

		ginkgo.It("rejects an invalid email", func() {
			err := service.RequestPassword(ctx, RequestPasswordDTO{Email: "not-an-email"})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
			gomega.Expect(mailer.sent).To(gomega.BeEmpty())
		})

		ginkgo.Context("with existing staff accounts", func() {
			var admin *identity.User

			ginkgo.BeforeEach(func() {
				admin = repo.addUser("admin", "admin@ptit.edu.vn", "Admin123!", true, "ADMIN")
			})

			expectAdminUntouched := func() {
				gomega.Expect(mailer.sent).To(gomega.BeEmpty())
				gomega.Expect(repo.users).To(gomega.HaveLen(1))
				_, err := service.Authenticate(ctx, LoginDTO{Username: admin.Username, Password: "Admin123!"})
				gomega.Expect(err).NotTo(gomega.HaveOccurred())
			}

			ginkgo.It("refuses addresses outside the student domain", func() {
				// Given
				dto := RequestPasswordDTO{Email: "admin@attacker.example"}

				// When
				err := service.RequestPassword(ctx, dto)

				// Then
				appErr, ok := internal.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.FieldErrors()).To(gomega.HaveLen(1))
				gomega.Expect(appErr.FieldErrors()[0].Code).To(gomega.Equal(string(internal.ErrCodeEmailDomain)))
				expectAdminUntouched()
			})

			ginkgo.It("never resets an account matched only by username", func() {
				// Given
				dto := RequestPasswordDTO{Email: "admin@student.ptithcm.edu.vn"}

				// When
				err := service.RequestPassword(ctx, dto)

				// Then
				gomega.Expect(err).To(gomega.MatchError(internal.ErrDuplicateUsername))
				expectAdminUntouched()
			})

			ginkgo.It("refuses mailbox names with other characters", func() {
				err := service.RequestPassword(ctx, RequestPasswordDTO{Email: "ad.min@student.ptithcm.edu.vn"})
				appErr, ok := internal.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.FieldErrors()[0].Code).To(gomega.Equal("MAILBOX"))
				expectAdminUntouched()
			})
		})

		ginkgo.It("honours a configured student domain", func() {
			service.WithStudentMailDomain("stu.example.edu")

			err := service.RequestPassword(ctx, RequestPasswordDTO{Email: "n21dccn009@student.ptithcm.edu.vn"})
			gomega.Expect(err).To(gomega.HaveOccurred())

			gomega.Expect(service.RequestPassword(ctx, RequestPasswordDTO{Email: "n21dccn009@stu.example.edu"})).To(gomega.Succeed())
			gomega.Expect(mailer.sent).To(gomega.HaveLen(1))
			gomega.Expect(mailer.sent[0].Body).To(gomega.ContainSubstring("Username: n21dccn009"))
		})
	})

	ginkgo.Describe("CurrentUser", func() {
		ginkgo.It("returns roles and effective permissions", func() {
			u := repo.addUser("admin", "admin@ptit.edu.vn", "Admin123!", true, "ADMIN", "STUDENT")

			view, err := service.CurrentUser(ctx, u.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(view.Roles).To(gomega.Equal([]string{"ADMIN", "STUDENT"}))
			gomega.Expect(view.Permissions).To(gomega.Equal([]string{"EVALUATION:CREATE", "STUDENT:READ", "SYSTEM:MANAGE", "USER:MANAGE"}))
		})

		ginkgo.It("returns not found for an unknown id", func() {
			_, err := service.CurrentUser(ctx, 404)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrUserNotFound))
		})
	})

	ginkgo.Describe("ChangePassword", func() {
		var u *identity.User

		ginkgo.BeforeEach(func() {
			u = repo.addUser("student", "student@ptit.edu.vn", "Student123!", true, "STUDENT")
		})

		ginkgo.It("replaces the password", func() {
			err := service.ChangePassword(ctx, u.ID, ChangePasswordDTO{
				CurrentPassword: "Student123!", NewPassword: "Changed123", ConfirmPassword: "Changed123",
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.Authenticate(ctx, LoginDTO{Username: "student", Password: "Changed123"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("requires the confirmation to match", func() {
			err := service.ChangePassword(ctx, u.ID, ChangePasswordDTO{
				CurrentPassword: "Student123!", NewPassword: "Changed123", ConfirmPassword: "Different1",
			})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.FieldErrors()[0].Code).To(gomega.Equal(string(internal.ErrCodePasswordMismatch)))
		})

		ginkgo.It("requires the current password", func() {
			err := service.ChangePassword(ctx, u.ID, ChangePasswordDTO{
				CurrentPassword: "wrong", NewPassword: "Changed123", ConfirmPassword: "Changed123",
			})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAuthenticationFailed))
		})
	})

	ginkgo.Describe("GenerateRandomPassword", func() {
		ginkgo.It("mixes cases and digits within the length bounds", func() {
			for range 50 {
				pw, err := GenerateRandomPassword()
				gomega.Expect(err).NotTo(gomega.HaveOccurred())
				gomega.Expect(len(pw)).To(gomega.BeNumerically(">=", 8))
				gomega.Expect(len(pw)).To(gomega.BeNumerically("<=", 12))
				gomega.Expect(pw).To(gomega.MatchRegexp(`[A-Z]`))
				gomega.Expect(pw).To(gomega.MatchRegexp(`[a-z]`))
				gomega.Expect(pw).To(gomega.MatchRegexp(`[0-9]`))
			}
		})
	})
})
