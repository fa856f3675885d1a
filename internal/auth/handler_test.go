package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/frahmantamala/evaluation-platform/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(rec *httptest.ResponseRecorder) envelope {
	var env envelope
	gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(gomega.Succeed())
	return env
}

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		repo      *memoryRepository
		handler   *Handler
		router    chi.Router
		principal *internal.Principal
	)

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	ginkgo.BeforeEach(func() {
		repo = newMemoryRepository()
		repo.addUser("student", "student@ptit.edu.vn", "Student123!", true, "STUDENT")

		svc := NewService(repo, newTestIssuer(), bcrypt.MinCost, logger.Discard())
		handler = NewHandler(svc, logger.Discard())
		principal = nil

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if principal != nil {
					r = r.WithContext(internal.ContextWithPrincipal(r.Context(), principal))
				}
				next.ServeHTTP(w, r)
			})
		})
	})

	ginkgo.JustBeforeEach(func() {
		router.Route("/auth", handler.Routes)
	})

	ginkgo.Describe("POST /auth/login", func() {
		ginkgo.It("wraps the token pair in the success envelope", func() {
			rec := serve(http.MethodPost, "/auth/login", `{"username":"student","password":"Student123!"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			env := decodeEnvelope(rec)
			gomega.Expect(env.Success).To(gomega.BeTrue())
			gomega.Expect(env.Message).To(gomega.Equal("Login successful"))

			var result AuthResult
			gomega.Expect(json.Unmarshal(env.Data, &result)).To(gomega.Succeed())
			gomega.Expect(result.AccessToken).NotTo(gomega.BeEmpty())
			gomega.Expect(result.TokenType).To(gomega.Equal("Bearer"))
			gomega.Expect(result.User.Username).To(gomega.Equal("student"))
		})

		ginkgo.It("answers bad credentials with 401 and no hint", func() {
			rec := serve(http.MethodPost, "/auth/login", `{"username":"student","password":"wrong"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			env := decodeEnvelope(rec)
			gomega.Expect(env.Success).To(gomega.BeFalse())
			gomega.Expect(env.Code).To(gomega.Equal(string(internal.ErrCodeAuthenticationFailed)))
			gomega.Expect(env.Message).To(gomega.Equal("Invalid username or password"))
		})

		ginkgo.It("rejects a malformed body", func() {
			rec := serve(http.MethodPost, "/auth/login", `{`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(decodeEnvelope(rec).Code).To(gomega.Equal(string(internal.ErrCodeInvalidBody)))
		})

		ginkgo.Context("with a rate limit", func() {
			ginkgo.BeforeEach(func() {
				handler.WithRateLimit(2, time.Minute)
			})

			ginkgo.It("throttles repeated attempts from one address", func() {
				for range 2 {
					rec := serve(http.MethodPost, "/auth/login", `{"username":"student","password":"wrong"}`)
					gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
				}

				rec := serve(http.MethodPost, "/auth/login", `{"username":"student","password":"Student123!"}`)
				gomega.Expect(rec.Code).To(gomega.Equal(http.StatusTooManyRequests))
				gomega.Expect(decodeEnvelope(rec).Code).To(gomega.Equal(string(internal.ErrCodeTooManyRequests)))
			})
		})
	})

	ginkgo.Describe("POST /auth/refresh", func() {
		ginkgo.It("rejects an invalid refresh token", func() {
			rec := serve(http.MethodPost, "/auth/refresh", `{"refresh_token":"bogus"}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(decodeEnvelope(rec).Code).To(gomega.Equal(string(internal.ErrCodeTokenInvalid)))
		})

		ginkgo.It("exchanges a refresh token obtained from login", func() {
			login := serve(http.MethodPost, "/auth/login", `{"username":"student","password":"Student123!"}`)
			var result AuthResult
			gomega.Expect(json.Unmarshal(decodeEnvelope(login).Data, &result)).To(gomega.Succeed())

			rec := serve(http.MethodPost, "/auth/refresh", `{"refresh_token":"`+result.RefreshToken+`"}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(decodeEnvelope(rec).Message).To(gomega.Equal("Token refreshed successfully"))
		})
	})

	ginkgo.Describe("POST /auth/logout", func() {
		ginkgo.It("succeeds without a body", func() {
			rec := serve(http.MethodPost, "/auth/logout", "")
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(decodeEnvelope(rec).Message).To(gomega.Equal("Logout successful"))
		})
	})

	ginkgo.Describe("POST /auth/register", func() {
		ginkgo.It("returns 201 with the new account", func() {
			rec := serve(http.MethodPost, "/auth/register",
				`{"username":"newbie","email":"newbie@ptit.edu.vn","password":"secret1","full_name":"New Bie"}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))
		})

		ginkgo.It("returns 409 for a duplicate username", func() {
			rec := serve(http.MethodPost, "/auth/register",
				`{"username":"student","email":"other@ptit.edu.vn","password":"secret1","full_name":"Dup"}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusConflict))
			gomega.Expect(decodeEnvelope(rec).Code).To(gomega.Equal(string(internal.ErrCodeDuplicateUsername)))
		})

		ginkgo.It("lists field errors", func() {
			rec := serve(http.MethodPost, "/auth/register", `{"username":"x"}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))

			var body struct {
				Errors []internal.ValidationError `json:"errors"`
			}
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
			gomega.Expect(body.Errors).NotTo(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("GET /auth/me", func() {
		ginkgo.It("requires a principal", func() {
			rec := serve(http.MethodGet, "/auth/me", "")
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("returns the caller", func() {
			u, err := repo.FindByLogin(context.Background(), "student")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			principal = &internal.Principal{UserID: u.ID, Username: u.Username}

			rec := serve(http.MethodGet, "/auth/me", "")
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			env := decodeEnvelope(rec)
			gomega.Expect(env.Message).To(gomega.Equal("User information retrieved"))
			gomega.Expect(string(env.Data)).To(gomega.ContainSubstring(`"username":"student"`))
		})
	})

	ginkgo.Describe("POST /auth/change-password", func() {
		ginkgo.It("requires a principal", func() {
			rec := serve(http.MethodPost, "/auth/change-password", `{}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("changes the caller's password", func() {
			u, _ := repo.FindByLogin(context.Background(), "student")
			principal = &internal.Principal{UserID: u.ID, Username: u.Username}

			rec := serve(http.MethodPost, "/auth/change-password",
				`{"current_password":"Student123!","new_password":"Changed123","confirm_password":"Changed123"}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})
})
