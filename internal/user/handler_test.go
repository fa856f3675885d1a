package user_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/frahmantamala/evaluation-platform/internal/user"
	"github.com/frahmantamala/evaluation-platform/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

var _ = Describe("User Handler", func() {
	var (
		repo   *MockRepository
		router chi.Router
	)

	serve := func(method, path, body string) (*httptest.ResponseRecorder, envelope) {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var env envelope
		Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
		return rec, env
	}

	BeforeEach(func() {
		repo = NewMockRepository()
		repo.add(1, "admin", true, "ADMIN")
		repo.add(2, "student", true, "STUDENT")

		handler := user.NewHandler(user.NewService(repo, nil, logger.Discard()), logger.Discard())

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				p := &internal.Principal{UserID: 1, Username: "admin", Roles: []string{"ADMIN"}}
				next.ServeHTTP(w, r.WithContext(internal.ContextWithPrincipal(r.Context(), p)))
			})
		})
		router.Route("/auth/users", handler.Routes)
	})

	It("lists users as a page", func() {
		rec, env := serve(http.MethodGet, "/auth/users?page=0&size=1", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("Users retrieved"))

		var page user.Page
		Expect(json.Unmarshal(env.Data, &page)).To(Succeed())
		Expect(page.Items).To(HaveLen(1))
		Expect(page.TotalElements).To(BeEquivalentTo(2))
		Expect(page.TotalPages).To(Equal(2))
	})

	It("rejects a bad paging parameter", func() {
		rec, env := serve(http.MethodGet, "/auth/users?size=zero", "")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Code).To(Equal(string(internal.ErrCodeValidationFailed)))
	})

	It("lists active user ids, optionally by role", func() {
		rec, env := serve(http.MethodGet, "/auth/users/ids", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("Active user IDs retrieved"))
		Expect(string(env.Data)).To(Equal(`[1,2]`))

		_, env = serve(http.MethodGet, "/auth/users/ids?role=ADMIN", "")
		Expect(string(env.Data)).To(Equal(`[1]`))

		_, env = serve(http.MethodGet, "/auth/users/role/student", "")
		Expect(string(env.Data)).To(Equal(`[2]`))
	})

	It("lists role names", func() {
		rec, env := serve(http.MethodGet, "/auth/users/roles", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(string(env.Data)).To(Equal(`["ADMIN","CLASS_MONITOR","STUDENT"]`))
	})

	It("returns 404 for an unknown id", func() {
		rec, env := serve(http.MethodGet, "/auth/users/99", "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(env.Code).To(Equal(string(internal.ErrCodeUserNotFound)))
	})

	It("rejects a non-numeric id", func() {
		rec, _ := serve(http.MethodGet, "/auth/users/abc", "")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("deactivates and reactivates a user", func() {
		rec, env := serve(http.MethodPut, "/auth/users/2/deactivate", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("User deactivated"))
		Expect(repo.users[2].IsActive).To(BeFalse())

		rec, env = serve(http.MethodPut, "/auth/users/2/activate", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("User activated"))
		Expect(repo.users[2].IsActive).To(BeTrue())
	})

	It("replaces roles", func() {
		rec, env := serve(http.MethodPut, "/auth/users/2/roles", `{"roles":["STUDENT","CLASS_MONITOR"]}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("User roles updated"))
		Expect(string(env.Data)).To(ContainSubstring(`"roles":["CLASS_MONITOR","STUDENT"]`))
	})

	It("rejects an unreadable roles body", func() {
		rec, env := serve(http.MethodPut, "/auth/users/2/roles", `{`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Code).To(Equal(string(internal.ErrCodeInvalidBody)))
	})
})
