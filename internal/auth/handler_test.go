package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		handler  *Handler
		tokenGen *JWTTokenGenerator
	)

	ginkgo.BeforeEach(func() {
		tokenGen = NewJWTTokenGenerator("handler-access", "handler-refresh", time.Minute, time.Hour)
		service := NewService(newMockAccountRepository(), tokenGen, bcrypt.MinCost, nil)
		cookies := NewCookieStore("0123456789abcdef0123456789abcdef", false, time.Hour)
		handler = NewHandler(service, cookies)
	})

	post := func(h http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
		payload, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/api/auth", bytes.NewReader(payload))
		w := httptest.NewRecorder()
		h(w, req)
		return w
	}

	ginkgo.It("signs in and sets the session cookie", func() {
		w := post(handler.SignIn, LoginDTO{Email: "user@example.com", Password: "correct_password"})

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		var tokens AuthTokens
		gomega.Expect(json.NewDecoder(w.Body).Decode(&tokens)).To(gomega.Succeed())
		gomega.Expect(tokens.AccessToken).NotTo(gomega.BeEmpty())

		cookies := w.Result().Cookies()
		gomega.Expect(cookies).NotTo(gomega.BeEmpty())

		req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		gomega.Expect(handler.Cookies.Token(req)).To(gomega.Equal(tokens.AccessToken))
	})

	ginkgo.It("rejects bad credentials with 401 and a message", func() {
		w := post(handler.SignIn, LoginDTO{Email: "user@example.com", Password: "nope"})

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
		var body map[string]interface{}
		gomega.Expect(json.NewDecoder(w.Body).Decode(&body)).To(gomega.Succeed())
		gomega.Expect(body["message"]).To(gomega.Equal("Invalid email or password"))
		gomega.Expect(body["code"]).To(gomega.Equal("INVALID_CREDENTIALS"))
	})

	ginkgo.It("signs up a new employee", func() {
		w := post(handler.SignUp, SignupDTO{Name: "Newbie", Email: "newbie@example.com", Password: "secret1"})

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusCreated))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring(`"role":"EMPLOYEE"`))
		gomega.Expect(w.Body.String()).NotTo(gomega.ContainSubstring("secret1"))
	})

	ginkgo.It("reports a duplicate signup as 400", func() {
		w := post(handler.SignUp, SignupDTO{Name: "Dup", Email: "user@example.com", Password: "secret1"})

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusBadRequest))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("User already exists"))
	})

	ginkgo.Describe("RequireSession", func() {
		var reached bool
		var next http.Handler

		ginkgo.BeforeEach(func() {
			reached = false
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				s, ok := SessionFromContext(r.Context())
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(s.UserID).To(gomega.Equal(int64(2)))
				reached = true
				w.WriteHeader(http.StatusNoContent)
			})
		})

		ginkgo.It("accepts a bearer token", func() {
			token, err := tokenGen.GenerateAccessToken(&Session{UserID: 2, Role: RoleAdmin})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			handler.RequireSession(next).ServeHTTP(w, req)

			gomega.Expect(reached).To(gomega.BeTrue())
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusNoContent))
		})

		ginkgo.It("returns 401 without a token", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
			w := httptest.NewRecorder()
			handler.RequireSession(next).ServeHTTP(w, req)

			gomega.Expect(reached).To(gomega.BeFalse())
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("Unauthorized"))
		})
	})

	ginkgo.Describe("RequireRole", func() {
		ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

		serve := func(s *Session) int {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", nil)
			if s != nil {
				req = req.WithContext(ContextWithSession(context.Background(), s))
			}
			w := httptest.NewRecorder()
			RequireManager()(ok).ServeHTTP(w, req)
			return w.Code
		}

		ginkgo.It("lets a manager through", func() {
			gomega.Expect(serve(&Session{UserID: 3, Role: RoleManager})).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("forbids an employee", func() {
			gomega.Expect(serve(&Session{UserID: 1, Role: RoleEmployee})).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("requires a session", func() {
			gomega.Expect(serve(nil)).To(gomega.Equal(http.StatusUnauthorized))
		})
	})
})
