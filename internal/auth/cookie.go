package auth

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "tg_session"
	accessTokenKey    = "access_token"
)

// CookieStore keeps the access token in a signed cookie so browser page
// requests authenticate without an Authorization header.
type CookieStore struct {
	store *sessions.CookieStore
}

func NewCookieStore(secret string, secure bool, maxAge time.Duration) *CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieStore{store: store}
}

func (c *CookieStore) Save(w http.ResponseWriter, r *http.Request, token string) error {
	session, _ := c.store.Get(r, sessionCookieName)
	session.Values[accessTokenKey] = token
	return session.Save(r, w)
}

// Token returns the stored access token, or "" when the cookie is missing or
// fails signature verification.
func (c *CookieStore) Token(r *http.Request) string {
	if c == nil {
		return ""
	}
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		return ""
	}
	token, _ := session.Values[accessTokenKey].(string)
	return token
}

func (c *CookieStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := c.store.Get(r, sessionCookieName)
	delete(session.Values, accessTokenKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
