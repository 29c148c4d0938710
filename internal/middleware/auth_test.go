package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kingtires/internal/models"
)

type fakeAuthService struct {
	userID int
	user   *models.User
	err    error
}

func (f *fakeAuthService) ValidateToken(token string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.userID, nil
}

func (f *fakeAuthService) GetCurrentUser(userID int) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := GetUserFromContext(r.Context()); user != nil {
			w.Write([]byte(user.Email))
			return
		}
		w.Write([]byte("anonymous"))
	})
}

func TestLoadUser_FromBearerHeader(t *testing.T) {
	auth := NewAuthMiddleware(&fakeAuthService{userID: 1, user: &models.User{ID: 1, Email: "ada@example.com"}})
	handler := auth.LoadUser(echoUser())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "ada@example.com", rec.Body.String())
}

func TestLoadUser_FromCookie(t *testing.T) {
	auth := NewAuthMiddleware(&fakeAuthService{userID: 1, user: &models.User{ID: 1, Email: "ada@example.com"}})
	handler := auth.LoadUser(echoUser())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "some-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "ada@example.com", rec.Body.String())
}

func TestLoadUser_InvalidTokenContinuesAnonymous(t *testing.T) {
	auth := NewAuthMiddleware(&fakeAuthService{err: models.ErrUnauthorized})
	handler := auth.LoadUser(echoUser())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestRequireAuth(t *testing.T) {
	auth := NewAuthMiddleware(&fakeAuthService{userID: 1, user: &models.User{ID: 1, Email: "ada@example.com"}})
	handler := auth.LoadUser(auth.RequireAuth(echoUser()))

	// Without a token
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "You must log in first")

	// With a token
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	plain := NewAuthMiddleware(&fakeAuthService{userID: 1, user: &models.User{ID: 1, Role: models.RoleUser}})
	handler := plain.LoadUser(plain.RequireAdmin(echoUser()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := NewAuthMiddleware(&fakeAuthService{userID: 2, user: &models.User{ID: 2, Role: models.RoleAdmin}})
	handler = admin.LoadUser(admin.RequireAdmin(echoUser()))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
