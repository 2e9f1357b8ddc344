package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"smartkop/apperr"
	"smartkop/models"
	"smartkop/pipeline"

	"github.com/julienschmidt/httprouter"
)

func noop(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error { return nil }

func TestAuthenticateRejectsMissingCookie(t *testing.T) {
	a := &Auth{Secret: []byte("s"), CookieName: "token"}
	req := httptest.NewRequest(http.MethodGet, "/me", nil)

	err := a.Authenticate(noop)(httptest.NewRecorder(), req, nil)
	if apperr.KindOf(err) != apperr.Unauthenticated {
		t.Fatalf("got %v", err)
	}
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	a := &Auth{Secret: []byte("s"), CookieName: "token"}
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "not.a.jwt"})

	err := a.Authenticate(noop)(httptest.NewRecorder(), req, nil)
	if apperr.KindOf(err) != apperr.Unauthenticated {
		t.Fatalf("got %v", err)
	}
}

func TestRequireRolesAllowsMember(t *testing.T) {
	a := &Auth{}
	called := false
	next := pipeline.Handler(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
		called = true
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req = req.WithContext(WithUser(req.Context(), &models.User{UserID: "u1", Role: models.RoleAdmin}))

	if err := a.RequireRoles(next, models.RoleAdmin)(httptest.NewRecorder(), req, nil); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("handler not reached")
	}
}

func TestRequireRolesForbidsNonMember(t *testing.T) {
	a := &Auth{}
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req = req.WithContext(WithUser(req.Context(), &models.User{UserID: "u1", Role: models.RoleUser}))

	err := a.RequireRoles(noop, models.RoleAdmin)(httptest.NewRecorder(), req, nil)
	if apperr.KindOf(err) != apperr.Forbidden {
		t.Fatalf("got %v", err)
	}
}

func TestRequireRolesWithoutIdentity(t *testing.T) {
	a := &Auth{}
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)

	err := a.RequireRoles(noop, models.RoleAdmin)(httptest.NewRecorder(), req, nil)
	if apperr.KindOf(err) != apperr.Unauthenticated {
		t.Fatalf("got %v", err)
	}
}
