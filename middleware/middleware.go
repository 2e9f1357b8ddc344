package middleware

import (
	"context"
	"fmt"
	"net/http"

	"smartkop/apperr"
	"smartkop/db"
	"smartkop/models"
	"smartkop/pipeline"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// JWT claims: the session token is bound to the identity id only; the
// identity itself is resolved fresh from the store on every request.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type contextKey string

const userKey contextKey = "user"

// Auth verifies session cookies and gates routes by role.
type Auth struct {
	Store      *db.Store
	Secret     []byte
	CookieName string
}

// Authenticate requires a valid session cookie and loads the identity into
// the request context.
func (a *Auth) Authenticate(next pipeline.Handler) pipeline.Handler {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
		cookie, err := r.Cookie(a.CookieName)
		if err != nil || cookie.Value == "" {
			return apperr.New(apperr.Unauthenticated, "Please log in to access this resource")
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (any, error) {
			return a.Secret, nil
		})
		if err != nil || !token.Valid {
			return apperr.Wrap(apperr.Unauthenticated, "Invalid or expired token", err)
		}

		var user models.User
		err = a.Store.Users.FindOne(r.Context(), bson.M{"userid": claims.UserID}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			return apperr.New(apperr.Unauthenticated, "Invalid or expired token")
		}
		if err != nil {
			return err
		}

		ctx := context.WithValue(r.Context(), userKey, &user)
		return next(w, r.WithContext(ctx), ps)
	}
}

// RequireRoles rejects authenticated identities whose role is not in the
// accepted set. It must run inside Authenticate.
func (a *Auth) RequireRoles(next pipeline.Handler, roles ...string) pipeline.Handler {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
		user := UserFrom(r.Context())
		if user == nil {
			return apperr.New(apperr.Unauthenticated, "Please log in to access this resource")
		}

		for _, role := range roles {
			if user.Role == role {
				return next(w, r, ps)
			}
		}
		return apperr.New(apperr.Forbidden,
			fmt.Sprintf("Role (%s) is not allowed to access this resource", user.Role))
	}
}

// UserFrom returns the authenticated identity, or nil outside Authenticate.
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// WithUser is used by tests to seed an authenticated context.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}
