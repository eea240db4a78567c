package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/basic"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/medibridge/medibridge-api/databases"
	"github.com/medibridge/medibridge-api/models"
)

// MiddlewareDB is a struct that holds the user database for auth lookups
type MiddlewareDB struct {
	DB databases.UserDatabase
}

var authenticator auth.Authenticator
var cache store.Cache

type authUserContextKey struct{}

// Middleware authenticates the request and stashes the authenticated user
// info in the request context for the role checks downstream
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		user, err := authenticator.Authenticate(r)
		if err != nil {
			zap.S().Errorw("unauthorized",
				"url", r.URL)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		zap.S().Debugf("User %s Authenticated\n", user.UserName())
		next.ServeHTTP(w, r.WithContext(WithAuthUser(r.Context(), user)))
	})
}

// WithAuthUser returns a context carrying the authenticated user info
func WithAuthUser(ctx context.Context, user auth.Info) context.Context {
	return context.WithValue(ctx, authUserContextKey{}, user)
}

// AuthUserFromContext returns the authenticated user stored by Middleware
func AuthUserFromContext(ctx context.Context) auth.Info {
	if v := ctx.Value(authUserContextKey{}); v != nil {
		return v.(auth.Info)
	}
	return nil
}

// UserRole returns the authenticated user's role, or "" when unauthenticated
func UserRole(ctx context.Context) string {
	user := AuthUserFromContext(ctx)
	if user == nil {
		return ""
	}
	groups := user.Groups()
	if len(groups) == 0 {
		return ""
	}
	return groups[0]
}

// UserHospitalID returns the hospital the authenticated user belongs to
func UserHospitalID(ctx context.Context) string {
	user := AuthUserFromContext(ctx)
	if user == nil {
		return ""
	}
	ext := user.Extensions()
	if ext == nil {
		return ""
	}
	vals := ext["hospital"]
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// RequireRole wraps a handler and rejects users whose role is not listed
func RequireRole(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := UserRole(r.Context())
		for _, allowed := range roles {
			if role == allowed {
				next(w, r)
				return
			}
		}
		zap.S().Warnw("forbidden", "url", r.URL, "role", role)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": "forbidden"}`))
	}
}

// CreateToken exchanges basic credentials for a bearer token
func (m MiddlewareDB) CreateToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	email, _, ok := r.BasicAuth()
	if !ok {
		http.Error(w, "basic auth failed", http.StatusUnauthorized)
		return
	}

	user, err := m.DB.FindUserByEmail(r.Context(), email)
	if err != nil {
		http.Error(w, "failed to get user by email", http.StatusUnauthorized)
		return
	}

	token := uuid.New().String()
	authUser := authInfoForUser(email, user)
	tokenStrategy := authenticator.Strategy(bearer.CachedStrategyKey)
	auth.Append(tokenStrategy, token, authUser, r)

	response := map[string]string{
		"token": token,
		"_id":   user.ID,
		"role":  user.Details.Role,
	}

	responseBody, err := json.Marshal(response)
	if err != nil {
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}

	w.Write(responseBody)
}

// SetupGoGuardian sets up the go-guardian middleware
func (m MiddlewareDB) SetupGoGuardian() {
	authenticator = auth.New()
	cache = store.NewFIFO(context.Background(), time.Hour*24*365*100) // 100 years ttl
	basicStrategy := basic.New(m.ValidateUser, cache)
	tokenStrategy := bearer.New(bearer.NoOpAuthenticate, cache)

	authenticator.EnableStrategy(basic.StrategyKey, basicStrategy)
	authenticator.EnableStrategy(bearer.CachedStrategyKey, tokenStrategy)
}

// ValidateUser validates basic credentials against the users collection
func (m MiddlewareDB) ValidateUser(ctx context.Context, r *http.Request, email, password string) (auth.Info, error) {
	user, err := m.DB.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("no matching email found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Details.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("failed to compare password")
	}

	return authInfoForUser(email, user), nil
}

func authInfoForUser(email string, user *models.User) auth.Info {
	extensions := map[string][]string{}
	if !user.Details.Hospital.IsZero() {
		extensions["hospital"] = []string{user.Details.Hospital.Hex()}
	}
	if !user.Details.Patient.IsZero() {
		extensions["patient"] = []string{user.Details.Patient.Hex()}
	}
	return auth.NewDefaultUser(email, user.ID, []string{user.Details.Role}, extensions)
}

// RevokeToken revokes a token
func RevokeToken(w http.ResponseWriter, r *http.Request) {
	reqToken := r.Header.Get("Authorization")
	splitToken := strings.Split(reqToken, "Bearer ")
	if len(splitToken) < 2 {
		http.Error(w, "missing bearer token", http.StatusBadRequest)
		return
	}
	reqToken = splitToken[1]

	tokenStrategy := authenticator.Strategy(bearer.CachedStrategyKey)
	auth.Revoke(tokenStrategy, reqToken, r)
	body := fmt.Sprintf(`{"revoked token": "%s"}`, reqToken)
	w.Write([]byte(body))
}
