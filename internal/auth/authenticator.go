package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/constante/apiserver/types"
)

// Authentication outcomes reported to an Observer.
const (
	OutcomeAnonymous     = "anonymous"
	OutcomeInvalidToken  = "invalid_token"
	OutcomeExpiredToken  = "expired_token"
	OutcomeUnknownUser   = "unknown_user"
	OutcomeAuthenticated = "authenticated"
	OutcomeAlreadyBound  = "already_bound"
	OutcomeRejected      = "rejected"
)

// TokenVerifier is the subset of TokenService used on the request path.
type TokenVerifier interface {
	Subject(token string) (string, error)
	IsValid(token, expected string) bool
}

// UserLookup resolves a token subject to a stored user.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (types.User, error)
}

// Observer receives one outcome per authentication attempt.
type Observer interface {
	ObserveAuth(outcome string)
}

// Authenticator binds a Principal to requests carrying a valid bearer token.
type Authenticator struct {
	tokens   TokenVerifier
	users    UserLookup
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
}

// AuthenticatorOption customises an Authenticator.
type AuthenticatorOption func(*Authenticator)

// WithObserver reports every authentication outcome to o.
func WithObserver(o Observer) AuthenticatorOption {
	return func(a *Authenticator) {
		a.observer = o
	}
}

func NewAuthenticator(tokens TokenVerifier, users UserLookup, logger *slog.Logger, opts ...AuthenticatorOption) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Authenticator{
		tokens: tokens,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Authenticate never rejects a request. Requests without a usable token
// continue anonymously; RequireAuth decides whether that is acceptable.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); ok {
			a.observe(OutcomeAlreadyBound)
			next.ServeHTTP(w, r)
			return
		}

		principal, outcome := a.resolve(r)
		a.observe(outcome)
		if outcome != OutcomeAuthenticated {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

func (a *Authenticator) resolve(r *http.Request) (Principal, string) {
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return Principal{}, OutcomeAnonymous
	}

	email, err := a.tokens.Subject(token)
	if err != nil {
		a.logger.DebugContext(r.Context(), "bearer token rejected", "error", err, "path", r.URL.Path)
		if errors.Is(err, ErrExpiredToken) {
			return Principal{}, OutcomeExpiredToken
		}
		return Principal{}, OutcomeInvalidToken
	}

	user, err := a.users.GetByEmail(r.Context(), email)
	if err != nil {
		a.logger.DebugContext(r.Context(), "token subject not resolvable", "error", err)
		return Principal{}, OutcomeUnknownUser
	}

	if !a.tokens.IsValid(token, user.Email) {
		return Principal{}, OutcomeInvalidToken
	}

	return Principal{
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Authority: AuthorityUser,
	}, OutcomeAuthenticated
}

// RequireAuth rejects requests that reach it without a bound principal.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			a.observe(OutcomeRejected)
			writeUnauthorized(w, r, a.now())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) observe(outcome string) {
	if a.observer != nil {
		a.observer.ObserveAuth(outcome)
	}
}

// UnauthorizedResponse is the body written for unauthenticated access to a
// protected route.
type UnauthorizedResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, now time.Time) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(UnauthorizedResponse{
		Timestamp: now.UTC(),
		Status:    http.StatusUnauthorized,
		Error:     http.StatusText(http.StatusUnauthorized),
		Message:   "Invalid or missing token",
		Path:      r.URL.Path,
	})
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
