package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "smartparking/pkg/errors"
	httputil "smartparking/pkg/http"
	"smartparking/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey struct{}

// Provider yields the caller's user ID from a request context.
type Provider interface {
	CurrentUserID(ctx context.Context) (string, error)
}

type ContextProvider struct{}

func (ContextProvider) CurrentUserID(ctx context.Context) (string, error) {
	return UserIDFrom(ctx)
}

// UserIDFrom returns the user attached by Middleware or Unauthenticated.
func UserIDFrom(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKey{}).(string)
	if !ok || userID == "" {
		return "", apperrors.Unauthenticated("Authentication required")
	}
	return userID, nil
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// Verifier checks HS256 bearer tokens issued by the identity provider. The user
// ID is the token subject.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		issuer: issuer,
	}
}

func (v *Verifier) Verify(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.Unauthenticated("Token expired")
		}
		return "", apperrors.Unauthenticated("Invalid token")
	}
	if claims.Subject == "" {
		return "", apperrors.Unauthenticated("Token has no subject")
	}
	return claims.Subject, nil
}

// Issue signs a token for userID. Used by tooling and tests; production tokens
// come from the identity provider.
func (v *Verifier) Issue(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    v.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Middleware attaches the bearer token's user to the request context. Requests
// without an Authorization header pass through anonymously; handlers that need a
// user ask the Provider and get Unauthenticated. A malformed or invalid token is
// rejected here.
func Middleware(verifier *Verifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				httputil.WriteError(w, apperrors.Unauthenticated("Authorization header must use the Bearer scheme"))
				return
			}

			userID, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				log.Warn("Rejected bearer token",
					"method", r.Method,
					"path", r.URL.Path,
					"error", err,
				)
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
