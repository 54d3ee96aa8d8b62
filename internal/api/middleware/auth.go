package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const actorKey contextKey = "actor"

// Claims claims токена API: sub это номер аккаунта, role его роль
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator выпускает и проверяет HS256 токены
type Authenticator struct {
	secret []byte
	logger *zap.Logger
	now    func() time.Time
}

func NewAuthenticator(secret string, logger *zap.Logger) *Authenticator {
	return &Authenticator{secret: []byte(secret), logger: logger, now: time.Now}
}

// IssueToken выпускает токен для аккаунта со сроком жизни ttl
func (a *Authenticator) IssueToken(actor model.Actor, ttl time.Duration) (string, error) {
	now := a.now()
	claims := Claims{
		Role: actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.AccountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Parse проверяет подпись и срок токена и возвращает инициатора
func (a *Authenticator) Parse(tokenString string) (model.Actor, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return model.Actor{}, err
	}

	if claims.Subject == "" {
		return model.Actor{}, errors.New("missing subject")
	}
	if claims.Role != model.RoleStaff && claims.Role != model.RoleStudent {
		return model.Actor{}, fmt.Errorf("unknown role %q", claims.Role)
	}

	return model.Actor{AccountID: claims.Subject, Role: claims.Role}, nil
}

// RequireRole пропускает запрос только с валидным Bearer токеном одной из ролей
func (a *Authenticator) RequireRole(roles ...model.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				http.Error(w, "invalid authorization header", http.StatusUnauthorized)
				return
			}

			actor, err := a.Parse(tokenString)
			if err != nil {
				a.logger.Debug("Token rejected", zap.Error(err))
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			allowed := false
			for _, role := range roles {
				if actor.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// WithActor кладёт инициатора в контекст
func WithActor(ctx context.Context, actor model.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext достаёт инициатора, положенного RequireRole
func ActorFromContext(ctx context.Context) (model.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(model.Actor)
	return actor, ok
}
