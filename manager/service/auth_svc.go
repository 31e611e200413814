package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	cache "github.com/Code-Hex/go-generics-cache"
	"github.com/Gthulhu/erp/manager/domain"
	"github.com/Gthulhu/erp/manager/errs"
	"github.com/Gthulhu/erp/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const tokenIssuer = "erp-manager"

func (svc *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := svc.getUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			svc.metrics.observeLogin("invalid_credentials")
			return "", errs.NewHTTPStatusError(http.StatusUnauthorized, "invalid email or password", err)
		}
		return "", err
	}
	ok, err := user.Password.Cmp(password)
	if err != nil {
		return "", err
	}
	if !ok {
		svc.metrics.observeLogin("invalid_credentials")
		return "", errs.NewHTTPStatusError(http.StatusUnauthorized, "invalid email or password", fmt.Errorf("password mismatch for %s", email))
	}
	if !user.Status.CanSignIn() {
		svc.metrics.observeLogin("inactive")
		return "", errs.NewForbidden(errors.WithMessagef(domain.ErrUserInactive, "user %s is %s", email, user.Status))
	}

	token, err := svc.genJWTToken(user)
	if err != nil {
		return "", err
	}
	svc.sessions.Delete(user.ID.Hex())
	svc.metrics.observeLogin("success")
	logger.Logger(ctx).Info().Str("uid", user.ID.Hex()).Str("role", user.Role.String()).Msg("user logged in")
	return token, nil
}

// Logout revokes the token carrying claims until it would have expired.
func (svc *Service) Logout(ctx context.Context, claims *domain.Claims) error {
	if claims == nil || claims.ID == "" {
		return errs.NewUnauthorized(fmt.Errorf("token has no id"))
	}
	expiry := svc.now().Add(svc.authCfg.TokenDuration())
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}
	svc.revoked.Store(claims.ID, expiry)
	logger.Logger(ctx).Info().Str("uid", claims.UID).Str("jti", claims.ID).Msg("user logged out")
	return nil
}

// PruneRevokedTokens forgets revoked token ids whose tokens have expired
// anyway and returns how many were dropped.
func (svc *Service) PruneRevokedTokens(ctx context.Context) int {
	now := svc.now()
	removed := svc.revoked.DeleteIf(func(_ string, expiry time.Time) bool {
		return !expiry.After(now)
	})
	if removed > 0 {
		logger.Logger(ctx).Debug().Int("removed", removed).Int("remaining", svc.revoked.Len()).Msg("pruned revoked tokens")
	}
	return removed
}

// VerifyJWTToken authenticates tokenString and requires the caller's current
// role to hold every permission in perms. The returned claims carry the
// current role, which may differ from the one the token was issued with.
func (svc *Service) VerifyJWTToken(ctx context.Context, tokenString string, meta domain.RequestMeta, perms ...domain.Permission) (domain.Claims, error) {
	claims := domain.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return &svc.jwtPrivateKey.PublicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return domain.Claims{}, errs.NewUnauthorized(err)
	}
	if _, revoked := svc.revoked.Load(claims.ID); revoked {
		return domain.Claims{}, errs.NewUnauthorized(domain.ErrTokenRevoked)
	}

	state, err := svc.loadSession(ctx, claims.UID)
	if err != nil {
		return domain.Claims{}, err
	}
	if !state.status.CanSignIn() {
		return domain.Claims{}, errs.NewUnauthorized(domain.ErrUserInactive)
	}
	claims.Role = state.role

	if len(perms) == 0 {
		return claims, nil
	}
	allowed := svc.matrix.HasAll(claims.Role, perms...)
	svc.metrics.observeDecision(claims.Role, "middleware", allowed)
	if !allowed {
		missing := svc.matrix.Missing(claims.Role, perms...)
		svc.recordDecision(ctx, &claims, meta, domain.AccessDecision{
			Role:        claims.Role,
			Permissions: perms,
			Mode:        domain.AccessModeAll,
			Allowed:     false,
			Missing:     missing,
		})
		return domain.Claims{}, errs.NewForbidden(errors.WithMessagef(domain.ErrPermissionDenied, "role %s lacks %s", claims.Role, domain.NewPermissionSet(missing...)))
	}
	if svc.authCfg.AuditAllowed {
		svc.recordDecision(ctx, &claims, meta, domain.AccessDecision{
			Role:        claims.Role,
			Permissions: perms,
			Mode:        domain.AccessModeAll,
			Allowed:     true,
		})
	}
	return claims, nil
}

// CurrentRole returns the stored role of the user behind claims. It is
// RoleNone for missing claims, unknown or inactive users.
func (svc *Service) CurrentRole(ctx context.Context, claims *domain.Claims) domain.Role {
	if claims == nil || claims.UID == "" {
		return domain.RoleNone
	}
	state, err := svc.loadSession(ctx, claims.UID)
	if err != nil {
		logger.Logger(ctx).Debug().Err(err).Str("uid", claims.UID).Msg("resolve current role")
		return domain.RoleNone
	}
	if !state.status.CanSignIn() {
		return domain.RoleNone
	}
	return state.role
}

func (svc *Service) loadSession(ctx context.Context, uid string) (sessionState, error) {
	if state, ok := svc.sessions.Get(uid); ok {
		return state, nil
	}
	id, err := bson.ObjectIDFromHex(uid)
	if err != nil {
		return sessionState{}, errs.NewUnauthorized(errors.WithMessagef(err, "invalid uid %q", uid))
	}
	user, err := svc.getUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return sessionState{}, errs.NewUnauthorized(err)
		}
		return sessionState{}, err
	}
	state := sessionState{role: user.Role, status: user.Status}
	svc.sessions.Set(uid, state, cache.WithExpiration(svc.authCfg.RoleCacheTTL()))
	return state, nil
}

func (svc *Service) genJWTToken(user *domain.User) (string, error) {
	now := svc.now()
	uid := user.ID.Hex()
	claims := domain.Claims{
		UID:  uid,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        xid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(svc.authCfg.TokenDuration())),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   uid,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(svc.jwtPrivateKey)
}
