package middleware

import (
	"context"
	"strings"

	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/router"
	"github.com/rafflehub/backend/pkg/xcontext"
)

// WithRequestUser resolves the access token (Authorization header first, then
// the token cookie) into the request user id. A request without a token stays
// anonymous; only an invalid token is rejected.
func WithRequestUser() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := ""
		if r := xcontext.HTTPRequest(ctx); r != nil {
			auth := r.Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			} else if cookie, err := r.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name); err == nil {
				token = cookie.Value
			}
		}

		if token == "" {
			return ctx, nil
		}

		userID, err := xcontext.TokenEngine(ctx).Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, userID), nil
	}
}

// Authenticate rejects requests that did not resolve to a signed-in user.
func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestUserID(ctx) == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return ctx, nil
	}
}
