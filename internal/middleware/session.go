package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/rafflehub/backend/pkg/router"
	"github.com/rafflehub/backend/pkg/xcontext"
)

const sessionIDField = "id"

// WithRequestSession attaches the anonymous session identity to the request,
// creating the session cookie on first contact. Interests and notification
// inboxes are keyed by this identity, so it exists before any sign-in.
func WithRequestSession() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		r := xcontext.HTTPRequest(ctx)
		if r == nil {
			return ctx, nil
		}

		session, err := xcontext.SessionStore(ctx).Get(r, xcontext.Configs(ctx).Session.Name)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot get session: %v", err)
			return ctx, nil
		}

		sessionID, ok := session.Values[sessionIDField].(string)
		if !ok || sessionID == "" {
			sessionID = uuid.NewString()
			session.Values[sessionIDField] = sessionID
			if err := session.Save(r, xcontext.HTTPWriter(ctx)); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot save session: %v", err)
				return ctx, nil
			}
		}

		return xcontext.WithRequestSessionID(ctx, sessionID), nil
	}
}
