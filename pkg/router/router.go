package router

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/rafflehub/backend/config"
	"github.com/rafflehub/backend/pkg/authenticator"
	"github.com/rafflehub/backend/pkg/logger"
	"github.com/rafflehub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It can derive a new context (for
// example, attaching the request user id) or reject the request by returning
// an error.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc always runs after the handler, even if a middleware rejected the
// request. The error is the one sent to the client, or nil.
type CloserFunc func(ctx context.Context, err error)

type Router struct {
	mux *http.ServeMux

	cfg          config.Configs
	logger       logger.Logger
	db           *gorm.DB
	tokenEngine  authenticator.TokenEngine
	sessionStore sessions.Store

	befores []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	return &Router{
		mux:          http.NewServeMux(),
		cfg:          cfg,
		logger:       logger,
		db:           db,
		tokenEngine:  authenticator.NewTokenEngine(cfg.Auth.TokenSecret),
		sessionStore: sessions.NewCookieStore([]byte(cfg.Session.Secret)),
	}
}

// Branch returns a router sharing the same mux but with an independent
// middleware chain. Routes registered on the branch see the branch's
// middlewares only.
func (r *Router) Branch() *Router {
	branch := *r
	branch.befores = append([]MiddlewareFunc{}, r.befores...)
	branch.closers = append([]CloserFunc{}, r.closers...)
	return &branch
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func (r *Router) baseContext(ctx context.Context) context.Context {
	ctx = xcontext.WithConfigs(ctx, r.cfg)
	ctx = xcontext.WithLogger(ctx, r.logger)
	ctx = xcontext.WithDB(ctx, r.db)
	ctx = xcontext.WithTokenEngine(ctx, r.tokenEngine)
	ctx = xcontext.WithSessionStore(ctx, r.sessionStore)
	return ctx
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodPost, handler))
}
