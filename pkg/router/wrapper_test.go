package router

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rafflehub/backend/config"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/logger"
	"github.com/stretchr/testify/require"
)

func Test_bindQuery(t *testing.T) {
	type request struct {
		Name      string    `json:"name"`
		Limit     int       `json:"limit"`
		Active    bool      `json:"active"`
		Price     float64   `json:"price"`
		StartTime time.Time `json:"start_time"`
	}

	var req request
	err := bindQuery(url.Values{
		"name":       []string{"camera"},
		"limit":      []string{"10"},
		"active":     []string{"true"},
		"price":      []string{"2.5"},
		"start_time": []string{"2026-08-29T00:00:00Z"},
	}, &req)
	require.NoError(t, err)
	require.Equal(t, "camera", req.Name)
	require.Equal(t, 10, req.Limit)
	require.True(t, req.Active)
	require.Equal(t, 2.5, req.Price)
	require.Equal(t, 2026, req.StartTime.Year())

	err = bindQuery(url.Values{"limit": []string{"ten"}}, &req)
	require.Error(t, err)
}

func Test_router_middlewareAndErrors(t *testing.T) {
	type request struct {
		Name string `json:"name"`
	}
	type response struct {
		Greeting string `json:"greeting"`
	}

	cfg := config.Configs{
		Auth:    config.AuthConfigs{TokenSecret: "secret"},
		Session: config.SessionConfigs{Secret: "session-secret"},
	}

	root := New(nil, cfg, logger.NewLogger(logger.SILENCE))
	POST(root, "/greet", func(ctx context.Context, req *request) (*response, error) {
		if req.Name == "" {
			return nil, errorx.New(errorx.BadRequest, "Not allow empty name")
		}

		return &response{Greeting: "hello " + req.Name}, nil
	})

	denied := root.Branch()
	denied.Before(func(ctx context.Context) (context.Context, error) {
		return nil, errorx.New(errorx.PermissionDenied, "Not allowed")
	})
	POST(denied, "/private", func(ctx context.Context, req *request) (*response, error) {
		t.Fatal("the handler must not run")
		return nil, nil
	})

	srv := httptest.NewServer(root.Handler())
	defer srv.Close()

	resp, err := srv.Client().Post(srv.URL+"/greet", "application/json",
		strings.NewReader(`{"name": "world"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Code  int64  `json:"code"`
		Error string `json:"error"`
		Data  struct {
			Greeting string `json:"greeting"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Zero(t, body.Code)
	require.Equal(t, "hello world", body.Data.Greeting)

	resp, err = srv.Client().Post(srv.URL+"/greet", "application/json",
		strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, int64(errorx.BadRequest), body.Code)
	require.Equal(t, "Not allow empty name", body.Error)

	// The middleware rejects before the handler runs.
	resp, err = srv.Client().Post(srv.URL+"/private", "application/json",
		strings.NewReader(`{"name": "world"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, int64(errorx.PermissionDenied), body.Code)

	// The method is part of the route.
	resp, err = srv.Client().Get(srv.URL + "/greet")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, int64(errorx.BadRequest), body.Code)
}
