package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	// Snapshot the middleware chain at registration time, so branching after
	// registration does not change already registered routes.
	befores := append([]MiddlewareFunc{}, router.befores...)
	closers := append([]CloserFunc{}, router.closers...)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := router.baseContext(r.Context())
		ctx = xcontext.WithHTTPRequest(ctx, r)
		ctx = xcontext.WithHTTPWriter(ctx, w)

		err := func() error {
			if r.Method != method {
				return errorx.New(errorx.BadRequest, "Not supported method %s", r.Method)
			}

			var req Request
			switch method {
			case http.MethodGet:
				if err := bindQuery(r.URL.Query(), &req); err != nil {
					xcontext.Logger(ctx).Debugf("Cannot bind the query: %v", err)
					return errorx.New(errorx.BadRequest, "Cannot bind the query")
				}
			case http.MethodPost:
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
					xcontext.Logger(ctx).Debugf("Cannot bind the body: %v", err)
					return errorx.New(errorx.BadRequest, "Cannot bind the body")
				}
			}

			for _, middleware := range befores {
				newCtx, err := middleware(ctx)
				if err != nil {
					return err
				}

				ctx = newCtx
			}

			resp, err := handler(ctx, &req)
			if err != nil {
				return err
			}

			if resp != nil {
				if err := writeJSON(w, newResponse(resp)); err != nil {
					xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
					return errorx.New(errorx.BadResponse, "Cannot write the response")
				}
			}

			return nil
		}()

		if err != nil {
			if werr := writeJSON(w, newErrorResponse(err)); werr != nil {
				xcontext.Logger(ctx).Errorf("Cannot write the error response: %v", werr)
			}
		}

		for _, closer := range closers {
			closer(ctx, err)
		}
	}
}

// bindQuery fills fields of obj from url values, matching the json tag (or
// the lowercased field name if there is no tag).
func bindQuery(values url.Values, obj any) error {
	structValue := reflect.ValueOf(obj).Elem()
	structType := structValue.Type()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" {
			name = strings.ToLower(field.Name)
		}

		raw := values.Get(name)
		if raw == "" {
			continue
		}

		fieldValue := structValue.Field(i)
		switch fieldValue.Interface().(type) {
		case string:
			fieldValue.SetString(raw)
		case bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return err
			}
			fieldValue.SetBool(b)
		case int, int32, int64:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return err
			}
			fieldValue.SetInt(n)
		case float32, float64:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return err
			}
			fieldValue.SetFloat(f)
		case time.Time:
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return err
			}
			fieldValue.Set(reflect.ValueOf(t))
		}
	}

	return nil
}
