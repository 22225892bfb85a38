package middleware

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/testutil"
	"github.com/rafflehub/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) record(msg string, a ...any) {
	l.lines = append(l.lines, fmt.Sprintf(msg, a...))
}

func (l *recordingLogger) Debugf(msg string, a ...any) { l.record(msg, a...) }
func (l *recordingLogger) Infof(msg string, a ...any)  { l.record(msg, a...) }
func (l *recordingLogger) Warnf(msg string, a ...any)  { l.record(msg, a...) }
func (l *recordingLogger) Errorf(msg string, a ...any) { l.record(msg, a...) }

func Test_Logger(t *testing.T) {
	recorder := &recordingLogger{}
	ctx := xcontext.WithLogger(testutil.MockContext(), recorder)

	// The path may contain format verbs, it must be logged verbatim.
	r := httptest.NewRequest("GET", "/raffles/50%25off", nil)
	ctx = xcontext.WithHTTPRequest(ctx, r)

	closer := Logger()
	closer(ctx, nil)
	require.Equal(t, []string{"GET | /raffles/50%off"}, recorder.lines)

	closer(ctx, errorx.New(errorx.BadRequest, "bad input"))
	require.Equal(t, "GET | /raffles/50%off | 100001", recorder.lines[1])
}
