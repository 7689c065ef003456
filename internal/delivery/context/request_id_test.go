package context

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestGetRequestID(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	generated := GetRequestID(c)
	assert.Len(t, generated, 36)

	SetRequestID(c, "req-1")
	assert.Equal(t, "req-1", GetRequestID(c))
}

func TestWithOrigin(t *testing.T) {
	base := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := WithOrigin(context.Background(), base, OriginWorker)

	assert.Equal(t, OriginWorker, GetOrigin(ctx))
	assert.NotNil(t, GetLogger(ctx))
	assert.NotSame(t, base, GetLoggerOrDefault(ctx, base))
	assert.Same(t, base, GetLoggerOrDefault(context.Background(), base))
	assert.Empty(t, GetRequestIDFromContext(ctx))
	assert.Equal(t, "r", GetRequestIDFromContext(WithRequestID(ctx, "r")))
}
