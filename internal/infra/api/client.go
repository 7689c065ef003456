// Package api implements the marketplace REST client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"

	"tiffin/config"
	deliverycontext "tiffin/internal/delivery/context"
	domainerrors "tiffin/internal/domain/errors"
	"tiffin/internal/domain/repository"
	"tiffin/internal/domain/service"
	"tiffin/internal/errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/fx"
)

const maxErrorBodySize = 64 << 10

// ClientParams holds dependencies for the REST client, injected by Fx.
type ClientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
	Store  repository.LocalStore
}

// Client talks to the marketplace backend. The bearer credential is read from
// the local store on every request so a sign-in or sign-out takes effect at once.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      repository.LocalStore
	logger     *slog.Logger

	mu             sync.RWMutex
	onUnauthorized service.UnauthorizedHook
}

// NewClient creates the REST client from configuration.
func NewClient(params ClientParams) service.MarketplaceAPI {
	return NewClientWithHTTP(params.Config.API.BaseURL, &http.Client{
		Timeout:   params.Config.API.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}, params.Store, params.Logger)
}

// NewClientWithHTTP creates a client on top of a caller supplied *http.Client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client, store repository.LocalStore, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		store:      store,
		logger:     logger,
	}
}

// OnUnauthorized registers the hook run when a non-authentication call answers 401.
func (c *Client) OnUnauthorized(hook service.UnauthorizedHook) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.onUnauthorized = hook
}

type errorPayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do sends one request. public calls skip the bearer header and the global 401 hook.
func (c *Client) do(ctx context.Context, method, path string, body, out any, public bool) error {
	log := deliverycontext.GetLoggerOrDefault(ctx, c.logger)

	reader, contentType, err := encodeBody(body)
	if err != nil {
		return errors.Wrapf(err, "encode %s %s", method, path)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrapf(err, "build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set(deliverycontext.HeaderXRequestID, requestID(ctx))

	if !public {
		if token := c.credential(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug("API request failed", slog.String("method", method), slog.String("path", path), slog.Any("error", err))

		return errors.Wrapf(domainerrors.ErrNetwork.WithDetails(err.Error()), "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		remote := domainerrors.NewRemoteError(resp.StatusCode, readErrorMessage(resp.Body), path)

		if resp.StatusCode == http.StatusUnauthorized && !public {
			log.Warn("API rejected credential", slog.String("path", path))
			c.unauthorized(ctx)
		}

		return errors.WithStack(remote)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(domainerrors.ErrNetwork.WithDetails(err.Error()), "read %s %s", method, path)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(domainerrors.ErrServer.WithDetails(err.Error()), "decode %s %s", method, path)
	}

	return nil
}

// formBody is a request body sent as multipart/form-data.
type formBody interface {
	writeForm(w *multipart.Writer) error
}

// encodeBody renders body as a form when it is a formBody and as JSON otherwise.
func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case formBody:
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		if err := b.writeForm(w); err != nil {
			return nil, "", errors.WithStack(err)
		}
		if err := w.Close(); err != nil {
			return nil, "", errors.WithStack(err)
		}

		return &buf, w.FormDataContentType(), nil
	default:
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, "", errors.WithStack(err)
		}

		return bytes.NewReader(payload), "application/json", nil
	}
}

func (c *Client) credential(ctx context.Context) string {
	token, ok, err := c.store.Get(ctx, repository.KeyToken)
	if err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, c.logger).Warn("Failed to read credential", slog.Any("error", err))

		return ""
	}
	if !ok {
		return ""
	}

	return token
}

func (c *Client) unauthorized(ctx context.Context) {
	c.mu.RLock()
	hook := c.onUnauthorized
	c.mu.RUnlock()

	if hook != nil {
		hook(ctx)
	}
}

func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBodySize))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var payload errorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}

	return payload.Error
}

func requestID(ctx context.Context) string {
	if id := deliverycontext.GetRequestIDFromContext(ctx); id != "" {
		return id
	}

	return uuid.New().String()
}
