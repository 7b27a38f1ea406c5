package transport

import (
	"bytes"
	"context"
	"fmt"
	"github.com/infiotinc/gqlwire/config"
	"go.uber.org/zap"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
)

type HttpRequestOption func(req *http.Request)

// WithHeader sets a header on every request
func WithHeader(key, value string) HttpRequestOption {
	return func(req *http.Request) {
		req.Header.Set(key, value)
	}
}

// HTTPError is returned when the server answers with a non 2xx status and a body that is not a
// GraphQL response
type HTTPError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http status %d: %v", e.StatusCode, e.Err)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

type Http struct {
	URL string
	// Client defaults to http.DefaultClient
	Client         *http.Client
	RequestOptions []HttpRequestOption
	// Logger defaults to a no-op logger, set the "GQLWIRE_HTTP_LOG" env to true to log to stderr
	Logger *zap.Logger
}

// NewHttp creates a transport for the given endpoint
func NewHttp(e config.Endpoint) *Http {
	h := &Http{
		URL:    e.URL,
		Client: &http.Client{Timeout: e.Timeout},
		Logger: envLogger(),
	}

	for k, v := range e.Headers {
		h.RequestOptions = append(h.RequestOptions, WithHeader(k, v))
	}

	return h
}

var (
	defaultLogger     *zap.Logger
	defaultLoggerOnce sync.Once
)

func envLogger() *zap.Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = zap.NewNop()
		if enabled, _ := strconv.ParseBool(os.Getenv("GQLWIRE_HTTP_LOG")); enabled {
			if l, err := zap.NewDevelopment(); err == nil {
				defaultLogger = l
			}
		}
	})

	return defaultLogger
}

func (h *Http) Request(gqlreq Request) (*OperationResponse, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	log := h.Logger
	if log == nil {
		log = envLogger()
	}

	if gqlreq.OperationRequest == nil {
		return nil, fmt.Errorf("request has no operation")
	}

	ctx := gqlreq.Context
	if ctx == nil {
		ctx = context.Background()
	}

	bodyb, err := Serialize(gqlreq.OperationRequest)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(bodyb))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	for _, ro := range h.RequestOptions {
		ro(req)
	}

	opname, _ := gqlreq.OperationName()
	log.Debug("sending operation",
		zap.String("url", h.URL),
		zap.String("operation", string(gqlreq.Operation)),
		zap.String("operationName", opname),
		zap.Int("variables", len(gqlreq.Variables())),
	)

	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	opres, err := DecodeOperationResponse(data)
	if err != nil {
		log.Debug("undecodable response", zap.Int("status", res.StatusCode), zap.Error(err))
		if res.StatusCode < 200 || res.StatusCode >= 300 {
			return nil, &HTTPError{StatusCode: res.StatusCode, Body: data, Err: err}
		}

		return nil, err
	}

	log.Debug("received response",
		zap.Int("status", res.StatusCode),
		zap.Bool("data", opres.Data != nil),
		zap.Int("errors", len(opres.Errors)),
	)

	return opres, nil
}
