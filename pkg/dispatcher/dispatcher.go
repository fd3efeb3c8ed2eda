// Package dispatcher builds HTTP requests from declarative endpoint
// descriptors, sends them over an injected HTTPClient, classifies the status
// code and decodes successful bodies into typed values.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultMaxBodySize caps the number of response bytes read per call.
const DefaultMaxBodySize int64 = 1 << 22

// HTTPClient performs the actual exchange. *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Dispatcher sends requests built from Endpoints. It keeps a handle on the
// most recent call so that Cancel can abort it; starting a new call
// replaces the handle without cancelling the previous one.
type Dispatcher struct {
	client          HTTPClient
	policy          Policy
	maxBodySize     int64
	userAgent       string
	requestIDHeader string
	netLogger       NetworkLogger
	logger          zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTimeout sets the per-request timeout. Zero or negative disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.policy.Timeout = timeout
	}
}

// WithCachePolicy sets the cache policy applied to every request.
func WithCachePolicy(policy CachePolicy) Option {
	return func(d *Dispatcher) {
		d.policy.CachePolicy = policy
	}
}

// WithNetworkLogger sets the request/response observer.
func WithNetworkLogger(l NetworkLogger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.netLogger = l
		}
	}
}

// WithLogger sets the logger used for the dispatcher's own diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger.With().Str("component", "Dispatcher").Logger()
	}
}

// WithMaxBodySize caps the response body size. Zero or negative means
// DefaultMaxBodySize.
func WithMaxBodySize(size int64) Option {
	return func(d *Dispatcher) {
		if size > 0 {
			d.maxBodySize = size
		}
	}
}

// WithUserAgent sets the User-Agent of requests that do not carry one.
func WithUserAgent(userAgent string) Option {
	return func(d *Dispatcher) {
		d.userAgent = userAgent
	}
}

// WithRequestIDHeader stamps every request with a random UUID in the named
// header unless the endpoint already set it.
func WithRequestIDHeader(header string) Option {
	return func(d *Dispatcher) {
		d.requestIDHeader = header
	}
}

// New creates a Dispatcher. A nil client means http.DefaultClient.
func New(client HTTPClient, opts ...Option) *Dispatcher {
	if client == nil {
		client = http.DefaultClient
	}
	d := &Dispatcher{
		client:      client,
		policy:      DefaultPolicy(),
		maxBodySize: DefaultMaxBodySize,
		netLogger:   NopNetworkLogger{},
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Policy returns the per-request policy the dispatcher applies.
func (d *Dispatcher) Policy() Policy {
	return d.policy
}

// Send dispatches endpoint without blocking and invokes completion exactly
// once with the outcome. Completion runs on the goroutine performing the
// call, or on the caller's goroutine when the request cannot be built.
func (d *Dispatcher) Send(ctx context.Context, endpoint Endpoint, completion func(Result)) {
	var once sync.Once
	complete := func(result Result) {
		once.Do(func() {
			if completion != nil {
				completion(result)
			}
		})
	}

	callCtx, cancel := d.newCallContext(ctx)
	req, err := d.prepare(callCtx, endpoint)
	if err != nil {
		cancel()
		complete(Failure(err))
		return
	}

	go func() {
		defer cancel()
		complete(d.roundTrip(req, endpoint))
	}()
}

// Do is the blocking form of Send.
func (d *Dispatcher) Do(ctx context.Context, endpoint Endpoint) Result {
	callCtx, cancel := d.newCallContext(ctx)
	defer cancel()

	req, err := d.prepare(callCtx, endpoint)
	if err != nil {
		return Failure(err)
	}
	return d.roundTrip(req, endpoint)
}

// Cancel aborts the most recent call, if any. Calling it more than once has
// no further effect. A completion already under way is not suppressed.
func (d *Dispatcher) Cancel() {
	d.mu.Lock()
	cancel := d.cancel
	d.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (d *Dispatcher) newCallContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancelCall := context.WithCancel(ctx)
	cancel := cancelCall
	if d.policy.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, d.policy.Timeout)
		cancel = func() {
			cancelTimeout()
			cancelCall()
		}
	}

	d.mu.Lock()
	d.cancel = cancel
	d.mu.Unlock()
	return ctx, cancel
}

// prepare builds the request. Builder failures are reported as
// ErrUnknownError with the builder error kept as the cause.
func (d *Dispatcher) prepare(ctx context.Context, endpoint Endpoint) (*http.Request, error) {
	req, err := BuildRequest(ctx, endpoint, d.policy)
	if err != nil {
		d.logger.Debug().Err(err).Msg("Failed to build request")
		return nil, newError(KindUnknownError, err)
	}
	if d.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", d.userAgent)
	}
	if d.requestIDHeader != "" && req.Header.Get(d.requestIDHeader) == "" {
		req.Header.Set(d.requestIDHeader, uuid.NewString())
	}
	return req, nil
}

func (d *Dispatcher) roundTrip(req *http.Request, endpoint Endpoint) Result {
	d.logRequest(req)

	start := time.Now()
	resp, err := d.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		d.logger.Warn().
			Err(err).
			Str("method", req.Method).
			Str("url", req.URL.String()).
			Dur("duration", duration).
			Msg("HTTP request failed")
		return Failure(newError(KindNetworkError, err))
	}
	if resp == nil {
		d.logger.Warn().Str("url", req.URL.String()).Msg("Transport returned no response")
		return Failure(newError(KindNetworkError, errors.New("transport returned neither response nor error")))
	}

	var body []byte
	if resp.Body != nil {
		defer resp.Body.Close()
		body, err = readBody(resp.Body, d.maxBodySize)
		if err != nil {
			return Failure(newError(KindNetworkError, err))
		}
	}
	d.logResponse(resp, body)

	d.logger.Debug().
		Int("status_code", resp.StatusCode).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Dur("duration", duration).
		Msg("HTTP request completed")

	return Success(&Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Request:    req,
		Raw:        resp,
		Endpoint:   endpoint,
	})
}

func readBody(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return data, nil
}

func (d *Dispatcher) logRequest(req *http.Request) {
	defer d.recoverLogger()
	var body []byte
	if req.GetBody != nil {
		if rc, err := req.GetBody(); err == nil {
			body, _ = io.ReadAll(rc)
			rc.Close()
		}
	}
	d.netLogger.LogRequest(req, body)
}

func (d *Dispatcher) logResponse(resp *http.Response, body []byte) {
	defer d.recoverLogger()
	d.netLogger.LogResponse(resp, body)
}

func (d *Dispatcher) recoverLogger() {
	if r := recover(); r != nil {
		d.logger.Error().Interface("panic", r).Msg("Network logger panicked")
	}
}
