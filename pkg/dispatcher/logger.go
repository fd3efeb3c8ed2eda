package dispatcher

import (
	"net/http"

	"github.com/rs/zerolog"
)

// NetworkLogger observes outgoing requests and incoming responses. It has
// no effect on control flow; panics raised by implementations are recovered.
type NetworkLogger interface {
	LogRequest(req *http.Request, body []byte)
	LogResponse(resp *http.Response, body []byte)
}

// NopNetworkLogger discards everything.
type NopNetworkLogger struct{}

func (NopNetworkLogger) LogRequest(*http.Request, []byte)   {}
func (NopNetworkLogger) LogResponse(*http.Response, []byte) {}

// ZerologNetworkLogger writes requests and responses at debug level.
type ZerologNetworkLogger struct {
	logger         zerolog.Logger
	logBodies      bool
	requestIDField string
}

// NewZerologNetworkLogger creates a ZerologNetworkLogger. Bodies are only
// written when logBodies is set.
func NewZerologNetworkLogger(logger zerolog.Logger, logBodies bool) *ZerologNetworkLogger {
	return &ZerologNetworkLogger{
		logger:    logger.With().Str("component", "NetworkLogger").Logger(),
		logBodies: logBodies,
	}
}

// WithRequestIDHeader makes the logger report the value of header as
// request_id on both request and response lines.
func (l *ZerologNetworkLogger) WithRequestIDHeader(header string) *ZerologNetworkLogger {
	l.requestIDField = header
	return l
}

// LogRequest implements NetworkLogger.
func (l *ZerologNetworkLogger) LogRequest(req *http.Request, body []byte) {
	if req == nil || req.URL == nil {
		return
	}
	event := l.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("host", req.URL.Host).
		Str("path", req.URL.Path).
		Str("query", req.URL.RawQuery)
	if len(req.Header) > 0 {
		headers := zerolog.Dict()
		for key := range req.Header {
			headers = headers.Str(key, req.Header.Get(key))
		}
		event = event.Dict("headers", headers)
	}
	if l.requestIDField != "" {
		event = event.Str("request_id", req.Header.Get(l.requestIDField))
	}
	if l.logBodies && body != nil {
		event = event.Bytes("body", body)
	}
	event.Msg("Outgoing request")
}

// LogResponse implements NetworkLogger.
func (l *ZerologNetworkLogger) LogResponse(resp *http.Response, body []byte) {
	if resp == nil {
		return
	}
	event := l.logger.Debug().
		Int("status_code", resp.StatusCode).
		Int("body_length", len(body))
	if resp.Request != nil && resp.Request.URL != nil {
		event = event.Str("url", resp.Request.URL.String())
		if l.requestIDField != "" {
			event = event.Str("request_id", resp.Request.Header.Get(l.requestIDField))
		}
	}
	if l.logBodies && body != nil {
		event = event.Bytes("body", body)
	}
	event.Msg("Incoming response")
}
