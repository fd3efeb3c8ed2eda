package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	headerContentType  = "Content-Type"
	headerCacheControl = "Cache-Control"
	headerPragma       = "Pragma"

	contentTypeJSON = "application/json"
	// contentTypeQuery is sent whenever query parameters are encoded, even
	// though they end up in the URL. The value is kept as-is for servers
	// that already match on it.
	contentTypeQuery = "application/x-www-form-encoded; charset=utf-8"
)

// DefaultTimeout is the per-request timeout used when none is configured.
const DefaultTimeout = 10 * time.Second

// CachePolicy controls the cache headers of built requests.
type CachePolicy int

const (
	// ReloadIgnoringCacheData asks every cache on the path to revalidate.
	ReloadIgnoringCacheData CachePolicy = iota
	// UseProtocolCachePolicy leaves cache headers to the caller.
	UseProtocolCachePolicy
)

// String returns string representation of CachePolicy
func (p CachePolicy) String() string {
	switch p {
	case UseProtocolCachePolicy:
		return "protocol"
	default:
		return "reload"
	}
}

// ParseCachePolicy parses "reload" or "protocol".
func ParseCachePolicy(s string) (CachePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reload", "reload_ignoring_cache":
		return ReloadIgnoringCacheData, nil
	case "protocol", "use_protocol":
		return UseProtocolCachePolicy, nil
	default:
		return ReloadIgnoringCacheData, fmt.Errorf("unknown cache policy %q", s)
	}
}

// Policy carries the per-request settings taken from the Dispatcher.
type Policy struct {
	Timeout     time.Duration
	CachePolicy CachePolicy
}

// DefaultPolicy returns the policy used by a Dispatcher without options.
func DefaultPolicy() Policy {
	return Policy{
		Timeout:     DefaultTimeout,
		CachePolicy: ReloadIgnoringCacheData,
	}
}

// BuildRequest turns endpoint into an *http.Request. It fails with
// ErrMissingURL when no absolute URL can be derived, ErrInvalidRequest for
// unsupported methods and ErrEncodingError when parameters cannot be encoded.
// The policy timeout is not applied here; Dispatcher.Do sets the deadline
// on ctx before calling BuildRequest.
func BuildRequest(ctx context.Context, endpoint Endpoint, policy Policy) (*http.Request, error) {
	if endpoint == nil {
		return nil, newError(KindInvalidRequest, errors.New("nil endpoint"))
	}
	method := endpoint.Method()
	if !method.Valid() {
		return nil, newError(KindInvalidRequest, fmt.Errorf("unsupported http method %q", method))
	}

	requestURL, err := resolveURL(endpoint.BaseURL(), endpoint.Path())
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method.String(), requestURL.String(), nil)
	if err != nil {
		return nil, newError(KindInvalidRequest, err)
	}

	applyCachePolicy(req, policy.CachePolicy)
	addHeaders(req, endpoint.Headers())

	switch task := endpoint.Task().(type) {
	case nil, NoBody:
		req.Header.Set(headerContentType, contentTypeJSON)
	case BodyAndQuery:
		if err := configureParameters(req, task.Body, task.Query); err != nil {
			return nil, err
		}
	case BodyQueryAndHeaders:
		addHeaders(req, task.Headers)
		if err := configureParameters(req, task.Body, task.Query); err != nil {
			return nil, err
		}
	default:
		return nil, newError(KindInvalidRequest, fmt.Errorf("unsupported task %T", task))
	}

	return req, nil
}

// resolveURL appends path to the base URL path.
func resolveURL(baseURL, path string) (*url.URL, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, newError(KindMissingURL, errors.New("empty base url"))
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, newError(KindMissingURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, newError(KindMissingURL, fmt.Errorf("base url %q is not absolute", baseURL))
	}
	u.Path = joinURLPath(u.Path, path)
	u.RawPath = ""
	return u, nil
}

// joinURLPath appends resourcePath to urlPath with exactly one slash
// between them.
func joinURLPath(urlPath, resourcePath string) string {
	if resourcePath == "" {
		if urlPath == "" {
			return "/"
		}
		return urlPath
	}
	if !strings.HasSuffix(urlPath, "/") {
		urlPath += "/"
	}
	return urlPath + strings.TrimPrefix(resourcePath, "/")
}

func applyCachePolicy(req *http.Request, policy CachePolicy) {
	if policy != ReloadIgnoringCacheData {
		return
	}
	req.Header.Set(headerCacheControl, "no-cache, no-store, must-revalidate")
	req.Header.Set(headerPragma, "no-cache")
}

func addHeaders(req *http.Request, headers map[string]string) {
	for key, value := range headers {
		req.Header.Set(key, value)
	}
}

// configureParameters encodes the body first and the query second, so a
// request carrying both keeps the JSON content type.
func configureParameters(req *http.Request, body, query Params) error {
	if body != nil {
		if err := encodeJSON(req, body); err != nil {
			return err
		}
	}
	if query != nil {
		if err := encodeQuery(req, query); err != nil {
			return err
		}
	}
	return nil
}

func encodeJSON(req *http.Request, body Params) error {
	if err := body.Validate(); err != nil {
		return newError(KindEncodingError, err)
	}
	data, err := json.Marshal(body)
	if err != nil {
		return newError(KindEncodingError, err)
	}

	req.Body = readCloser(data)
	req.ContentLength = int64(len(data))
	req.GetBody = func() (io.ReadCloser, error) {
		return readCloser(data), nil
	}

	if req.Header.Get(headerContentType) == "" {
		req.Header.Set(headerContentType, contentTypeJSON)
	}
	return nil
}

func encodeQuery(req *http.Request, query Params) error {
	if err := query.Validate(); err != nil {
		return newError(KindEncodingError, err)
	}
	if len(query) > 0 {
		var sb strings.Builder
		sb.WriteString(req.URL.RawQuery)
		for _, key := range query.sortedKeys() {
			if sb.Len() > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(escapeQueryComponent(key))
			sb.WriteByte('=')
			sb.WriteString(escapeQueryComponent(formatQueryValue(query[key])))
		}
		req.URL.RawQuery = sb.String()
	}
	if req.Header.Get(headerContentType) == "" {
		req.Header.Set(headerContentType, contentTypeQuery)
	}
	return nil
}

// escapeQueryComponent percent-encodes s, spaces included.
func escapeQueryComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func formatQueryValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func readCloser(data []byte) io.ReadCloser {
	return io.NopCloser(bytes.NewReader(data))
}
