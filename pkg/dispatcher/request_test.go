package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_joinURLPath(t *testing.T) {
	tests := []struct {
		name         string
		urlPath      string
		resourcePath string
		want         string
	}{{
		name:         "empty urlPath and empty resourcePath",
		urlPath:      "",
		resourcePath: "",
		want:         "/",
	}, {
		name:         "whole path inside urlPath",
		urlPath:      "/api/v1",
		resourcePath: "",
		want:         "/api/v1",
	}, {
		name:         "empty urlPath and slash-prefixed resourcePath",
		urlPath:      "",
		resourcePath: "/items",
		want:         "/items",
	}, {
		name:         "non-slash-terminated urlPath and slash-prefixed resourcePath",
		urlPath:      "/api",
		resourcePath: "/items",
		want:         "/api/items",
	}, {
		name:         "slash-terminated urlPath and slash-prefixed resourcePath",
		urlPath:      "/api/",
		resourcePath: "/items",
		want:         "/api/items",
	}, {
		name:         "non-slash-terminated urlPath and bare resourcePath",
		urlPath:      "/api",
		resourcePath: "items/42",
		want:         "/api/items/42",
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, joinURLPath(tt.urlPath, tt.resourcePath)); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestBuildRequest_NoBody(t *testing.T) {
	endpoint := NewDescriptor("https://api.example.com/v1", "/items", MethodGet, NoBody{})

	req, err := BuildRequest(context.Background(), endpoint, DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "https://api.example.com/v1/items", req.URL.String())
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Nil(t, req.Body)
	assert.Zero(t, req.ContentLength)
}

func TestBuildRequest_NilTaskIsNoBody(t *testing.T) {
	endpoint := NewDescriptor("https://api.example.com", "/items", MethodDelete, nil)

	req, err := BuildRequest(context.Background(), endpoint, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Nil(t, req.Body)
}

func TestBuildRequest_QueryIsPercentEncoded(t *testing.T) {
	endpoint := NewDescriptor("https://api.example.com", "/items", MethodGet, BodyAndQuery{
		Query: Params{"q": "a b", "tag": "x&y=z", "page": 2},
	})

	req, err := BuildRequest(context.Background(), endpoint, DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, "page=2&q=a%20b&tag=x%26y%3Dz", req.URL.RawQuery)
	assert.Equal(t, "a b", req.URL.Query().Get("q"))
	assert.Equal(t, "x&y=z", req.URL.Query().Get("tag"))
	assert.Nil(t, req.Body, "query values must not be placed in the body")
	assert.Equal(t, "application/x-www-form-encoded; charset=utf-8", req.Header.Get("Content-Type"))
}

func TestBuildRequest_QueryAppendsToExistingQuery(t *testing.T) {
	endpoint := NewDescriptor("https://api.example.com/search?lang=en", "", MethodGet, BodyAndQuery{
		Query: Params{"q": "go"},
	})

	req, err := BuildRequest(context.Background(), endpoint, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, "lang=en&q=go", req.URL.RawQuery)
	assert.Equal(t, "/search", req.URL.Path)
}

func TestBuildRequest_EmptyQueryStillSetsContentType(t *testing.T) {
	endpoint := NewDescriptor("https://api.example.com", "/items", MethodGet, BodyAndQuery{
		Query: Params{},
	})

	req, err := BuildRequest(context.Background(), endpoint, DefaultPolicy())
	require.NoError(t, err)
	assert.Empty(t, req.URL.RawQuery)
	assert.Equal(t, "application/x-www-form-encoded; charset=utf-8", req.Header.Get("Content-Type"))
}

func TestBuildRequest_BodyIsJSON(t *testing.T) {
	body := Params{
		"name":  "widget",
		"count": 3,
		"tags":  []string{"a", "b"},
		"meta":  map[string]any{"ok": true},
	}
	endpoint := NewDescriptor("https://api.example.com", "/items", MethodPost, BodyAndQuery{Body: body})

	req, err := BuildRequest(context.Background(), endpoint, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Empty(t, req.URL.RawQuery)

	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.EqualValues(t, len(raw), req.ContentLength)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	want := map[string]any{
		"name":  "widget",
		"count": float64(3),
		"tags":  []any{"a", "b"},
		"meta":  map[string]any{"ok": true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}

	// GetBody must replay the same bytes
	rc, err := req.GetBody()
	require.NoError(t, err)
	replay, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, raw, replay)
}

func TestBuildRequest_BodyAndQueryKeepsJSONContentType(t *testing.T) {
	endpoint := NewDescriptor("https://api.example.com", "/items", MethodPut, BodyAndQuery{
		Body:  Params{"a": 1},
		Query: Params{"b": "2"},
	})

	req, err := BuildRequest(context.Background(), endpoint, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "b=2", req.URL.RawQuery)
	assert.NotNil(t, req.Body)
}

func TestBuildRequest_HeadersTask(t *testing.T) {
	endpoint := NewDescriptor("https://api.example.com", "/items", MethodPatch, BodyQueryAndHeaders{
		Body: Params{"a": 1},
		Headers: map[string]string{
			"Content-Type":  "application/merge-patch+json",
			"Authorization": "Bearer token",
		},
	})

	req, err := BuildRequest(context.Background(), endpoint, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, "application/merge-patch+json", req.Header.Get("Content-Type"), "explicit caller header wins")
	assert.Equal(t, "Bearer token", req.Header.Get("Authorization"))
}

func TestBuildRequest_DescriptorHeadersAppliedBeforeTaskHeaders(t *testing.T) {
	endpoint := NewDescriptor("https://api.example.com", "/items", MethodGet,
		BodyQueryAndHeaders{Headers: map[string]string{"X-Trace": "task"}},
		WithHeaders(map[string]string{"X-Trace": "descriptor", "X-Client": "netdispatch"}),
	)

	req, err := BuildRequest(context.Background(), endpoint, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, "task", req.Header.Get("X-Trace"))
	assert.Equal(t, "netdispatch", req.Header.Get("X-Client"))
	assert.Empty(t, req.Header.Get("Content-Type"), "no body and no query leaves content type unset")
}

func TestBuildRequest_CachePolicy(t *testing.T) {
	endpoint := NewDescriptor("https://api.example.com", "/items", MethodGet, NoBody{})

	req, err := BuildRequest(context.Background(), endpoint, Policy{CachePolicy: ReloadIgnoringCacheData})
	require.NoError(t, err)
	assert.Equal(t, "no-cache, no-store, must-revalidate", req.Header.Get("Cache-Control"))
	assert.Equal(t, "no-cache", req.Header.Get("Pragma"))

	req, err = BuildRequest(context.Background(), endpoint, Policy{CachePolicy: UseProtocolCachePolicy})
	require.NoError(t, err)
	assert.Empty(t, req.Header.Get("Cache-Control"))
	assert.Empty(t, req.Header.Get("Pragma"))
}

func TestBuildRequest_Errors(t *testing.T) {
	tests := []struct {
		name     string
		endpoint Endpoint
		want     *Error
	}{
		{
			name:     "empty base url",
			endpoint: NewDescriptor("", "/items", MethodGet, NoBody{}),
			want:     ErrMissingURL,
		},
		{
			name:     "unparsable base url",
			endpoint: NewDescriptor("\t\t\t", "/items", MethodGet, NoBody{}),
			want:     ErrMissingURL,
		},
		{
			name:     "relative base url",
			endpoint: NewDescriptor("/just/a/path", "/items", MethodGet, NoBody{}),
			want:     ErrMissingURL,
		},
		{
			name:     "unsupported method",
			endpoint: NewDescriptor("https://api.example.com", "/items", Method("TRACE"), NoBody{}),
			want:     ErrInvalidRequest,
		},
		{
			name: "body with non-finite number",
			endpoint: NewDescriptor("https://api.example.com", "/items", MethodPost, BodyAndQuery{
				Body: Params{"x": math.NaN()},
			}),
			want: ErrEncodingError,
		},
		{
			name: "query with channel",
			endpoint: NewDescriptor("https://api.example.com", "/items", MethodGet, BodyAndQuery{
				Query: Params{"c": make(chan int)},
			}),
			want: ErrEncodingError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := BuildRequest(context.Background(), tt.endpoint, DefaultPolicy())
			assert.Nil(t, req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestParams_Validate(t *testing.T) {
	type payload struct {
		Name    string
		private func()
		Skipped func() `json:"-"`
	}

	tests := []struct {
		name    string
		params  Params
		wantErr string
	}{
		{name: "nil params", params: nil},
		{name: "scalars", params: Params{"s": "x", "i": 1, "u": uint8(2), "f": 1.5, "b": true, "n": nil}},
		{name: "json number", params: Params{"n": json.Number("12")}},
		{name: "nested composites", params: Params{"list": []any{1, map[string]any{"k": []int{1}}}}},
		{name: "struct skips unexported and ignored fields", params: Params{"p": payload{Name: "x"}}},
		{name: "pointer to struct", params: Params{"p": &payload{Name: "x"}}},
		{name: "infinite float", params: Params{"f": math.Inf(1)}, wantErr: `parameter "f": non-finite number +Inf`},
		{name: "function", params: Params{"fn": func() {}}, wantErr: `parameter "fn": unsupported type func()`},
		{name: "nested complex", params: Params{"l": []any{complex(1, 2)}}, wantErr: `parameter "l[0]": unsupported type complex128`},
		{name: "non-string map key", params: Params{"m": map[int]string{1: "a"}}, wantErr: `parameter "m": map key type int is not a string`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestParseCachePolicy(t *testing.T) {
	p, err := ParseCachePolicy("protocol")
	require.NoError(t, err)
	assert.Equal(t, UseProtocolCachePolicy, p)

	p, err = ParseCachePolicy("")
	require.NoError(t, err)
	assert.Equal(t, ReloadIgnoringCacheData, p)

	_, err = ParseCachePolicy("forever")
	assert.Error(t, err)
}
