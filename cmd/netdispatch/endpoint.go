package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/acidbeast/network-dispatcher/internal/config"
	"github.com/acidbeast/network-dispatcher/pkg/dispatcher"
)

// buildEndpoint turns command-line values into a descriptor. Headers from the
// config file go on the descriptor, headers from flags go on the task so they
// take precedence.
func buildEndpoint(rc config.RequestConfig, opts *requestOptions) (*dispatcher.Descriptor, error) {
	method, err := dispatcher.ParseMethod(rc.Method)
	if err != nil {
		return nil, err
	}

	query, err := parseQuery(opts.query)
	if err != nil {
		return nil, err
	}
	headers, err := parseHeaders(opts.headers)
	if err != nil {
		return nil, err
	}
	body, err := parseBodyJSON(opts.bodyJSON)
	if err != nil {
		return nil, err
	}

	var task dispatcher.Task = dispatcher.NoBody{}
	switch {
	case len(headers) > 0:
		task = dispatcher.BodyQueryAndHeaders{Body: body, Query: query, Headers: headers}
	case body != nil || query != nil:
		task = dispatcher.BodyAndQuery{Body: body, Query: query}
	}

	return dispatcher.NewDescriptor(rc.BaseURL, opts.path, method, task,
		dispatcher.WithHeaders(rc.Headers)), nil
}

// parseQuery parses key=value pairs. A later key replaces an earlier one.
func parseQuery(pairs []string) (dispatcher.Params, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(dispatcher.Params, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid query parameter %q: want key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}

// parseHeaders parses Name:value pairs, trimming whitespace around the value.
func parseHeaders(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q: want Name:value", pair)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}

// parseBodyJSON decodes a JSON object. Numbers keep their literal form.
func parseBodyJSON(raw string) (dispatcher.Params, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var body dispatcher.Params
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid --body-json: %w", err)
	}
	if body == nil {
		return nil, fmt.Errorf("invalid --body-json: want a JSON object")
	}
	return body, nil
}
