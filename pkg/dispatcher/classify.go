package dispatcher

import (
	"context"
	"errors"
	"net/http"
	"unicode/utf8"
)

// Classify maps a status code onto the error taxonomy. It returns nil for
// 200 and 201, the only statuses that are decoded. Exact codes are matched
// before ranges, so 500 is ServerError and Error5xx covers 501-599.
func Classify(status int) error {
	switch {
	case status == http.StatusOK, status == http.StatusCreated:
		return nil
	case status == http.StatusUnauthorized:
		return newError(KindUnauthorized, nil)
	case status == http.StatusPaymentRequired:
		return Error4xx(status)
	case status == http.StatusForbidden:
		return newError(KindForbidden, nil)
	case status == http.StatusNotFound:
		return newError(KindNotFound, nil)
	case status >= 405 && status <= 499:
		return Error4xx(status)
	case status == http.StatusInternalServerError:
		return newError(KindServerError, nil)
	case status >= 500 && status <= 599:
		return Error5xx(status)
	default:
		return newError(KindUnknownError, nil)
	}
}

// Handle classifies result and either decodes the body into T and calls
// onSuccess, or calls onError. onError may be nil.
//
// After a 200 or 201, a missing body is reported as ErrDecodingError and a
// body the decoder rejects as ErrEncodingError. The two names read swapped;
// they are kept because existing callers match on them.
func Handle[T any](result Result, onSuccess func(T), onError func(error)) {
	value, err := Decode[T](result)
	if err != nil {
		if onError != nil {
			onError(err)
		}
		return
	}
	if onSuccess != nil {
		onSuccess(value)
	}
}

// Decode is Handle in return-value form.
func Decode[T any](result Result) (T, error) {
	var zero T
	resp, err := result.Unwrap()
	if err != nil {
		return zero, err
	}
	if err := Classify(resp.StatusCode); err != nil {
		return zero, err
	}
	if resp.Body == nil {
		return zero, newError(KindDecodingError, errors.New("response has no body"))
	}
	return decodeBody[T](resp)
}

func decodeBody[T any](resp *Response) (T, error) {
	var out T
	switch target := any(&out).(type) {
	case *string:
		if !utf8.Valid(resp.Body) {
			return out, newError(KindDecodingError, errors.New("response body is not valid utf-8"))
		}
		*target = string(resp.Body)
		return out, nil
	case *[]byte:
		*target = append([]byte{}, resp.Body...)
		return out, nil
	}

	decoder := Decoder(JSONDecoder{})
	if resp.Endpoint != nil && resp.Endpoint.Decoder() != nil {
		decoder = resp.Endpoint.Decoder()
	}
	if err := decoder.Decode(resp.Body, &out); err != nil {
		var zero T
		return zero, newError(KindEncodingError, err)
	}
	return out, nil
}

// Fetch sends endpoint with d and decodes the result into T.
func Fetch[T any](ctx context.Context, d *Dispatcher, endpoint Endpoint) (T, error) {
	return Decode[T](d.Do(ctx, endpoint))
}
