package dispatcher

import (
	"fmt"
	"net/http"
)

// Response wraps a completed HTTP exchange. Body is nil when the transport
// delivered no body at all.
type Response struct {
	StatusCode int
	Body       []byte
	Request    *http.Request
	Raw        *http.Response
	Endpoint   Endpoint
}

func (r *Response) String() string {
	length := "nil"
	if r.Body != nil {
		length = fmt.Sprint(len(r.Body))
	}
	return fmt.Sprintf("Status Code: %d, Data Length: %s", r.StatusCode, length)
}

// Result is the outcome of one dispatch: either a Response or an error.
type Result struct {
	response *Response
	err      error
}

// Success wraps a completed response.
func Success(resp *Response) Result {
	return Result{response: resp}
}

// Failure wraps an error. A nil err is reported as ErrUnknownError.
func Failure(err error) Result {
	if err == nil {
		err = newError(KindUnknownError, nil)
	}
	return Result{err: err}
}

// IsSuccess reports whether the result carries a response.
func (r Result) IsSuccess() bool {
	return r.err == nil && r.response != nil
}

// Response returns the response, nil for failures.
func (r Result) Response() *Response {
	return r.response
}

// Err returns the error, nil for successes.
func (r Result) Err() error {
	if r.err == nil && r.response == nil {
		return newError(KindUnknownError, nil)
	}
	return r.err
}

// Unwrap returns both variants in the usual Go shape.
func (r Result) Unwrap() (*Response, error) {
	return r.response, r.Err()
}
