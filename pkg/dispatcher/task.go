package dispatcher

// Task describes how body, query and header data are attached to a
// request. The only implementations are NoBody, BodyAndQuery and
// BodyQueryAndHeaders.
type Task interface {
	task()
}

// NoBody sends no parameters.
type NoBody struct{}

// BodyAndQuery sends Body as JSON and Query in the URL. Either may be nil.
type BodyAndQuery struct {
	Body  Params
	Query Params
}

// BodyQueryAndHeaders is BodyAndQuery plus extra request headers.
type BodyQueryAndHeaders struct {
	Body    Params
	Query   Params
	Headers map[string]string
}

func (NoBody) task()              {}
func (BodyAndQuery) task()        {}
func (BodyQueryAndHeaders) task() {}
