package dispatcher

// Endpoint describes one HTTP call site.
type Endpoint interface {
	BaseURL() string
	Path() string
	Method() Method
	Task() Task
	Headers() map[string]string
	Decoder() Decoder
}

// Descriptor is an immutable Endpoint built from plain values.
type Descriptor struct {
	baseURL string
	path    string
	method  Method
	task    Task
	headers map[string]string
	decoder Decoder
}

// DescriptorOption configures a Descriptor.
type DescriptorOption func(*Descriptor)

// WithHeaders sets headers applied to every request built from the descriptor.
func WithHeaders(headers map[string]string) DescriptorOption {
	return func(d *Descriptor) {
		d.headers = copyHeaders(headers)
	}
}

// WithDecoder overrides the default JSONDecoder.
func WithDecoder(decoder Decoder) DescriptorOption {
	return func(d *Descriptor) {
		if decoder != nil {
			d.decoder = decoder
		}
	}
}

// NewDescriptor creates a Descriptor. A nil task is treated as NoBody.
func NewDescriptor(baseURL, path string, method Method, task Task, opts ...DescriptorOption) *Descriptor {
	if task == nil {
		task = NoBody{}
	}
	d := &Descriptor{
		baseURL: baseURL,
		path:    path,
		method:  method,
		task:    task,
		decoder: JSONDecoder{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Descriptor) BaseURL() string  { return d.baseURL }
func (d *Descriptor) Path() string     { return d.path }
func (d *Descriptor) Method() Method   { return d.method }
func (d *Descriptor) Task() Task       { return d.task }
func (d *Descriptor) Decoder() Decoder { return d.decoder }

// Headers returns a copy of the descriptor headers.
func (d *Descriptor) Headers() map[string]string {
	return copyHeaders(d.headers)
}

func copyHeaders(headers map[string]string) map[string]string {
	if headers == nil {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		out[k] = v
	}
	return out
}
