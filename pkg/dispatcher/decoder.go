package dispatcher

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// Decoder decodes a response body into v.
type Decoder interface {
	Decode(data []byte, v any) error
}

// JSONDecoder is the default Decoder.
type JSONDecoder struct {
	// DisallowUnknownFields rejects objects with keys that do not match
	// any exported field of the destination.
	DisallowUnknownFields bool

	// UseNumber decodes numbers into json.Number instead of float64.
	UseNumber bool
}

// Decode implements Decoder.
func (d JSONDecoder) Decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if d.DisallowUnknownFields {
		dec.DisallowUnknownFields()
	}
	if d.UseNumber {
		dec.UseNumber()
	}
	if err := dec.Decode(v); err != nil {
		return err
	}
	// trailing garbage is a decode failure, as with json.Unmarshal
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("invalid character after top-level value")
	}
	return nil
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(data []byte, v any) error

// Decode implements Decoder.
func (f DecoderFunc) Decode(data []byte, v any) error {
	return f(data, v)
}
