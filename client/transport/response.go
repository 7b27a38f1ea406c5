package transport

import (
	"bytes"
	"encoding/json"
	"io"
)

// OperationResponse is a decoded response whose data has not been mapped to a Go type yet.
// Data and Errors are nil when absent (or null) in the body.
type OperationResponse struct {
	Data       json.RawMessage            `json:"data,omitempty"`
	Errors     Errors                     `json:"errors,omitempty"`
	Extensions map[string]json.RawMessage `json:"extensions,omitempty"`
}

func (r OperationResponse) UnmarshalData(t interface{}) error {
	if r.Data == nil {
		return nil
	}

	return json.Unmarshal(r.Data, t)
}

func (r OperationResponse) UnmarshalExtension(name string, t interface{}) error {
	if r.Extensions == nil {
		return nil
	}

	ex, ok := r.Extensions[name]
	if !ok {
		return nil
	}

	return json.Unmarshal(ex, t)
}

// DecodeOperationResponse parses a response body without interpreting data.
// Keys are matched case-sensitively.
func DecodeOperationResponse(body []byte) (*OperationResponse, error) {
	fields, err := objectFields(body)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	or := &OperationResponse{
		Data: nullToNil(fields["data"]),
	}

	if raw := fields["errors"]; !isNull(raw) {
		if err := json.Unmarshal(raw, &or.Errors); err != nil {
			return nil, &DecodeError{Err: fieldError("errors", err)}
		}
	}

	if raw := fields["extensions"]; !isNull(raw) {
		if err := json.Unmarshal(raw, &or.Extensions); err != nil {
			return nil, &DecodeError{Err: fieldError("extensions", err)}
		}
	}

	if or.Data == nil && or.Errors == nil {
		return nil, &DecodeError{Err: ErrEmptyResponse}
	}

	for i, err := range or.Errors {
		if err == nil {
			return nil, decodeErrorf("errors[%d]: %w", i, ErrMissingMessage)
		}
	}

	return or, nil
}

// Response is a response whose data has been decoded into T.
// Data and Errors are independent: a partial success carries both.
type Response[T any] struct {
	Data       *T
	Errors     Errors
	Extensions map[string]json.RawMessage
}

// Decode maps a response body onto Response[T]. Every failure is a *DecodeError, errors reported by
// the server are returned in Errors.
func Decode[T any](body []byte) (*Response[T], error) {
	or, err := DecodeOperationResponse(body)
	if err != nil {
		return nil, err
	}

	return ResponseOf[T](*or)
}

func DecodeReader[T any](rd io.Reader) (*Response[T], error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rd); err != nil {
		return nil, &DecodeError{Err: err}
	}

	return Decode[T](buf.Bytes())
}

// ResponseOf decodes the data of or into T.
func ResponseOf[T any](or OperationResponse) (*Response[T], error) {
	res := &Response[T]{
		Errors:     or.Errors,
		Extensions: or.Extensions,
	}

	if data := nullToNil(or.Data); data != nil {
		var t T
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, decodeErrorf("data: %w", err)
		}
		res.Data = &t
	}

	return res, nil
}

func (r *Response[T]) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err returns the response errors as an error, or nil when there are none.
func (r *Response[T]) Err() error {
	if !r.HasErrors() {
		return nil
	}

	return r.Errors
}

func (r *Response[T]) UnmarshalExtension(name string, t interface{}) error {
	return OperationResponse{Extensions: r.Extensions}.UnmarshalExtension(name, t)
}
