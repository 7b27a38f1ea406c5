package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"strings"
)

var (
	// ErrSealedRequest is matched by every ConstructionError
	ErrSealedRequest = errors.New("anonymous operation accepts a single variable")

	ErrMissingQuery   = errors.New(`missing required field "query"`)
	ErrMissingMessage = errors.New(`missing required field "message"`)
	// ErrInvalidLocation is returned for a location lacking a 1-based "line" or "column"
	ErrInvalidLocation = errors.New("invalid location")
	// ErrEmptyResponse is returned for a response carrying neither data nor errors
	ErrEmptyResponse = errors.New("response has neither data nor errors")
)

// ConstructionError is returned by SetVariable on an anonymous request that already holds its variable,
// or when a variable cannot be encoded to JSON, in which case Err is set.
type ConstructionError struct {
	Variable string
	Err      error
}

func (e *ConstructionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot set variable %q: %v", e.Variable, e.Err)
	}

	return fmt.Sprintf("cannot set variable %q: %v", e.Variable, ErrSealedRequest)
}

func (e *ConstructionError) Is(target error) bool {
	return e.Err == nil && target == ErrSealedRequest
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// DecodeError wraps every failure to map a JSON body onto a request or response envelope.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeErrorf(format string, args ...interface{}) error {
	return &DecodeError{Err: fmt.Errorf(format, args...)}
}

type Location = gqlerror.Location

// Error is a single entry of the "errors" list of a response.
type Error struct {
	Message   string     `json:"message"`
	Locations []Location `json:"locations"`
	Path      ast.Path   `json:"path,omitempty"`
	// Extensions is kept verbatim, callers decode it into whatever shape their server uses
	Extensions json.RawMessage `json:"extensions,omitempty"`
}

// UnmarshalJSON requires the "message" key. Keys are matched case-sensitively.
func (e *Error) UnmarshalJSON(b []byte) error {
	fields, err := objectFields(b)
	if err != nil {
		return err
	}

	rawMessage := fields["message"]
	if isNull(rawMessage) {
		return ErrMissingMessage
	}

	var ne Error
	if err := json.Unmarshal(rawMessage, &ne.Message); err != nil {
		return fieldError("message", err)
	}

	if ne.Locations, err = unmarshalLocations(fields["locations"]); err != nil {
		return err
	}

	if ne.Path, err = unmarshalPath(fields["path"]); err != nil {
		return err
	}

	ne.Extensions = nullToNil(fields["extensions"])

	*e = ne

	return nil
}

// unmarshalLocations decodes an optional list of 1-based locations, both keys are required.
func unmarshalLocations(b json.RawMessage) ([]Location, error) {
	locations := []Location{}
	if isNull(b) {
		return locations, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fieldError("locations", err)
	}

	for i, entry := range entries {
		fields, err := objectFields(entry)
		if err != nil {
			return nil, fmt.Errorf("locations[%d]: %w", i, err)
		}

		var loc Location
		for _, f := range []struct {
			key string
			v   *int
		}{{"line", &loc.Line}, {"column", &loc.Column}} {
			raw := fields[f.key]
			if isNull(raw) {
				return nil, fmt.Errorf("locations[%d]: %w: missing %q", i, ErrInvalidLocation, f.key)
			}
			if err := json.Unmarshal(raw, f.v); err != nil {
				return nil, fmt.Errorf("locations[%d].%s: %w", i, f.key, err)
			}
			if *f.v < 1 {
				return nil, fmt.Errorf("locations[%d]: %w: %s %d is not 1-based", i, ErrInvalidLocation, f.key, *f.v)
			}
		}

		locations = append(locations, loc)
	}

	return locations, nil
}

// unmarshalPath keeps integer segments as indexes. Floats with a fractional part are rejected.
func unmarshalPath(b json.RawMessage) (ast.Path, error) {
	if isNull(b) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var vs []interface{}
	if err := dec.Decode(&vs); err != nil {
		return nil, fmt.Errorf("path: %w", err)
	}

	path := make(ast.Path, 0, len(vs))
	for i, v := range vs {
		switch v := v.(type) {
		case string:
			path = append(path, ast.PathName(v))
		case json.Number:
			n, err := v.Int64()
			if err != nil {
				return nil, fmt.Errorf("path[%d]: %v is not an array index", i, v)
			}
			path = append(path, ast.PathIndex(n))
		default:
			return nil, fmt.Errorf("path[%d]: unexpected %T", i, v)
		}
	}

	return path, nil
}

func (e *Error) Error() string {
	var sb strings.Builder
	if len(e.Path) > 0 {
		sb.WriteString(e.Path.String())
		sb.WriteString(": ")
	} else if len(e.Locations) > 0 {
		fmt.Fprintf(&sb, "%d:%d: ", e.Locations[0].Line, e.Locations[0].Column)
	}
	sb.WriteString(e.Message)

	return sb.String()
}

// UnmarshalExtensions decodes the extensions payload into t. It is a no-op when there is none.
func (e *Error) UnmarshalExtensions(t interface{}) error {
	if e.Extensions == nil {
		return nil
	}

	return json.Unmarshal(e.Extensions, t)
}

// GQLError converts e for use with gqlparser tooling. Extensions that are not an object are
// stored under the "value" key.
func (e *Error) GQLError() *gqlerror.Error {
	gerr := &gqlerror.Error{
		Message:   e.Message,
		Path:      e.Path,
		Locations: e.Locations,
	}

	if e.Extensions != nil {
		var m map[string]interface{}
		if err := json.Unmarshal(e.Extensions, &m); err == nil {
			gerr.Extensions = m
		} else {
			var v interface{}
			_ = json.Unmarshal(e.Extensions, &v)
			gerr.Extensions = map[string]interface{}{"value": v}
		}
	}

	return gerr
}

// Errors is the ordered "errors" list of a response.
type Errors []*Error

func (errs Errors) Error() string {
	var sb strings.Builder
	for i, err := range errs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("graphql: ")
		sb.WriteString(err.Error())
	}

	return sb.String()
}

func (errs Errors) GQLErrors() gqlerror.List {
	if errs == nil {
		return nil
	}

	l := make(gqlerror.List, 0, len(errs))
	for _, err := range errs {
		l = append(l, err.GQLError())
	}

	return l
}

// Codes collects the string "code" entry of each error's extensions, skipping errors without one.
func (errs Errors) Codes() []string {
	codes := make([]string, 0)
	for _, err := range errs {
		var ext struct {
			Code string `json:"code"`
		}
		if err.UnmarshalExtensions(&ext) == nil && ext.Code != "" {
			codes = append(codes, ext.Code)
		}
	}

	return codes
}

// objectFields splits a JSON object into its members, keeping keys exactly as written.
func objectFields(b []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}

	return fields, nil
}

func fieldError(key string, err error) error {
	return fmt.Errorf("%s: %w", key, err)
}

func isNull(b []byte) bool {
	return len(b) == 0 || string(bytes.TrimSpace(b)) == "null"
}

func nullToNil(b json.RawMessage) json.RawMessage {
	if isNull(b) {
		return nil
	}

	return b
}
