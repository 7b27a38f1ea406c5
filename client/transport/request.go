package transport

import (
	"bytes"
	"encoding/json"
	"io"
)

// OperationRequest is the body POSTed to a GraphQL endpoint.
//
// A request built by NewQueryWithVariable is anonymous and sealed: its single variable is fixed
// and SetVariable always fails. A request built by NewOperation accepts any number of variables.
//
// Variables are encoded to JSON when they are set, later changes to the Go value are not seen.
type OperationRequest struct {
	operationName *string
	variables     map[string]json.RawMessage
	query         string

	// err is a variable that could not be encoded by NewQueryWithVariable
	err error
}

// NewQuery creates a request carrying only a query.
func NewQuery(query string) *OperationRequest {
	return &OperationRequest{
		variables: map[string]json.RawMessage{},
		query:     query,
	}
}

// NewQueryWithVariable creates an anonymous request whose variables are exactly {name: value}.
// When value cannot be encoded, Serialize returns a *ConstructionError.
func NewQueryWithVariable(query string, name string, value interface{}) *OperationRequest {
	r := &OperationRequest{
		variables: map[string]json.RawMessage{},
		query:     query,
	}

	raw, err := json.Marshal(value)
	if err != nil {
		raw = json.RawMessage("null")
		r.err = &ConstructionError{Variable: name, Err: err}
	}
	r.variables[name] = raw

	return r
}

// NewOperation creates a named request without variables.
func NewOperation(operationName string, query string) *OperationRequest {
	return &OperationRequest{
		operationName: &operationName,
		variables:     map[string]json.RawMessage{},
		query:         query,
	}
}

// SetVariable encodes value and inserts or overwrites it under name.
// Anonymous requests only ever hold one variable, a second one yields a *ConstructionError.
func (r *OperationRequest) SetVariable(name string, value interface{}) error {
	if r.Sealed() {
		return &ConstructionError{Variable: name}
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return &ConstructionError{Variable: name, Err: err}
	}

	if r.variables == nil {
		r.variables = make(map[string]json.RawMessage)
	}
	r.variables[name] = raw

	return nil
}

// Sealed reports whether SetVariable would fail.
func (r *OperationRequest) Sealed() bool {
	return r.operationName == nil && len(r.variables) > 0
}

func (r *OperationRequest) Query() string {
	return r.query
}

func (r *OperationRequest) OperationName() (string, bool) {
	if r.operationName == nil {
		return "", false
	}

	return *r.operationName, true
}

// Variables returns a copy of the encoded variables.
func (r *OperationRequest) Variables() map[string]json.RawMessage {
	vars := make(map[string]json.RawMessage, len(r.variables))
	for k, v := range r.variables {
		vars[k] = append(json.RawMessage(nil), v...)
	}

	return vars
}

// UnmarshalVariable decodes the variable name into t. It is a no-op when the variable is not set.
func (r *OperationRequest) UnmarshalVariable(name string, t interface{}) error {
	raw, ok := r.variables[name]
	if !ok {
		return nil
	}

	return json.Unmarshal(raw, t)
}

type wireRequest struct {
	OperationName *string                    `json:"operationName,omitempty"`
	Variables     map[string]json.RawMessage `json:"variables,omitempty"`
	Query         string                     `json:"query"`
}

func (r *OperationRequest) MarshalJSON() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}

	return json.Marshal(wireRequest{
		OperationName: r.operationName,
		Variables:     r.variables,
		Query:         r.query,
	})
}

// UnmarshalJSON requires the "query" key, keys are matched case-sensitively.
func (r *OperationRequest) UnmarshalJSON(b []byte) error {
	fields, err := objectFields(b)
	if err != nil {
		return err
	}

	rawQuery := fields["query"]
	if isNull(rawQuery) {
		return ErrMissingQuery
	}

	nr := OperationRequest{
		variables: map[string]json.RawMessage{},
	}
	if err := json.Unmarshal(rawQuery, &nr.query); err != nil {
		return fieldError("query", err)
	}

	if raw := fields["operationName"]; !isNull(raw) {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return fieldError("operationName", err)
		}
		nr.operationName = &name
	}

	if raw := fields["variables"]; !isNull(raw) {
		if err := json.Unmarshal(raw, &nr.variables); err != nil {
			return fieldError("variables", err)
		}
	}

	*r = nr

	return nil
}

// Serialize returns the JSON text of r, ready to be used as a POST body.
func Serialize(r *OperationRequest) ([]byte, error) {
	return json.Marshal(r)
}

// DecodeRequest parses a request body, as a server or a mock transport receives it.
func DecodeRequest(body []byte) (*OperationRequest, error) {
	var r OperationRequest
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, &DecodeError{Err: err}
	}

	return &r, nil
}

// DecodeRequestReader is DecodeRequest reading the body from rd, typically an *http.Request body.
func DecodeRequestReader(rd io.Reader) (*OperationRequest, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rd); err != nil {
		return nil, &DecodeError{Err: err}
	}

	return DecodeRequest(buf.Bytes())
}
