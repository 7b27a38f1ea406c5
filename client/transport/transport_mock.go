package transport

import (
	"encoding/json"
	"fmt"
)

// Mock answers requests with the Func registered for their query text
type Mock map[string]Func

func (m Mock) Request(req Request) (*OperationResponse, error) {
	if req.OperationRequest == nil {
		return nil, fmt.Errorf("request has no operation")
	}

	f, ok := m[req.Query()]
	if !ok {
		return nil, fmt.Errorf("query not mocked: %v", req.Query())
	}

	return f(req)
}

// NewMockOperationResponse builds a response carrying the JSON encoding of v as data. A nil v leaves data absent.
func NewMockOperationResponse(v interface{}, errors Errors) *OperationResponse {
	var data json.RawMessage
	if v != nil {
		data, _ = json.Marshal(v)
	}

	return &OperationResponse{
		Data:   data,
		Errors: errors,
	}
}
