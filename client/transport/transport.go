package transport

import (
	"context"
)

type Operation string

const (
	Query        Operation = "query"
	Mutation     Operation = "mutation"
	Subscription Operation = "subscription"
)

type Request struct {
	Context   context.Context
	Operation Operation

	*OperationRequest
}

type Transport interface {
	Request(req Request) (*OperationResponse, error)
}
