package client

import (
	"context"
	"errors"
	"fmt"
	"github.com/infiotinc/gqlwire/client/transport"
	"github.com/infiotinc/gqlwire/config"
)

var ErrSubscriptionUnsupported = errors.New("subscriptions are not supported")

type Client struct {
	Transport transport.Transport
}

// New creates a client talking HTTP to the configured endpoints
func New(cfg *config.Config, opts ...transport.HttpRequestOption) *Client {
	newtr := func(e config.Endpoint) *transport.Http {
		tr := transport.NewHttp(e)
		tr.RequestOptions = append(tr.RequestOptions, opts...)
		return tr
	}

	var tr transport.Transport = newtr(cfg.Endpoint)
	if cfg.MutationEndpoint != nil {
		tr = transport.SplitMutation(newtr(*cfg.MutationEndpoint), tr)
	}

	return &Client{
		Transport: tr,
	}
}

func (c *Client) request(ctx context.Context, operation transport.Operation, req *transport.OperationRequest) (*transport.OperationResponse, error) {
	if operation == transport.Subscription {
		return nil, ErrSubscriptionUnsupported
	}

	res, err := c.Transport.Request(transport.Request{
		Context:          ctx,
		Operation:        operation,
		OperationRequest: req,
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("no response")
	}

	return res, nil
}

func (c *Client) do(ctx context.Context, operation transport.Operation, req *transport.OperationRequest, t interface{}) error {
	opres, err := c.request(ctx, operation, req)
	if err != nil {
		return err
	}

	err = opres.UnmarshalData(t)

	if len(opres.Errors) > 0 {
		return opres.Errors
	}

	return err
}

// Query runs a query, data is unmarshalled into t even when the response carries errors
func (c *Client) Query(ctx context.Context, req *transport.OperationRequest, t interface{}) error {
	return c.do(ctx, transport.Query, req, t)
}

// Mutation runs a mutation
func (c *Client) Mutation(ctx context.Context, req *transport.OperationRequest, t interface{}) error {
	return c.do(ctx, transport.Mutation, req, t)
}

// Do runs req after finding out its operation type from the query document
func (c *Client) Do(ctx context.Context, req *transport.OperationRequest, t interface{}) error {
	op, err := transport.DetectRequestOperation(req)
	if err != nil {
		return err
	}

	return c.do(ctx, op, req, t)
}

// Execute runs req and returns the whole response, so that callers can handle partial successes.
// The returned error is only set when no response could be obtained or decoded.
func Execute[T any](ctx context.Context, c *Client, req *transport.OperationRequest) (*transport.Response[T], error) {
	op, err := transport.DetectRequestOperation(req)
	if err != nil {
		return nil, err
	}

	opres, err := c.request(ctx, op, req)
	if err != nil {
		return nil, err
	}

	return transport.ResponseOf[T](*opres)
}
