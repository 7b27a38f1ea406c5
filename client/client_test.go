package client

import (
	"context"
	"encoding/json"
	"github.com/99designs/gqlgen/graphql"
	"github.com/infiotinc/gqlwire/client/transport"
	"github.com/infiotinc/gqlwire/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"net/http"
	"net/http/httptest"
	"testing"
)

func mockcli(f transport.Func) *Client {
	return &Client{
		Transport: transport.Mock{
			"query": f,
		},
	}
}

func TestQuery(t *testing.T) {
	cli := mockcli(func(req transport.Request) (*transport.OperationResponse, error) {
		assert.Equal(t, transport.Query, req.Operation)

		return transport.NewMockOperationResponse("hey", nil), nil
	})

	var res string
	err := cli.Query(context.Background(), transport.NewQuery("query"), &res)
	require.NoError(t, err)

	assert.Equal(t, "hey", res)
}

func TestMutation(t *testing.T) {
	cli := mockcli(func(req transport.Request) (*transport.OperationResponse, error) {
		assert.Equal(t, transport.Mutation, req.Operation)

		return transport.NewMockOperationResponse("done", nil), nil
	})

	var res string
	require.NoError(t, cli.Mutation(context.Background(), transport.NewQuery("query"), &res))
	assert.Equal(t, "done", res)
}

func TestQueryReturnsErrors(t *testing.T) {
	cli := mockcli(func(req transport.Request) (*transport.OperationResponse, error) {
		return transport.NewMockOperationResponse("partial", transport.Errors{{Message: "boom"}}), nil
	})

	var res string
	err := cli.Query(context.Background(), transport.NewQuery("query"), &res)

	var errs transport.Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "boom", errs[0].Message)
	assert.Equal(t, "partial", res)
}

func TestDo(t *testing.T) {
	cli := &Client{
		Transport: transport.Mock{
			"mutation { a }": func(req transport.Request) (*transport.OperationResponse, error) {
				assert.Equal(t, transport.Mutation, req.Operation)

				return transport.NewMockOperationResponse(1, nil), nil
			},
			"subscription { a }": func(req transport.Request) (*transport.OperationResponse, error) {
				t.Fatal("subscription reached the transport")
				return nil, nil
			},
		},
	}

	var res int
	require.NoError(t, cli.Do(context.Background(), transport.NewQuery("mutation { a }"), &res))
	assert.Equal(t, 1, res)

	err := cli.Do(context.Background(), transport.NewQuery("subscription { a }"), &res)
	assert.ErrorIs(t, err, ErrSubscriptionUnsupported)

	assert.Error(t, cli.Do(context.Background(), transport.NewQuery("{"), &res))
}

func TestNoResponse(t *testing.T) {
	cli := mockcli(func(req transport.Request) (*transport.OperationResponse, error) {
		return nil, nil
	})

	assert.Error(t, cli.Query(context.Background(), transport.NewQuery("query"), nil))
}

func TestExecutePartialSuccess(t *testing.T) {
	type room struct {
		Name string `json:"name"`
	}

	cli := &Client{
		Transport: transport.Mock{
			"{ room { name } }": func(req transport.Request) (*transport.OperationResponse, error) {
				return transport.NewMockOperationResponse(
					map[string]interface{}{"room": map[string]interface{}{"name": "test"}},
					transport.Errors{{Message: "members unavailable"}},
				), nil
			},
		},
	}

	res, err := Execute[struct {
		Room room `json:"room"`
	}](context.Background(), cli, transport.NewQuery("{ room { name } }"))
	require.NoError(t, err)

	assert.Equal(t, "test", res.Data.Room.Name)
	assert.True(t, res.HasErrors())
	assert.Error(t, res.Err())
}

func TestNewFromConfig(t *testing.T) {
	server := func(name string) *httptest.Server {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var params graphql.RawParams
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&params))
			assert.Equal(t, "t", r.Header.Get("X-Trace"))

			res := &graphql.Response{Data: json.RawMessage(`"` + name + `"`)}
			if params.Query == "{ fail }" {
				res = &graphql.Response{Errors: gqlerror.List{{Message: "failed"}}}
			}
			_ = json.NewEncoder(w).Encode(res)
		}))
		t.Cleanup(ts.Close)
		return ts
	}

	primary, replica := server("primary"), server("replica")

	cli := New(&config.Config{
		Endpoint:         config.Endpoint{URL: replica.URL},
		MutationEndpoint: &config.Endpoint{URL: primary.URL},
	}, transport.WithHeader("X-Trace", "t"))

	var res string
	require.NoError(t, cli.Do(context.Background(), transport.NewQuery("mutation { a }"), &res))
	assert.Equal(t, "primary", res)

	require.NoError(t, cli.Do(context.Background(), transport.NewQuery("{ a }"), &res))
	assert.Equal(t, "replica", res)

	err := cli.Query(context.Background(), transport.NewQuery("{ fail }"), &res)
	assert.EqualError(t, err, "graphql: failed")
}
