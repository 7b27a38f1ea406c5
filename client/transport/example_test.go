package transport_test

import (
	"errors"
	"fmt"
	"github.com/infiotinc/gqlwire/client/transport"
)

func ExampleOperationRequest_SetVariable() {
	req := transport.NewQueryWithVariable(`query ($id: ID!) { node(id: $id) { id } }`, "id", "1")

	err := req.SetVariable("other", 2)
	fmt.Println(errors.Is(err, transport.ErrSealedRequest))

	b, _ := transport.Serialize(req)
	fmt.Println(string(b))
	// Output:
	// true
	// {"variables":{"id":"1"},"query":"query ($id: ID!) { node(id: $id) { id } }"}
}

func ExampleDecode() {
	body := `{"data":{"name":"Norway"},"errors":[{"message":"capital unavailable","locations":[{"line":1,"column":8}],"path":["capital"]}]}`

	res, err := transport.Decode[struct{ Name string }]([]byte(body))
	if err != nil {
		panic(err)
	}

	fmt.Println(res.Data.Name)
	fmt.Println(res.Errors)
	// Output:
	// Norway
	// graphql: capital: capital unavailable
}
