package transport

import (
	"fmt"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// DetectOperation parses query and returns the kind of the operation that a server would execute.
// operationName selects among several operations and may be empty when the document holds only one.
// The document is not validated against any schema.
func DetectOperation(query string, operationName string) (Operation, error) {
	doc, gerr := parser.ParseQuery(&ast.Source{Input: query})
	if gerr != nil {
		return "", fmt.Errorf("parse query: %w", gerr)
	}

	var op *ast.OperationDefinition
	switch {
	case operationName != "":
		op = doc.Operations.ForName(operationName)
		if op == nil {
			return "", fmt.Errorf("operation %q not found in document", operationName)
		}
	case len(doc.Operations) == 1:
		op = doc.Operations[0]
	case len(doc.Operations) == 0:
		return "", fmt.Errorf("document has no operation")
	default:
		return "", fmt.Errorf("document has %d operations, an operation name is required", len(doc.Operations))
	}

	return Operation(op.Operation), nil
}

// DetectRequestOperation is DetectOperation applied to an OperationRequest.
func DetectRequestOperation(r *OperationRequest) (Operation, error) {
	name, _ := r.OperationName()

	return DetectOperation(r.Query(), name)
}
