package transport

type Func func(Request) (*OperationResponse, error)

func (f Func) Request(o Request) (*OperationResponse, error) {
	return f(o)
}

func Split(f func(Request) (Transport, error)) Transport {
	return Func(func(req Request) (*OperationResponse, error) {
		tr, err := f(req)
		if err != nil {
			return nil, err
		}

		return tr.Request(req)
	})
}

// SplitMutation routes mutations to muttr, and other type of operations to othertr.
// Requests without an Operation are classified by parsing their query.
func SplitMutation(muttr, othertr Transport) Transport {
	return Split(func(req Request) (Transport, error) {
		op := req.Operation
		if op == "" && req.OperationRequest != nil {
			var err error
			op, err = DetectRequestOperation(req.OperationRequest)
			if err != nil {
				return nil, err
			}
		}

		if op == Mutation {
			return muttr, nil
		}

		return othertr, nil
	})
}
