package numeric

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/bfhl-api/domain/bfhl"
	"github.com/go-monolith/mono"
)

// Validation errors.
var (
	errInvalidOperation = errors.New("invalid operation")
	errEmptyValues      = errors.New("values requires at least one value")
	errNegativeCount    = errors.New("count must be a non-negative integer")
	errCountTooLarge    = fmt.Errorf("count must be at most %d", MaxFibonacciTerms)
	errNonPositive      = errors.New("values must be positive integers")
	errTooManyValues    = fmt.Errorf("values must contain at most %d elements", MaxValues)
)

// compute handles the numeric.compute service request.
func (m *NumericModule) compute(_ context.Context, req ComputeRequest, _ *mono.Msg) (ComputeResponse, error) {
	resp, err := performOperation(req)
	if err != nil {
		return ComputeResponse{
			Operation: req.Operation,
			Error:     err.Error(),
		}, nil // Return error in response, not as Go error
	}
	return resp, nil
}

// performOperation runs the kernel selected by req.Operation.
func performOperation(req ComputeRequest) (ComputeResponse, error) {
	resp := ComputeResponse{Operation: req.Operation}
	if len(req.Values) > MaxValues {
		return resp, errTooManyValues
	}

	switch req.Operation {
	case bfhl.OpFibonacci:
		if req.Count < 0 {
			return resp, errNegativeCount
		}
		seq, err := Fibonacci(req.Count)
		if errors.Is(err, ErrOverflow) {
			return resp, errCountTooLarge
		}
		if err != nil {
			return resp, err
		}
		resp.Sequence = seq
	case bfhl.OpPrime:
		if len(req.Values) == 0 {
			return resp, errEmptyValues
		}
		resp.Sequence = FilterPrimes(req.Values)
	case bfhl.OpLCM, bfhl.OpHCF:
		if len(req.Values) == 0 {
			return resp, errEmptyValues
		}
		for _, v := range req.Values {
			if v <= 0 {
				return resp, errNonPositive
			}
		}
		var value int64
		if req.Operation == bfhl.OpLCM {
			lcm, err := LCM(req.Values)
			if err != nil {
				return resp, err
			}
			value = lcm
		} else {
			value = HCF(req.Values)
		}
		resp.Value = &value
	default:
		return resp, errInvalidOperation
	}
	return resp, nil
}
