package numeric

import "github.com/example/bfhl-api/domain/bfhl"

// ComputeRequest is the request for the numeric.compute service.
// Count is used by fibonacci, Values by prime, lcm and hcf.
type ComputeRequest struct {
	Operation bfhl.Operation `json:"operation"`
	Count     int64          `json:"count,omitempty"`
	Values    []int64        `json:"values,omitempty"`
}

// ComputeResponse is the response from the numeric.compute service.
// Sequence is set for fibonacci and prime, Value for lcm and hcf.
type ComputeResponse struct {
	Operation bfhl.Operation `json:"operation"`
	Sequence  []int64        `json:"sequence,omitempty"`
	Value     *int64         `json:"value,omitempty"`
	Error     string         `json:"error,omitempty"`
}
