// Package bfhl validates and dispatches /bfhl operation requests.
package bfhl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	domain "github.com/example/bfhl-api/domain/bfhl"
	"github.com/example/bfhl-api/modules/numeric"
)

// RawRequest is the undecoded top-level JSON object of a request body.
type RawRequest map[string]json.RawMessage

// ParseBody decodes body into a RawRequest. A blank body or a JSON null yields an
// empty RawRequest; anything that is not a JSON object is a validation error.
func ParseBody(body []byte) (RawRequest, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return RawRequest{}, nil
	}
	if trimmed[0] != '{' {
		return nil, domain.NewValidationError(domain.MsgInvalidJSON)
	}

	var raw RawRequest
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, domain.NewValidationError(domain.MsgInvalidJSON)
	}
	if raw == nil {
		raw = RawRequest{}
	}
	return raw, nil
}

// FormRequest builds a RawRequest from URL-encoded form fields. A field given once is
// a string; a repeated field or one named with a "[]" suffix is an array of strings.
// Form values are never numbers, so numeric operations fail shape validation.
func FormRequest(form map[string][]string) (RawRequest, error) {
	raw := make(RawRequest, len(form))
	for key, values := range form {
		name, isArray := strings.CutSuffix(key, "[]")

		var value any = values
		if !isArray && len(values) == 1 {
			value = values[0]
		}

		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode form field %s: %w", name, err)
		}
		raw[name] = encoded
	}
	return raw, nil
}

// HasSingleRecognizedKey reports whether raw has exactly one key naming a known operation.
func HasSingleRecognizedKey(raw RawRequest) bool {
	if len(raw) != 1 {
		return false
	}
	for key := range raw {
		return domain.IsRecognized(key)
	}
	return false
}

// ValidateShape matches raw against the operation variants in order fibonacci, prime,
// lcm, hcf, AI and returns the typed request. The first violation found in the payload
// of the matching variant is reported.
func ValidateShape(raw RawRequest) (domain.Request, error) {
	for _, op := range domain.Operations {
		payload, ok := raw[string(op)]
		if !ok {
			continue
		}
		req, detail := validateVariant(op, payload)
		if detail != "" {
			return nil, domain.NewValidationError("%s%s", domain.MsgInvalidFormat, detail)
		}
		return req, nil
	}
	return nil, domain.NewValidationError(domain.MsgSingleKey)
}

func validateVariant(op domain.Operation, payload json.RawMessage) (domain.Request, string) {
	value, err := decodeValue(payload)
	if err != nil {
		return nil, fmt.Sprintf("%s: Invalid JSON value", op)
	}

	switch op {
	case domain.OpFibonacci:
		n, detail := toInt64(value)
		switch {
		case detail != "":
			return nil, fmt.Sprintf("%s: %s", op, detail)
		case n < 0:
			return nil, fmt.Sprintf("%s: Number must be greater than or equal to 0", op)
		case n > numeric.MaxFibonacciTerms:
			return nil, fmt.Sprintf("%s: Number must be less than or equal to %d", op, numeric.MaxFibonacciTerms)
		}
		return domain.FibonacciRequest{Count: n}, ""

	case domain.OpPrime:
		values, detail := toInt64Slice(op, value, false)
		if detail != "" {
			return nil, detail
		}
		return domain.PrimeRequest{Values: values}, ""

	case domain.OpLCM:
		values, detail := toInt64Slice(op, value, true)
		if detail != "" {
			return nil, detail
		}
		return domain.LCMRequest{Values: values}, ""

	case domain.OpHCF:
		values, detail := toInt64Slice(op, value, true)
		if detail != "" {
			return nil, detail
		}
		return domain.HCFRequest{Values: values}, ""

	case domain.OpAsk:
		question, ok := value.(string)
		if !ok {
			return nil, fmt.Sprintf("%s: Expected string, received %s", op, typeName(value))
		}
		if question == "" {
			return nil, fmt.Sprintf("%s: String must contain at least 1 character(s)", op)
		}
		return domain.AskRequest{Question: question}, ""
	}

	return nil, fmt.Sprintf("%s: Unknown operation", op)
}

// toInt64Slice checks that value is an array of integers. With positive set the array
// must be non-empty and every element greater than zero.
func toInt64Slice(op domain.Operation, value any, positive bool) ([]int64, string) {
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Sprintf("%s: Expected array, received %s", op, typeName(value))
	}
	if positive && len(items) == 0 {
		return nil, fmt.Sprintf("%s: Array must contain at least 1 element(s)", op)
	}
	if len(items) > numeric.MaxValues {
		return nil, fmt.Sprintf("%s: Array must contain at most %d element(s)", op, numeric.MaxValues)
	}

	values := make([]int64, 0, len(items))
	for i, item := range items {
		n, detail := toInt64(item)
		if detail != "" {
			return nil, fmt.Sprintf("%s[%d]: %s", op, i, detail)
		}
		if positive && n <= 0 {
			return nil, fmt.Sprintf("%s[%d]: Number must be greater than 0", op, i)
		}
		values = append(values, n)
	}
	return values, ""
}

// decodeValue decodes a JSON value keeping numbers as json.Number.
func decodeValue(payload json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

// toInt64 converts a decoded JSON number to int64. Whole-valued floats such as 5.0
// are accepted; fractions and out-of-range values are not.
func toInt64(value any) (int64, string) {
	num, ok := value.(json.Number)
	if !ok {
		return 0, fmt.Sprintf("Expected number, received %s", typeName(value))
	}
	if n, err := num.Int64(); err == nil {
		return n, ""
	}

	f, err := num.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, "Number must be a safe integer"
	}
	if f != math.Trunc(f) {
		return 0, "Expected integer, received float"
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, "Number must be a safe integer"
	}
	return int64(f), ""
}

func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}
