package bfhl

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	domain "github.com/example/bfhl-api/domain/bfhl"
	"github.com/example/bfhl-api/modules/numeric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawOf(t *testing.T, body string) RawRequest {
	t.Helper()
	raw, err := ParseBody([]byte(body))
	require.NoError(t, err)
	return raw
}

func TestParseBody(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantKeys int
		wantErr  bool
	}{
		{"empty", "", 0, false},
		{"whitespace", "  \n", 0, false},
		{"null", "null", 0, false},
		{"empty object", "{}", 0, false},
		{"one key", `{"fibonacci": 5}`, 1, false},
		{"two keys", `{"fibonacci": 5, "prime": [2]}`, 2, false},
		{"array", `[1, 2]`, 0, true},
		{"string", `"fibonacci"`, 0, true},
		{"truncated", `{"fibonacci": `, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ParseBody([]byte(tt.body))
			if tt.wantErr {
				var vErr *domain.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, domain.MsgInvalidJSON, vErr.Message)
				return
			}
			require.NoError(t, err)
			assert.Len(t, raw, tt.wantKeys)
		})
	}
}

func TestHasSingleRecognizedKey(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{`{"fibonacci": 5}`, true},
		{`{"prime": []}`, true},
		{`{"lcm": [1]}`, true},
		{`{"hcf": [1]}`, true},
		{`{"AI": "q"}`, true},
		{`{"ai": "q"}`, false},
		{`{"unknown": 1}`, false},
		{`{}`, false},
		{`{"fibonacci": 3, "prime": [2]}`, false},
		{`{"fibonacci": 3, "extra": true}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			assert.Equal(t, tt.want, HasSingleRecognizedKey(rawOf(t, tt.body)))
		})
	}
}

func TestValidateShape_Valid(t *testing.T) {
	tests := []struct {
		body string
		want domain.Request
	}{
		{`{"fibonacci": 0}`, domain.FibonacciRequest{Count: 0}},
		{`{"fibonacci": 7}`, domain.FibonacciRequest{Count: 7}},
		{`{"fibonacci": 5.0}`, domain.FibonacciRequest{Count: 5}},
		{`{"fibonacci": 93}`, domain.FibonacciRequest{Count: 93}},
		{`{"prime": []}`, domain.PrimeRequest{Values: []int64{}}},
		{`{"prime": [-3, 0, 2, 1e1]}`, domain.PrimeRequest{Values: []int64{-3, 0, 2, 10}}},
		{`{"lcm": [4, 6]}`, domain.LCMRequest{Values: []int64{4, 6}}},
		{`{"hcf": [12, 18, 24]}`, domain.HCFRequest{Values: []int64{12, 18, 24}}},
		{`{"AI": "What color is the sky"}`, domain.AskRequest{Question: "What color is the sky"}},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			got, err := ValidateShape(rawOf(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateShape_Invalid(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"fibonacci": "5"}`, "fibonacci: Expected number, received string"},
		{`{"fibonacci": 2.5}`, "fibonacci: Expected integer, received float"},
		{`{"fibonacci": -1}`, "fibonacci: Number must be greater than or equal to 0"},
		{`{"fibonacci": 94}`, "fibonacci: Number must be less than or equal to 93"},
		{`{"fibonacci": 1e400}`, "fibonacci: Number must be a safe integer"},
		{`{"fibonacci": null}`, "fibonacci: Expected number, received null"},
		{`{"prime": 7}`, "prime: Expected array, received number"},
		{`{"prime": [2, "3"]}`, "prime[1]: Expected number, received string"},
		{`{"prime": [2, 3.5]}`, "prime[1]: Expected integer, received float"},
		{`{"lcm": []}`, "lcm: Array must contain at least 1 element(s)"},
		{`{"lcm": [4, 0]}`, "lcm[1]: Number must be greater than 0"},
		{`{"lcm": {"a": 1}}`, "lcm: Expected array, received object"},
		{`{"hcf": []}`, "hcf: Array must contain at least 1 element(s)"},
		{`{"hcf": [-2]}`, "hcf[0]: Number must be greater than 0"},
		{`{"AI": ""}`, "AI: String must contain at least 1 character(s)"},
		{`{"AI": 42}`, "AI: Expected string, received number"},
		{`{"AI": ["q"]}`, "AI: Expected string, received array"},
		{`{"AI": true}`, "AI: Expected string, received boolean"},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			_, err := ValidateShape(rawOf(t, tt.body))

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, domain.MsgInvalidFormat+tt.want, vErr.Message)
		})
	}
}

func TestValidateShape_NoRecognizedKey(t *testing.T) {
	_, err := ValidateShape(RawRequest{"other": json.RawMessage(`1`)})

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, domain.MsgSingleKey, vErr.Message)
}

func TestValidateShape_ArrayTooLong(t *testing.T) {
	items := strings.TrimSuffix(strings.Repeat("9223372036854775783,", numeric.MaxValues+1), ",")

	for _, op := range []string{"prime", "lcm", "hcf"} {
		t.Run(op, func(t *testing.T) {
			_, err := ValidateShape(rawOf(t, `{"`+op+`": [`+items+`]}`))

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, fmt.Sprintf("%s%s: Array must contain at most %d element(s)",
				domain.MsgInvalidFormat, op, numeric.MaxValues), vErr.Message)
		})
	}
}

func TestValidateShape_ArrayAtLimit(t *testing.T) {
	items := strings.TrimSuffix(strings.Repeat("7,", numeric.MaxValues), ",")

	req, err := ValidateShape(rawOf(t, `{"prime": [`+items+`]}`))
	require.NoError(t, err)
	assert.Len(t, req.(domain.PrimeRequest).Values, numeric.MaxValues)
}

func TestFormRequest(t *testing.T) {
	tests := []struct {
		name string
		form map[string][]string
		want RawRequest
	}{
		{
			name: "single field is a string",
			form: map[string][]string{"AI": {"What color is the sky"}},
			want: RawRequest{"AI": json.RawMessage(`"What color is the sky"`)},
		},
		{
			name: "bracket suffix is an array",
			form: map[string][]string{"prime[]": {"2"}},
			want: RawRequest{"prime": json.RawMessage(`["2"]`)},
		},
		{
			name: "repeated field is an array",
			form: map[string][]string{"lcm": {"4", "6"}},
			want: RawRequest{"lcm": json.RawMessage(`["4","6"]`)},
		},
		{
			name: "empty form",
			form: map[string][]string{},
			want: RawRequest{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormRequest(tt.form)
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for key, want := range tt.want {
				assert.JSONEq(t, string(want), string(got[key]))
			}
		})
	}
}

func TestFormRequest_NumbersFailShape(t *testing.T) {
	raw, err := FormRequest(map[string][]string{"fibonacci": {"5"}})
	require.NoError(t, err)

	_, err = ValidateShape(raw)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, domain.MsgInvalidFormat+"fibonacci: Expected number, received string", vErr.Message)
}
