// Package bfhl provides the request and response types of the /bfhl operations endpoint.
package bfhl

import "fmt"

// Operation is the tag of a request variant, equal to its JSON key.
type Operation string

// Recognized operation keys.
const (
	OpFibonacci Operation = "fibonacci"
	OpPrime     Operation = "prime"
	OpLCM       Operation = "lcm"
	OpHCF       Operation = "hcf"
	OpAsk       Operation = "AI"
)

// Operations lists the recognized keys in validation order.
var Operations = []Operation{OpFibonacci, OpPrime, OpLCM, OpHCF, OpAsk}

// IsRecognized reports whether key names one of the five operations.
func IsRecognized(key string) bool {
	for _, op := range Operations {
		if string(op) == key {
			return true
		}
	}
	return false
}

// Request is a validated operation request. Exactly one variant type implements it
// per operation.
type Request interface {
	Operation() Operation
	isRequest()
}

// FibonacciRequest asks for the first Count Fibonacci terms.
type FibonacciRequest struct {
	Count int64
}

// PrimeRequest asks for the primes among Values.
type PrimeRequest struct {
	Values []int64
}

// LCMRequest asks for the least common multiple of Values.
type LCMRequest struct {
	Values []int64
}

// HCFRequest asks for the highest common factor of Values.
type HCFRequest struct {
	Values []int64
}

// AskRequest forwards Question to the answering service.
type AskRequest struct {
	Question string
}

func (FibonacciRequest) Operation() Operation { return OpFibonacci }
func (PrimeRequest) Operation() Operation     { return OpPrime }
func (LCMRequest) Operation() Operation       { return OpLCM }
func (HCFRequest) Operation() Operation       { return OpHCF }
func (AskRequest) Operation() Operation       { return OpAsk }

func (FibonacciRequest) isRequest() {}
func (PrimeRequest) isRequest()     {}
func (LCMRequest) isRequest()       {}
func (HCFRequest) isRequest()       {}
func (AskRequest) isRequest()       {}

// Envelope is the uniform response body. Data is set only on success and Message
// only on failure.
type Envelope struct {
	IsSuccess     bool   `json:"is_success"`
	OfficialEmail string `json:"official_email"`
	Data          any    `json:"data,omitempty"`
	Message       string `json:"message,omitempty"`
}

// Success builds a success envelope carrying data.
func Success(email string, data any) Envelope {
	return Envelope{IsSuccess: true, OfficialEmail: email, Data: data}
}

// Failure builds an error envelope carrying message.
func Failure(email, message string) Envelope {
	return Envelope{IsSuccess: false, OfficialEmail: email, Message: message}
}

// Health builds the envelope returned by the health probe.
func Health(email string) Envelope {
	return Envelope{IsSuccess: true, OfficialEmail: email}
}

// ValidationError reports a malformed request or empty domain input. It maps to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Fixed client-facing messages.
const (
	MsgBodyRequired   = "Request body is required"
	MsgSingleKey      = "Request must contain exactly one operation key: fibonacci, prime, lcm, hcf, or AI"
	MsgInvalidJSON    = "Request body must be a valid JSON object"
	MsgInvalidFormat  = "Invalid request format: "
	MsgInternalError  = "Internal server error"
	MsgNotFound       = "Endpoint not found"
	MsgTooManyRequest = "Too many requests, please try again later"
)

// FallbackAnswer replaces any unusable answer from the answering service.
const FallbackAnswer = "Unknown"
