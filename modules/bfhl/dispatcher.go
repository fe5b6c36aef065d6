package bfhl

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/example/bfhl-api/domain/bfhl"
	"github.com/example/bfhl-api/logging"
	"github.com/example/bfhl-api/modules/answer"
	"github.com/example/bfhl-api/modules/numeric"
)

var log = logging.GetLogger()

// answerPunctuation is removed from both ends of the answer word.
const answerPunctuation = ".,!?;:'\"()"

// Dispatcher validates a request body and runs the selected operation.
type Dispatcher struct {
	answers       answer.AnswerPort
	answerTimeout time.Duration
}

// NewDispatcher creates a Dispatcher. answers may be nil, in which case every AI
// request yields the fallback word.
func NewDispatcher(answers answer.AnswerPort, answerTimeout time.Duration) *Dispatcher {
	return &Dispatcher{
		answers:       answers,
		answerTimeout: answerTimeout,
	}
}

// Dispatch runs the full pipeline for a raw request body and returns the envelope data.
// Malformed input yields a *domain.ValidationError; any other error is internal.
func (d *Dispatcher) Dispatch(ctx context.Context, body []byte) (any, error) {
	raw, err := ParseBody(body)
	if err != nil {
		return nil, err
	}
	return d.DispatchRaw(ctx, raw)
}

// DispatchRaw runs the pipeline for an already decoded request object.
func (d *Dispatcher) DispatchRaw(ctx context.Context, raw RawRequest) (any, error) {
	if len(raw) == 0 {
		return nil, domain.NewValidationError(domain.MsgBodyRequired)
	}
	if !HasSingleRecognizedKey(raw) {
		return nil, domain.NewValidationError(domain.MsgSingleKey)
	}

	req, err := ValidateShape(raw)
	if err != nil {
		return nil, err
	}
	return d.Execute(ctx, req)
}

// Execute runs a validated request.
func (d *Dispatcher) Execute(ctx context.Context, req domain.Request) (any, error) {
	switch r := req.(type) {
	case domain.FibonacciRequest:
		seq, err := numeric.Fibonacci(r.Count)
		if errors.Is(err, numeric.ErrOverflow) {
			return nil, domain.NewValidationError("%sfibonacci: Number must be less than or equal to %d",
				domain.MsgInvalidFormat, numeric.MaxFibonacciTerms)
		}
		if err != nil {
			return nil, err
		}
		return seq, nil

	case domain.PrimeRequest:
		if len(r.Values) == 0 {
			return nil, domain.NewValidationError("Prime array requires at least one value")
		}
		return numeric.FilterPrimes(r.Values), nil

	case domain.LCMRequest:
		if len(r.Values) == 0 {
			return nil, domain.NewValidationError("LCM array requires at least one value")
		}
		lcm, err := numeric.LCM(r.Values)
		if errors.Is(err, numeric.ErrOverflow) {
			return nil, domain.NewValidationError("LCM result overflows 64-bit integer")
		}
		if err != nil {
			return nil, err
		}
		return lcm, nil

	case domain.HCFRequest:
		if len(r.Values) == 0 {
			return nil, domain.NewValidationError("HCF array requires at least one value")
		}
		return numeric.HCF(r.Values), nil

	case domain.AskRequest:
		return d.ask(ctx, r.Question), nil
	}

	return nil, domain.NewValidationError("Unknown operation")
}

// ask queries the answering service and reduces the reply to one word. Failures are
// logged and replaced by the fallback word; the caller never sees them.
func (d *Dispatcher) ask(ctx context.Context, question string) string {
	if d.answers == nil {
		log.Warnln("[bfhl] No answer service wired, using fallback answer")
		return domain.FallbackAnswer
	}

	if d.answerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.answerTimeout)
		defer cancel()
	}

	text, err := d.answers.Ask(ctx, question)
	if err != nil {
		log.WithError(err).Warnln("[bfhl] Answer service failed, using fallback answer")
		return domain.FallbackAnswer
	}
	return NormalizeAnswer(text)
}

// NormalizeAnswer keeps the first whitespace-delimited token of text with surrounding
// punctuation removed, or the fallback word if nothing is left.
func NormalizeAnswer(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return domain.FallbackAnswer
	}
	word := strings.Trim(fields[0], answerPunctuation)
	if word == "" {
		return domain.FallbackAnswer
	}
	return word
}
