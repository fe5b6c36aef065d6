package answer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AnswerPort defines the interface for asking a question.
// This is the port that other modules use to access the answering service.
type AnswerPort interface {
	Ask(ctx context.Context, question string) (string, error)
}

// AnswerAdapter implements AnswerPort using the service container.
type AnswerAdapter struct {
	container mono.ServiceContainer
}

// NewAnswerAdapter creates a new AnswerAdapter.
func NewAnswerAdapter(container mono.ServiceContainer) *AnswerAdapter {
	return &AnswerAdapter{
		container: container,
	}
}

// Ask sends question to the answer.ask service and returns the raw answer text.
func (a *AnswerAdapter) Ask(ctx context.Context, question string) (string, error) {
	req := AskRequest{Question: question}
	var resp AskResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"ask",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return "", fmt.Errorf("ask request failed: %w", err)
	}

	return resp.Answer, nil
}
