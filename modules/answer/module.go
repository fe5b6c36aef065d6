package answer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/example/bfhl-api/logging"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

var log = logging.GetLogger()

// errEmptyQuestion is returned for a blank question.
var errEmptyQuestion = errors.New("question is required")

// AnswerModule provides the answering service via RequestReplyService.
type AnswerModule struct {
	apiKey    string
	model     string
	generator Generator
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*AnswerModule)(nil)
	_ mono.ServiceProviderModule = (*AnswerModule)(nil)
	_ mono.HealthCheckableModule = (*AnswerModule)(nil)
)

// NewModule creates an AnswerModule that builds a Gemini generator on Start.
func NewModule(apiKey, model string) *AnswerModule {
	return &AnswerModule{
		apiKey: apiKey,
		model:  model,
	}
}

// NewModuleWithGenerator creates an AnswerModule around an existing generator.
func NewModuleWithGenerator(g Generator) *AnswerModule {
	return &AnswerModule{generator: g}
}

// Name returns the module name.
func (m *AnswerModule) Name() string {
	return "answer"
}

// RegisterServices registers request-reply services in the service container.
func (m *AnswerModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "ask", json.Unmarshal, json.Marshal, m.handleAsk,
	); err != nil {
		return fmt.Errorf("failed to register ask service: %w", err)
	}

	log.Infof("[answer] Registered services: services.answer.ask")
	return nil
}

// Start creates the Gemini generator unless one was injected. A missing API key is
// not fatal: every ask fails with ErrNotConfigured and callers fall back.
func (m *AnswerModule) Start(ctx context.Context) error {
	if m.generator != nil {
		log.Infoln("[answer] Module started")
		return nil
	}

	g, err := NewGeminiGenerator(ctx, m.apiKey, m.model)
	switch {
	case errors.Is(err, ErrNotConfigured):
		log.Warnln("[answer] No Gemini API key configured, answers will fall back")
	case err != nil:
		return err
	default:
		m.generator = g
		log.Infof("[answer] Module started (model: %s)", g.Model())
	}
	return nil
}

// Stop stops the answer module.
func (m *AnswerModule) Stop(_ context.Context) error {
	log.Infoln("[answer] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AnswerModule) Health(_ context.Context) mono.HealthStatus {
	if m.generator == nil {
		return mono.HealthStatus{
			Healthy: true,
			Message: "degraded: no model configured",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}

// handleAsk handles the answer.ask service request.
func (m *AnswerModule) handleAsk(ctx context.Context, req AskRequest, _ *mono.Msg) (AskResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return AskResponse{}, errEmptyQuestion
	}
	if m.generator == nil {
		return AskResponse{}, ErrNotConfigured
	}

	text, err := m.generator.Generate(ctx, singleWordPrompt(question))
	if err != nil {
		return AskResponse{}, err
	}
	return AskResponse{Answer: text}, nil
}
