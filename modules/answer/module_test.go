package answer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-monolith/mono"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator implements Generator for testing.
type fakeGenerator struct {
	text       string
	err        error
	lastPrompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.text, f.err
}

func TestSingleWordPrompt(t *testing.T) {
	prompt := singleWordPrompt("What color is the sky")

	assert.True(t, strings.HasPrefix(prompt, "Answer the following question with a SINGLE WORD only."))
	assert.Contains(t, prompt, "Question: What color is the sky")
	assert.True(t, strings.HasSuffix(prompt, "Answer:"))
}

func TestNewGeminiGenerator_RequiresKey(t *testing.T) {
	g, err := NewGeminiGenerator(context.Background(), "", "")
	assert.Nil(t, g)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestHandleAsk(t *testing.T) {
	tests := []struct {
		name      string
		generator *fakeGenerator
		question  string
		want      string
		wantErr   error
	}{
		{
			name:      "returns generator text",
			generator: &fakeGenerator{text: "Blue."},
			question:  "What color is the sky",
			want:      "Blue.",
		},
		{
			name:      "propagates generator error",
			generator: &fakeGenerator{err: ErrEmptyAnswer},
			question:  "Anything",
			wantErr:   ErrEmptyAnswer,
		},
		{
			name:      "rejects blank question",
			generator: &fakeGenerator{text: "unused"},
			question:  "   ",
			wantErr:   errEmptyQuestion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModuleWithGenerator(tt.generator)

			resp, err := m.handleAsk(context.Background(), AskRequest{Question: tt.question}, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Answer)
			assert.Contains(t, tt.generator.lastPrompt, tt.question)
		})
	}
}

func TestHandleAsk_NotConfigured(t *testing.T) {
	m := NewModule("", "")
	require.NoError(t, m.Start(context.Background()))

	_, err := m.handleAsk(context.Background(), AskRequest{Question: "Why"}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	health := m.Health(context.Background())
	assert.True(t, health.Healthy)
	assert.Contains(t, health.Message, "degraded")
}

// askConsumer is a dependent module that captures the answer service container.
type askConsumer struct {
	container mono.ServiceContainer
}

func (c *askConsumer) Name() string                  { return "ask-consumer" }
func (c *askConsumer) Start(_ context.Context) error { return nil }
func (c *askConsumer) Stop(_ context.Context) error  { return nil }
func (c *askConsumer) Dependencies() []string        { return []string{"answer"} }
func (c *askConsumer) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "answer" {
		c.container = container
	}
}

func TestAnswerAdapter_RoundTrip(t *testing.T) {
	app, err := mono.NewMonoApplication(
		mono.WithLogLevel(mono.LogLevelError),
	)
	require.NoError(t, err)

	generator := &fakeGenerator{text: "Blue"}
	consumer := &askConsumer{}
	require.NoError(t, app.Register(NewModuleWithGenerator(generator)))
	require.NoError(t, app.Register(consumer))

	require.NoError(t, app.Start(context.Background()))
	t.Cleanup(func() {
		_ = app.Stop(context.Background())
	})
	require.NotNil(t, consumer.container)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	adapter := NewAnswerAdapter(consumer.container)
	got, err := adapter.Ask(ctx, "What color is the sky")
	require.NoError(t, err)
	assert.Equal(t, "Blue", got)

	generator.err = errors.New("upstream unavailable")
	_, err = adapter.Ask(ctx, "What color is the sky")
	assert.Error(t, err)
}
