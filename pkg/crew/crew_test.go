package crew_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/kherington/reportcrew/pkg/crew"
)

// fakeModel replays canned responses and records the prompts it was given.
type fakeModel struct {
	responses []string
	calls     int
	prompts   []string
	err       error
}

func (m *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	if m.err != nil {
		return nil, m.err
	}

	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				m.prompts = append(m.prompts, text.Text)
			}
		}
	}

	if m.calls >= len(m.responses) {
		return &llms.ContentResponse{}, nil
	}
	resp := &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.responses[m.calls]}},
	}
	m.calls++
	return resp, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func TestKickoffRunsTasksSequentially(t *testing.T) {
	model := &fakeModel{responses: []string{
		"research findings about solar energy",
		"# Research Report: Solar Energy\n\n## Executive Summary\n\nFinal report.",
	}}

	c, err := crew.NewWithConfig(crew.CrewConfig{Model: model, Temperature: 0.7})
	require.NoError(t, err)

	result, err := c.Kickoff(context.Background(), "Solar Energy")
	require.NoError(t, err)
	assert.Contains(t, result, "# Research Report: Solar Energy")
	assert.Equal(t, 2, model.calls)

	// The analyst prompt must carry the researcher output forward.
	var foundHandoff bool
	for _, prompt := range model.prompts {
		if strings.Contains(prompt, "The research findings are as follows:") &&
			strings.Contains(prompt, "research findings about solar energy") {
			foundHandoff = true
		}
	}
	assert.True(t, foundHandoff, "analyst prompt should include researcher output")
}

func TestKickoffAbortsOnLLMError(t *testing.T) {
	model := &fakeModel{err: fmt.Errorf("connection refused")}

	c, err := crew.NewWithConfig(crew.CrewConfig{Model: model})
	require.NoError(t, err)

	_, err = c.Kickoff(context.Background(), "Solar Energy")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Senior Data Researcher")
}

func TestKickoffRejectsEmptyResponse(t *testing.T) {
	model := &fakeModel{responses: nil}

	c, err := crew.NewWithConfig(crew.CrewConfig{Model: model})
	require.NoError(t, err)

	_, err = c.Kickoff(context.Background(), "Solar Energy")
	assert.Error(t, err)
}

func TestNewWithConfigRequiresModel(t *testing.T) {
	_, err := crew.NewWithConfig(crew.CrewConfig{})
	assert.Error(t, err)
}

func TestAgentSystemPrompt(t *testing.T) {
	researcher := crew.NewResearcher()
	prompt := researcher.SystemPrompt()
	assert.Contains(t, prompt, "Senior Data Researcher")
	assert.Contains(t, prompt, "Your goal:")

	analyst := crew.NewAnalyst()
	assert.Contains(t, analyst.SystemPrompt(), "Reporting Analyst")
}
