package crew

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// CrewConfig configures a sequential crew run.
type CrewConfig struct {
	Model       llms.Model
	Temperature float64
	OnProgress  func(stage string) // optional stage callback for the CLI
}

// Crew wires agents and tasks into a sequential pipeline over one chat model.
type Crew struct {
	config CrewConfig
	tasks  []Task
}

// NewWithConfig creates a crew. Tasks are added per run via Kickoff.
func NewWithConfig(config CrewConfig) (*Crew, error) {
	if config.Model == nil {
		return nil, fmt.Errorf("crew requires a chat model")
	}
	if config.Temperature <= 0 || config.Temperature > 2 {
		config.Temperature = 0.7
	}
	return &Crew{config: config}, nil
}

// Kickoff runs the researcher and analyst tasks in sequence for the topic
// and returns the analyst's raw report text. Any LLM failure aborts the run.
func (c *Crew) Kickoff(ctx context.Context, topic string) (string, error) {
	researcher := NewResearcher()
	analyst := NewAnalyst()

	c.tasks = []Task{
		NewResearchTask(researcher, topic),
		NewReportTask(analyst, topic),
	}

	var output string
	for i, task := range c.tasks {
		if c.config.OnProgress != nil {
			c.config.OnProgress(task.Agent.Role)
		}
		logrus.Debugf("running task %d/%d (%s)", i+1, len(c.tasks), task.Agent.Role)

		result, err := c.execute(ctx, task, output)
		if err != nil {
			return "", fmt.Errorf("task %d (%s) failed: %w", i+1, task.Agent.Role, err)
		}
		output = result
	}

	if strings.TrimSpace(output) == "" {
		return "", fmt.Errorf("crew produced empty output")
	}
	return output, nil
}

// execute runs one task, feeding the previous task's output into the prompt.
func (c *Crew) execute(ctx context.Context, task Task, prevOutput string) (string, error) {
	var prompt strings.Builder
	prompt.WriteString(task.Description)
	prompt.WriteString("\n\nExpected output:\n")
	prompt.WriteString(task.ExpectedOutput)
	if prevOutput != "" {
		prompt.WriteString("\n\nThe research findings are as follows:\n")
		prompt.WriteString(prevOutput)
	}

	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, task.Agent.SystemPrompt()),
		llms.TextParts(schema.ChatMessageTypeHuman, prompt.String()),
	}

	resp, err := c.config.Model.GenerateContent(ctx, content,
		llms.WithTemperature(c.config.Temperature))
	if err != nil {
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	return resp.Choices[0].Content, nil
}
