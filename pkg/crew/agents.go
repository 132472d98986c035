package crew

import (
	"fmt"
	"strings"
)

// Agent is a declarative description of one crew member. Execution is
// handled by the Crew; the agent itself is plain data.
type Agent struct {
	Role      string
	Goal      string
	Backstory string
}

// Task is a unit of work assigned to an agent. PrevOutput of the preceding
// task is appended to the prompt when tasks run sequentially.
type Task struct {
	Description    string
	ExpectedOutput string
	Agent          Agent
}

// SystemPrompt renders the agent persona used as the system message.
func (a Agent) SystemPrompt() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are a %s.\n", a.Role))
	sb.WriteString(a.Backstory)
	sb.WriteString("\n\nYour goal: ")
	sb.WriteString(a.Goal)
	return sb.String()
}

// NewResearcher returns the Senior Data Researcher agent definition.
func NewResearcher() Agent {
	return Agent{
		Role: "Senior Data Researcher",
		Goal: "Conduct comprehensive research on the given topic and provide accurate, " +
			"up-to-date information with proper citations",
		Backstory: "You are an experienced data researcher with expertise in gathering, " +
			"analyzing, and synthesizing information from various sources. You have " +
			"a strong background in academic research, data analysis, and fact-checking. " +
			"You are meticulous and thorough in your approach, always ensuring that " +
			"your research is accurate and well-documented.",
	}
}

// NewAnalyst returns the Reporting Analyst agent definition.
func NewAnalyst() Agent {
	return Agent{
		Role: "Reporting Analyst",
		Goal: "Create comprehensive, well-structured reports based on research findings " +
			"that are clear, insightful, and actionable",
		Backstory: "You are an expert reporting analyst with a talent for transforming " +
			"complex research data into clear, compelling reports. You have " +
			"exceptional skills in data visualization, narrative structure, and " +
			"communication. You excel at identifying key insights and presenting " +
			"them in a way that is accessible to various audiences while maintaining " +
			"accuracy and depth.",
	}
}

// NewResearchTask builds the research task for a topic.
func NewResearchTask(researcher Agent, topic string) Task {
	return Task{
		Agent: researcher,
		Description: fmt.Sprintf(`Research the topic: %q thoroughly.

Your task is to:
1. Gather comprehensive information on the topic
2. Identify key facts, trends, and insights
3. Find relevant statistics and data points
4. Analyze the current state and historical context
5. Identify credible sources and references
6. Organize your findings in a structured format
7. Provide a summary of the most important discoveries

Your research should be thorough, accurate, and properly cited.
The output will be used by the Reporting Analyst to create a comprehensive report.`, topic),
		ExpectedOutput: `A comprehensive research document with the following sections:
1. Executive Summary
2. Key Findings
3. Detailed Analysis
4. Data Points and Statistics
5. Trends and Patterns
6. References and Citations`,
	}
}

// NewReportTask builds the report-writing task. The formatting contract is
// strict so the parser downstream can segment the output reliably.
func NewReportTask(analyst Agent, topic string) Task {
	return Task{
		Agent: analyst,
		Description: fmt.Sprintf(`Create a comprehensive markdown report on %q based on the research
findings provided below.

FORMATTING RULES - FOLLOW EXACTLY:
1. Start with the title line: # Research Report: %s
2. Follow with the date line: *Generated on: YYYY-MM-DD HH:MM:SS*
3. Use "## " (double hash) for every main section header
4. Use "### " (triple hash) for every subsection, including individual references
5. NEVER use "**Section Title:**" or numbered formats like "1. Section Title:"
6. NEVER use bullet points with "- **Title:**" format

Your report MUST include these sections in this order:
Executive Summary, Introduction, Methodology, Key Findings and Insights,
Detailed Analysis, Data Visualization Suggestions, Implications,
Recommendations, Conclusion, References.`, topic, topic),
		ExpectedOutput: `A comprehensive, well-structured markdown report with ## sections and
### subsections, ending with a References section where each reference is
its own ### subsection.`,
	}
}
