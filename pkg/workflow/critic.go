package workflow

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"mailfloww-be/pkg/llm"
)

const (
	feedbackTemperature = 0.3
	feedbackMaxTokens   = 300
	scoringTemperature  = 0.1
	scoringMaxTokens    = 10

	// Used whenever the scoring response cannot be parsed.
	defaultCritiqueScore = 0.5
)

// Critic evaluates a draft in two completion calls: qualitative feedback
// first, then a numeric score informed by that feedback. The accept/reject
// decision belongs to the controller, not here.
type Critic struct {
	llmProvider llm.Provider
	logger      *log.Logger
}

func NewCritic(llmProvider llm.Provider, logger *log.Logger) *Critic {
	return &Critic{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Critique fills the critique section of the state. A failed scoring call
// degrades to the neutral default score; a failed feedback call is returned
// to the controller, which treats the run as accepted-by-default.
func (c *Critic) Critique(ctx context.Context, s *State) error {
	feedback, err := c.llmProvider.Generate(ctx, c.buildFeedbackPrompt(s),
		llm.WithTemperature(feedbackTemperature),
		llm.WithMaxTokens(feedbackMaxTokens),
	)
	if err != nil {
		return fmt.Errorf("critique feedback: %w", err)
	}

	score := defaultCritiqueScore
	rawScore, err := c.llmProvider.Generate(ctx, c.buildScoringPrompt(s, feedback),
		llm.WithTemperature(scoringTemperature),
		llm.WithMaxTokens(scoringMaxTokens),
	)
	if err != nil {
		c.logger.Printf("[WARN] Scoring call failed, using default score: %v", err)
		s.appendLog(fmt.Sprintf("Scoring error: %v", err))
	} else {
		score = parseScore(rawScore)
	}

	s.CritiqueFeedback = feedback
	s.CritiqueScore = score
	s.ImprovementSuggestions = extractSuggestions(feedback)

	c.logger.Printf("[CRITIQUE] score=%.2f, iteration=%d", score, s.IterationCount)
	return nil
}

func (c *Critic) buildFeedbackPrompt(s *State) string {
	var prompt strings.Builder

	prompt.WriteString("You are a quality assurance specialist for customer support. Evaluate this email reply:\n\n")

	prompt.WriteString("ORIGINAL CUSTOMER EMAIL:\n")
	prompt.WriteString(s.EmailContent)
	prompt.WriteString("\n\n")

	prompt.WriteString("GENERATED REPLY:\n")
	prompt.WriteString(s.DraftReply)
	prompt.WriteString("\n\n")

	prompt.WriteString("CONTEXT USED:\n")
	prompt.WriteString("- Personal context: " + s.PersonalContext + "\n")
	prompt.WriteString("- Business context: " + s.BusinessContext + "\n")
	prompt.WriteString("- Company policies: " + s.DocContext + "\n\n")

	prompt.WriteString("EVALUATION CRITERIA:\n")
	prompt.WriteString("1. Accuracy and relevance to customer inquiry\n")
	prompt.WriteString("2. Professional tone and language\n")
	prompt.WriteString("3. Completeness of response\n")
	prompt.WriteString("4. Privacy compliance (no cross-customer data leakage)\n")
	prompt.WriteString("5. Use of appropriate context\n")
	prompt.WriteString("6. Helpfulness and actionability\n\n")

	prompt.WriteString("Provide balanced feedback. If the response is professional and addresses the customer's needs, it should be considered good quality.\n\n")
	prompt.WriteString("Provide feedback and any improvement suggestions:")

	return prompt.String()
}

func (c *Critic) buildScoringPrompt(s *State, feedback string) string {
	var prompt strings.Builder

	prompt.WriteString("Rate this customer support email reply quality on a scale of 0.0 to 1.0.\n\n")
	prompt.WriteString("ORIGINAL EMAIL: " + s.EmailContent + "\n")
	prompt.WriteString("REPLY: " + s.DraftReply + "\n")
	prompt.WriteString("FEEDBACK: " + feedback + "\n\n")

	prompt.WriteString("LENIENT SCORING CRITERIA:\n")
	prompt.WriteString("- 0.8-1.0: Excellent response, ready to send\n")
	prompt.WriteString("- 0.6-0.79: Good response, acceptable quality\n")
	prompt.WriteString("- 0.4-0.59: Adequate response with minor issues\n")
	prompt.WriteString("- 0.2-0.39: Below average response\n")
	prompt.WriteString("- 0.0-0.19: Poor response requiring major revisions\n\n")

	prompt.WriteString("Be generous in scoring. Most professional responses should score 0.6 or higher. Consider: accuracy, professionalism, completeness, privacy compliance, helpfulness, and tone.\n")
	prompt.WriteString("Respond with ONLY a number between 0.0 and 1.0:")

	return prompt.String()
}

// parseScore turns the raw scoring response into a score in [0,1]. Anything
// unparseable falls back to the neutral default; parseable values outside the
// range are clamped.
func parseScore(raw string) float64 {
	score, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return defaultCritiqueScore
	}
	if score < 0.0 {
		return 0.0
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}

// extractSuggestions scans feedback lines for improvement-indicating keywords.
// Advisory only; an empty result is fine.
func extractSuggestions(feedback string) []string {
	lower := strings.ToLower(feedback)
	if !strings.Contains(lower, "improve") && !strings.Contains(lower, "better") {
		return nil
	}

	var suggestions []string
	for _, line := range strings.Split(feedback, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lowerLine := strings.ToLower(trimmed)
		if strings.Contains(lowerLine, "improve") || strings.Contains(lowerLine, "better") {
			suggestions = append(suggestions, trimmed)
		}
	}
	return suggestions
}
