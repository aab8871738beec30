package workflow

import (
	"context"
	"fmt"
	"log"
	"strings"

	"mailfloww-be/pkg/llm"
)

const (
	draftTemperature = 0.7
	draftMaxTokens   = 500
)

// FallbackReply is returned when the completion provider is unavailable, so
// the workflow always has reply text to critique or return.
const FallbackReply = `Dear Customer,

Thank you for contacting NEXUS Support.

We've received your inquiry and our team will respond with a detailed solution within 24 hours.

For immediate assistance:
- Phone: 1800-2809-5533
- Live Chat: nexustech.com/support

Best regards,
NEXUS Support Team
support@nexustech.com`

// Drafter generates one reply draft from the email plus the three context
// blocks assembled earlier.
type Drafter struct {
	llmProvider llm.Provider
	logger      *log.Logger
}

func NewDrafter(llmProvider llm.Provider, logger *log.Logger) *Drafter {
	return &Drafter{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Draft fills the generation section of the state. Provider failures degrade
// to the fixed fallback reply with the error recorded in metadata; Draft
// itself never fails the run.
func (d *Drafter) Draft(ctx context.Context, s *State) {
	prompt := d.buildPrompt(s)

	response, err := d.llmProvider.Generate(ctx, prompt,
		llm.WithTemperature(draftTemperature),
		llm.WithMaxTokens(draftMaxTokens),
	)
	if err != nil {
		d.logger.Printf("[ERROR] Draft generation failed: %v", err)
		s.appendLog(fmt.Sprintf("Generation error: %v", err))
		s.DraftReply = FallbackReply
		s.GenerationMetadata = map[string]interface{}{"error": err.Error(), "fallback": true}
		return
	}

	s.DraftReply = response
	s.GenerationMetadata = map[string]interface{}{
		"temperature":     draftTemperature,
		"max_tokens":      draftMaxTokens,
		"prompt_length":   len(prompt),
		"response_length": len(response),
	}
	s.appendLog("LLM response generated successfully")
}

func (d *Drafter) buildPrompt(s *State) string {
	var prompt strings.Builder

	prompt.WriteString("You are a professional customer support representative for NEXUS, a technology company that makes laptops (NexusBook) and tablets (NexusPad).\n\n")

	prompt.WriteString("CUSTOMER EMAIL TO REPLY TO (DON'T GIVE RESPONSE ABOUT ANYTHING THAT IS NOT BEING ASKED IN CUSTOMER EMAIL, EVEN IF IT IS PRESENT IN PERSONAL CONTEXT):\n")
	prompt.WriteString(s.EmailContent)
	prompt.WriteString("\n\n")

	prompt.WriteString("PERSONAL CONTEXT (THIS CUSTOMER'S PREVIOUS EMAILS ONLY):\n")
	prompt.WriteString(s.PersonalContext)
	prompt.WriteString("\n\n")

	prompt.WriteString("BUSINESS CONTEXT (GENERAL BUSINESS INTELLIGENCE - NO PERSONAL DATA):\n")
	prompt.WriteString(s.BusinessContext)
	prompt.WriteString("\n\n")

	prompt.WriteString("COMPANY POLICY INFORMATION:\n")
	prompt.WriteString(s.DocContext)
	prompt.WriteString("\n\n")

	prompt.WriteString("Please write a professional, helpful, and contextually appropriate reply to the customer email.\n\n")

	prompt.WriteString("CRITICAL PRIVACY AND CONTEXT GUIDELINES:\n\n")
	prompt.WriteString("PERSONAL DATA PROTECTION (NEVER SHARE ACROSS CUSTOMERS):\n")
	prompt.WriteString("- Serial numbers, bill numbers, order IDs\n")
	prompt.WriteString("- Customer names, email addresses, phone numbers\n")
	prompt.WriteString("- Purchase dates, payment information\n")
	prompt.WriteString("- Device-specific details from other customers\n")
	prompt.WriteString("- Any personally identifiable information\n\n")

	prompt.WriteString("BUSINESS CONTEXT SHARING (ALLOWED ACROSS CUSTOMERS):\n")
	prompt.WriteString("- Product launch dates and announcements\n")
	prompt.WriteString("- Partnership information and collaborations\n")
	prompt.WriteString("- General product availability and restocking (You Can Include Specific Dates, Times)\n")
	prompt.WriteString("- New features, designs, or special editions\n")
	prompt.WriteString("- Company policies and procedures\n\n")

	prompt.WriteString("RULES:\n")
	prompt.WriteString("1. NEVER reveal personal data from other customers' emails\n")
	prompt.WriteString("2. DO use business intelligence from any relevant email to help current customer\n")
	prompt.WriteString("3. DO NOT create fake data or placeholder values\n")
	prompt.WriteString("4. If customer asks for their personal info, only use it if it's in THEIR previous emails\n")
	prompt.WriteString("5. Use cross-customer business context to provide better service (launch dates, partnerships, etc.)\n")
	prompt.WriteString("6. Be professional and helpful while maintaining strict privacy\n\n")

	prompt.WriteString("Write the reply as if you are a Company customer support representative:")

	return prompt.String()
}
