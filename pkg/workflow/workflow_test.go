package workflow

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"mailfloww-be/pkg/llm"
	"mailfloww-be/pkg/retrieval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// fakeIndex returns canned matches or a canned error.
type fakeIndex struct {
	matches []retrieval.Match
	err     error
	queries int
}

func (f *fakeIndex) Query(ctx context.Context, text string, topK int) ([]retrieval.Match, error) {
	f.queries++
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

func (f *fakeIndex) Count(ctx context.Context) (int64, error) {
	return int64(len(f.matches)), nil
}

// fakeLLM routes by prompt content: scoring prompts get scoreReply, feedback
// prompts get feedbackReply, everything else gets draftReply.
type fakeLLM struct {
	draftReply    string
	feedbackReply string
	scoreReply    string

	draftErr    error
	feedbackErr error
	scoreErr    error

	draftCalls int
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	switch {
	case strings.Contains(prompt, "Respond with ONLY a number"):
		if f.scoreErr != nil {
			return "", f.scoreErr
		}
		return f.scoreReply, nil
	case strings.Contains(prompt, "quality assurance specialist"):
		if f.feedbackErr != nil {
			return "", f.feedbackErr
		}
		return f.feedbackReply, nil
	default:
		f.draftCalls++
		if f.draftErr != nil {
			return "", f.draftErr
		}
		return f.draftReply, nil
	}
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if len(history) == 0 {
		return "", errors.New("empty history")
	}
	return f.Generate(ctx, history[len(history)-1].Content, opts...)
}

func emailMatch(sender, content string) retrieval.Match {
	return retrieval.Match{
		Content:    content,
		Metadata:   map[string]interface{}{"sender_info": sender},
		Similarity: 0.8,
	}
}

func newTestController(emailIdx, docIdx retrieval.Index, provider llm.Provider) *Controller {
	logger := testLogger()
	return NewController(
		NewContextAssembler(emailIdx, docIdx, logger),
		NewDrafter(provider, logger),
		NewCritic(provider, logger),
		logger,
	)
}

// --- ContextAssembler ---

func TestAssemblePrivacyPartition(t *testing.T) {
	emailIdx := &fakeIndex{matches: []retrieval.Match{
		emailMatch("alice@example.com", "My NexusBook screen is cracked"),
		emailMatch("bob@example.com", "order #12345, serial XYZ"),
	}}
	docIdx := &fakeIndex{matches: []retrieval.Match{
		{Content: "Screen repairs are covered for 1 year.", Metadata: map[string]interface{}{}},
	}}

	s := newState(Input{EmailContent: "any updates on my laptop?", SenderInfo: "alice@example.com"})
	NewContextAssembler(emailIdx, docIdx, testLogger()).Assemble(context.Background(), s)

	assert.Contains(t, s.PersonalContext, "My NexusBook screen is cracked")
	assert.NotContains(t, s.PersonalContext, "#12345")

	assert.Contains(t, s.BusinessContext, "order #12345, serial XYZ")
	assert.NotContains(t, s.BusinessContext, "NexusBook screen is cracked")
	assert.Contains(t, s.BusinessContext, "Business context:")

	assert.Contains(t, s.DocContext, "Screen repairs are covered for 1 year.")
}

func TestAssemblePlaceholdersWhenEmpty(t *testing.T) {
	s := newState(Input{EmailContent: "hello", SenderInfo: "a@x.com"})
	NewContextAssembler(&fakeIndex{}, &fakeIndex{}, testLogger()).Assemble(context.Background(), s)

	assert.Equal(t, noPersonalContextPlaceholder, s.PersonalContext)
	assert.Equal(t, noBusinessContextPlaceholder, s.BusinessContext)
	assert.Equal(t, noDocContextPlaceholder, s.DocContext)
}

func TestAssembleSurvivesIndexFailure(t *testing.T) {
	emailIdx := &fakeIndex{err: errors.New("index down")}
	docIdx := &fakeIndex{matches: []retrieval.Match{{Content: "policy", Metadata: map[string]interface{}{}}}}

	s := newState(Input{EmailContent: "hello", SenderInfo: "a@x.com"})
	NewContextAssembler(emailIdx, docIdx, testLogger()).Assemble(context.Background(), s)

	assert.Empty(t, s.RetrievedEmails)
	assert.Equal(t, personalContextError, s.PersonalContext)
	assert.Equal(t, businessContextError, s.BusinessContext)
	assert.Contains(t, s.DocContext, "policy")

	foundAudit := false
	for _, entry := range s.AuditLog {
		if strings.Contains(entry, "Retrieval error") {
			foundAudit = true
		}
	}
	assert.True(t, foundAudit, "index failure must be audited")
}

// --- Drafter ---

func TestDraftFallbackOnProviderFailure(t *testing.T) {
	provider := &fakeLLM{draftErr: llm.NewCompletionError("groq", errors.New("unreachable"))}
	s := newState(Input{EmailContent: "help", SenderInfo: "a@x.com"})
	s.PersonalContext = noPersonalContextPlaceholder
	s.BusinessContext = noBusinessContextPlaceholder
	s.DocContext = noDocContextPlaceholder

	NewDrafter(provider, testLogger()).Draft(context.Background(), s)

	assert.Equal(t, FallbackReply, s.DraftReply)
	assert.Equal(t, true, s.GenerationMetadata["fallback"])
	assert.NotEmpty(t, s.GenerationMetadata["error"])
}

func TestDraftPromptContainsAllSections(t *testing.T) {
	s := newState(Input{EmailContent: "where is my order?", SenderInfo: "a@x.com"})
	s.PersonalContext = "PERSONAL-BLOCK"
	s.BusinessContext = "BUSINESS-BLOCK"
	s.DocContext = "DOC-BLOCK"

	prompt := NewDrafter(&fakeLLM{}, testLogger()).buildPrompt(s)

	assert.Contains(t, prompt, "where is my order?")
	assert.Contains(t, prompt, "PERSONAL-BLOCK")
	assert.Contains(t, prompt, "BUSINESS-BLOCK")
	assert.Contains(t, prompt, "DOC-BLOCK")
	assert.Contains(t, prompt, "NEVER reveal personal data")
}

// --- Critic ---

func TestParseScore(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{name: "plain", raw: "0.85", want: 0.85},
		{name: "whitespace", raw: "  0.6\n", want: 0.6},
		{name: "above range clamped", raw: "1.8", want: 1.0},
		{name: "negative clamped", raw: "-0.4", want: 0.0},
		{name: "non numeric", raw: "great reply!", want: defaultCritiqueScore},
		{name: "empty", raw: "", want: defaultCritiqueScore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseScore(tt.raw); got != tt.want {
				t.Errorf("parseScore(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestExtractSuggestions(t *testing.T) {
	feedback := "Good reply overall.\nYou could improve the greeting.\nA better closing would help.\nTone is fine."
	suggestions := extractSuggestions(feedback)

	require.Len(t, suggestions, 2)
	assert.Contains(t, suggestions[0], "improve the greeting")
	assert.Contains(t, suggestions[1], "better closing")
}

func TestExtractSuggestionsNone(t *testing.T) {
	assert.Empty(t, extractSuggestions("Excellent reply, nothing to add."))
}

func TestCritiqueScoringFailureDefaultsScore(t *testing.T) {
	provider := &fakeLLM{
		feedbackReply: "Solid reply.",
		scoreErr:      errors.New("rate limited"),
	}
	s := newState(Input{EmailContent: "hi", SenderInfo: "a@x.com"})
	s.DraftReply = "draft"

	err := NewCritic(provider, testLogger()).Critique(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, defaultCritiqueScore, s.CritiqueScore)
	assert.Equal(t, "Solid reply.", s.CritiqueFeedback)
}

// --- Controller ---

func TestRunAcceptedFirstRound(t *testing.T) {
	provider := &fakeLLM{
		draftReply:    "Hello Alice, your repair is on its way.",
		feedbackReply: "Good reply.",
		scoreReply:    "0.9",
	}
	ctrl := newTestController(&fakeIndex{}, &fakeIndex{}, provider)

	s, err := ctrl.Run(context.Background(), Input{EmailContent: "status?", SenderInfo: "alice@example.com"})
	require.NoError(t, err)

	assert.Equal(t, 1, s.IterationCount)
	assert.True(t, s.Accepted)
	assert.Equal(t, "Hello Alice, your repair is on its way.", s.FinalReply)
	assert.Equal(t, 0.9, s.CritiqueScore)
}

func TestRunSoftCapForcesAcceptance(t *testing.T) {
	// Critic never approves; the soft cap accepts the round-two draft anyway.
	provider := &fakeLLM{
		draftReply:    "draft text",
		feedbackReply: "Needs work, could improve a lot.",
		scoreReply:    "0.3",
	}
	ctrl := newTestController(&fakeIndex{}, &fakeIndex{}, provider)

	s, err := ctrl.Run(context.Background(), Input{EmailContent: "hi", SenderInfo: "a@x.com"})
	require.NoError(t, err)

	assert.Equal(t, 2, s.IterationCount)
	assert.True(t, s.Accepted)
	assert.Equal(t, "draft text", s.FinalReply)
	assert.Equal(t, 2, provider.draftCalls)
}

func TestRunTerminatesWithinHardCap(t *testing.T) {
	provider := &fakeLLM{
		draftReply:    "draft",
		feedbackReply: "meh",
		scoreReply:    "0.0",
	}
	ctrl := newTestController(&fakeIndex{}, &fakeIndex{}, provider)

	s, err := ctrl.Run(context.Background(), Input{EmailContent: "hi", SenderInfo: "a@x.com"})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, s.IterationCount, 1)
	assert.LessOrEqual(t, s.IterationCount, hardIterationCap)
	assert.NotEmpty(t, s.FinalReply)
}

func TestHardCapOverridesRejection(t *testing.T) {
	// Drive the conditional edge directly: at the hard cap, rejection no
	// longer loops back.
	ctrl := newTestController(&fakeIndex{}, &fakeIndex{}, &fakeLLM{})
	s := newState(Input{EmailContent: "hi", SenderInfo: "a@x.com"})
	s.IterationCount = hardIterationCap
	s.Accepted = false
	s.CritiqueScore = 0.1

	assert.Equal(t, StageFinalizing, ctrl.nextAfterCritique(s))
}

func TestRunCriticFailureAcceptsByDefault(t *testing.T) {
	provider := &fakeLLM{
		draftReply:  "draft text",
		feedbackErr: errors.New("provider down"),
	}
	ctrl := newTestController(&fakeIndex{}, &fakeIndex{}, provider)

	s, err := ctrl.Run(context.Background(), Input{EmailContent: "hi", SenderInfo: "a@x.com"})
	require.NoError(t, err)

	assert.Equal(t, 1, s.IterationCount)
	assert.True(t, s.Accepted)
	assert.Equal(t, "draft text", s.FinalReply)
	assert.Equal(t, defaultCritiqueScore, s.CritiqueScore)
	assert.Contains(t, s.CritiqueFeedback, "Error in critique")
}

func TestRunDraftFailureStillCompletes(t *testing.T) {
	provider := &fakeLLM{
		draftErr:      llm.NewCompletionError("groq", errors.New("unreachable")),
		feedbackReply: "Fallback is fine.",
		scoreReply:    "0.8",
	}
	ctrl := newTestController(&fakeIndex{}, &fakeIndex{}, provider)

	s, err := ctrl.Run(context.Background(), Input{EmailContent: "hi", SenderInfo: "a@x.com"})
	require.NoError(t, err)

	assert.Equal(t, FallbackReply, s.FinalReply)
	assert.Equal(t, true, s.GenerationMetadata["fallback"])
}

func TestRunAuditLogGrowsMonotonically(t *testing.T) {
	provider := &fakeLLM{
		draftReply:    "draft",
		feedbackReply: "fine",
		scoreReply:    "0.9",
	}
	ctrl := newTestController(&fakeIndex{}, &fakeIndex{}, provider)

	s, err := ctrl.Run(context.Background(), Input{EmailContent: "hi", SenderInfo: "a@x.com"})
	require.NoError(t, err)

	require.NotEmpty(t, s.AuditLog)
	assert.Equal(t, "Workflow started", s.AuditLog[0])

	joined := strings.Join(s.AuditLog, "\n")
	assert.Contains(t, joined, "Retrieved")
	assert.Contains(t, joined, "LLM response generated")
	assert.Contains(t, joined, "approved")
	assert.Contains(t, joined, "Workflow completed")
}

func TestRunRetrievalHappensOncePerRequest(t *testing.T) {
	emailIdx := &fakeIndex{}
	docIdx := &fakeIndex{}
	provider := &fakeLLM{
		draftReply:    "draft",
		feedbackReply: "could improve",
		scoreReply:    "0.2", // forces a second round before the soft cap
	}
	ctrl := newTestController(emailIdx, docIdx, provider)

	_, err := ctrl.Run(context.Background(), Input{EmailContent: "hi", SenderInfo: "a@x.com"})
	require.NoError(t, err)

	assert.Equal(t, 1, emailIdx.queries)
	assert.Equal(t, 1, docIdx.queries)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ctrl := newTestController(&fakeIndex{}, &fakeIndex{}, &fakeLLM{})
	s, err := ctrl.Run(ctx, Input{EmailContent: "hi", SenderInfo: "a@x.com"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.FinalReply)
}
