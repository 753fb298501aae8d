package analysis

import "strings"

const promptHeader = `You are a meeting analysis assistant. Analyze this transcript and extract key information.

Meeting Transcript:
`

const promptSchema = `

CRITICAL: Return ONLY valid JSON. No markdown, no explanations, no code blocks. Just the JSON object.

Required JSON structure:
{
    "summary": "2-3 sentence summary here",
    "participants": ["Name1", "Name2"],
    "decisions": [
        "Decision 1 text here",
        "Decision 2 text here"
    ],
    "actionItems": [
        {"description": "Task text here", "owner": "Name", "dueDate": "Friday"}
    ],
    "discussionPoints": [
        "Discussion point 1",
        "Discussion point 2"
    ]
}

Rules:
- Each array item must be a SEPARATE string, not concatenated
- Extract the major decisions that were made
- Extract action items with owner and due date; omit owner or dueDate when not stated
- Keep each item to 1-2 sentences maximum
- List all participant names
- Return ONLY the JSON object, nothing else`

const (
	// charsPerToken is the rough byte-per-token estimate used for the
	// context budget. Deliberately conservative for English prose.
	charsPerToken = 4
	// replyHeadroom reserves tokens for the model's reply.
	replyHeadroom = 1024
	// minTranscriptTokens keeps the budget sane when callers pass tiny
	// or nonsense context windows.
	minTranscriptTokens = 256
	// defaultContextWindow applies when the caller left it zero.
	defaultContextWindow = 4096
)

// BuildPrompt renders the analysis instruction for a transcript.
// Identical transcript and config always yield identical output.
// Transcripts that would overflow the context window are truncated at a
// word boundary, reserving headroom for the instruction text and the
// expected reply.
func BuildPrompt(transcript string, cfg InferenceConfig) AnalysisPrompt {
	budget := transcriptBudget(cfg.ContextWindow)
	return AnalysisPrompt{
		Text:   promptHeader + truncateAtWord(transcript, budget) + promptSchema,
		Config: cfg,
	}
}

// transcriptBudget converts the token window into a transcript byte
// budget after subtracting the instruction text and reply headroom.
func transcriptBudget(contextWindow int) int {
	if contextWindow <= 0 {
		contextWindow = defaultContextWindow
	}
	budget := contextWindow - replyHeadroom - estimateTokens(promptHeader+promptSchema)
	if budget < minTranscriptTokens {
		budget = minTranscriptTokens
	}
	return budget * charsPerToken
}

func estimateTokens(s string) int {
	return (len(s) + charsPerToken - 1) / charsPerToken
}

// truncateAtWord cuts s to at most max bytes, backing up to the last
// whitespace so no word is split.
func truncateAtWord(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if idx := strings.LastIndexAny(cut, " \t\n"); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " \t\n")
}
