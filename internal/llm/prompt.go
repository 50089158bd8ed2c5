package llm

import (
	"encoding/json"
	"strings"
	"time"
)

// maxPromptPosts caps how many recent posts go into the prompt.
const maxPromptPosts = 30

const systemPrompt = `You are an expert recruiter and location analyst.
Your Goal: Identify if a Bluesky user is a "DC-area Tech Professional".

Definitions:
1. Location: DC / Northern VA / Maryland suburbs (DMV).
2. Profession: Software, Data, Security, Product, Design, DevRel, etc.

Rules:
- Be probabilistic but strict on location evidence.
- "Match" = High confidence in BOTH location AND tech.
- "Maybe" = Strong tech but unsure location, or vice versa.
- "No" = Clearly irrelevant.

Return ONLY valid JSON matching this exact structure:
{
  "score_location": number in [0,1],
  "score_tech": number in [0,1],
  "score_overall": number in [0,1],
  "label": "match" | "maybe" | "no",
  "rationale": string,
  "evidence": [string] (at most 5),
  "uncertainties": [string] (at most 3)
}

IMPORTANT:
- Base scores only on the bio and posts provided, do not invent evidence.
- Return ONLY the JSON object, no markdown, no explanation, no code blocks.`

// EvalInput is the material the model scores for one candidate.
type EvalInput struct {
	Handle string
	Bio    string
	Posts  []EvalPost
}

// EvalPost is one recent post fed into the prompt.
type EvalPost struct {
	Text      string
	CreatedAt time.Time
}

// BuildPrompt constructs the full evaluation prompt: rubric, then the
// candidate payload as JSON.
func BuildPrompt(in EvalInput) string {
	posts := in.Posts
	if len(posts) > maxPromptPosts {
		posts = posts[:maxPromptPosts]
	}

	lines := make([]string, 0, len(posts))
	for _, p := range posts {
		lines = append(lines, "- "+p.Text+" ("+p.CreatedAt.Format(time.RFC3339)+")")
	}

	payload, _ := json.Marshal(map[string]any{
		"handle":       in.Handle,
		"bio":          in.Bio,
		"recent_posts": lines,
	})

	var sb strings.Builder
	sb.WriteString(systemPrompt)
	sb.WriteString("\n\nInput:\n")
	sb.Write(payload)
	sb.WriteString("\n")
	return sb.String()
}
