package social

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tokenscope/memebot/core/model"
)

const scorerPrompt = `You grade the social buzz around a memecoin from recent tweets.
Reply with a JSON object only: {"vibe_score": <0-100>, "reasoning": "<one sentence>", "red_flags": ["..."]}.
High scores need organic excitement from distinct accounts; bot spam, engagement farming and copy-paste shills are red flags.`

// LLMScorer asks an OpenAI-compatible chat endpoint to grade tweet buzz.
// Callers treat a nil report or an error as zero social contribution.
type LLMScorer struct {
	http  *resty.Client
	model string
}

func NewLLMScorer(baseURL, apiKey, modelName string, timeout time.Duration) *LLMScorer {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")
	return &LLMScorer{http: client, model: modelName}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (s *LLMScorer) ScoreSocial(ctx context.Context, tok *model.TokenSnapshot, tweets []model.Tweet) (*model.SocialReport, error) {
	if len(tweets) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Token: %s (%s)\n\nTweets:\n", tok.Name, tok.Symbol)
	for _, t := range tweets {
		fmt.Fprintf(&sb, "- [%d likes] %s\n", t.Likes, t.Text)
	}

	req := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: scorerPrompt},
			{Role: "user", Content: sb.String()},
		},
	}

	var out chatResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(&req).
		SetResult(&out).
		Post("/v1/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("llm request failed, %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("llm request failed, %s", resp.Status())
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("llm returned no choices")
	}

	report, err := parseReport(out.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// parseReport tolerates code fences and leading prose around the JSON body.
func parseReport(content string) (*model.SocialReport, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in llm reply")
	}

	var raw struct {
		VibeScore int      `json:"vibe_score"`
		Reasoning string   `json:"reasoning"`
		RedFlags  []string `json:"red_flags"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("parse llm reply failed, %v", err)
	}

	if raw.VibeScore < 0 {
		raw.VibeScore = 0
	}
	if raw.VibeScore > 100 {
		raw.VibeScore = 100
	}

	return &model.SocialReport{
		VibeScore: raw.VibeScore,
		Reasoning: raw.Reasoning,
		RedFlags:  raw.RedFlags,
	}, nil
}
