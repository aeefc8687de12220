package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/zhaidewei/active-info-daily/internal/curate"
	"github.com/zhaidewei/active-info-daily/internal/model"
)

const analysisSystemPrompt = `You are an analyst for IT/AI/Web3/Power-Trading opportunities. ` +
	`Return strict JSON with keys: overview, breakthroughs, investment_signals, ` +
	`overlooked_trends, watchlist. Each list item must be concise Chinese bullet text. ` +
	`Only keep positive, optimistic, incremental and innovative signals. ` +
	`Exclude negative/risk-heavy items.`

const scoringSystemPrompt = `You are a relevance rater for a daily signal shortlist. ` +
	`For every candidate item decide whether it is worth surfacing and rate it. ` +
	`Output as JSON only, no other text: ` +
	`{"verdicts":[{"id":1,"score":8.5,"keep":true}]}. ` +
	`score is 0-10; keep=false means the item should be discarded entirely. ` +
	`Return a verdict for every candidate id you were given.`

type OpenAIClient struct {
	client    *openai.Client
	model     openai.ChatModel
	modelName string
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		client:    &client,
		model:     openai.ChatModelGPT4oMini,
		modelName: "gpt-4o-mini",
	}
}

func (c *OpenAIClient) Analyze(ctx context.Context, dateKey string, items []model.SignalItem) (model.AnalysisResult, error) {
	userPayload := map[string]any{
		"date": dateKey,
		"goal": []string{
			"1) 已发生且可验证的正向事实/新闻（重大突破或积极进展）",
			"2) 可能的趋势与机会（乐观、有增量、有创新，尤其是现有元素重组）",
			"3) 不输出负面或高风险主导叙事",
		},
		"items": buildAnalysisItems(items),
	}
	userPrompt, err := json.Marshal(userPayload)
	if err != nil {
		return model.AnalysisResult{}, err
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(analysisSystemPrompt),
			openai.UserMessage(string(userPrompt)),
		},
	})
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return model.AnalysisResult{}, fmt.Errorf("no response from openai")
	}

	return parseAnalysis(resp.Choices[0].Message.Content, items)
}

// ScoreItems implements curate.ExternalScorer.
func (c *OpenAIClient) ScoreItems(ctx context.Context, candidates []curate.ScoreCandidate) ([]curate.ScoreVerdict, error) {
	userPrompt, err := json.Marshal(map[string]any{"candidates": candidates})
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(scoringSystemPrompt),
			openai.UserMessage(string(userPrompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	content := cleanJSONResponse(resp.Choices[0].Message.Content)
	var parsed struct {
		Verdicts []struct {
			ID    int     `json:"id"`
			Score float64 `json:"score"`
			Keep  bool    `json:"keep"`
		} `json:"verdicts"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse scoring response: %w, content: %s", err, content)
	}
	if len(parsed.Verdicts) == 0 {
		return nil, fmt.Errorf("empty scoring response")
	}

	verdicts := make([]curate.ScoreVerdict, len(parsed.Verdicts))
	for i, v := range parsed.Verdicts {
		verdicts[i] = curate.ScoreVerdict{ID: v.ID, Score: v.Score, Keep: v.Keep}
	}
	return verdicts, nil
}
