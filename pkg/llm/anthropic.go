package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/zhaidewei/active-info-daily/internal/model"
)

type AnthropicClient struct {
	client    *anthropic.Client
	model     anthropic.Model
	modelName string
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicClient{
		client:    &client,
		model:     anthropic.Model("claude-haiku-4-5"),
		modelName: "claude-4.5-haiku",
	}
}

func (c *AnthropicClient) Analyze(ctx context.Context, dateKey string, items []model.SignalItem) (model.AnalysisResult, error) {
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

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{
			{Text: analysisSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(string(userPrompt))),
		},
	})
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("anthropic API error: %w", err)
	}
	if len(resp.Content) == 0 {
		return model.AnalysisResult{}, fmt.Errorf("no response from anthropic")
	}

	return parseAnalysis(resp.Content[0].Text, items)
}
