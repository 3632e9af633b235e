package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Classifier scores text chunks for phishing probability using OpenAI.
// The underlying client is safe for concurrent use.
type Classifier struct {
	client       *openai.Client
	modelName    string
	maxTokens    int
	temperature  float32
	topP         float32
	logger       *zap.Logger
	promptFormat string
}

// chunkScoreResponse represents the structured response from the model
type chunkScoreResponse struct {
	Probability float64 `json:"probability"`
	Explanation string  `json:"explanation"`
}

// NewClassifier creates a new OpenAI chunk classifier
func NewClassifier(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) (*Classifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	client := openai.NewClient(apiKey)

	return &Classifier{
		client:      client,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
		promptFormat: `You are a phishing detection model. Estimate the probability that the
following email text fragment is part of a phishing message.
Respond with a JSON object containing:
- probability: number between 0 and 1 (higher means more likely phishing)
- explanation: string (one short sentence)

Text:
%s

Respond only with the JSON object and nothing else.`,
	}, nil
}

// ModelID returns the configured model name
func (c *Classifier) ModelID() string {
	return c.modelName
}

// ScoreChunk returns the phishing probability for a single text chunk
func (c *Classifier) ScoreChunk(ctx context.Context, chunk string) (float64, error) {
	prompt := fmt.Sprintf(c.promptFormat, chunk)

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a phishing detection model. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}

	responseFormat := openai.ChatCompletionResponseFormat{
		Type: "json",
	}
	req.ResponseFormat = &responseFormat

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return 0, fmt.Errorf("empty response from OpenAI")
	}

	parsed, err := parseChunkScoreResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return 0, err
	}

	return clampProbability(parsed.Probability), nil
}

// parseChunkScoreResponse parses the model's JSON reply, tolerating
// surrounding prose by extracting the outermost brace pair.
func parseChunkScoreResponse(responseText string) (*chunkScoreResponse, error) {
	var parsed chunkScoreResponse
	if err := json.Unmarshal([]byte(responseText), &parsed); err == nil {
		return &parsed, nil
	}

	jsonStart := -1
	jsonEnd := -1
	for i := 0; i < len(responseText); i++ {
		if responseText[i] == '{' {
			jsonStart = i
			break
		}
	}
	for i := len(responseText) - 1; i >= 0; i-- {
		if responseText[i] == '}' {
			jsonEnd = i + 1
			break
		}
	}

	if jsonStart < 0 || jsonEnd <= jsonStart {
		return nil, fmt.Errorf("failed to extract JSON from model response")
	}

	if err := json.Unmarshal([]byte(responseText[jsonStart:jsonEnd]), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse model response as JSON: %w", err)
	}
	return &parsed, nil
}

func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
