package models

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"GoSpamGuard/app/utils/restclient"
)

const endpoint = "/v1/chat/completions"

// defaultTimeout is generous on purpose: classification latency is
// tolerable and the engine fails open when the call does not make it.
const defaultTimeout = 240 * time.Second

var _ Interface = &LLMClient{}

type LLMClient struct {
	restClient *restclient.RestClient
	model      string
	timeout    time.Duration
}

func NewLLMClient(baseURL, apiKey, model string) *LLMClient {
	if baseURL == "" {
		baseURL = os.Getenv("LLM_BASE_URL")
	}
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api"
	}
	headers := map[string]string{}
	if apiKey != "" {
		headers["Authorization"] = "Bearer " + apiKey
	}
	return &LLMClient{
		restClient: restclient.NewRestClient(baseURL, headers, 0),
		model:      model,
		timeout:    defaultTimeout,
	}
}

// CheckSpam asks the model to score one message. Any transport error,
// non-2xx status or unparsable verdict is reported as a single failure
// kind; the caller decides what to do with an unavailable classifier.
// The call is made exactly once, there is no retry.
func (mc *LLMClient) CheckSpam(ctx context.Context, text string) (*SpamVerdict, error) {
	// The message travels wrapped in JSON so instructions inside it are
	// harder to pass off as part of the prompt.
	wrapped, err := json.Marshal(map[string]string{"message_for_analyze": text})
	if err != nil {
		return nil, fmt.Errorf("wrap message: %w", err)
	}

	payload := requestPayload{
		Model: mc.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: string(wrapped)},
		},
		Temperature:    0.0,
		MaxTokens:      128,
		TopP:           0.1,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	ctx, cancel := context.WithTimeout(ctx, mc.timeout)
	defer cancel()

	response, status, err := mc.restClient.Post(ctx, endpoint, payload, nil)
	if err != nil {
		return nil, fmt.Errorf("classifier request: %w", err)
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("classifier HTTP %d: %s", status, string(response))
	}

	var envelope ResponseLLM
	if err = json.Unmarshal(response, &envelope); err != nil {
		return nil, fmt.Errorf("classifier envelope: %w | raw: %s", err, string(response))
	}

	content := "{}"
	if len(envelope.Choices) > 0 {
		if c := strings.TrimSpace(envelope.Choices[0].Message.Content); c != "" {
			content = c
		}
	}

	var verdict SpamVerdict
	if err = json.Unmarshal([]byte(content), &verdict); err != nil {
		return nil, fmt.Errorf("classifier verdict: %w | raw: %s", err, content)
	}
	if verdict.SpamScore > 100 {
		verdict.SpamScore = 100
	}
	if verdict.SpamScore < 0 {
		verdict.SpamScore = 0
	}
	return &verdict, nil
}
