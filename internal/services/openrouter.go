package services

import (
	"context"
	"errors"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const providerOpenRouter = "openrouter"

type openRouterService struct {
	client  *resty.Client
	timeout time.Duration
}

// NewOpenRouterService talks to an OpenAI-compatible chat completions endpoint.
func NewOpenRouterService(apiKey, baseURL string, timeout time.Duration) (TextGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("openrouter api key is empty")
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")

	return &openRouterService{
		client:  client,
		timeout: timeout,
	}, nil
}

func (s *openRouterService) Provider() string {
	return providerOpenRouter
}

// GenerateText implements TextGenerator.
func (s *openRouterService) GenerateText(ctx context.Context, prompt, model string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"model": model,
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
		}).
		Post("/chat/completions")
	if err != nil {
		return "", &UpstreamError{Provider: providerOpenRouter, Message: err.Error(), Cause: err}
	}

	body := resp.String()
	if resp.IsError() || gjson.Get(body, "error").Exists() {
		message := gjson.Get(body, "error.message").String()
		if message == "" {
			message = resp.Status()
		}
		status := resp.StatusCode()
		if code := gjson.Get(body, "error.code"); code.Type == gjson.Number {
			status = int(code.Int())
		}
		return "", &UpstreamError{Provider: providerOpenRouter, StatusCode: status, Message: message}
	}

	text := gjson.Get(body, "choices.0.message.content").String()
	if text == "" {
		return "", &UpstreamError{Provider: providerOpenRouter, StatusCode: resp.StatusCode(), Message: "no text content in response"}
	}

	return text, nil
}
