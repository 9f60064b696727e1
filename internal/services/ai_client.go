package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/utils"
)

// GenerationClient is the outbound generation-provider boundary. Complete
// may fail only after its internal retries are exhausted; that failure is
// the single checked error the turn pipeline handles.
type GenerationClient interface {
	Complete(ctx context.Context, prompt string, modality string) (*Completion, error)
}

type Completion struct {
	Content string
	Usage   TokenUsage
}

type TokenUsage struct {
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	Model            string `json:"model"`
}

// NewDisabledGenerationClient stands in when no provider key is configured;
// every call fails, which routes every turn through the fallback generator.
func NewDisabledGenerationClient() GenerationClient {
	return disabledGenerationClient{}
}

type disabledGenerationClient struct{}

func (disabledGenerationClient) Complete(ctx context.Context, prompt string, modality string) (*Completion, error) {
	return nil, &ProviderError{Err: fmt.Errorf("generation provider not configured")}
}

type generationClient struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	maxRetries int
}

func NewGenerationClient(log *logger.Logger) (GenerationClient, error) {
	apiKey := os.Getenv("GENERATION_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing GENERATION_API_KEY")
	}

	baseURL := os.Getenv("GENERATION_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	model := os.Getenv("GENERATION_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	timeoutSec := utils.GetEnvAsInt("GENERATION_TIMEOUT_SECONDS", 20, log)
	if timeoutSec <= 0 {
		timeoutSec = 20
	}
	maxRetries := utils.GetEnvAsInt("GENERATION_MAX_RETRIES", 2, log)
	if maxRetries < 0 {
		maxRetries = 2
	}

	return &generationClient{
		log:        log.With("service", "GenerationClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

func (c *generationClient) systemPrompt(modality string) string {
	return "You are BrainCell, a multimodal learning assistant. " +
		"Always respond with a JSON object containing: " +
		"`responseType`, `content`, `cognitiveState`, and `knowledgeGraphDelta`. " +
		fmt.Sprintf("Preferred modality: %s.", modality)
}

type chatCompletionsRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (c *generationClient) Complete(ctx context.Context, prompt string, modality string) (*Completion, error) {
	req := chatCompletionsRequest{Model: c.model}
	req.Messages = []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}{
		{Role: "system", Content: c.systemPrompt(modality)},
		{Role: "user", Content: prompt},
	}
	req.ResponseFormat.Type = "json_object"

	var resp chatCompletionsResponse
	if err := c.do(ctx, "POST", "/v1/chat/completions", req, &resp); err != nil {
		return nil, &ProviderError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &ProviderError{Err: fmt.Errorf("generation response contained no choices")}
	}
	return &Completion{
		Content: resp.Choices[0].Message.Content,
		Usage: TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
			Model:            c.model,
		},
	}, nil
}

type generationHTTPError struct {
	StatusCode int
	Body       string
}

func (e *generationHTTPError) Error() string {
	return fmt.Sprintf("generation http %d: %s", e.StatusCode, e.Body)
}

func isRetryableHTTP(code int) bool {
	if code == 408 || code == 429 {
		return true
	}
	return code >= 500 && code <= 599
}

func isRetryableErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return true
		}
	}
	var httpErr *generationHTTPError
	if errors.As(err, &httpErr) {
		return isRetryableHTTP(httpErr.StatusCode)
	}
	return false
}

func jitterSleep(base time.Duration) time.Duration {
	// +/- 20%
	if base <= 0 {
		return 0
	}
	j := 0.2
	delta := base.Seconds() * j
	low := base.Seconds() - delta
	high := base.Seconds() + delta
	if low < 0 {
		low = 0
	}
	v := low + rand.Float64()*(high-low)
	return time.Duration(v * float64(time.Second))
}

func (c *generationClient) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &generationHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *generationClient) do(ctx context.Context, method, path string, body any, out any) error {
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("generation decode error: %w; raw=%s", uErr, string(raw))
			}
			return nil
		}

		// A dead caller context must not burn a backoff sleep.
		if ctx.Err() != nil {
			return err
		}
		if !isRetryableErr(err) {
			return err
		}
		if attempt == c.maxRetries {
			return err
		}

		sleepFor := backoff
		if resp != nil {
			ra := strings.TrimSpace(resp.Header.Get("Retry-After"))
			if ra != "" {
				if secs, parseErr := strconv.Atoi(ra); parseErr == nil && secs > 0 {
					sleepFor = time.Duration(secs) * time.Second
				}
			}
		}
		if sleepFor > 10*time.Second {
			sleepFor = 10 * time.Second
		}
		sleepFor = jitterSleep(sleepFor)

		c.log.Warn("Generation request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}
