package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultMaxTokens   = 2000
	defaultTemperature = 0.3
)

// GatewayClient sends completions through an MCP gateway that exposes a
// "create_completion" tool over JSON-RPC.
type GatewayClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	models     Models
	logger     *zap.Logger
}

func NewGatewayClient(baseURL, apiKey string, models Models, timeout time.Duration, logger *zap.Logger) *GatewayClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GatewayClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		models:     models,
		logger:     logger,
	}
}

func (g *GatewayClient) Complete(ctx context.Context, req Request) (string, error) {
	model, err := g.models.For(req.Task)
	if err != nil {
		return "", err
	}

	completionRequest := map[string]interface{}{
		"model":         model,
		"system_prompt": req.System,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": req.Prompt,
			},
		},
		"max_tokens":  defaultMaxTokens,
		"temperature": defaultTemperature,
	}

	start := time.Now()
	text, err := g.callGateway(ctx, "create_completion", completionRequest)
	if err != nil {
		return "", fmt.Errorf("failed to get AI completion: %w", err)
	}
	g.logger.Debug("gateway completion",
		zap.String("task", string(req.Task)),
		zap.String("model", model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("length", len(text)))

	content := completionContent(text)
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

func (g *GatewayClient) callGateway(ctx context.Context, toolName string, args interface{}) (string, error) {
	url := fmt.Sprintf("%s/openrouter-gateway", g.baseURL)

	requestData := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      toolName,
			"arguments": args,
		},
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("request failed with status %d and couldn't read body: %v", resp.StatusCode, err)
		}
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var rpcResponse struct {
		Result struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rpcResponse); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if rpcResponse.Error != nil {
		return "", fmt.Errorf("gateway error %d: %s", rpcResponse.Error.Code, rpcResponse.Error.Message)
	}
	if len(rpcResponse.Result.Content) == 0 {
		return "", fmt.Errorf("unexpected response format")
	}
	return rpcResponse.Result.Content[0].Text, nil
}

// completionContent unwraps {"content": "..."} completion envelopes. Plain
// text is returned as is.
func completionContent(text string) string {
	var envelope struct {
		Content *string `json:"content"`
	}
	if err := json.Unmarshal([]byte(text), &envelope); err != nil || envelope.Content == nil {
		return text
	}
	return *envelope.Content
}
