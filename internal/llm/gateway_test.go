package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcCall struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  struct {
		Name      string `json:"name"`
		Arguments struct {
			Model        string `json:"model"`
			SystemPrompt string `json:"system_prompt"`
			Messages     []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		} `json:"arguments"`
	} `json:"params"`
}

func gatewayServer(t *testing.T, reply string, got *rpcCall) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openrouter-gateway", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"result": map[string]any{
				"content": []map[string]any{{"type": "text", "text": reply}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGatewayClient_Complete(t *testing.T) {
	var call rpcCall
	srv := gatewayServer(t, `{"content":"{\"name\":\"Gimlet\"}"}`, &call)

	client := NewGatewayClient(srv.URL+"/", "secret", Models{TaskGenerate: "gen-model", TaskParse: "parse-model"}, time.Second, nil)
	text, err := client.Complete(context.Background(), Request{Task: TaskParse, System: "sys", Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Gimlet"}`, text)

	assert.Equal(t, "tools/call", call.Method)
	assert.Equal(t, "create_completion", call.Params.Name)
	assert.Equal(t, "parse-model", call.Params.Arguments.Model)
	assert.Equal(t, "sys", call.Params.Arguments.SystemPrompt)
	require.Len(t, call.Params.Arguments.Messages, 1)
	assert.Equal(t, "hello", call.Params.Arguments.Messages[0].Content)
}

func TestGatewayClient_PlainTextReply(t *testing.T) {
	var call rpcCall
	srv := gatewayServer(t, "### Gimlet\n- 2 oz gin", &call)

	client := NewGatewayClient(srv.URL, "secret", Models{TaskGenerate: "gen-model"}, time.Second, nil)
	text, err := client.Complete(context.Background(), Request{Task: TaskParse, Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "### Gimlet\n- 2 oz gin", text)
	assert.Equal(t, "gen-model", call.Params.Arguments.Model)
}

func TestGatewayClient_EmptyReply(t *testing.T) {
	var call rpcCall
	srv := gatewayServer(t, `{"content":"  "}`, &call)

	client := NewGatewayClient(srv.URL, "secret", Models{TaskGenerate: "m"}, time.Second, nil)
	_, err := client.Complete(context.Background(), Request{Task: TaskGenerate})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestGatewayClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewGatewayClient(srv.URL, "", Models{TaskGenerate: "m"}, time.Second, nil)
	_, err := client.Complete(context.Background(), Request{Task: TaskGenerate})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestGatewayClient_NoModel(t *testing.T) {
	client := NewGatewayClient("http://127.0.0.1:0", "", Models{}, time.Second, nil)
	_, err := client.Complete(context.Background(), Request{Task: TaskParse})
	assert.Error(t, err)
}
