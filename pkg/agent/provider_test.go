package agent

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaioption "github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderFactory_NewProvider(t *testing.T) {
	f := &ProviderFactory{}
	ctx := context.Background()

	p, err := f.NewProvider(ctx, "openai", "sk-test")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	p, err = f.NewProvider(ctx, "anthropic", "sk-ant-test")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", p.Name())

	_, err = f.NewProvider(ctx, "mystery", "key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}

func TestOpenAIProvider_Generate(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-test",
			"choices":[{"index":0,"message":{"role":"assistant","content":"from openai"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`)
	}))
	defer srv.Close()

	p := NewOpenAIProvider("sk-test", openaioption.WithBaseURL(srv.URL+"/"), openaioption.WithMaxRetries(0))
	chat, err := p.StartChat(context.Background(), "gpt-test", SeedHistory())
	require.NoError(t, err)

	reply, err := chat.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "from openai", reply.Text)
	assert.Equal(t, "stop", reply.FinishReason)

	messages, ok := body["messages"].([]interface{})
	require.True(t, ok)
	assert.Len(t, messages, 3)
	assert.Equal(t, "gpt-test", body["model"])
}

func TestAnthropicProvider_Generate(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"msg_1","type":"message","role":"assistant","model":"claude-test",
			"content":[{"type":"text","text":"from claude"}],
			"stop_reason":"end_turn","stop_sequence":null,
			"usage":{"input_tokens":1,"output_tokens":1}}`)
	}))
	defer srv.Close()

	p := NewAnthropicProvider("sk-ant-test", anthropicoption.WithBaseURL(srv.URL), anthropicoption.WithMaxRetries(0))
	history := append(SeedHistory(), NewTextContent(RoleUser, "hi"))

	reply, err := p.Generate(context.Background(), "claude-test", history)
	require.NoError(t, err)
	assert.Equal(t, "from claude", reply.Text)
	assert.Equal(t, "end_turn", reply.FinishReason)

	messages, ok := body["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 3)
	second := messages[1].(map[string]interface{})
	assert.Equal(t, "assistant", second["role"])
}
