package mail_tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanLisse/flok/internal/auth"
	"github.com/RyanLisse/flok/internal/config"
	"github.com/RyanLisse/flok/internal/server"
	"github.com/RyanLisse/flok/internal/tools/common"
)

// newToolContext builds a server context whose Graph requests hit the given
// handler, with a single authenticated test account.
func newToolContext(t *testing.T, readOnly bool, handler http.HandlerFunc) *server.ServerContext {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	store := auth.NewFileStore(filepath.Join(dir, "tokens"))
	require.NoError(t, store.Save("work@example.com", auth.KeyAccessToken, "at-1"))
	require.NoError(t, store.Save("work@example.com", auth.KeyRefreshToken, "rt-1"))
	require.NoError(t, store.Save("work@example.com", auth.KeyExpiresAt,
		strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10)))

	flow := auth.NewDeviceCodeFlow("client-1", "common", nil)
	sc := server.NewServerContext(t.Context(), server.Options{
		Config: config.Config{
			GraphBaseURL: srv.URL,
			APIVersion:   "v1.0",
		},
		Manager:  auth.NewManager(store, flow),
		Accounts: auth.NewAccounts(store, filepath.Join(dir, "default-account")),
		ReadOnly: readOnly,
	})
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultEnvelope unwraps the Result envelope from a tool result.
func resultEnvelope(t *testing.T, res *mcp.CallToolResult) common.Result {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content should be text")
	var r common.Result
	require.NoError(t, json.Unmarshal([]byte(text.Text), &r))
	return r
}

func TestRegisterMailTools(t *testing.T) {
	sc := newToolContext(t, false, func(w http.ResponseWriter, r *http.Request) {})

	mcpSrv := mcpserver.NewMCPServer("flok-test", "0.0.0",
		mcpserver.WithToolCapabilities(true),
	)
	require.NoError(t, RegisterMailTools(mcpSrv, sc))
}

func TestHandleListMail(t *testing.T) {
	var gotPath string
	sc := newToolContext(t, false, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"value":[{"id":"m1","subject":"Standup notes"}]}`))
	})

	result, err := handleListMail(context.Background(), callRequest(map[string]interface{}{
		"folder": "archive",
		"count":  float64(5),
	}), sc)
	require.NoError(t, err)

	r := resultEnvelope(t, result)
	assert.True(t, r.Success)
	assert.Contains(t, r.Data, "Standup notes")
	assert.Contains(t, r.NextActions, "read-mail")
	assert.Equal(t, "/v1.0/me/mailFolders/archive/messages", gotPath)
}

func TestHandleReadMailRequiresID(t *testing.T) {
	sc := newToolContext(t, false, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued for invalid arguments")
	})

	result, err := handleReadMail(context.Background(), callRequest(map[string]interface{}{}), sc)
	require.NoError(t, err)

	r := resultEnvelope(t, result)
	assert.False(t, r.Success)
	assert.Contains(t, r.Error, "messageId")
}

func TestHandleSendMailValidation(t *testing.T) {
	sc := newToolContext(t, false, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued for invalid arguments")
	})

	tests := []struct {
		name    string
		args    map[string]interface{}
		missing string
	}{
		{
			name:    "missing to",
			args:    map[string]interface{}{"subject": "Hi", "body": "Hello"},
			missing: "to",
		},
		{
			name:    "missing subject",
			args:    map[string]interface{}{"to": "a@example.com", "body": "Hello"},
			missing: "subject",
		},
		{
			name:    "missing body",
			args:    map[string]interface{}{"to": "a@example.com", "subject": "Hi"},
			missing: "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleSendMail(context.Background(), callRequest(tt.args), sc)
			require.NoError(t, err)

			r := resultEnvelope(t, result)
			assert.False(t, r.Success)
			assert.Contains(t, r.Error, tt.missing)
		})
	}
}

func TestHandleSendMail(t *testing.T) {
	var body map[string]any
	sc := newToolContext(t, false, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1.0/me/sendMail", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusAccepted)
	})

	result, err := handleSendMail(context.Background(), callRequest(map[string]interface{}{
		"to":      "a@example.com, b@example.com",
		"subject": "Hi",
		"body":    "Hello there",
	}), sc)
	require.NoError(t, err)

	r := resultEnvelope(t, result)
	assert.True(t, r.Success)
	assert.Contains(t, r.Data, "a@example.com, b@example.com")

	message, ok := body["message"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Hi", message["subject"])
	assert.Len(t, message["toRecipients"], 2)
}

func TestMutatingToolsRespectReadOnly(t *testing.T) {
	sc := newToolContext(t, true, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued in read-only mode")
	})

	ctx := context.Background()
	handlers := map[string]func() (*mcp.CallToolResult, error){
		"send-mail": func() (*mcp.CallToolResult, error) {
			return handleSendMail(ctx, callRequest(map[string]interface{}{
				"to": "a@example.com", "subject": "Hi", "body": "Hello",
			}), sc)
		},
		"reply-mail": func() (*mcp.CallToolResult, error) {
			return handleReplyMail(ctx, callRequest(map[string]interface{}{
				"messageId": "m1", "comment": "Thanks",
			}), sc)
		},
		"move-mail": func() (*mcp.CallToolResult, error) {
			return handleMoveMail(ctx, callRequest(map[string]interface{}{
				"messageId": "m1", "destination": "archive",
			}), sc)
		},
		"delete-mail": func() (*mcp.CallToolResult, error) {
			return handleDeleteMail(ctx, callRequest(map[string]interface{}{
				"messageId": "m1",
			}), sc)
		},
	}

	for name, call := range handlers {
		t.Run(name, func(t *testing.T) {
			result, err := call()
			require.NoError(t, err)

			r := resultEnvelope(t, result)
			assert.False(t, r.Success)
			assert.Contains(t, r.Error, "read-only mode")
		})
	}
}

func TestSplitAddresses(t *testing.T) {
	assert.Equal(t, []string{"a@example.com", "b@example.com"},
		splitAddresses("a@example.com, b@example.com"))
	assert.Equal(t, []string{"a@example.com"}, splitAddresses("a@example.com,,"))
	assert.Empty(t, splitAddresses(""))
}
