package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iris-chat/backend/internal/app"
	"iris-chat/backend/internal/config"
	"iris-chat/backend/internal/model"
	"iris-chat/backend/internal/storage"
)

// runCmd executes irisctl against a bolt file shared across invocations.
func runCmd(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	open := func(ctx context.Context) (*app.App, error) { return app.NewApp(ctx, cfg) }

	var out bytes.Buffer
	cmd := newRootCmd(open)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestIrisctl(t *testing.T) {
	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Hi from the CLI"}],"usage":{"input_tokens":12,"output_tokens":8}}`))
	}))
	defer vendor.Close()

	cfg := &config.Config{
		AIProvider:    "claude",
		ClaudeAPIKey:  "sk-ant-test",
		AIBaseURL:     vendor.URL,
		AITemperature: 0.7,
		AIMaxTokens:   1000,
		AITimeout:     5 * time.Second,
		StorageDriver: storage.DriverBolt,
		BoltPath:      filepath.Join(t.TempDir(), "iris.bolt"),
	}

	out, err := runCmd(t, cfg, "send", "hello", "there")
	require.NoError(t, err)
	assert.Contains(t, out, "Hi from the CLI")
	assert.Contains(t, out, "tokens: 12 in, 8 out")

	out, err = runCmd(t, cfg, "sessions", "list", "-o", "json")
	require.NoError(t, err)
	var sessions model.Collection
	require.NoError(t, json.Unmarshal([]byte(out), &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, "hello there", sessions[0].Title)
	id := sessions[0].ID

	_, err = runCmd(t, cfg, "send", "--session", id, "again")
	require.NoError(t, err)

	out, err = runCmd(t, cfg, "sessions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "hello there")

	_, err = runCmd(t, cfg, "send", "--session", "missing", "x")
	assert.Error(t, err)

	out, err = runCmd(t, cfg, "sessions", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted "+id)

	out, err = runCmd(t, cfg, "sessions", "list", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)

	out, err = runCmd(t, cfg, "drafts", "list")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}
