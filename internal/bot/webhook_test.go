package bot

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prospector/internal/common/logger"
)

func TestWebhookTransport_Deliveries(t *testing.T) {
	var got []replyPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "s3cret", r.Header.Get("X-Gateway-Token"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var p replyPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		got = append(got, p)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	tr := NewWebhookTransport(server.URL, "s3cret", logger.NewTestLogger(t))
	ctx := t.Context()

	require.NoError(t, tr.PostMessage(ctx, "C1", "T1", "hello"))
	require.NoError(t, tr.PostBlocks(ctx, "C1", "T1", []Block{sectionBlock("hi")}, "hi"))
	require.NoError(t, tr.UploadFile(ctx, "C1", "T1", "out.csv", "Results", []byte("a,b\n")))

	require.Len(t, got, 3)

	assert.Equal(t, "message", got[0].Kind)
	assert.Equal(t, "C1", got[0].Channel)
	assert.Equal(t, "T1", got[0].Thread)
	assert.Equal(t, "hello", got[0].Text)

	assert.Equal(t, "blocks", got[1].Kind)
	assert.Equal(t, "hi", got[1].Text)
	require.Len(t, got[1].Blocks, 1)

	assert.Equal(t, "file", got[2].Kind)
	assert.Equal(t, "out.csv", got[2].Filename)
	content, err := base64.StdEncoding.DecodeString(got[2].Content)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(content))
}

func TestWebhookTransport_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	tr := NewWebhookTransport(server.URL, "", logger.NewTestLogger(t))
	err := tr.PostMessage(t.Context(), "C1", "T1", "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream down")
}
