package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendText(t *testing.T) {
	var captured map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/555001/messages", r.URL.Path)
		assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messages":[{"id":"wamid.SENT1"}]}`))
	}))
	defer srv.Close()

	client := NewClient("555001", "token-abc", WithBaseURL(srv.URL))

	id, err := client.SendText(context.Background(), "5511999990000", "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "wamid.SENT1", id)

	assert.Equal(t, "whatsapp", captured["messaging_product"])
	assert.Equal(t, "text", captured["type"])
	assert.Equal(t, "5511999990000", captured["to"])
	text := captured["text"].(map[string]interface{})
	assert.Equal(t, "hello", text["body"])
	assert.Nil(t, captured["context"])
}

func TestSendTextThreadsReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		msgCtx := body["context"].(map[string]interface{})
		assert.Equal(t, "wamid.ORIG", msgCtx["message_id"])
		w.Write([]byte(`{"messages":[{"id":"wamid.REPLY"}]}`))
	}))
	defer srv.Close()

	client := NewClient("555001", "t", WithBaseURL(srv.URL))

	id, err := client.SendText(context.Background(), "5511999990000", "got it", "wamid.ORIG")
	require.NoError(t, err)
	assert.Equal(t, "wamid.REPLY", id)
}

func TestSendTextAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid OAuth access token","code":190}}`))
	}))
	defer srv.Close()

	client := NewClient("555001", "expired", WithBaseURL(srv.URL))

	_, err := client.SendText(context.Background(), "5511999990000", "hi", "")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "190")
}

func TestSendInteractiveButtonsValidation(t *testing.T) {
	client := NewClient("555001", "t")

	_, err := client.SendInteractiveButtons(context.Background(), "x", "pick one", nil)
	assert.Error(t, err)

	_, err = client.SendInteractiveButtons(context.Background(), "x", "pick one", []ReplyButton{
		{ID: "1", Title: "a"}, {ID: "2", Title: "b"}, {ID: "3", Title: "c"}, {ID: "4", Title: "d"},
	})
	assert.Error(t, err)
}

func TestMarkAsRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "read", body["status"])
		assert.Equal(t, "wamid.MSG", body["message_id"])
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := NewClient("555001", "t", WithBaseURL(srv.URL))
	assert.NoError(t, client.MarkAsRead(context.Background(), "wamid.MSG"))
}

func TestGetMediaURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/media123", r.URL.Path)
		assert.Equal(t, "Bearer t", r.Header.Get("Authorization"))
		w.Write([]byte(`{"url":"https://lookaside.example/v/t.png","mime_type":"image/png","file_size":1024}`))
	}))
	defer srv.Close()

	client := NewClient("555001", "t", WithBaseURL(srv.URL))

	url, err := client.GetMediaURL(context.Background(), "media123")
	require.NoError(t, err)
	assert.Equal(t, "https://lookaside.example/v/t.png", url)
}

func TestGetMediaURLEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient("555001", "t", WithBaseURL(srv.URL))

	_, err := client.GetMediaURL(context.Background(), "media123")
	assert.Error(t, err)
}

func TestDownloadMedia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer t", r.Header.Get("Authorization"))
		w.Write([]byte("binary-bytes"))
	}))
	defer srv.Close()

	client := NewClient("555001", "t")

	data, err := client.DownloadMedia(context.Background(), srv.URL+"/file")
	require.NoError(t, err)
	assert.Equal(t, []byte("binary-bytes"), data)
}
