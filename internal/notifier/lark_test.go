package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLarkNotifierSend(t *testing.T) {
	var got larkMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"code":0,"msg":"success"}`))
	}))
	defer srv.Close()

	err := NewLarkNotifier(srv.URL, nil).Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "text", got.MsgType)
	assert.Equal(t, "hello", got.Content.Text)
}

func TestLarkNotifierErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":19021,"msg":"sign match fail"}`))
	}))
	defer srv.Close()

	err := NewLarkNotifier(srv.URL, nil).Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "19021")

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer bad.Close()
	err = NewLarkNotifier(bad.URL, nil).Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")

	assert.Error(t, NewLarkNotifier("", nil).Send(context.Background(), "hello"))
	assert.NoError(t, NewLarkNotifier(srv.URL, nil).Send(context.Background(), ""))
}
