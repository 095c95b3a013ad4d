package embedding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embeddings", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","model":"m","data":[{"object":"embedding","index":0,"embedding":[0.5,0.25,1]}]}`))
	}))
	defer srv.Close()

	s, err := NewService("k", srv.URL, "m", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Dimensions())

	vec, err := s.Embed(context.Background(), "[Category: Criminal Law] theft")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.25, 1}, vec)
}

func TestEmbedEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","model":"m","data":[]}`))
	}))
	defer srv.Close()

	s, err := NewService("k", srv.URL, "m", 3)
	require.NoError(t, err)
	_, err = s.Embed(context.Background(), "x")
	require.Error(t, err)
}

func TestNewServiceRequiresModel(t *testing.T) {
	_, err := NewService("k", "", "", 3)
	require.Error(t, err)
}
