package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"chronoplan/internal/resilience"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New("test-key")
	c.BaseURL = srv.URL
	return c
}

func TestGenerate_Success(t *testing.T) {
	var gotBody request
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.String(), "key=test-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"* plan"}]}}]}`))
	})

	text, err := c.Generate(context.Background(), "make a plan")
	require.NoError(t, err)
	assert.Equal(t, "* plan", text)

	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Equal(t, "make a plan", gotBody.Contents[0].Parts[0].Text)
}

func TestGenerate_ServiceErrorIsPermanent(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
	})

	_, err := c.Generate(context.Background(), "p")
	var perm *resilience.PermanentError
	require.ErrorAs(t, err, &perm)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGenerate_MalformedPayloadIsPermanent(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no candidates", `{"candidates":[]}`},
		{"empty parts", `{"candidates":[{"content":{"parts":[]}}]}`},
		{"not json", `<html>gateway error</html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			_, err := c.Generate(context.Background(), "p")
			var perm *resilience.PermanentError
			require.ErrorAs(t, err, &perm)
		})
	}
}

func TestGenerate_MissingKey(t *testing.T) {
	c := New("")
	assert.False(t, c.Configured())

	_, err := c.Generate(context.Background(), "p")
	require.ErrorIs(t, err, ErrNoAPIKey)
	var perm *resilience.PermanentError
	assert.ErrorAs(t, err, &perm)
}
