package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func geminiOKResponse(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + mustJSON(text) + `}]}}]}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestGenerateTextSendsPromptAndKey(t *testing.T) {
	var gotPath, gotKey string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(geminiOKResponse("hello back")))
	}))
	defer srv.Close()

	c := NewGeminiClient("test-key")
	c.baseURL = srv.URL

	out, err := c.GenerateText(context.Background(), "hello there")

	assert.NoError(t, err)
	assert.Equal(t, "hello back", out)
	assert.Equal(t, "/models/gemini-1.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Contains(t, string(gotBody), "hello there")
}

func TestGenerateVisionSendsInlineData(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(geminiOKResponse("extracted text")))
	}))
	defer srv.Close()

	c := NewGeminiClient("test-key")
	c.baseURL = srv.URL

	out, err := c.GenerateVision(context.Background(), "read this image", "image/png", []byte{0x89, 0x50})

	assert.NoError(t, err)
	assert.Equal(t, "extracted text", out)
	assert.Contains(t, string(gotBody), `"inline_data"`)
	assert.Contains(t, string(gotBody), `"mime_type":"image/png"`)
	assert.Contains(t, string(gotBody), "iVA=")
}

func TestGenerateTextAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewGeminiClient("test-key")
	c.baseURL = srv.URL

	_, err := c.GenerateText(context.Background(), "hello")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateTextEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("test-key")
	c.baseURL = srv.URL

	_, err := c.GenerateText(context.Background(), "hello")

	assert.Error(t, err)
}

func TestGenerateTextMissingKey(t *testing.T) {
	c := NewGeminiClient("")

	_, err := c.GenerateText(context.Background(), "hello")

	assert.Error(t, err)
}

func TestExtractJSONObject(t *testing.T) {
	obj, ok := extractJSONObject("```json\n{\"a\":1}\n```")
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, obj)

	obj, ok = extractJSONObject(`{"a":1}`)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, obj)

	_, ok = extractJSONObject("no json here")
	assert.False(t, ok)
}
