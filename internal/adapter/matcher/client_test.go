package matcher

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func completionResponse(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(body)
}

func TestRelevant(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write([]byte(completionResponse(`["ping-1"]`)))
	}))
	defer srv.Close()

	client := New(srv.URL, "test-key", "gpt-3.5-turbo", time.Second)

	raw, err := client.Relevant(context.Background(), []byte(`[{"id":"ping-1"}]`), "frisbee")
	if err != nil {
		t.Fatalf("Relevant: %v", err)
	}
	if raw != `["ping-1"]` {
		t.Errorf("got %q", raw)
	}

	if gotPath != "/v1/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotBody.Model != "gpt-3.5-turbo" {
		t.Errorf("model = %q", gotBody.Model)
	}
	if len(gotBody.Messages) != 3 {
		t.Fatalf("got %d messages", len(gotBody.Messages))
	}
	if !strings.Contains(gotBody.Messages[1].Content, `"ping-1"`) {
		t.Errorf("corpus missing from prompt: %q", gotBody.Messages[1].Content)
	}
	if !strings.Contains(gotBody.Messages[2].Content, "frisbee") {
		t.Errorf("search term missing from prompt: %q", gotBody.Messages[2].Content)
	}
}

func TestRelevantErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "test-key", "gpt-3.5-turbo", time.Second)

	_, err := client.Relevant(context.Background(), []byte(`[]`), "frisbee")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("error should carry the response body: %v", err)
	}
}

func TestRelevantNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "test-key", "gpt-3.5-turbo", time.Second)

	if _, err := client.Relevant(context.Background(), []byte(`[]`), "frisbee"); err == nil {
		t.Fatal("expected an error for an empty choice list")
	}
}

func TestRelevantHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server's background read can observe the
		// client closing the connection and cancel the request context.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := New(srv.URL, "test-key", "gpt-3.5-turbo", time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.Relevant(ctx, []byte(`[]`), "frisbee"); err == nil {
		t.Fatal("expected a context deadline error")
	}
}
