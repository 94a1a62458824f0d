package model

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/edukit/study-buddy/internal/domain"
)

func TestGenerate(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"42 is the answer."}}]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "sk-test", Model: "test-model"})

	text, err := client.Generate(context.Background(), []domain.PromptMessage{
		{Role: domain.RoleSystem, Content: "You are a helpful study assistant."},
		{Role: domain.RoleUser, Content: "what is 6*7?"},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "42 is the answer." {
		t.Errorf("Unexpected text: %q", text)
	}

	if gotAuth != "Bearer sk-test" {
		t.Errorf("Expected bearer auth header, got %q", gotAuth)
	}
	if gotReq.Model != "test-model" {
		t.Errorf("Expected model test-model, got %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[1].Role != domain.RoleUser {
		t.Errorf("Unexpected messages: %+v", gotReq.Messages)
	}
}

func TestGenerateBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, Model: "test-model"})

	_, err := client.Generate(context.Background(), []domain.PromptMessage{{Role: domain.RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("Expected error for non-200 response")
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, Model: "test-model"})

	text, err := client.Generate(context.Background(), []domain.PromptMessage{{Role: domain.RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "" {
		t.Errorf("Expected empty text, got %q", text)
	}
}
