package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCLIPClassifyParsesAndRanks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Missing bearer token, got %q", r.Header.Get("Authorization"))
		}

		var req clipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if len(req.Parameters.CandidateLabels) == 0 {
			t.Error("Expected candidate labels in request")
		}

		json.NewEncoder(w).Encode([]LabelScore{
			{Label: "park", Score: 0.4},
			{Label: "trash bag", Score: 0.9},
			{Label: "screenshot", Score: 0.1},
		})
	}))
	defer server.Close()

	c := NewCLIPClassifier("test-key", "")
	c.endpoint = server.URL

	results, err := c.Classify(context.Background(), "data:image/jpeg;base64,aGVsbG8=", candidateLabels("environment"))
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if results[0].Label != "trash bag" {
		t.Errorf("Expected results ranked by score, got %v", results)
	}
}

func TestCLIPClassifyUpstreamErrorCollapsesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewCLIPClassifier("test-key", "")
	c.endpoint = server.URL

	results, err := c.Classify(context.Background(), "data:image/jpeg;base64,aGVsbG8=", []string{"park"})
	if err != nil {
		t.Fatalf("Upstream errors must not surface, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected empty result on upstream error, got %v", results)
	}
}

func TestCLIPClassifyWithoutKeyIsDisabled(t *testing.T) {
	c := NewCLIPClassifier("", "")
	results, err := c.Classify(context.Background(), "data:image/jpeg;base64,aGVsbG8=", []string{"park"})
	if err != nil {
		t.Fatalf("Disabled classifier must not error, got %v", err)
	}
	if results != nil {
		t.Errorf("Expected no results when unconfigured, got %v", results)
	}
}

func TestCLIPClassifyMalformedResponseCollapsesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "unexpected shape"}`))
	}))
	defer server.Close()

	c := NewCLIPClassifier("test-key", "")
	c.endpoint = server.URL

	results, err := c.Classify(context.Background(), "data:image/jpeg;base64,aGVsbG8=", []string{"park"})
	if err != nil {
		t.Fatalf("Malformed responses must not surface, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected empty result on malformed response, got %v", results)
	}
}
