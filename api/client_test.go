// ABOUTME: Tests for the backend HTTP client
// ABOUTME: Uses httptest servers to validate headers, methods, and error mapping
package api

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClientSendsAuthHeader(t *testing.T) {
	var gotAuth, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok-123", nil)
	if _, err := client.Get(context.Background(), "/crm/leads"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if gotAuth != "Bearer tok-123" {
		t.Errorf("expected bearer token header, got %q", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Errorf("expected JSON accept header, got %q", gotAccept)
	}
}

func TestClientPostEncodesBody(t *testing.T) {
	var gotMethod, gotContentType, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"x1"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", nil)
	_, err := client.Post(context.Background(), "/crm/leads", map[string]string{"name": "Ada"})
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("expected POST, got %s", gotMethod)
	}
	if gotContentType != "application/json" {
		t.Errorf("expected JSON content type, got %q", gotContentType)
	}
	if gotBody != `{"name":"Ada"}` {
		t.Errorf("unexpected body: %s", gotBody)
	}
}

func TestClientMapsErrorResponses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"lead not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", nil)
	_, err := client.Get(context.Background(), "/crm/leads/missing")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %T", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "lead not found" {
		t.Errorf("expected server message, got %q", apiErr.Message)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should report true")
	}
}

func TestClientDelete(t *testing.T) {
	var gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", nil)
	if err := client.Delete(context.Background(), "/crm/leads/l1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("expected DELETE, got %s", gotMethod)
	}
}

func TestStreamOutlivesClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Error("response writer does not support flushing")
			return
		}
		fmt.Fprint(w, "data: {\"entity\":\"lead\",\"action\":\"created\"}\n\n")
		flusher.Flush()
		// Quiet gap longer than the client's global timeout
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, "data: {\"entity\":\"deal\",\"action\":\"updated\"}\n\n")
		flusher.Flush()
	}))
	defer server.Close()

	client := NewClient(server.URL, "", &http.Client{Timeout: 50 * time.Millisecond})
	body, err := client.Stream(context.Background(), "/crm/events")
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	defer body.Close()

	var events []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		if line := scanner.Text(); strings.HasPrefix(line, "data:") {
			events = append(events, line)
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("stream severed mid-body: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected both events across the quiet gap, got %d", len(events))
	}
}
