package push

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestSendPostsToTopicWithServerKey(t *testing.T) {
	var received fcmRequest
	var authHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(fcmResponse{MessageID: 12345})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-server-key", "/topics/all", zap.NewNop())

	if err := client.Send("إعلان", "نص الإعلان"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if authHeader != "key=test-server-key" {
		t.Errorf("Authorization header = %q, want %q", authHeader, "key=test-server-key")
	}
	if received.To != "/topics/all" {
		t.Errorf("to = %q, want /topics/all", received.To)
	}
	if received.Notification.Title != "إعلان" || received.Notification.Body != "نص الإعلان" {
		t.Errorf("notification payload wrong: %+v", received.Notification)
	}
	if received.Data["url"] != "/notifications" {
		t.Errorf("data.url = %q, want /notifications", received.Data["url"])
	}
}

func TestSendFailsWithoutServerKey(t *testing.T) {
	client := NewClient("http://unused", "", "/topics/all", zap.NewNop())
	if err := client.Send("إعلان", "نص"); err == nil {
		t.Error("expected error when the server key is not configured")
	}
}

func TestSendReportsGatewayRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(fcmResponse{Error: "InvalidRegistration"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-server-key", "/topics/all", zap.NewNop())
	if err := client.Send("إعلان", "نص"); err == nil {
		t.Error("expected error when the gateway rejects the message")
	}
}

func TestSendReportsHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key", "/topics/all", zap.NewNop())
	if err := client.Send("إعلان", "نص"); err == nil {
		t.Error("expected error for a non-2xx gateway response")
	}
}
