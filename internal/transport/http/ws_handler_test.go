package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"trivia-client/internal/app"
	"trivia-client/internal/app/apptest"
	"trivia-client/internal/domain"
	"trivia-client/internal/infra/memory"
)

const (
	testCategory  = "geography"
	testSubDomain = "States and Capitals"
)

func TestWebSocketQuizFlow(t *testing.T) {
	backend := apptest.NewBackend()
	backend.SetQuestions(testCategory, testSubDomain, apptest.Capitals())
	server := newTestServer(t, backend)
	defer server.Close()

	conn := dial(t, server, url.Values{"category": {testCategory}, "subDomain": {testSubDomain}})
	defer conn.Close()

	_, ready := readNext(conn, t, "ready")
	if ready["total"] != float64(3) {
		t.Fatalf("expected 3 questions, got %v", ready["total"])
	}

	answers := map[string]string{}
	for _, q := range apptest.Capitals() {
		answers[q.Question] = q.Correct()
	}

	for i := 0; i < 3; i++ {
		_, question := readNext(conn, t, "question")
		text, _ := question["text"].(string)
		if err := conn.WriteJSON(map[string]any{
			"type":    "answer",
			"payload": map[string]any{"option": answers[text]},
		}); err != nil {
			t.Fatalf("write answer: %v", err)
		}
	}

	_, complete := readNext(conn, t, "complete")
	if complete["correct"] != float64(3) || complete["total"] != float64(3) {
		t.Fatalf("unexpected completion %v", complete)
	}

	if err := conn.WriteJSON(map[string]any{
		"type":    "review",
		"payload": map[string]any{"pair": []int{0, 1}},
	}); err != nil {
		t.Fatalf("write review: %v", err)
	}
	_, review := readNext(conn, t, "review")
	pair, _ := review["pair"].(map[string]any)
	if pair["status"] != string(domain.PairBothCorrect) || pair["score"] != float64(2) {
		t.Fatalf("unexpected pair %v", pair)
	}
	if review["pairSubmitted"] != true {
		t.Fatalf("expected pair submitted")
	}

	// Reviewing again must not post the pair score twice.
	_ = conn.WriteJSON(map[string]any{"type": "review", "payload": map[string]any{"pair": []int{0, 1}}})
	readNext(conn, t, "review")
	if n := backend.SubmissionCount(); n != 1 {
		t.Fatalf("expected one submission, got %d", n)
	}

	// A pair outside the attempt still yields the review.
	_ = conn.WriteJSON(map[string]any{"type": "review", "payload": map[string]any{"pair": []int{0, 9}}})
	_, skipped := readNext(conn, t, "review")
	if skipped["pairNotice"] != "One or both answers are missing." || skipped["total"] != float64(3) {
		t.Fatalf("expected review with pair notice, got %v", skipped)
	}
}

func TestWebSocketRejectsInvalidOption(t *testing.T) {
	backend := apptest.NewBackend()
	backend.SetQuestions(testCategory, testSubDomain, apptest.Capitals())
	server := newTestServer(t, backend)
	defer server.Close()

	conn := dial(t, server, url.Values{"category": {testCategory}, "subDomain": {testSubDomain}})
	defer conn.Close()

	readNext(conn, t, "ready")
	readNext(conn, t, "question")
	_ = conn.WriteJSON(map[string]any{"type": "answer", "payload": map[string]any{"option": "Atlantis"}})
	_, payload := readNext(conn, t, "error")
	if payload["message"] != "Invalid option." {
		t.Fatalf("unexpected error %v", payload)
	}
}

func TestWebSocketEmptyCategory(t *testing.T) {
	server := newTestServer(t, apptest.NewBackend())
	defer server.Close()

	conn := dial(t, server, url.Values{"category": {testCategory}, "subDomain": {testSubDomain}})
	defer conn.Close()

	_, payload := readNext(conn, t, "error")
	if payload["message"] != "No questions available for this category." {
		t.Fatalf("unexpected error %v", payload)
	}
}

func TestWebSocketRequiresCategory(t *testing.T) {
	server := newTestServer(t, apptest.NewBackend())
	defer server.Close()

	resp, err := http.Get(server.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func newTestServer(t *testing.T, backend *apptest.Backend) *httptest.Server {
	t.Helper()
	sessions := memory.NewSessionStore()
	if err := sessions.Set(context.Background(), domain.Session{Token: backend.Token, Role: backend.Role}); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	questions := memory.NewQuestionCache(app.BackendLoader{Backend: backend}, time.Minute)
	service := app.NewService(backend, sessions, questions)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", NewWSHandler(service, nil).ServeWS)
	return httptest.NewServer(mux)
}

func dial(t *testing.T, server *httptest.Server, q url.Values) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws?" + q.Encode()
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}
