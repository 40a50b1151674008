package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pubquiz-service/internal/app"
	"pubquiz-service/internal/domain"
)

func TestWebSocketLeaderboardFlow(t *testing.T) {
	dir := t.TempDir()
	round := "Timestamp,Team,Q1\nt0,Correct answers,A1\nt1,alpha,A1\n"
	if err := os.WriteFile(filepath.Join(dir, "round1.csv"), []byte(round), 0o644); err != nil {
		t.Fatalf("write round: %v", err)
	}
	service := app.NewQuizService(dir, domain.DefaultColumns(), zap.NewNop())
	if _, err := service.Rescan(context.Background()); err != nil {
		t.Fatalf("rescan failed: %v", err)
	}

	server := httptest.NewServer(NewMux(service, zap.NewNop()))
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// The initial snapshot arrives without asking.
	typ, payload := readNext(conn, t)
	if typ != "leaderboard" {
		t.Fatalf("expected leaderboard, got %s", typ)
	}
	var rows []domain.LeaderboardRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		t.Fatalf("decode rows: %v", err)
	}
	if len(rows) != 1 || rows[0].Team != "alpha" {
		t.Fatalf("unexpected snapshot: %v", rows)
	}

	// A key edit pushes a fresh snapshot.
	if err := service.SetCorrectAnswers("round1", 1, []string{"something else"}); err != nil {
		t.Fatalf("set answers: %v", err)
	}
	typ, payload = readNext(conn, t)
	if typ != "leaderboard" {
		t.Fatalf("expected leaderboard update, got %s", typ)
	}
	if err := json.Unmarshal(payload, &rows); err != nil {
		t.Fatalf("decode rows: %v", err)
	}
	if rows[0].Score != "0" {
		t.Fatalf("expected rescored snapshot, got %v", rows)
	}

	// Inbound rescan request is acknowledged.
	if err := conn.WriteJSON(map[string]string{"type": "rescan"}); err != nil {
		t.Fatalf("write rescan: %v", err)
	}
	typ, _ = readNext(conn, t)
	if typ != "rescanned" {
		t.Fatalf("expected rescanned, got %s", typ)
	}
}

func readNext(conn *websocket.Conn, t *testing.T) (string, json.RawMessage) {
	t.Helper()
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read message: %v", err)
	}
	return msg.Type, msg.Payload
}
