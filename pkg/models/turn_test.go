package models

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"user", RoleUser, false},
		{"assistant", RoleAssistant, false},
		{" Assistant ", RoleAssistant, false},
		{"", RoleUser, false},
		{"system", "", true},
		{"bot", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRole(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRole_Label(t *testing.T) {
	if RoleUser.Label() != "User" {
		t.Errorf("RoleUser.Label() = %q, want User", RoleUser.Label())
	}
	if RoleAssistant.Label() != "Assistant" {
		t.Errorf("RoleAssistant.Label() = %q, want Assistant", RoleAssistant.Label())
	}
}

func TestHistory_Last(t *testing.T) {
	h := History{
		UserTurn("1"), AssistantTurn("2"), UserTurn("3"),
		AssistantTurn("4"), UserTurn("5"), AssistantTurn("6"), UserTurn("7"),
	}

	got := h.Last(5)
	if len(got) != 5 {
		t.Fatalf("len(Last(5)) = %d, want 5", len(got))
	}
	want := []string{"3", "4", "5", "6", "7"}
	for i, turn := range got {
		if turn.Content != want[i] {
			t.Errorf("Last(5)[%d] = %q, want %q", i, turn.Content, want[i])
		}
	}

	if short := h[:2].Last(5); len(short) != 2 {
		t.Errorf("len(Last(5)) on 2 turns = %d, want 2", len(short))
	}
	if empty := History(nil).Last(5); len(empty) != 0 {
		t.Errorf("len(Last(5)) on nil = %d, want 0", len(empty))
	}
}

func TestParseHistory(t *testing.T) {
	h, err := ParseHistory([]byte(`[{"role":"user","content":"A"},{"role":"assistant","content":"B"},{"content":"C"}]`))
	if err != nil {
		t.Fatalf("ParseHistory() error = %v", err)
	}
	if len(h) != 3 {
		t.Fatalf("len(history) = %d, want 3", len(h))
	}
	if h[1].Role != RoleAssistant {
		t.Errorf("h[1].Role = %q, want assistant", h[1].Role)
	}
	if h[2].Role != RoleUser {
		t.Errorf("missing role = %q, want user", h[2].Role)
	}

	_, err = ParseHistory([]byte(`[{"role":"moderator","content":"x"}]`))
	if !errors.Is(err, ErrInvalidRole) {
		t.Errorf("ParseHistory() with unknown role error = %v, want ErrInvalidRole", err)
	}
}

func TestTurn_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Turn
		wantErr bool
	}{
		{"missing role", `{"content":"a"}`, UserTurn("a"), false},
		{"null role", `{"role":null,"content":"a"}`, UserTurn("a"), false},
		{"empty role", `{"role":"","content":"a"}`, UserTurn("a"), false},
		{"assistant", `{"role":"assistant","content":"b"}`, AssistantTurn("b"), false},
		{"unknown role", `{"role":"system","content":"c"}`, Turn{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Turn
			err := json.Unmarshal([]byte(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadHistoryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte(`[{"role":"user","content":"hi"}]`), 0644); err != nil {
		t.Fatalf("Failed to write history: %v", err)
	}

	h, err := LoadHistoryFile(path)
	if err != nil {
		t.Fatalf("LoadHistoryFile() error = %v", err)
	}
	if len(h) != 1 || h[0].Content != "hi" {
		t.Errorf("LoadHistoryFile() = %+v", h)
	}

	if _, err := LoadHistoryFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadHistoryFile() on missing file should fail")
	}
}
