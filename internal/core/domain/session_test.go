package domain

import (
	"encoding/json"
	"testing"
	"time"
)

var testFields = SessionFields{
	User:       "user",
	ID:         "id",
	Name:       "nome",
	Email:      "email",
	Belt:       "faixa",
	Degree:     "grau",
	Center:     "ct",
	Status:     "status",
	Role:       "role",
	AdminToken: "adminToken",
}

var testNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func TestNormalizeSession_TopLevelStudent(t *testing.T) {
	payload := map[string]any{"id": "7", "nome": "Ana", "faixa": "Azul", "grau": "2", "role": "aluno"}

	s := NormalizeSession(payload, testFields, testNow)

	if s.UserID != "7" || s.Name != "Ana" || s.Belt != "Azul" {
		t.Errorf("unexpected identity fields: %+v", s)
	}
	if s.Degree != 2 {
		t.Errorf("expected degree 2, got %d", s.Degree)
	}
	if s.Role != "aluno" {
		t.Errorf("expected role 'aluno', got %q", s.Role)
	}
	if s.AdminToken != "" {
		t.Errorf("expected no admin token, got %q", s.AdminToken)
	}
	if !s.CreatedAt.Equal(testNow) {
		t.Errorf("expected CreatedAt %v, got %v", testNow, s.CreatedAt)
	}
}

func TestNormalizeSession_NestedUser(t *testing.T) {
	payload := map[string]any{
		"sucesso": true,
		"user": map[string]any{
			"id":     float64(12),
			"nome":   "Bruno",
			"email":  "bruno@example.com",
			"faixa":  "Roxa",
			"grau":   float64(3),
			"ct":     "CT-01",
			"status": "Aprovado",
			"role":   "aluno",
		},
	}

	s := NormalizeSession(payload, testFields, testNow)

	if s.UserID != "12" {
		t.Errorf("expected numeric id rendered as '12', got %q", s.UserID)
	}
	if s.Email != "bruno@example.com" || s.CenterID != "CT-01" || s.Status != "Aprovado" {
		t.Errorf("unexpected nested fields: %+v", s)
	}
	if s.Degree != 3 {
		t.Errorf("expected degree 3, got %d", s.Degree)
	}
}

func TestNormalizeSession_TopLevelTakesPrecedence(t *testing.T) {
	payload := map[string]any{
		"nome":  "Top",
		"faixa": "",
		"user":  map[string]any{"nome": "Nested", "faixa": "Preta", "id": "9"},
	}

	s := NormalizeSession(payload, testFields, testNow)

	if s.Name != "Top" {
		t.Errorf("expected top-level name, got %q", s.Name)
	}
	if s.Belt != "Preta" {
		t.Errorf("expected empty top-level belt to fall back to nested, got %q", s.Belt)
	}
	if s.UserID != "9" {
		t.Errorf("expected nested id, got %q", s.UserID)
	}
}

func TestNormalizeSession_AdminToken(t *testing.T) {
	tests := []struct {
		name      string
		payload   map[string]any
		wantToken string
	}{
		{
			name:      "admin_keeps_token",
			payload:   map[string]any{"role": "admin", "adminToken": "tok-1"},
			wantToken: "tok-1",
		},
		{
			name:      "admin_case_insensitive",
			payload:   map[string]any{"role": "ADMIN", "user": map[string]any{"adminToken": "tok-2"}},
			wantToken: "tok-2",
		},
		{
			name:      "student_drops_token",
			payload:   map[string]any{"role": "aluno", "adminToken": "leaked"},
			wantToken: "",
		},
		{
			name:      "missing_role_drops_token",
			payload:   map[string]any{"adminToken": "leaked"},
			wantToken: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NormalizeSession(tt.payload, testFields, testNow)
			if s.AdminToken != tt.wantToken {
				t.Errorf("expected token %q, got %q", tt.wantToken, s.AdminToken)
			}
			if s.AdminToken != "" && !s.IsAdmin() {
				t.Error("admin token present on non-admin session")
			}
		})
	}
}

func TestParseDegree(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{"2", 2},
		{" 3 ", 3},
		{"2º", 2},
		{"1.9", 1},
		{float64(4), 4},
		{float64(7), 4},
		{-2, 0},
		{"-1", 0},
		{json.Number("3"), 3},
		{"faixa", 0},
		{"", 0},
		{nil, 0},
		{true, 0},
	}

	for _, tt := range tests {
		if got := ParseDegree(tt.in); got != tt.want {
			t.Errorf("ParseDegree(%#v): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestResponse_Helpers(t *testing.T) {
	r := Success(map[string]any{
		"pendentes": []any{
			map[string]any{"id": "1"},
			"not-a-record",
			map[string]any{"id": "2"},
		},
		"total": float64(2),
	})

	recs := r.Records("pendentes")
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if r.Text("total") != "2" {
		t.Errorf("expected total '2', got %q", r.Text("total"))
	}
	if len(r.Records("missing")) != 0 {
		t.Error("expected no records for missing field")
	}

	f := Failure("boom")
	if f.OK || f.Message != "boom" {
		t.Errorf("unexpected failure response: %+v", f)
	}
}
