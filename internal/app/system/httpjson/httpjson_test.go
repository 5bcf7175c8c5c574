package httpjson_test

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/clubhub/internal/app/system/httpjson"
)

func TestDecode(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"ok", `{"name":"Ana"}`, false},
		{"unknown field", `{"name":"Ana","x":1}`, true},
		{"trailing", `{"name":"Ana"}{}`, true},
		{"malformed", `{"name":`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.in))
			var b body
			err := httpjson.Decode(httptest.NewRecorder(), req, &b)
			if tt.wantErr {
				if !errors.Is(err, httpjson.ErrBadRequest) {
					t.Fatalf("expected ErrBadRequest, got %v", err)
				}
				return
			}
			if err != nil || b.Name != "Ana" {
				t.Fatalf("got %+v, %v", b, err)
			}
		})
	}
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	httpjson.Error(rec, 409, "nope")
	if rec.Code != 409 {
		t.Errorf("status: got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"nope"}` {
		t.Errorf("body: got %s", got)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content type: got %q", ct)
	}
}

func TestIntParam(t *testing.T) {
	req := httptest.NewRequest("GET", "/?month=3&year=abc", nil)

	if v, ok := httpjson.IntParam(req, "month", 0); !ok || v != 3 {
		t.Errorf("month: got %d %v", v, ok)
	}
	if v, ok := httpjson.IntParam(req, "year", 2024); ok || v != 2024 {
		t.Errorf("year: got %d %v", v, ok)
	}
	if v, ok := httpjson.IntParam(req, "missing", 7); !ok || v != 7 {
		t.Errorf("missing: got %d %v", v, ok)
	}
}
