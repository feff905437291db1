package pronounce

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/robalobadob/lingoplay/internal/i18n"
)

func TestGrade(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body gradeBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		audio, _ := base64.StdEncoding.DecodeString(body.Audio)
		if body.Text != "அம்மா" || body.Lang != "ta" || string(audio) != "wav" {
			t.Errorf("unexpected body %+v", body)
		}
		_ = json.NewEncoder(w).Encode(Result{Score: 0.82, Transcript: "அம்மா"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	got, err := c.Grade(context.Background(), Request{Text: "அம்மா", Lang: i18n.Tamil, Audio: []byte("wav")})
	if err != nil {
		t.Fatalf("Grade() error = %v", err)
	}
	if got.Score != 0.82 {
		t.Fatalf("Grade() score = %v, want 0.82", got.Score)
	}
}

func TestGradeFailures(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model offline", http.StatusServiceUnavailable)
		}},
		{"bad body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}},
		{"score out of range", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"score":7}`))
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			if _, err := New(srv.URL, time.Second).Grade(context.Background(), Request{Text: "x"}); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestGradeUnconfigured(t *testing.T) {
	if _, err := New("", 0).Grade(context.Background(), Request{}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Grade() error = %v, want ErrUnavailable", err)
	}
}
