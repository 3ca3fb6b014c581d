package tts

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIsPlaceholder(t *testing.T) {
	for _, token := range []string{"", "  ", "hf_xxx", "YOUR_HF_TOKEN_HERE", "seu_token_aqui"} {
		if !IsPlaceholder(token) {
			t.Errorf("IsPlaceholder(%q) = false, want true", token)
		}
	}
	if IsPlaceholder("hf_real_token_value") {
		t.Error("real-looking token flagged as placeholder")
	}
}

func TestNew_PlaceholderDisablesService(t *testing.T) {
	if s := New("your_hf_token_here", ""); s.Enabled() {
		t.Error("placeholder token should disable the service")
	}
	if s := New("hf_abc123", ""); !s.Enabled() {
		t.Error("real token should enable the service")
	}
}

func TestSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer hf_abc123" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte("RIFFfakewav"))
	}))
	defer srv.Close()

	s := New("hf_abc123", srv.URL)
	audio, err := s.Synthesize("Olá!")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if string(audio) != "RIFFfakewav" {
		t.Errorf("audio = %q", audio)
	}
}

func TestSynthesize_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := New("hf_abc123", srv.URL).Synthesize("Olá!"); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestDataURI(t *testing.T) {
	uri := DataURI([]byte{0x52, 0x49, 0x46, 0x46})
	if !strings.HasPrefix(uri, "data:audio/wav;base64,") {
		t.Errorf("uri = %q", uri)
	}
	if !strings.HasSuffix(uri, "UklGRg==") {
		t.Errorf("uri = %q, bad base64 payload", uri)
	}
}
