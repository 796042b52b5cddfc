package wire

import (
	"testing"

	"github.com/kbukum/asynchttp/errors"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		raw       string
		scheme    string
		host      string
		port      int
		path      string
		authority string
	}{
		{"http://example.com", "http", "example.com", 80, "/", "example.com"},
		{"https://example.com", "https", "example.com", 443, "/", "example.com"},
		{"http://example.com:8080/a/b?x=1&y=2", "http", "example.com", 8080, "/a/b?x=1&y=2", "example.com:8080"},
		{"http://example.com?q=1", "http", "example.com", 80, "/?q=1", "example.com"},
		{"http://example.com/p#frag", "http", "example.com", 80, "/p", "example.com"},
		{"http://example.com/a%20b", "http", "example.com", 80, "/a%20b", "example.com"},
		{"HTTPS://[::1]:8443/x", "https", "::1", 8443, "/x", "[::1]:8443"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseTarget(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Scheme != tt.scheme || got.Host != tt.host || got.Port != tt.port {
				t.Errorf("got %s %s %d, want %s %s %d", got.Scheme, got.Host, got.Port, tt.scheme, tt.host, tt.port)
			}
			if got.Path != tt.path {
				t.Errorf("path = %q, want %q", got.Path, tt.path)
			}
			if got.Authority != tt.authority {
				t.Errorf("authority = %q, want %q", got.Authority, tt.authority)
			}
		})
	}
}

func TestParseTarget_Invalid(t *testing.T) {
	for _, raw := range []string{"ftp://example.com/", "example.com/path", "http://", "http://h:0/", "http://h:70000/", "://bad"} {
		_, err := ParseTarget(raw)
		if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
			t.Errorf("%q: expected INVALID_INPUT, got %v", raw, err)
		}
	}
}

func TestTarget_Helpers(t *testing.T) {
	tg, err := ParseTarget("https://[::1]/x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tg.TLS() {
		t.Error("expected https target to need TLS")
	}
	if tg.Address() != "[::1]:443" {
		t.Errorf("address = %s", tg.Address())
	}
	if tg.String() != "https://[::1]/x" {
		t.Errorf("string = %s", tg.String())
	}
}
