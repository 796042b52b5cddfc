package wire

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	apperrors "github.com/kbukum/asynchttp/errors"
)

func decode(t *testing.T, c Codec, raw string) (*Response, error) {
	t.Helper()
	return c.Decode(bufio.NewReader(strings.NewReader(raw)), "example.com")
}

func TestCodec_DecodeContentLength(t *testing.T) {
	resp, err := decode(t, Codec{}, "HTTP/1.1 200 OK\r\nContent-Length: 5\r\nX-A: b\r\n\r\nhello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 || string(resp.Body) != "hello" {
		t.Errorf("got %d %q", resp.StatusCode, resp.Body)
	}
	if resp.Header.Get("x-a") != "b" {
		t.Errorf("header lost: %v", resp.Header)
	}
	if !resp.WellFormed() {
		t.Error("expected well-formed response")
	}
}

func TestCodec_DecodeChunked(t *testing.T) {
	raw := "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n"
	resp, err := decode(t, Codec{}, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Body) != "hello world" {
		t.Errorf("body = %q", resp.Body)
	}
}

func TestCodec_DecodeUntilClose(t *testing.T) {
	resp, err := decode(t, Codec{}, "HTTP/1.0 404 Not Found\r\n\r\nmissing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 404 || resp.ProtoMinor != 0 || string(resp.Body) != "missing" {
		t.Errorf("got %d 1.%d %q", resp.StatusCode, resp.ProtoMinor, resp.Body)
	}
}

func TestCodec_DecodeForHead(t *testing.T) {
	target, err := ParseTarget("http://example.com/")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	req, err := BuildRequest(target, "HEAD", nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	br := bufio.NewReader(strings.NewReader("HTTP/1.1 200 OK\r\nContent-Length: 42\r\n\r\n"))
	resp, err := Codec{}.DecodeFor(br, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 || len(resp.Body) != 0 {
		t.Errorf("expected empty HEAD body, got %d %q", resp.StatusCode, resp.Body)
	}
}

func TestCodec_SkipsInterim(t *testing.T) {
	raw := "HTTP/1.1 100 Continue\r\n\r\nHTTP/1.1 103 Early Hints\r\nLink: </a.css>\r\n\r\nHTTP/1.1 201 Created\r\nContent-Length: 2\r\n\r\nok"
	resp, err := decode(t, Codec{}, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 201 || string(resp.Body) != "ok" {
		t.Errorf("got %d %q", resp.StatusCode, resp.Body)
	}
}

func TestCodec_SwitchingProtocolsIsFinal(t *testing.T) {
	resp, err := decode(t, Codec{}, "HTTP/1.1 101 Switching Protocols\r\nUpgrade: x\r\n\r\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 101 {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestCodec_BodyLimit(t *testing.T) {
	_, err := decode(t, Codec{MaxBodyBytes: 4}, "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello")
	if !apperrors.IsCode(err, apperrors.ErrCodeProtocol) {
		t.Errorf("expected PROTOCOL, got %v", err)
	}
	if _, err := decode(t, Codec{MaxBodyBytes: 5}, "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello"); err != nil {
		t.Errorf("body at the limit should pass, got %v", err)
	}
}

func TestCodec_DecodeClassification(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		code apperrors.ErrorCode
	}{
		{"empty", "", apperrors.ErrCodeTransport},
		{"garbage", "NOT HTTP AT ALL\r\n\r\n", apperrors.ErrCodeProtocol},
		{"bad status", "HTTP/1.1 2x0 OK\r\n\r\n", apperrors.ErrCodeProtocol},
		{"truncated headers", "HTTP/1.1 200 OK\r\nContent-", apperrors.ErrCodeProtocol},
		{"truncated body", "HTTP/1.1 200 OK\r\nContent-Length: 10\r\n\r\nabc", apperrors.ErrCodeProtocol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(t, Codec{}, tt.raw)
			if !apperrors.IsCode(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestCodec_DecodeTimeout(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()
	_ = client.SetReadDeadline(time.Now().Add(20 * time.Millisecond))

	_, err := Codec{}.Decode(bufio.NewReader(client), "example.com")
	if !apperrors.IsCode(err, apperrors.ErrCodeTimeout) {
		t.Errorf("expected TIMEOUT, got %v", err)
	}
}

func TestCodec_EncodeRejectsInjection(t *testing.T) {
	tg := mustTarget(t, "http://example.com/")
	tests := []map[string]string{
		{"X-Bad": "a\r\nInjected: yes"},
		{"Bad Name": "v"},
		{"": "v"},
	}
	for _, h := range tests {
		req, err := BuildGet(tg, h)
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		var buf bytes.Buffer
		err = Codec{}.Encode(&buf, req)
		if !apperrors.IsCode(err, apperrors.ErrCodeProtocol) {
			t.Errorf("%v: expected PROTOCOL, got %v", h, err)
		}
		if buf.Len() != 0 {
			t.Errorf("%v: nothing should be written, got %q", h, buf.String())
		}
	}
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestCodec_EncodeWriteFailure(t *testing.T) {
	req, _ := BuildGet(mustTarget(t, "http://example.com/"), nil)
	err := Codec{}.Encode(failingWriter{err: io.ErrClosedPipe}, req)
	if !apperrors.IsCode(err, apperrors.ErrCodeTransport) {
		t.Errorf("expected TRANSPORT, got %v", err)
	}
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
}
