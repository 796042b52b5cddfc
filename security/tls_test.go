package security

import (
	"crypto/tls"
	"sync"
	"testing"

	"github.com/kbukum/asynchttp/errors"
	"github.com/kbukum/asynchttp/security/tlstest"
)

func TestTLSConfig_Build_NilConfig(t *testing.T) {
	var cfg *TLSConfig
	result, err := cfg.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected a default tls.Config")
	}
	if result.MinVersion != tls.VersionTLS12 {
		t.Errorf("expected MinVersion=TLS12, got %d", result.MinVersion)
	}
	if result.RootCAs == nil {
		t.Error("expected system roots")
	}
}

func TestTLSConfig_Build_SkipVerify(t *testing.T) {
	result, err := (&TLSConfig{SkipVerify: true}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.InsecureSkipVerify {
		t.Error("expected InsecureSkipVerify=true")
	}
}

func TestTLSConfig_Build_CustomMinVersion(t *testing.T) {
	result, err := (&TLSConfig{MinVersion: tls.VersionTLS13}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MinVersion != tls.VersionTLS13 {
		t.Errorf("expected MinVersion=TLS13, got %d", result.MinVersion)
	}
}

func TestTLSConfig_Build_ValidCAAndClientCert(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	result, err := (&TLSConfig{
		CAFile:   certs.CAFile,
		CertFile: certs.CertFile,
		KeyFile:  certs.KeyFile,
	}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RootCAs == nil {
		t.Error("expected RootCAs to be set")
	}
	if len(result.Certificates) != 1 {
		t.Errorf("expected 1 certificate, got %d", len(result.Certificates))
	}
}

func TestTLSConfig_Build_InvalidCAFile(t *testing.T) {
	_, err := (&TLSConfig{CAFile: "/nonexistent/ca.pem"}).Build()
	if !errors.IsConfiguration(err) {
		t.Fatalf("expected CONFIGURATION error, got %v", err)
	}
}

func TestTLSConfig_Build_InvalidCAContent(t *testing.T) {
	caFile := tlstest.WriteInvalidPEM(t, "bad-ca.pem")
	_, err := (&TLSConfig{CAFile: caFile}).Build()
	if !errors.IsConfiguration(err) {
		t.Fatalf("expected CONFIGURATION error, got %v", err)
	}
}

func TestTLSConfig_Build_InvalidKeystore(t *testing.T) {
	path := tlstest.WriteFile(t, "client.p12", []byte("definitely not pkcs12"))
	_, err := (&TLSConfig{KeystoreFile: path, KeystorePassword: "pw"}).Build()
	if !errors.IsConfiguration(err) {
		t.Fatalf("expected CONFIGURATION error, got %v", err)
	}
}

func TestTLSConfig_Build_MissingKeystore(t *testing.T) {
	_, err := (&TLSConfig{KeystoreFile: "/nonexistent/client.p12"}).Build()
	if !errors.IsConfiguration(err) {
		t.Fatalf("expected CONFIGURATION error, got %v", err)
	}
}

func TestTLSConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *TLSConfig
		wantErr bool
	}{
		{"nil", nil, false},
		{"zero", &TLSConfig{}, false},
		{"pem pair", &TLSConfig{CertFile: "c.pem", KeyFile: "k.pem"}, false},
		{"cert without key", &TLSConfig{CertFile: "c.pem"}, true},
		{"key without cert", &TLSConfig{KeyFile: "k.pem"}, true},
		{"keystore only", &TLSConfig{KeystoreFile: "c.p12"}, false},
		{"keystore and pem", &TLSConfig{KeystoreFile: "c.p12", CertFile: "c.pem", KeyFile: "k.pem"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProvisioner_ClientSession_FreshPerCall(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	p := NewProvisioner(&TLSConfig{CAFile: certs.CAFile})

	a, err := p.ClientSession("localhost", 443)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := p.ClientSession("example.test", 8443)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct session objects")
	}
	if a.ServerName != "localhost" || b.ServerName != "example.test" {
		t.Errorf("expected per-host ServerName, got %q and %q", a.ServerName, b.ServerName)
	}
	if a.RootCAs != b.RootCAs {
		t.Error("expected sessions to share the one root pool")
	}
}

func TestProvisioner_ServerNameOverride(t *testing.T) {
	p := NewProvisioner(&TLSConfig{ServerName: "pinned.example"})
	s, err := p.ClientSession("10.0.0.1", 443)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ServerName != "pinned.example" {
		t.Errorf("expected pinned server name, got %q", s.ServerName)
	}
}

func TestProvisioner_FailureIsStickyAndConcurrent(t *testing.T) {
	p := NewProvisioner(&TLSConfig{CAFile: "/nonexistent/ca.pem"})

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.ClientSession("localhost", 443)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if !errors.IsConfiguration(err) {
			t.Errorf("expected CONFIGURATION error, got %v", err)
		}
	}
}

func TestProvisioner_Warm(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	if err := NewProvisioner(&TLSConfig{CAFile: certs.CAFile}).Warm(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := NewProvisioner(&TLSConfig{CAFile: "/nonexistent/ca.pem"})
	err := p.Warm()
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeConfiguration {
		t.Fatalf("expected CONFIGURATION error, got %v", err)
	}
	if _, has := appErr.Details["host"]; has {
		t.Errorf("store error must not name a host: %v", appErr.Details)
	}

	_, err = p.ClientSession("api.example", 8443)
	appErr, _ = errors.AsAppError(err)
	if appErr == nil || appErr.Details["host"] != "api.example" || appErr.Details["port"] != 8443 {
		t.Errorf("expected per-call host and port details, got %v", err)
	}
}

func TestProvisioner_CopiesConfig(t *testing.T) {
	cfg := &TLSConfig{ServerName: "before"}
	p := NewProvisioner(cfg)
	cfg.ServerName = "after"
	s, err := p.ClientSession("host", 443)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ServerName != "before" {
		t.Errorf("expected snapshot taken at construction, got %q", s.ServerName)
	}
}

func TestSessionFactoryFunc(t *testing.T) {
	var f SessionFactory = SessionFactoryFunc(func(host string, port int) (*tls.Config, error) {
		return &tls.Config{ServerName: host, MinVersion: tls.VersionTLS13}, nil
	})
	s, err := f.ClientSession("x", 1)
	if err != nil || s.ServerName != "x" {
		t.Errorf("unexpected session %v, err %v", s, err)
	}
}
