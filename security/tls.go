package security

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"golang.org/x/crypto/pkcs12"

	"github.com/kbukum/asynchttp/errors"
)

// TLSConfig describes the trust and key material for client connections.
type TLSConfig struct {
	// SkipVerify disables server certificate verification.
	// Not recommended for production.
	SkipVerify bool `yaml:"skip_verify" mapstructure:"skip_verify"`

	// CAFile is a PEM bundle of trusted roots. When empty the system pool is used.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`

	// CertFile and KeyFile are a PEM client certificate pair (for mTLS).
	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`
	KeyFile  string `yaml:"key_file" mapstructure:"key_file"`

	// KeystoreFile is a PKCS#12 bundle holding the client key and chain.
	// Mutually exclusive with CertFile/KeyFile.
	KeystoreFile     string `yaml:"keystore_file" mapstructure:"keystore_file"`
	KeystorePassword string `yaml:"keystore_password" mapstructure:"keystore_password"`

	// ServerName overrides the per-connection host used for verification.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`

	// MinVersion is the minimum TLS version (e.g., tls.VersionTLS12).
	// Defaults to TLS 1.2 if not set.
	MinVersion uint16 `yaml:"min_version" mapstructure:"min_version"`
}

// Validate checks that the TLS configuration is consistent.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	if (c.CertFile != "") != (c.KeyFile != "") {
		return errors.Configuration("both cert_file and key_file must be provided together", nil)
	}
	if c.KeystoreFile != "" && c.CertFile != "" {
		return errors.Configuration("keystore_file and cert_file are mutually exclusive", nil)
	}
	return nil
}

// Build creates the base *tls.Config every session is cloned from. A nil or
// zero TLSConfig yields system roots and TLS 1.2 as the floor.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if c == nil {
		c = &TLSConfig{}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	minVersion := c.MinVersion
	if minVersion == 0 {
		minVersion = tls.VersionTLS12
	}

	cfg := &tls.Config{
		InsecureSkipVerify: c.SkipVerify, //nolint:gosec // opt-in via config
		ServerName:         c.ServerName,
		MinVersion:         minVersion,
	}

	if err := c.loadRoots(cfg); err != nil {
		return nil, err
	}
	if err := c.loadClientCert(cfg); err != nil {
		return nil, err
	}
	if err := c.loadKeystore(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *TLSConfig) loadRoots(cfg *tls.Config) error {
	if c.CAFile == "" {
		pool, err := x509.SystemCertPool()
		if err != nil {
			return errors.Configuration("failed to load system roots", err)
		}
		cfg.RootCAs = pool
		return nil
	}
	ca, err := os.ReadFile(c.CAFile)
	if err != nil {
		return errors.Configuration("failed to read CA file", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(ca) {
		return errors.Configuration("failed to parse CA certificate", nil).WithDetail("file", c.CAFile)
	}
	cfg.RootCAs = pool
	return nil
}

func (c *TLSConfig) loadClientCert(cfg *tls.Config) error {
	if c.CertFile == "" || c.KeyFile == "" {
		return nil
	}
	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return errors.Configuration("failed to load client certificate", err)
	}
	cfg.Certificates = []tls.Certificate{cert}
	return nil
}

func (c *TLSConfig) loadKeystore(cfg *tls.Config) error {
	if c.KeystoreFile == "" {
		return nil
	}
	data, err := os.ReadFile(c.KeystoreFile)
	if err != nil {
		return errors.Configuration("failed to read keystore", err)
	}
	blocks, err := pkcs12.ToPEM(data, c.KeystorePassword)
	if err != nil {
		return errors.Configuration("failed to decode PKCS#12 keystore", err)
	}

	var certPEM, keyPEM []byte
	for _, b := range blocks {
		switch b.Type {
		case "CERTIFICATE":
			certPEM = append(certPEM, pem.EncodeToMemory(b)...)
		case "PRIVATE KEY":
			keyPEM = append(keyPEM, pem.EncodeToMemory(b)...)
		}
	}
	if len(certPEM) == 0 || len(keyPEM) == 0 {
		return errors.Configuration(fmt.Sprintf("keystore %s holds no certificate/key pair", c.KeystoreFile), nil)
	}

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return errors.Configuration("keystore certificate and key do not match", err)
	}
	cfg.Certificates = []tls.Certificate{cert}
	return nil
}
