// Package security provisions client-side TLS sessions.
//
// A Provisioner owns one shared trust and key store, built lazily on first
// use from a TLSConfig and never mutated afterwards. Every call to
// ClientSession returns a fresh *tls.Config cloned from that store and bound
// to the target host for SNI and certificate verification.
//
//	p := security.NewProvisioner(&security.TLSConfig{
//	    CAFile:           "/path/to/ca.pem",
//	    KeystoreFile:     "/path/to/client.p12",
//	    KeystorePassword: "changeit",
//	})
//	session, err := p.ClientSession("api.example.com", 443)
package security
