// Package signing computes keyed message authentication codes over exact
// payload bytes, hex-encoded for use in HTTP headers.
//
// # Usage
//
//	s, err := signing.New()                                   // HMAC-SHA256
//	s, err := signing.New(signing.WithAlgorithm(signing.AlgorithmBLAKE2b))
//	sig := s.Sign("secret", payload)
package signing
