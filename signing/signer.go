package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// Signer produces a deterministic signature of payload under key.
type Signer interface {
	Sign(key string, payload []byte) string
}

// SignerFunc adapts a plain function to Signer.
type SignerFunc func(key string, payload []byte) string

// Sign calls f.
func (f SignerFunc) Sign(key string, payload []byte) string { return f(key, payload) }

// Algorithm names a supported MAC construction.
type Algorithm string

const (
	// AlgorithmHMACSHA256 is HMAC-SHA256 (default).
	AlgorithmHMACSHA256 Algorithm = "hmac-sha256"

	// AlgorithmHMACSHA512 is HMAC-SHA512.
	AlgorithmHMACSHA512 Algorithm = "hmac-sha512"

	// AlgorithmBLAKE2b is keyed BLAKE2b-256. Keys longer than 64 bytes are
	// hashed down first.
	AlgorithmBLAKE2b Algorithm = "blake2b-256"
)

// Option configures New.
type Option func(*options)

type options struct {
	algorithm Algorithm
}

// WithAlgorithm selects the MAC algorithm (default: HMAC-SHA256).
func WithAlgorithm(alg Algorithm) Option {
	return func(o *options) { o.algorithm = alg }
}

// New returns a Signer for the selected algorithm.
func New(opts ...Option) (Signer, error) {
	o := &options{algorithm: AlgorithmHMACSHA256}
	for _, opt := range opts {
		opt(o)
	}

	switch o.algorithm {
	case AlgorithmHMACSHA256:
		return hmacSigner{newHash: sha256.New}, nil
	case AlgorithmHMACSHA512:
		return hmacSigner{newHash: sha512.New}, nil
	case AlgorithmBLAKE2b:
		return blake2bSigner{}, nil
	default:
		return nil, fmt.Errorf("signing: unsupported algorithm %q", o.algorithm)
	}
}

// Default is the HMAC-SHA256 signer.
var Default Signer = hmacSigner{newHash: sha256.New}

type hmacSigner struct {
	newHash func() hash.Hash
}

func (s hmacSigner) Sign(key string, payload []byte) string {
	mac := hmac.New(s.newHash, []byte(key))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

type blake2bSigner struct{}

func (blake2bSigner) Sign(key string, payload []byte) string {
	k := []byte(key)
	if len(k) > blake2b.Size {
		sum := blake2b.Sum512(k)
		k = sum[:]
	}
	h, err := blake2b.New256(k)
	if err != nil {
		// Unreachable: key length is bounded above.
		panic(err)
	}
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// Verify reports whether sig is the signature of payload under key, in
// constant time.
func Verify(s Signer, key string, payload []byte, sig string) bool {
	return hmac.Equal([]byte(s.Sign(key, payload)), []byte(sig))
}
