package wire

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/kbukum/asynchttp/errors"
)

// Default ports per scheme.
const (
	DefaultHTTPPort  = 80
	DefaultHTTPSPort = 443
)

// Target is the parsed, immutable destination of one request.
type Target struct {
	Scheme string
	Host   string
	Port   int
	// Path is the request-target: path plus query exactly as written in the
	// URL, never empty.
	Path string
	// Authority is host[:port] as written in the URL, used for the Host header.
	Authority string
}

// ParseTarget parses an absolute http or https URL.
func ParseTarget(raw string) (Target, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, errors.InvalidInput("url", err.Error()).WithCause(err)
	}

	scheme := strings.ToLower(u.Scheme)
	var port int
	switch scheme {
	case "http":
		port = DefaultHTTPPort
	case "https":
		port = DefaultHTTPSPort
	default:
		return Target{}, errors.InvalidInput("url", "scheme must be http or https").WithDetail("scheme", u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return Target{}, errors.InvalidInput("url", "missing host")
	}
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > 65535 {
			return Target{}, errors.InvalidInput("url", "port out of range").WithDetail("port", p)
		}
		port = n
	}

	return Target{
		Scheme:    scheme,
		Host:      host,
		Port:      port,
		Path:      requestPath(raw),
		Authority: u.Host,
	}, nil
}

// requestPath returns the path and query substring of raw, up to any
// fragment, with "/" substituted for an empty path.
func requestPath(raw string) string {
	rest := raw
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest = rest[:i]
	}
	i := strings.IndexAny(rest, "/?")
	if i < 0 {
		return "/"
	}
	path := rest[i:]
	if path[0] == '?' {
		path = "/" + path
	}
	return path
}

// TLS reports whether the target needs a TLS session.
func (t Target) TLS() bool { return t.Scheme == "https" }

// Address is the host:port pair to dial.
func (t Target) Address() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

func (t Target) String() string {
	return t.Scheme + "://" + t.Authority + t.Path
}
