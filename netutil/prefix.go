package netutil

import (
	"fmt"
	"net/netip"
	"strings"
)

// Prefix is an IPv4 or IPv6 network. IPv4-mapped IPv6 input is folded into
// plain IPv4 so "::ffff:10.0.0.0/104" and "10.0.0.0/8" are the same network.
type Prefix struct {
	p netip.Prefix
}

// ParsePrefix parses CIDR notation. A bare address is a single-host prefix.
func ParsePrefix(s string) (Prefix, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "/") {
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return Prefix{}, fmt.Errorf("netutil: parse %q: %w", s, err)
		}
		addr = addr.Unmap()
		return Prefix{p: netip.PrefixFrom(addr, addr.BitLen())}, nil
	}

	p, err := netip.ParsePrefix(s)
	if err != nil {
		return Prefix{}, fmt.Errorf("netutil: parse %q: %w", s, err)
	}
	if p.Addr().Is4In6() {
		bits := p.Bits() - 96
		if bits < 0 {
			return Prefix{}, fmt.Errorf("netutil: %q: mapped prefix shorter than /96", s)
		}
		p = netip.PrefixFrom(p.Addr().Unmap(), bits)
	}
	return Prefix{p: p.Masked()}, nil
}

// MustParsePrefix is ParsePrefix that panics on error, for static tables.
func MustParsePrefix(s string) Prefix {
	p, err := ParsePrefix(s)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePrefixes parses a list, failing on the first bad entry.
func ParsePrefixes(list []string) ([]Prefix, error) {
	out := make([]Prefix, 0, len(list))
	for _, s := range list {
		p, err := ParsePrefix(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Contains reports whether addr is inside the network. Families never match
// each other.
func (p Prefix) Contains(addr netip.Addr) bool {
	return p.p.IsValid() && p.p.Contains(addr.Unmap())
}

// Bits returns the prefix length.
func (p Prefix) Bits() int { return p.p.Bits() }

func (p Prefix) String() string { return p.p.String() }

// ContainsAny reports whether any prefix contains addr.
func ContainsAny(prefixes []Prefix, addr netip.Addr) bool {
	for _, p := range prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
