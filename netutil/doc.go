// Package netutil holds the socket-level helpers used by the client dialer:
// IP-prefix containment for destination allow-lists and the fixed TCP
// options every connection gets (no delay, no keep-alive, address reuse,
// abortive close).
package netutil
