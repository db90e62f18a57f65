package main

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
)

// allowlist restricts the API surface to a set of source networks. An empty
// list means no restriction.
type allowlist struct {
	nets []*net.IPNet
}

// parseAllowlist parses a comma-separated CIDR list. Bare addresses are
// accepted as /32 (or /128 for IPv6); an invalid entry is a configuration
// error, not something to skip at request time.
func parseAllowlist(raw string) (*allowlist, error) {
	var nets []*net.IPNet
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			if strings.Contains(entry, ":") {
				entry += "/128"
			} else {
				entry += "/32"
			}
		}
		_, cidr, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR %q: %w", entry, err)
		}
		nets = append(nets, cidr)
	}
	return &allowlist{nets: nets}, nil
}

func (a *allowlist) allows(ip net.IP) bool {
	for _, n := range a.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// wrap guards next with the allowlist.
func (a *allowlist) wrap(next http.Handler) http.Handler {
	if len(a.nets) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr := requestIP(r)
		ip := net.ParseIP(addr)
		if ip == nil || !a.allows(ip) {
			log.Printf("[server] blocked request from %s", addr)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestIP is the original client address: the first X-Forwarded-For entry
// when the request came through a load balancer, the remote address otherwise.
func requestIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
