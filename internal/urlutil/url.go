// Package urlutil decomposes recovered cache-entry URLs into parts and
// percent-decodes strings the way the exporter's label matcher and
// manifest rows need, independent of Go's own net/url (which rejects many
// malformed strings recovered from cache metadata rather than decomposing
// them best-effort).
package urlutil

import (
	"strconv"
	"strings"
)

// Parts is a decomposed URL: scheme, userinfo, host, port, path, query,
// fragment, plus a parsed query map (duplicate keys resolve last-wins).
type Parts struct {
	Scheme   string
	UserInfo string
	Host     string
	Port     string
	Path     string
	Query    string
	Fragment string
	Params   map[string]string
}

// Parse decomposes a URL string into Parts. It is deliberately permissive:
// cache-recovered URLs are not guaranteed well-formed, so each component is
// extracted positionally rather than rejected on the first anomaly.
func Parse(raw string) Parts {
	var p Parts

	rest := raw
	if i := strings.Index(rest, "://"); i >= 0 {
		p.Scheme = rest[:i]
		rest = rest[i+3:]
	}

	if i := strings.IndexAny(rest, "#"); i >= 0 {
		p.Fragment = rest[i+1:]
		rest = rest[:i]
	}

	if i := strings.Index(rest, "?"); i >= 0 {
		p.Query = rest[i+1:]
		rest = rest[:i]
	}

	authority := rest
	if i := strings.Index(rest, "/"); i >= 0 {
		authority = rest[:i]
		p.Path = rest[i:]
	} else {
		p.Path = ""
	}

	if i := strings.LastIndex(authority, "@"); i >= 0 {
		p.UserInfo = authority[:i]
		authority = authority[i+1:]
	}

	if i := strings.LastIndex(authority, ":"); i >= 0 {
		// Guard against bare IPv6-literal colons by only treating this as
		// a port separator when the remainder is entirely digits.
		if _, err := strconv.Atoi(authority[i+1:]); err == nil {
			p.Port = authority[i+1:]
			authority = authority[:i]
		}
	}
	p.Host = authority

	p.Params = parseQuery(p.Query)

	return p
}

func parseQuery(query string) map[string]string {
	params := make(map[string]string)
	if query == "" {
		return params
	}
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		var key, value string
		if i := strings.Index(pair, "="); i >= 0 {
			key, value = pair[:i], pair[i+1:]
		} else {
			key = pair
		}
		params[Decode(key, true)] = Decode(value, true)
	}
	return params
}

// Decode percent-decodes s. When decodePlus is true (query-component
// context), '+' is converted to a literal space; elsewhere it is left
// untouched.
func Decode(s string, decodePlus bool) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '+':
			if decodePlus {
				b.WriteByte(' ')
			} else {
				b.WriteByte('+')
			}
		case '%':
			if i+2 < len(s) {
				if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
					b.WriteByte(byte(v))
					i += 2
					continue
				}
			}
			b.WriteByte('%')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
