package headers

import (
	"net/textproto"
	"strings"
)

// ParseHeaders converts "Key: Value" strings into a map with canonical keys.
// Entries without a colon or with an empty key are dropped; later entries win.
func ParseHeaders(h []string) map[string]string {
	m := make(map[string]string)
	for _, hdr := range h {
		key, value, ok := strings.Cut(hdr, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		m[textproto.CanonicalMIMEHeaderKey(key)] = strings.TrimSpace(value)
	}
	return m
}

// Merge returns base overlaid with extra. Neither input is modified.
func Merge(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[textproto.CanonicalMIMEHeaderKey(k)] = v
	}
	for k, v := range extra {
		out[textproto.CanonicalMIMEHeaderKey(k)] = v
	}
	return out
}
