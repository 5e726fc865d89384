// Package raw reads prefixed environment variables without logging
// The logger bootstraps from it, so it must not import the logger
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf reads variables under prefix
type Conf struct{ prefix string }

func New() Conf { return Conf{} }

// Prefix nests p under the current prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) lookup(key string) string {
	return strings.TrimSpace(os.Getenv(c.prefix + key))
}

// Get returns the variable or def when unset or blank
func (c Conf) Get(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

// Bool accepts anything strconv.ParseBool does plus yes/no; garbage yields def
func (c Conf) Bool(key string, def bool) bool {
	switch v := strings.ToLower(c.lookup(key)); v {
	case "":
		return def
	case "yes", "on":
		return true
	case "no", "off":
		return false
	default:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	}
}

// Int returns a non-negative integer; negatives and garbage yield def
func (c Conf) Int(key string, def int) int {
	n, err := strconv.Atoi(c.lookup(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}
