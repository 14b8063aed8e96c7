// Package env reads individual process environment values that are needed
// before the envconfig-managed configuration has been loaded, such as the
// logger's output format.
package env

import (
	"os"
	"strings"
)

// Get returns the value of key, or fallback when the variable is unset or
// holds only whitespace.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}
