package config

import (
	"fmt"
	"regexp"
	"strings"
)

// Tuning only ever adjusts two keys, so patching works on the raw document
// text: the existing line is replaced in place, preserving the rest of the
// hand-authored file byte for byte. A missing key is appended at top level.

// SetIntKey replaces the first "key: <number>" line with the given value,
// keeping its indentation, or appends the key when absent.
func SetIntKey(content, key string, value int) string {
	re := regexp.MustCompile(`(?m)^([ \t]*)` + regexp.QuoteMeta(key) + `:[ \t]*\d+`)
	if re.MatchString(content) {
		return re.ReplaceAllString(content, fmt.Sprintf("${1}%s: %d", key, value))
	}
	return appendLine(content, fmt.Sprintf("%s: %d", key, value))
}

// SetBoolKey replaces the first "key: true|false" line with the given value,
// keeping its indentation, or appends the key when absent.
func SetBoolKey(content, key string, value bool) string {
	re := regexp.MustCompile(`(?m)^([ \t]*)` + regexp.QuoteMeta(key) + `:[ \t]*(true|false)`)
	if re.MatchString(content) {
		return re.ReplaceAllString(content, fmt.Sprintf("${1}%s: %t", key, value))
	}
	return appendLine(content, fmt.Sprintf("%s: %t", key, value))
}

func appendLine(content, line string) string {
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + line + "\n"
}
