// Package envfile parses .env content into environment maps. It feeds the
// configured environment mapping handed to spawned worker processes.
package envfile

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/kmalakoff/node-version-call-local/internal/messages"
)

// Parse reads .env content into a key-value map. Blank lines and # comments
// are skipped; an optional "export " prefix and single or double quoted
// values are accepted.
func Parse(content string) (map[string]string, error) {
	env := make(map[string]string)
	if content == "" {
		return env, nil
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		key, value, ok, err := parseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf(messages.EnvfileLineErrorFmt, lineNo, err)
		}
		if !ok {
			continue
		}
		env[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf(messages.EnvfileReadFailedFmt, err)
	}
	return env, nil
}

// Load reads and parses the named .env file.
func Load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// Merge overlays updates onto base and returns a fresh map; neither input is
// mutated.
func Merge(base map[string]string, updates map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(updates))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range updates {
		out[k] = v
	}
	return out
}

// parseLine parses a single .env line and returns key/value when present.
func parseLine(line string) (string, string, bool, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false, nil
	}
	trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "export "))

	idx := strings.Index(trimmed, "=")
	if idx <= 0 {
		return "", "", false, fmt.Errorf(messages.EnvfileMissingKeyFmt, trimmed)
	}
	key := strings.TrimSpace(trimmed[:idx])
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false, fmt.Errorf(messages.EnvfileInvalidKeyFmt, key)
	}

	value := strings.TrimSpace(trimmed[idx+1:])
	switch {
	case strings.HasPrefix(value, `"`):
		parsed, err := unquote(value, '"')
		if err != nil {
			return "", "", false, err
		}
		value = parsed
	case strings.HasPrefix(value, `'`):
		parsed, err := unquote(value, '\'')
		if err != nil {
			return "", "", false, err
		}
		value = parsed
	default:
		if i := strings.Index(value, " #"); i >= 0 {
			value = strings.TrimSpace(value[:i])
		}
	}
	return key, value, true, nil
}

// unquote strips the surrounding quote characters, honoring backslash
// escapes inside double quotes.
func unquote(value string, quote byte) (string, error) {
	var b strings.Builder
	escaped := false
	for i := 1; i < len(value); i++ {
		c := value[i]
		if escaped {
			switch c {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(c)
			}
			escaped = false
			continue
		}
		if quote == '"' && c == '\\' {
			escaped = true
			continue
		}
		if c == quote {
			return b.String(), nil
		}
		b.WriteByte(c)
	}
	return "", fmt.Errorf(messages.EnvfileUnterminatedQuote)
}
