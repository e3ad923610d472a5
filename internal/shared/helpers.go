// Package shared provides common utility functions used across
// multiple packages in the ivybridge codebase.
package shared

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern tokens follow the ivy repository pattern syntax, e.g.
// [organisation]/[module]/[revision]/ivy-[revision].xml.
var patternToken = regexp.MustCompile(`\[(organisation|module|revision|artifact|type|ext)\]`)

// SubstituteTokens replaces every [token] in the pattern with its
// value from the map. Unknown tokens are left untouched.
func SubstituteTokens(pattern string, values map[string]string) string {
	return patternToken.ReplaceAllStringFunc(pattern, func(match string) string {
		token := strings.Trim(match, "[]")
		if value, ok := values[token]; ok {
			return value
		}
		return match
	})
}

// CompiledPattern matches concrete paths against a repository pattern
// and extracts the values of the tokens left open at compile time.
type CompiledPattern struct {
	re     *regexp.Regexp
	groups []string
}

// TranslatePattern compiles a repository pattern into a matcher where
// tokens present in fixed are matched literally and the remaining
// tokens match one path segment each. A token appearing more than
// once must capture the same value in every position.
func TranslatePattern(pattern string, fixed map[string]string) (*CompiledPattern, error) {
	var builder strings.Builder
	builder.WriteString("^")
	rest := pattern
	var groups []string
	for {
		loc := patternToken.FindStringIndex(rest)
		if loc == nil {
			builder.WriteString(regexp.QuoteMeta(rest))
			break
		}
		builder.WriteString(regexp.QuoteMeta(rest[:loc[0]]))
		token := strings.Trim(rest[loc[0]:loc[1]], "[]")
		if value, ok := fixed[token]; ok {
			builder.WriteString(regexp.QuoteMeta(value))
		} else {
			builder.WriteString(`([^/]+?)`)
			groups = append(groups, token)
		}
		rest = rest[loc[1]:]
	}
	builder.WriteString("$")
	re, err := regexp.Compile(builder.String())
	if err != nil {
		return nil, err
	}
	return &CompiledPattern{re: re, groups: groups}, nil
}

// Extract matches path against the pattern and returns the open token
// values. The second return is false when the path does not match or
// a repeated token captured inconsistent values.
func (p *CompiledPattern) Extract(path string) (map[string]string, bool) {
	match := p.re.FindStringSubmatch(path)
	if match == nil {
		return nil, false
	}
	values := map[string]string{}
	for i, token := range p.groups {
		captured := match[i+1]
		if previous, ok := values[token]; ok && previous != captured {
			return nil, false
		}
		values[token] = captured
	}
	return values, true
}

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}
