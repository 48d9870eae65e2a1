package deployment

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// placeholderPattern matches `<%= ... %>` with any content, including
// newlines. The captured key is trimmed before lookup.
var placeholderPattern = regexp.MustCompile(`<%=([\s\S]+?)%>`)

// Values returns the placeholder values for an app named name.
func Values(name string) map[string]string {
	release := "prod-th-" + name
	return map[string]string{
		"registryName":       name,
		"projectRepoName":    name,
		"helmProductionName": release,
		"nameOverride":       release,
		"webHttp":            release + "-http",
	}
}

// UnknownPlaceholderError lists placeholders that have no value.
type UnknownPlaceholderError struct {
	Keys []string
}

func (e *UnknownPlaceholderError) Error() string {
	return fmt.Sprintf("no value for placeholder(s): %s", strings.Join(e.Keys, ", "))
}

// Substitute replaces every `<%= key %>` in content with values[key].
// Whitespace inside the delimiters is ignored. Any other content that is
// not a key of values, such as `<%= app.name %>`, produces an
// *UnknownPlaceholderError and no output.
func Substitute(content string, values map[string]string) (string, error) {
	missing := map[string]bool{}
	out := placeholderPattern.ReplaceAllStringFunc(content, func(match string) string {
		key := strings.TrimSpace(placeholderPattern.FindStringSubmatch(match)[1])
		v, ok := values[key]
		if !ok {
			missing[key] = true
			return match
		}
		return v
	})

	if len(missing) > 0 {
		keys := make([]string, 0, len(missing))
		for k := range missing {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", &UnknownPlaceholderError{Keys: keys}
	}
	return out, nil
}

// Placeholders returns the distinct keys referenced in content, sorted.
func Placeholders(content string) []string {
	seen := map[string]bool{}
	var keys []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(content, -1) {
		key := strings.TrimSpace(m[1])
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
