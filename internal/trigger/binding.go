package trigger

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phrazzld/blob-trigger/internal/config"
)

var (
	settingToken  = regexp.MustCompile(`%([^%/{}]+)%`)
	paramToken    = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)
	repeatedSlash = regexp.MustCompile(`/{2,}`)
)

// BindingPath is a trigger path pattern such as "%BlobPath%/{name}" with its
// settings resolved. The first segment names the container (bucket); the rest
// is matched against object names. Every {param} captures at least one
// character; all but the last stop at '/', the last may span it.
type BindingPath struct {
	pattern   string
	container string
	params    []string
	re        *regexp.Regexp
}

// ParseBindingPath resolves %Setting% tokens in template from values and
// compiles the result. A token whose setting is not configured is an
// ErrUnresolvedSetting.
func ParseBindingPath(template string, values *config.Values) (*BindingPath, error) {
	var unresolved []string
	resolved := settingToken.ReplaceAllStringFunc(template, func(token string) string {
		key := strings.Trim(token, "%")
		if !values.IsSet(key) {
			unresolved = append(unresolved, key)
			return token
		}
		return values.GetString(key)
	})
	if len(unresolved) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedSetting, strings.Join(unresolved, ", "))
	}
	if strings.Contains(resolved, "%") {
		return nil, fmt.Errorf("%w: unbalanced %% in %q", ErrInvalidBindingPath, resolved)
	}

	resolved = strings.Trim(repeatedSlash.ReplaceAllString(resolved, "/"), "/")

	container, rest, _ := strings.Cut(resolved, "/")
	if container == "" || strings.ContainsAny(container, "{}") {
		return nil, fmt.Errorf("%w: %q has no literal container segment", ErrInvalidBindingPath, resolved)
	}
	if rest == "" {
		return nil, fmt.Errorf("%w: %q has no object pattern", ErrInvalidBindingPath, resolved)
	}

	re, params, err := compilePattern(resolved)
	if err != nil {
		return nil, err
	}

	return &BindingPath{
		pattern:   resolved,
		container: container,
		params:    params,
		re:        re,
	}, nil
}

func compilePattern(pattern string) (*regexp.Regexp, []string, error) {
	matches := paramToken.FindAllStringSubmatchIndex(pattern, -1)

	var (
		expr   strings.Builder
		params []string
		seen   = make(map[string]bool)
		last   int
	)
	expr.WriteString("^")

	for i, m := range matches {
		literal := pattern[last:m[0]]
		if strings.ContainsAny(literal, "{}") {
			return nil, nil, fmt.Errorf("%w: stray brace in %q", ErrInvalidBindingPath, pattern)
		}
		expr.WriteString(regexp.QuoteMeta(literal))

		name := pattern[m[2]:m[3]]
		if seen[name] {
			return nil, nil, fmt.Errorf("%w: parameter {%s} repeated in %q", ErrInvalidBindingPath, name, pattern)
		}
		seen[name] = true
		params = append(params, name)

		if i == len(matches)-1 {
			expr.WriteString("(.+)")
		} else {
			expr.WriteString("([^/]+)")
		}
		last = m[1]
	}

	tail := pattern[last:]
	if strings.ContainsAny(tail, "{}") {
		return nil, nil, fmt.Errorf("%w: stray brace in %q", ErrInvalidBindingPath, pattern)
	}
	expr.WriteString(regexp.QuoteMeta(tail))
	expr.WriteString("$")

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidBindingPath, err)
	}
	return re, params, nil
}

// Container returns the bucket the binding watches.
func (b *BindingPath) Container() string {
	return b.container
}

// Params returns the parameter names in the order they appear.
func (b *BindingPath) Params() []string {
	return append([]string(nil), b.params...)
}

// String returns the resolved pattern.
func (b *BindingPath) String() string {
	return b.pattern
}

// Match reports whether the object in bucket falls under the binding and
// returns the captured parameters.
func (b *BindingPath) Match(bucket, object string) (map[string]string, bool) {
	m := b.re.FindStringSubmatch(bucket + "/" + object)
	if m == nil {
		return nil, false
	}

	captured := make(map[string]string, len(b.params))
	for i, name := range b.params {
		captured[name] = m[i+1]
	}
	return captured, true
}
