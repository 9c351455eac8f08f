package resolve

import (
	"fmt"
	"regexp"
	"strings"
)

// templateTokenPattern tokenizes a fmt:// template into double-braced escape
// groups, single-braced resolvable groups and brace-free runs. Braces that
// form no group, the empty pairs {} and {{}} included, fall between tokens
// and are carried over verbatim.
var templateTokenPattern = regexp.MustCompile(`\{\{[^{}]+\}\}|\{[^{}]+\}|[^{}]+`)

// expandTemplate resolves a fmt:// template. Each {part} runs through the
// dispatcher and the result is stringified in place; {{part}} is an escape
// and emits {part} without resolution; everything else is kept verbatim.
func expandTemplate(rc Context, template string) (string, error) {
	var b strings.Builder

	last := 0
	for _, span := range templateTokenPattern.FindAllStringIndex(template, -1) {
		b.WriteString(template[last:span[0]])
		last = span[1]

		token := template[span[0]:span[1]]

		switch {
		case strings.HasPrefix(token, "{{") && strings.HasSuffix(token, "}}"):
			b.WriteString(token[1 : len(token)-1])
		case strings.HasPrefix(token, "{") && strings.HasSuffix(token, "}"):
			value, err := rc.Dispatch(token[1 : len(token)-1])
			if err != nil {
				return "", err
			}

			b.WriteString(stringify(value))
		default:
			b.WriteString(token)
		}
	}

	b.WriteString(template[last:])

	return b.String(), nil
}

func stringify(value any) string {
	if s, ok := value.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", value)
}
