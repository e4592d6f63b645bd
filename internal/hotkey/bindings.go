package hotkey

import (
	"fmt"
	"strings"
)

// ParseLanguageBindings parses a quick-switch spec like "f1:en,f2:ru" into a
// binding→language map. An empty spec yields an empty map.
func ParseLanguageBindings(spec string) (map[string]string, error) {
	bindings := make(map[string]string)
	if strings.TrimSpace(spec) == "" {
		return bindings, nil
	}
	for _, pair := range strings.Split(spec, ",") {
		key, language, ok := strings.Cut(strings.TrimSpace(pair), ":")
		key = strings.TrimSpace(key)
		language = strings.TrimSpace(language)
		if !ok || key == "" || language == "" {
			return nil, fmt.Errorf("invalid language binding %q, want key:code", pair)
		}
		if _, dup := bindings[key]; dup {
			return nil, fmt.Errorf("duplicate language binding %q", key)
		}
		bindings[key] = language
	}
	return bindings, nil
}
