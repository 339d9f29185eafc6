package alertpanel

import (
	"fmt"

	"github.com/cbroglie/mustache"
)

// RenderTemplate substitutes {{key}} placeholders from data verbatim, without
// HTML escaping. Unknown keys render empty. A template that fails to parse is returned unchanged together
// with the parse error so callers can log it and carry on.
func RenderTemplate(tmpl string, data map[string]string) (string, error) {
	if tmpl == "" {
		return "", nil
	}
	out, err := mustache.RenderRaw(tmpl, true, data)
	if err != nil {
		return tmpl, fmt.Errorf("render template %q: %w", tmpl, err)
	}
	return out, nil
}
