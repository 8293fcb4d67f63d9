package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Tools are addressed by a route name wrapped as "/<name>_html". The wrap
// and parse directions validate their input instead of truncating by
// offset, so a malformed title fails instead of producing a bogus route.

const hrefSuffix = "_html"

var routeNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

func ValidRouteName(name string) bool {
	return routeNamePattern.MatchString(name) && !strings.HasSuffix(name, hrefSuffix)
}

func WrapTitle(name string) (string, error) {
	if !ValidRouteName(name) {
		return "", fmt.Errorf("invalid route name %q", name)
	}

	return "/" + name + hrefSuffix, nil
}

func ParseTitle(title string) (string, error) {
	trimmed, ok := strings.CutPrefix(title, "/")
	if !ok {
		return "", fmt.Errorf("malformed tool title %q: missing leading slash", title)
	}

	name, ok := strings.CutSuffix(trimmed, hrefSuffix)
	if !ok {
		return "", fmt.Errorf("malformed tool title %q: missing %q suffix", title, hrefSuffix)
	}

	if !ValidRouteName(name) {
		return "", fmt.Errorf("malformed tool title %q: invalid route name %q", title, name)
	}

	return name, nil
}

// Slug derives a route name from a free-form display title, e.g.
// "My Net Worth" -> "my_net_worth".
func Slug(displayTitle string) (string, error) {
	s := strings.TrimSpace(strings.ToLower(displayTitle))
	s = strings.Join(strings.Fields(s), "_")
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return -1
		}
	}, s)

	if !ValidRouteName(s) {
		return "", fmt.Errorf("title %q does not reduce to a usable route name", displayTitle)
	}

	return s, nil
}
