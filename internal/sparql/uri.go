package sparql

import "regexp"

var (
	// shortURIPattern matches the prefixed form "prefix:Local". The prefix
	// may be empty (":Local").
	shortURIPattern = regexp.MustCompile(`(?i)^[A-Z0-9_]*:[A-Z0-9_]+$`)

	// urlPattern matches absolute http(s) URLs with a domain, localhost or
	// IPv4 host, optional port and optional path/query/fragment.
	urlPattern = regexp.MustCompile(`(?i)^https?://` +
		`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+[A-Z]{2,6}\.?|` +
		`localhost|` +
		`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
		`(?::\d+)?` +
		`(?:/?|[/?]\S+|\S+#?\S+)$`)
)

// IsShortURI reports whether uri is in prefixed "prefix:Local" form.
func IsShortURI(uri string) bool {
	return shortURIPattern.MatchString(uri)
}

// IsURL reports whether uri is a well-formed absolute http(s) URL.
func IsURL(uri string) bool {
	return urlPattern.MatchString(uri)
}

// IsValidURI reports whether uri is accepted by NewURI.
func IsValidURI(uri string) bool {
	return IsShortURI(uri) || IsURL(uri)
}
