package schema

import "strings"

// DisplayName returns the best human-readable name for a profile.
// Organizations carry their name in LastName, so "First Last" collapses
// naturally to just the organization name.
func (p ConstituentProfile) DisplayName() string {
	parts := make([]string, 0, 2)
	if s := strings.TrimSpace(p.FirstName); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(p.LastName); s != "" {
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return p.ExternalID
	}
	return strings.Join(parts, " ")
}

// IsBlank reports whether a field value is missing for completeness
// purposes. Whitespace-only strings count as missing.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// NormalizeContactType maps a raw contact type string to one of the
// supported channels. Unknown channels (visit, phonathon, ...) map to other.
func NormalizeContactType(raw string) ContactType {
	ct := ContactType(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := ValidContactTypes[ct]; ok {
		return ct
	}
	return OtherContact
}
