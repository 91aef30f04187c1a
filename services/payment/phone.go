package payment

import "strings"

const countryPrefix = "254"

// NormalizePhoneNumber canonicalizes a Kenyan mobile number to the
// 254-prefixed form the gateway requires. Accepted inputs are the local form
// (0712345678), the short form (712345678) and the full form (254712345678);
// anything else is a ValidationError.
func NormalizePhoneNumber(raw string) (string, error) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "+")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return "", &ValidationError{Field: "phoneNumber", Reason: "empty"}
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", &ValidationError{Field: "phoneNumber", Reason: "contains non-digit characters"}
		}
	}

	switch {
	case strings.HasPrefix(s, countryPrefix) && len(s) == 12:
		return s, nil
	case strings.HasPrefix(s, "0") && len(s) == 10:
		return countryPrefix + s[1:], nil
	case (strings.HasPrefix(s, "7") || strings.HasPrefix(s, "1")) && len(s) == 9:
		return countryPrefix + s, nil
	}
	return "", &ValidationError{Field: "phoneNumber", Reason: "unrecognized format: " + raw}
}
