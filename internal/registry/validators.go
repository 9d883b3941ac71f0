package registry

import "strings"

// HostAddressValidator sanitizes an IP or hostname field. The web UI
// writes on every keystroke, so partially-typed input like "10.0." or
// "roborio-" must be accepted; only characters that can never appear in
// a host address are rejected.
func HostAddressValidator(value interface{}) (interface{}, bool) {
	s, ok := value.(string)
	if !ok {
		return nil, false
	}
	s = strings.TrimSpace(s)
	if len(s) > 253 {
		return nil, false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r == '.' || r == '-' || r == ':':
		default:
			return nil, false
		}
	}
	return s, true
}

// ColorValidator accepts "#RGB", "#RRGGBB" or "#RRGGBBAA" hex colors.
func ColorValidator(value interface{}) (interface{}, bool) {
	s, ok := value.(string)
	if !ok {
		return nil, false
	}
	s = strings.TrimSpace(s)
	if len(s) == 0 || s[0] != '#' {
		return nil, false
	}
	hex := s[1:]
	switch len(hex) {
	case 3, 6, 8:
	default:
		return nil, false
	}
	for _, r := range hex {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return nil, false
		}
	}
	return s, true
}
