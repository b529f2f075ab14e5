package core

// validators.go holds the field-level format checks used by the row classifier
// and the single-field validation endpoint.
//
// Every validator treats empty or whitespace-only input as valid: all of these
// fields are optional. A failed check returns false plus a message that tells
// the user which part of the value is wrong.

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ipv4Pattern        = regexp.MustCompile(`^(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)$`)
	macRunPattern      = regexp.MustCompile(`([0-9A-Fa-f]{2}[:\-]){5}[0-9A-Fa-f]{2}|[0-9A-Fa-f]{12}`)
	equipmentIDPattern = regexp.MustCompile(`(?i)^(PC|MON|SCN|PRN)-\d{4}$`)
	cpuSpeedPattern    = regexp.MustCompile(`(?i)^([\d.]+)\s*(GHz|MHz)?$`)

	// equipmentIDLoose matches IDs a user probably meant, e.g. "pc1" or "MON_12".
	equipmentIDLoose = regexp.MustCompile(`(?i)^\s*(PC|MON|SCN|PRN)[\s_\-.]*(\d{1,4})\s*$`)
)

// ValidateIPv4 checks for four dot-separated decimal octets in 0-255.
func ValidateIPv4(value string) (bool, string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return true, ""
	}
	if ipv4Pattern.MatchString(value) {
		return true, ""
	}

	parts := strings.Split(value, ".")
	if len(parts) != 4 {
		return false, fmt.Sprintf("Invalid IPv4 address format. Expected 4 octets separated by dots, got %d.", len(parts))
	}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return false, fmt.Sprintf("Invalid IPv4 address format. Octet %d ('%s') is not a valid number.", i+1, part)
		}
		if n < 0 || n > 255 {
			return false, fmt.Sprintf("Invalid IPv4 address format. Octet %d (%d) is out of range (0-255).", i+1, n)
		}
	}
	return false, "Invalid IPv4 address format. Expected format: xxx.xxx.xxx.xxx where each octet is 0-255."
}

// ValidateMAC accepts one or more MAC addresses, with or without separators
// and with prefixes such as "WLAN:". Values with no recognizable MAC run are
// checked as a whole.
func ValidateMAC(value string) (bool, string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return true, ""
	}

	if matches := macRunPattern.FindAllString(value, -1); len(matches) > 0 {
		for _, m := range matches {
			clean := stripMACSeparators(strings.ToUpper(m))
			if len(clean) != 12 {
				return false, "Invalid MAC address format. Expected 12 hexadecimal characters."
			}
			if bad := nonHexChars(clean); len(bad) > 0 {
				return false, "Invalid MAC address format. Contains invalid characters."
			}
		}
		return true, ""
	}

	clean := stripMACSeparators(strings.ToUpper(value))
	if len(clean) != 12 {
		return false, fmt.Sprintf("Invalid MAC address format. Expected 12 hexadecimal characters, got %d.", len(clean))
	}
	if bad := nonHexChars(clean); len(bad) > 0 {
		return false, fmt.Sprintf("Invalid MAC address format. Contains invalid characters: %s.", strings.Join(bad, ", "))
	}
	return true, ""
}

// ValidateEquipmentID checks the {TYPE}-NNNN format. Messages get more
// specific the closer the value is to a valid ID.
func ValidateEquipmentID(value string) (bool, string) {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		return true, ""
	}
	if equipmentIDPattern.MatchString(value) {
		return true, ""
	}

	if !strings.Contains(value, "-") {
		return false, "Invalid Equipment ID format. Expected format: PC-0001, MON-0001, SCN-0001, or PRN-0001."
	}
	parts := strings.Split(value, "-")
	if len(parts) != 2 {
		return false, "Invalid Equipment ID format. Expected exactly one hyphen separating type and number."
	}
	prefix, num := parts[0], parts[1]
	if !isEquipmentPrefix(prefix) {
		return false, fmt.Sprintf("Invalid Equipment ID prefix. Expected one of: %s. Got: %s.", strings.Join(equipmentPrefixes(), ", "), prefix)
	}
	if len(num) != 4 || !isDigits(num) {
		return false, fmt.Sprintf("Invalid Equipment ID number. Expected 4 digits (e.g., 0001). Got: %s.", num)
	}
	return false, "Invalid Equipment ID format. Expected format: PC-0001, MON-0001, SCN-0001, or PRN-0001."
}

// SuggestEquipmentID proposes a well-formed ID for near misses like "pc1"
// or "MON_0003". It returns "" when no confident suggestion exists.
func SuggestEquipmentID(value string) string {
	m := equipmentIDLoose.FindStringSubmatch(value)
	if m == nil {
		return ""
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n == 0 {
		return ""
	}
	suggestion := fmt.Sprintf("%s-%04d", strings.ToUpper(m[1]), n)
	if suggestion == strings.ToUpper(strings.TrimSpace(value)) {
		return ""
	}
	return suggestion
}

// ValidateCPUSpeed accepts a number with an optional GHz/MHz unit.
func ValidateCPUSpeed(value string) (bool, string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return true, ""
	}
	if cpuSpeedPattern.MatchString(value) {
		return true, ""
	}
	return false, "Invalid CPU speed format. Expected format: X.XX GHz or X.XX MHz (e.g., 2.5 GHz, 3.20 GHz)."
}

func stripMACSeparators(s string) string {
	return strings.NewReplacer(":", "", "-", "").Replace(s)
}

// nonHexChars returns the distinct non-hex characters of s in first-seen order.
func nonHexChars(s string) []string {
	var bad []string
	seen := make(map[rune]bool)
	for _, r := range s {
		if strings.ContainsRune("0123456789ABCDEF", r) || seen[r] {
			continue
		}
		seen[r] = true
		bad = append(bad, string(r))
	}
	return bad
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
