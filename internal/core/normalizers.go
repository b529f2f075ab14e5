package core

// normalizers.go canonicalizes field values before validation results are
// shown to the user and before they are stored.
//
// Normalizers never fail. A value that cannot be confidently normalized comes
// back trimmed but otherwise unchanged, and normalizing an already normalized
// value returns it as is.

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// preserveUppercase lists words kept fully upper-cased by ToTitleCase.
var preserveUppercase = map[string]bool{
	"CEO": true, "SFF": true, "PC": true, "IT": true, "HR": true, "CFO": true,
	"CTO": true, "VP": true, "COO": true, "CMO": true, "CIO": true, "CSO": true,
}

// macPrefixes are interface labels stripped before looking for a bare MAC.
// ETHERNET precedes ETH so the longer label is removed whole.
var macPrefixes = []string{"ETHERNET", "WLAN", "WIFI", "LAN", "ETH"}

// NormalizeMAC returns every MAC found in value as XX:XX:XX:XX:XX:XX,
// joined by newlines when there is more than one.
func NormalizeMAC(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	matches := macRunPattern.FindAllString(value, -1)
	if len(matches) == 0 {
		clean := stripMACSeparators(strings.ToUpper(value))
		clean = strings.Join(strings.Fields(clean), "")
		for _, p := range macPrefixes {
			clean = strings.ReplaceAll(clean, p, "")
		}
		if len(clean) == 12 && len(nonHexChars(clean)) == 0 {
			return formatMAC(clean)
		}
		return value
	}

	normalized := make([]string, 0, len(matches))
	for _, m := range matches {
		clean := stripMACSeparators(strings.ToUpper(m))
		if len(clean) == 12 && len(nonHexChars(clean)) == 0 {
			normalized = append(normalized, formatMAC(clean))
		}
	}
	if len(normalized) == 0 {
		return value
	}
	return strings.Join(normalized, "\n")
}

func formatMAC(clean string) string {
	var b strings.Builder
	for i := 0; i < 12; i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(clean[i : i+2])
	}
	return b.String()
}

// NormalizeCPUSpeed formats speeds as "<number> GHz" or "<number> MHz".
// A missing unit defaults to GHz.
func NormalizeCPUSpeed(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	m := cpuSpeedPattern.FindStringSubmatch(value)
	if m == nil {
		return value
	}
	unit := "GHz"
	if strings.EqualFold(m[2], "MHz") {
		unit = "MHz"
	}
	return m[1] + " " + unit
}

// ToTitleCase title-cases each whitespace-separated word, keeping known
// abbreviations such as CEO and IT upper-cased, and rejoins with single spaces.
func ToTitleCase(value string) string {
	words := strings.Fields(value)
	if len(words) == 0 {
		return ""
	}
	caser := cases.Title(language.Und)
	for i, w := range words {
		if upper := strings.ToUpper(w); preserveUppercase[upper] {
			words[i] = upper
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// NormalizeEquipmentID trims and upper-cases; it does not validate.
func NormalizeEquipmentID(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}
