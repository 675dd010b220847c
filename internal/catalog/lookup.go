package catalog

import (
	"strings"
	"unicode"
)

const (
	DefaultDimensionUnit = "cm"
	DefaultWeightUnit    = "kg"
)

var (
	DimensionUnits = []string{"cm", "m", "in", "ft"}
	WeightUnits    = []string{"kg", "g", "lb", "oz"}
)

var avatarPalette = [...]string{
	"#4A90E2", "#50E3C2", "#F5A623", "#BD10E0", "#9013FE", "#D0021B",
	"#F8E71C", "#7ED321", "#B8E986", "#417505", "#BF5AF2", "#FF9500",
	"#FFCC00", "#FF3B30", "#007AFF", "#34C759", "#5856D6", "#FF2D55",
}

const unknownAvatarColor = "#cccccc"

// Initial returns the upper-cased first letter of name, or fallback when name is blank.
func Initial(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	r := []rune(name)[0]
	return string(unicode.ToUpper(r))
}

// AvatarColor picks a stable palette colour for an initial.
func AvatarColor(initial string) string {
	if strings.TrimSpace(initial) == "" || initial == "?" {
		return unknownAvatarColor
	}
	r := []rune(initial)[0]
	return avatarPalette[int(r)%len(avatarPalette)]
}

// CurrencySymbol maps a supplier's currency field to a display symbol.
// Unknown codes are returned unchanged; blank means dollars.
func CurrencySymbol(code string) string {
	if strings.TrimSpace(code) == "" {
		return "$"
	}
	normalized := strings.ToUpper(code)
	normalized = strings.NewReplacer("PESO", "", "(", "", ")", "").Replace(normalized)
	switch strings.TrimSpace(normalized) {
	case "PHP", "P":
		return "₱"
	case "USD":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	case "JPY":
		return "¥"
	default:
		return code
	}
}
