package recipient

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind classifies a recipient identifier.
type Kind string

const (
	KindPhone Kind = "phone"
	KindEmail Kind = "email"
)

// Recipient is a canonicalized delivery identifier.
type Recipient struct {
	Raw       string
	Canonical string
	Kind      Kind
}

var (
	formattingRegex = regexp.MustCompile(`[\s\-().]`)
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// South African mobile subscriber numbers start with 6, 7 or 8 after the
	// country code. Landline ranges (1-5) are unreachable by SMS/WhatsApp.
	mobileRegex = regexp.MustCompile(`^\+27[678]\d{8}$`)

	digitsOnlyRegex = regexp.MustCompile(`^\d+$`)
	nonDigitRegex   = regexp.MustCompile(`\D`)
)

// NormalizePhone converts a raw phone number to E.164 form. Numbers without
// a recognizable prefix are assumed to be South African.
func NormalizePhone(raw string) string {
	number := formattingRegex.ReplaceAllString(strings.TrimSpace(raw), "")

	switch {
	case strings.HasPrefix(number, "+"):
		return number
	case strings.HasPrefix(number, "0") && len(number) == 10:
		return "+27" + number[1:]
	case strings.HasPrefix(number, "27"):
		return "+" + number
	case digitsOnlyRegex.MatchString(number) && len(number) == 9:
		return "+27" + number
	default:
		return number
	}
}

// IsValidPhone reports whether raw normalizes to a South African mobile
// number. Landline prefixes (011, 021, ...) are rejected even when the
// length matches because they cannot receive SMS or WhatsApp messages.
func IsValidPhone(raw string) bool {
	return mobileRegex.MatchString(NormalizePhone(raw))
}

// IsValidEmail reports whether s has the standard local@domain.tld shape.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(strings.TrimSpace(s))
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// WhatsAppAddress renders the canonical phone number in the provider's
// channel-prefixed form.
func WhatsAppAddress(raw string) string {
	return "whatsapp:" + NormalizePhone(raw)
}

// Parse classifies raw as an email or phone identifier and returns its
// canonical form. An identifier that looks like neither yields
// ErrUnrecognized.
func Parse(raw string) (Recipient, error) {
	trimmed := strings.TrimSpace(raw)

	if strings.Contains(trimmed, "@") {
		if !IsValidEmail(trimmed) {
			return Recipient{}, fmt.Errorf("%w: %q is not a valid email address", ErrUnrecognized, MaskEmail(trimmed))
		}
		return Recipient{Raw: raw, Canonical: NormalizeEmail(trimmed), Kind: KindEmail}, nil
	}

	if IsValidPhone(trimmed) {
		return Recipient{Raw: raw, Canonical: NormalizePhone(trimmed), Kind: KindPhone}, nil
	}

	return Recipient{}, fmt.Errorf("%w: %q is not a valid phone number", ErrUnrecognized, MaskPhone(trimmed))
}

// IsPhone reports whether the recipient is phone-shaped.
func (r Recipient) IsPhone() bool { return r.Kind == KindPhone }

// IsEmail reports whether the recipient is email-shaped.
func (r Recipient) IsEmail() bool { return r.Kind == KindEmail }

// Masked returns the canonical identifier with personal information hidden,
// safe for logging.
func (r Recipient) Masked() string {
	if r.Kind == KindEmail {
		return MaskEmail(r.Canonical)
	}
	return MaskPhone(r.Canonical)
}

// MaskPhone hides all but the last 4 digits for log output.
func MaskPhone(phone string) string {
	digits := nonDigitRegex.ReplaceAllString(phone, "")
	if len(digits) < 4 {
		return strings.Repeat("*", len(digits))
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}

// MaskEmail preserves the full domain for recognition while hiding the
// local part.
func MaskEmail(email string) string {
	parts := strings.Split(strings.TrimSpace(email), "@")
	if len(parts) != 2 {
		return email
	}

	local := parts[0]
	if len(local) <= 1 {
		return "*@" + parts[1]
	}
	return string(local[0]) + strings.Repeat("*", len(local)-1) + "@" + parts[1]
}
