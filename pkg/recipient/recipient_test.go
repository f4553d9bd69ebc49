package recipient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/recipient"
)

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"local format", "0821234567", "+27821234567"},
		{"bare country code", "27821234567", "+27821234567"},
		{"already canonical", "+27821234567", "+27821234567"},
		{"spaces and dashes", "082 123-4567", "+27821234567"},
		{"parentheses", "(082) 123 4567", "+27821234567"},
		{"no prefix assumed local", "821234567", "+27821234567"},
		{"foreign number preserved", "+14155550100", "+14155550100"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, recipient.NormalizePhone(tt.input))
		})
	}
}

func TestIsValidPhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"mobile 08x", "0821234567", true},
		{"mobile 07x", "0731234567", true},
		{"mobile 06x", "0601234567", true},
		{"canonical mobile", "+27821234567", true},
		{"landline 011", "0111234567", false},
		{"landline 021", "0211234567", false},
		{"too short", "08212345", false},
		{"too long", "082123456789", false},
		{"empty", "", false},
		{"letters", "phone-number", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, recipient.IsValidPhone(tt.input))
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	t.Parallel()

	assert.True(t, recipient.IsValidEmail("test@example.com"))
	assert.True(t, recipient.IsValidEmail("first.last+tag@sub.example.co.za"))
	assert.False(t, recipient.IsValidEmail("not-an-email"))
	assert.False(t, recipient.IsValidEmail("missing@tld"))
	assert.False(t, recipient.IsValidEmail("@example.com"))
	assert.False(t, recipient.IsValidEmail(""))
}

func TestWhatsAppAddress(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "whatsapp:+27821234567", recipient.WhatsAppAddress("0821234567"))
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("email", func(t *testing.T) {
		t.Parallel()
		r, err := recipient.Parse("Applicant@Example.COM")
		require.NoError(t, err)
		assert.Equal(t, recipient.KindEmail, r.Kind)
		assert.Equal(t, "applicant@example.com", r.Canonical)
		assert.True(t, r.IsEmail())
	})

	t.Run("phone", func(t *testing.T) {
		t.Parallel()
		r, err := recipient.Parse("082 123 4567")
		require.NoError(t, err)
		assert.Equal(t, recipient.KindPhone, r.Kind)
		assert.Equal(t, "+27821234567", r.Canonical)
		assert.True(t, r.IsPhone())
	})

	t.Run("landline rejected", func(t *testing.T) {
		t.Parallel()
		_, err := recipient.Parse("0111234567")
		assert.ErrorIs(t, err, recipient.ErrUnrecognized)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		t.Parallel()
		_, err := recipient.Parse("not a recipient")
		assert.ErrorIs(t, err, recipient.ErrUnrecognized)
	})

	t.Run("malformed email rejected", func(t *testing.T) {
		t.Parallel()
		_, err := recipient.Parse("broken@@example.com")
		assert.ErrorIs(t, err, recipient.ErrUnrecognized)
	})
}

func TestMasking(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "*******4567", recipient.MaskPhone("+27821234567"))
	assert.Equal(t, "a********@example.com", recipient.MaskEmail("applicant@example.com"))
	assert.Equal(t, "*@example.com", recipient.MaskEmail("a@example.com"))

	r, err := recipient.Parse("test@example.com")
	if assert.NoError(t, err) {
		assert.Equal(t, "t***@example.com", r.Masked())
	}
}
