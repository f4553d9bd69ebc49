// Package recipient canonicalizes and validates delivery identifiers
// (South African phone numbers and email addresses).
//
// Phone numbers are normalized to E.164 with the +27 country code:
//
//	recipient.NormalizePhone("082 123-4567") // "+27821234567"
//	recipient.NormalizePhone("27821234567")  // "+27821234567"
//
// Only mobile prefixes are considered valid delivery targets; landline
// ranges are rejected because neither WhatsApp nor SMS can reach them.
//
// Parse classifies a raw identifier as phone or email and returns its
// canonical form, which the delivery and verification packages use as
// the stable key for rate limiting and OTP storage.
package recipient
