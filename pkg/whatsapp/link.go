// Package whatsapp builds wa.me click-to-chat links. No API key is involved:
// the link only opens a pre-filled compose window on the customer's device.
package whatsapp

import (
	"net/url"
	"strings"
)

const baseURL = "https://wa.me/"

// NormalizePhone strips everything but digits and turns Turkish national
// numbers (05xx..., 5xx...) into the international 90 prefix form.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case strings.HasPrefix(digits, "00"):
		return digits[2:]
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		return "90" + digits[1:]
	case len(digits) == 10 && strings.HasPrefix(digits, "5"):
		return "90" + digits
	}
	return digits
}

// Link returns https://wa.me/{phone}?text={message}. An empty phone yields a
// link that lets the user pick the contact.
func Link(phone, message string) string {
	link := baseURL + NormalizePhone(phone)
	if message == "" {
		return link
	}
	// encodeURIComponent style: spaces as %20, not '+'.
	return link + "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}
