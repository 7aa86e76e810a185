package order

import (
	"context"
	"strings"
)

// DefaultHandoffBase is the chat link the order message is appended to.
const DefaultHandoffBase = "https://m.me/61584534464621?text="

// Handoff transports a rendered order to the shop's chat channel and returns the link
// the customer opens.
type Handoff interface {
	Deliver(ctx context.Context, s Summary) (string, error)
}

// LinkHandoff only builds the link; the customer's device sends the message.
type LinkHandoff struct {
	Base string
}

// Deliver implements Handoff.
func (h LinkHandoff) Deliver(_ context.Context, s Summary) (string, error) {
	return HandoffURL(h.Base, s.Text), nil
}

// HandoffURL appends text, percent-encoded as a URI component, to base.
func HandoffURL(base, text string) string {
	if strings.TrimSpace(base) == "" {
		base = DefaultHandoffBase
	}
	return base + encodeComponent(text)
}

// encodeComponent escapes everything except A-Z a-z 0-9 and -_.!~*'() so chat apps
// decode spaces and emoji the same way browsers encode them.
func encodeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreservedComponent(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&15])
	}
	return b.String()
}

func unreservedComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
