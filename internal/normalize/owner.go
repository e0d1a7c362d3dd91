package normalize

import (
	"strings"
	"unicode/utf8"

	"corplinks/pkg/contracts/domain"
)

// OwnerName reduces a full name to "Surname I.I.". A single-token name is
// ambiguous and is returned exactly as given.
func OwnerName(raw domain.Optional[string]) domain.Optional[domain.OwnerName] {
	s, ok := raw.Get()
	if !ok || strings.TrimSpace(s) == "" {
		return domain.None[domain.OwnerName]()
	}

	parts := strings.Fields(s)
	if len(parts) < 2 {
		return domain.Some(domain.OwnerName(s))
	}

	var b strings.Builder
	b.WriteString(parts[0])
	b.WriteByte(' ')
	for _, p := range parts[1:] {
		r, _ := utf8.DecodeRuneInString(p)
		b.WriteRune(r)
		b.WriteByte('.')
	}
	return domain.Some(domain.OwnerName(b.String()))
}
