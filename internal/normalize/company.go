package normalize

import (
	"strings"

	"corplinks/pkg/contracts/domain"
)

// quoteStripper removes straight, guillemet and typographic double quotes.
var quoteStripper = strings.NewReplacer(
	`"`, "",
	"«", "",
	"»", "",
	"“", "",
	"”", "",
	"„", "",
)

// CompanyName strips quote glyphs and collapses whitespace. Unlike the other
// normalizers a blank value is kept (as an empty name); only an absent value
// is missing.
func CompanyName(raw domain.Optional[string]) domain.Optional[domain.CompanyName] {
	s, ok := raw.Get()
	if !ok {
		return domain.None[domain.CompanyName]()
	}
	cleaned := quoteStripper.Replace(s)
	return domain.Some(domain.CompanyName(strings.Join(strings.Fields(cleaned), " ")))
}
