package loader

import (
	"strings"

	"corplinks/pkg/contracts/domain"
)

// SplitLine splits a packed line on commas. A field wrapped in double quotes
// may contain commas, and a doubled quote inside it stands for one quote.
// Quotes that do not open a field are kept as text. A blank line yields no
// fields at all, so every position of the record ends up missing.
func SplitLine(line string) []domain.Optional[string] {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	var (
		fields   []domain.Optional[string]
		b        strings.Builder
		inQuotes bool
		fieldLen int
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inQuotes && r == '"':
			if i+1 < len(runes) && runes[i+1] == '"' {
				b.WriteRune('"')
				i++
				continue
			}
			inQuotes = false
		case r == '"' && fieldLen == 0:
			inQuotes = true
		case r == ',' && !inQuotes:
			fields = append(fields, domain.Some(b.String()))
			b.Reset()
			fieldLen = 0
			continue
		default:
			b.WriteRune(r)
		}
		fieldLen++
	}
	return append(fields, domain.Some(b.String()))
}
