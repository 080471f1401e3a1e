// Package normalize holds the pure field normalizers shared by every
// provider adapter and by the heir deduplicator. Nothing here performs I/O;
// invalid input normalizes to "" rather than failing.
package normalize

import (
	"strings"
	"unicode"

	"heirfinder/internal/enrichment/models"
)

// Email lowercases and sanity-checks an address. Anything that is not
// local@domain.tld returns "".
func Email(raw string) string {
	e := strings.ToLower(strings.TrimSpace(raw))
	e = strings.TrimPrefix(e, "mailto:")
	at := strings.LastIndexByte(e, '@')
	if at <= 0 || at == len(e)-1 {
		return ""
	}
	if strings.ContainsAny(e, " \t,;<>") || strings.Count(e, "@") != 1 {
		return ""
	}
	domain := e[at+1:]
	dot := strings.LastIndexByte(domain, '.')
	if dot <= 0 || dot == len(domain)-1 {
		return ""
	}
	return e
}

// Phone converts a phone number to E.164. Ten-digit numbers are assumed to
// be North American. Numbers that cannot be interpreted return "".
func Phone(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if i := strings.IndexAny(strings.ToLower(s), "x#"); i > 0 {
		s = s[:i] // drop extensions
	}
	international := strings.HasPrefix(s, "+")
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	switch {
	case international && len(digits) >= 8 && len(digits) <= 15:
		return "+" + digits
	case len(digits) == 10:
		return "+1" + digits
	case len(digits) == 11 && digits[0] == '1':
		return "+" + digits
	default:
		return ""
	}
}

// Contact normalizes every field of a contact.
func Contact(c models.CanonicalContact) models.CanonicalContact {
	return models.CanonicalContact{
		VerifiedEmail: Email(c.VerifiedEmail),
		PersonalEmail: Email(c.PersonalEmail),
		MobilePhone:   Phone(c.MobilePhone),
		WorkPhone:     Phone(c.WorkPhone),
	}
}

// FirstNonEmpty returns the first value that normalizes to something.
func FirstNonEmpty(fn func(string) string, values ...string) string {
	for _, v := range values {
		if n := fn(v); n != "" {
			return n
		}
	}
	return ""
}

var nameSuffixes = map[string]struct{}{
	"jr": {}, "sr": {}, "ii": {}, "iii": {}, "iv": {}, "mr": {}, "mrs": {}, "ms": {}, "dr": {},
}

// Name folds a person's name into a comparison key: lowercase, letters and
// digits only, generational suffixes and honorifics removed.
func Name(raw string) string {
	tokens := strings.Fields(foldKey(raw))
	kept := tokens[:0]
	for _, t := range tokens {
		if _, skip := nameSuffixes[t]; skip {
			continue
		}
		kept = append(kept, t)
	}
	return strings.Join(kept, " ")
}

var addressAbbrev = map[string]string{
	"street": "st", "avenue": "ave", "road": "rd", "drive": "dr", "lane": "ln",
	"boulevard": "blvd", "court": "ct", "place": "pl", "circle": "cir", "highway": "hwy",
	"parkway": "pkwy", "terrace": "ter", "apartment": "apt", "suite": "ste", "unit": "apt",
	"north": "n", "south": "s", "east": "e", "west": "w",
}

// Address folds a street address into a comparison key with common USPS
// abbreviations applied.
func Address(raw string) string {
	tokens := strings.Fields(foldKey(raw))
	for i, t := range tokens {
		if abbr, ok := addressAbbrev[t]; ok {
			tokens[i] = abbr
		}
	}
	return strings.Join(tokens, " ")
}

// County folds a county name: "Travis County" and "travis" compare equal.
func County(raw string) string {
	c := foldKey(raw)
	c = strings.TrimSuffix(c, " county")
	c = strings.TrimSuffix(c, " parish")
	return strings.TrimSpace(c)
}

// SameCounty reports whether two county names refer to the same county.
// Blank values never match.
func SameCounty(a, b string) bool {
	na, nb := County(a), County(b)
	return na != "" && na == nb
}

// Key is the heir deduplication key: normalized name plus normalized address.
func Key(name, address string) string {
	return Name(name) + "|" + Address(address)
}

func foldKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevSpace = false
			continue
		}
		if r == '\'' {
			continue // O'Brien == OBrien
		}
		if !prevSpace {
			b.WriteByte(' ')
			prevSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}
