// Package geo resolves Brazilian geographic names: free-text state names to
// 2-letter UF codes and macro-regions, and coded municipality tokens to
// canonical municipality names. Misses are never errors; callers keep the
// original value.
package geo

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var spaceRuns = regexp.MustCompile(`\s+`)

// normalizeName lowercases, strips accents, and collapses whitespace so
// "São  Paulo" and "SAO PAULO" key the same table entry.
func normalizeName(s string) string {
	folded, _, _ := transform.String(stripAccents, strings.ToLower(strings.TrimSpace(s)))
	return spaceRuns.ReplaceAllString(folded, " ")
}

var twoLetters = regexp.MustCompile(`^[A-Za-z]{2}$`)

// ufSiglas keys full state names, ASCII-folded lowercase.
var ufSiglas = map[string]string{
	"acre": "AC", "alagoas": "AL", "amapa": "AP", "amazonas": "AM", "bahia": "BA",
	"ceara": "CE", "distrito federal": "DF", "espirito santo": "ES", "goias": "GO",
	"maranhao": "MA", "mato grosso": "MT", "mato grosso do sul": "MS",
	"minas gerais": "MG", "para": "PA", "paraiba": "PB", "parana": "PR",
	"pernambuco": "PE", "piaui": "PI", "rio de janeiro": "RJ",
	"rio grande do norte": "RN", "rio grande do sul": "RS",
	"rondonia": "RO", "roraima": "RR", "santa catarina": "SC",
	"sao paulo": "SP", "sergipe": "SE", "tocantins": "TO",
}

// ufRegiao maps each UF code to its macro-region.
var ufRegiao = map[string]string{
	"AC": "Norte", "AP": "Norte", "AM": "Norte", "PA": "Norte", "RO": "Norte", "RR": "Norte", "TO": "Norte",
	"AL": "Nordeste", "BA": "Nordeste", "CE": "Nordeste", "MA": "Nordeste", "PB": "Nordeste",
	"PE": "Nordeste", "PI": "Nordeste", "RN": "Nordeste", "SE": "Nordeste",
	"DF": "Centro-Oeste", "GO": "Centro-Oeste", "MT": "Centro-Oeste", "MS": "Centro-Oeste",
	"ES": "Sudeste", "MG": "Sudeste", "RJ": "Sudeste", "SP": "Sudeste",
	"PR": "Sul", "RS": "Sul", "SC": "Sul",
}

// Sigla derives the 2-letter UF code from a raw state value. Values that
// are already two alphabetic characters short-circuit to their uppercase
// form without a table lookup; everything else is accent/case folded and
// looked up by full name. Unknown names return false.
func Sigla(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	if twoLetters.MatchString(s) {
		return strings.ToUpper(s), true
	}
	code, ok := ufSiglas[normalizeName(s)]
	return code, ok
}

// Region returns the macro-region for a UF code, or false for unknown codes.
func Region(sigla string) (string, bool) {
	r, ok := ufRegiao[strings.ToUpper(strings.TrimSpace(sigla))]
	return r, ok
}
