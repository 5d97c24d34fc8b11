package loader

import (
	"bufio"
	"bytes"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// sniffSampleSize caps how much of the input the sniffer examines.
const sniffSampleSize = 64 * 1024

// candidate delimiters in fallback priority order.
var fallbackDelimiters = []rune{';', ',', '\t', '|'}

// SniffDelimiter guesses the delimiter by counting candidate characters
// across the first lines of the sample and picking the one that appears a
// consistent nonzero number of times per line. Returns false on ambiguous
// or pathological input; callers must fall back to Candidates.
func SniffDelimiter(sample []byte) (rune, bool) {
	if len(sample) > sniffSampleSize {
		sample = sample[:sniffSampleSize]
	}
	// Latin-1 decodes any byte sequence, good enough to count separators.
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(sample)
	if err != nil {
		return 0, false
	}

	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(decoded))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() && len(lines) < 10 {
		if line := strings.TrimRight(sc.Text(), "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return 0, false
	}

	best := rune(0)
	bestCount := 0
	for _, d := range fallbackDelimiters {
		count := strings.Count(lines[0], string(d))
		if count == 0 {
			continue
		}
		consistent := true
		for _, line := range lines[1:] {
			if strings.Count(line, string(d)) != count {
				consistent = false
				break
			}
		}
		if consistent && count > bestCount {
			best = d
			bestCount = count
		}
	}
	if best == 0 {
		return 0, false
	}
	return best, true
}

// Candidates builds the ordered delimiter list: the explicit override first
// if given, then the sniffed guess, then the common fallbacks, duplicates
// removed preserving first-seen order.
func Candidates(explicit, sniffed rune) []rune {
	var out []rune
	seen := make(map[rune]bool)
	add := func(r rune) {
		if r != 0 && !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	add(explicit)
	add(sniffed)
	for _, d := range fallbackDelimiters {
		add(d)
	}
	return out
}
