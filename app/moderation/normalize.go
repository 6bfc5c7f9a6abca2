package moderation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// substitutions maps digits and symbols commonly used in place of letters.
var substitutions = map[rune]rune{
	'0': 'о',
	'1': 'и',
	'3': 'з',
	'4': 'ч',
	'6': 'б',
	'9': 'я',
	'@': 'а',
	'$': 'с',
	'€': 'е',
}

type digraph struct {
	from string
	to   string
}

// latinDigraphs are checked before single letters, longest first.
var latinDigraphs = []digraph{
	{"sch", "щ"},
	{"sh", "ш"},
	{"ch", "ч"},
	{"zh", "ж"},
	{"kh", "х"},
	{"ts", "ц"},
	{"ya", "я"},
	{"yu", "ю"},
	{"yo", "е"},
	{"ye", "е"},
}

var latinLetters = map[rune]rune{
	'a': 'а', 'b': 'б', 'c': 'с', 'd': 'д', 'e': 'е', 'f': 'ф', 'g': 'г',
	'h': 'х', 'i': 'и', 'j': 'й', 'k': 'к', 'l': 'л', 'm': 'м', 'n': 'н',
	'o': 'о', 'p': 'п', 'q': 'к', 'r': 'р', 's': 'с', 't': 'т', 'u': 'у',
	'v': 'в', 'w': 'в', 'x': 'х', 'y': 'у', 'z': 'з',
}

// noise characters are dropped when they sit inside a word ("б*л*я", "ду-рак").
const noise = "*.-_~+|'\"`^#%&=\\/"

// Normalize folds text into space separated words of letters and digits,
// undoing the usual evasions: case, leetspeak, Latin look-alikes,
// diacritics, punctuation inside words and letter-by-letter spacing.
func Normalize(text string) string {
	s := strings.ToLower(text)
	s = transliterate(s)
	s = foldMarks(s)
	s = stripNoise(s)
	return collapseSpaced(s)
}

func transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		if d, ok := digraphAt(s[i:]); ok {
			b.WriteString(d.to)
			i += len(d.from)
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		if c, ok := latinLetters[r]; ok {
			r = c
		} else if c, ok := substitutions[r]; ok {
			r = c
		}
		b.WriteRune(r)
		i += size
	}

	return b.String()
}

func digraphAt(s string) (digraph, bool) {
	for _, d := range latinDigraphs {
		if strings.HasPrefix(s, d.from) {
			return d, true
		}
	}
	return digraph{}, false
}

// foldMarks strips combining marks, so ё reads as е and й as и.
func foldMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func stripNoise(s string) string {
	rs := []rune(s)

	var b strings.Builder
	b.Grow(len(s))

	for i, r := range rs {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case strings.ContainsRune(noise, r) && i > 0 && i < len(rs)-1 &&
			unicode.IsLetter(rs[i-1]) && unicode.IsLetter(rs[i+1]):
			// inside a word
		default:
			b.WriteByte(' ')
		}
	}

	return b.String()
}

// collapseSpaced joins runs of three or more single-letter words.
func collapseSpaced(s string) string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))

	for i := 0; i < len(fields); {
		j := i
		for j < len(fields) && utf8.RuneCountInString(fields[j]) == 1 {
			j++
		}
		if j-i >= 3 {
			out = append(out, strings.Join(fields[i:j], ""))
			i = j
			continue
		}
		out = append(out, fields[i])
		i++
	}

	return strings.Join(out, " ")
}
