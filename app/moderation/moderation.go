// Package moderation decides whether a gratitude message may be published.
//
// Text is normalized to undo common evasions and then checked twice against
// a fixed lexicon: once token by token, and once with boundary anchored
// patterns that tolerate spaces between letters. An allow-list of benign
// words and phrases keeps short roots from flagging legitimate words.
//
// An exact whole-word match of a forbidden term is always rejected. The
// allow-list only overrides containment, and only for the token at hand:
// either the token is itself an allowed word (or part of a longer one), or it
// belongs to an allowed phrase that appears in the submitted text.
package moderation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

// DefaultMaxLength is the longest accepted message, in characters.
const DefaultMaxLength = 300

// Kind classifies a verdict.
type Kind int

const (
	Accepted Kind = iota
	Empty
	TooLong
	Rejected
)

func (k Kind) String() string {
	switch k {
	case Accepted:
		return "accepted"
	case Empty:
		return "empty"
	case TooLong:
		return "too_long"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

// Reason strings are shown to the author as is.
const (
	ReasonEmpty    = "Текст не может быть пустым"
	ReasonRejected = "Текст содержит недопустимые слова"
)

// ReasonTooLong is the reason given for messages over max characters.
func ReasonTooLong(max int) string {
	return fmt.Sprintf("Текст не может быть длиннее %d символов", max)
}

// Result is the verdict for a single text.
type Result struct {
	Kind   Kind
	Reason string
}

// OK reports whether the text may be published.
func (r Result) OK() bool { return r.Kind == Accepted }

type term struct {
	word    string
	pattern *regexp.Regexp
}

type phrase struct {
	raw  string
	norm string
}

// Filter is immutable once built and safe for concurrent use.
type Filter struct {
	terms        []term
	allowWords   []string
	allowPhrases []phrase
	maxLength    int
}

// Option configures a Filter.
type Option func(*Filter)

// WithMaxLength overrides DefaultMaxLength.
func WithMaxLength(n int) Option {
	return func(f *Filter) {
		if n > 0 {
			f.maxLength = n
		}
	}
}

// New builds a filter from raw word lists. Every entry goes through
// Normalize so that it compares against normalized text.
func New(forbidden, allowWords, allowPhrases []string, opts ...Option) *Filter {
	f := &Filter{maxLength: DefaultMaxLength}
	for _, opt := range opts {
		opt(f)
	}

	seen := make(map[string]bool)
	for _, w := range forbidden {
		n := strings.ReplaceAll(Normalize(w), " ", "")
		if utf8.RuneCountInString(n) < 2 || seen[n] {
			continue
		}
		seen[n] = true
		f.terms = append(f.terms, term{word: n, pattern: boundaryPattern(n)})
	}

	for _, w := range allowWords {
		if n := strings.ReplaceAll(Normalize(w), " ", ""); n != "" {
			f.allowWords = append(f.allowWords, n)
		}
	}

	for _, p := range allowPhrases {
		raw := strings.ToLower(strings.TrimSpace(p))
		if raw == "" {
			continue
		}
		f.allowPhrases = append(f.allowPhrases, phrase{raw: raw, norm: Normalize(raw)})
	}

	return f
}

var defaultFilter = sync.OnceValue(func() *Filter {
	return New(forbiddenTerms, allowedWords, allowedPhrases)
})

// Default returns the filter built from the built-in lexicon.
func Default() *Filter {
	return defaultFilter()
}

// WithLimit returns a copy of the default filter with a different length
// limit. The lexicon is shared.
func WithLimit(maxLength int) *Filter {
	base := Default()
	if maxLength <= 0 || maxLength == base.maxLength {
		return base
	}
	f := *base
	f.maxLength = maxLength
	return &f
}

// MaxLength is the longest accepted text, in characters.
func (f *Filter) MaxLength() int { return f.maxLength }

// Validate runs the length checks and then Moderate.
func (f *Filter) Validate(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Kind: Empty, Reason: ReasonEmpty}
	}
	if utf8.RuneCountInString(text) > f.maxLength {
		return Result{Kind: TooLong, Reason: ReasonTooLong(f.maxLength)}
	}
	return f.Moderate(text)
}

// Moderate checks text against the lexicon. The reason for a rejection never
// names the matched term.
func (f *Filter) Moderate(text string) Result {
	normalized := Normalize(text)
	present := f.presentPhrases(strings.ToLower(text))

	for _, tok := range strings.Fields(normalized) {
		if utf8.RuneCountInString(tok) < 2 {
			continue
		}
		for _, t := range f.terms {
			if !strings.Contains(tok, t.word) {
				continue
			}
			if f.overridden(tok, t.word, present) {
				continue
			}
			return rejected()
		}
	}

	for _, t := range f.terms {
		for _, loc := range t.pattern.FindAllStringSubmatchIndex(normalized, -1) {
			match := strings.ReplaceAll(normalized[loc[2]:loc[3]], " ", "")
			if f.overridden(match, t.word, present) {
				continue
			}
			return rejected()
		}
	}

	return Result{Kind: Accepted}
}

func rejected() Result {
	return Result{Kind: Rejected, Reason: ReasonRejected}
}

// presentPhrases returns the allowed phrases found in the lowercased text.
func (f *Filter) presentPhrases(lower string) []phrase {
	var out []phrase
	for _, p := range f.allowPhrases {
		if strings.Contains(lower, p.raw) {
			out = append(out, p)
		}
	}
	return out
}

func (f *Filter) overridden(token, word string, present []phrase) bool {
	if token == word {
		return false
	}
	if f.allowedWord(token) {
		return true
	}
	for _, p := range present {
		for _, w := range strings.Fields(p.norm) {
			if w == token {
				return true
			}
		}
	}
	return false
}

// allowedWord reports whether token is an allowed word or a fragment of a
// longer one.
func (f *Filter) allowedWord(token string) bool {
	for _, w := range f.allowWords {
		if w == token {
			return true
		}
		if len(w) > len(token) && strings.Contains(w, token) {
			return true
		}
	}
	return false
}

// boundaryPattern matches word as a whole word, tolerating single spaces
// between its letters. The first group is the matched span.
func boundaryPattern(word string) *regexp.Regexp {
	letters := make([]string, 0, utf8.RuneCountInString(word))
	for _, r := range word {
		letters = append(letters, regexp.QuoteMeta(string(r)))
	}
	return regexp.MustCompile(`(?:^|[^\p{L}\p{N}])(` + strings.Join(letters, " ?") + `)(?:$|[^\p{L}\p{N}])`)
}
