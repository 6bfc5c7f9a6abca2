package moderation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "СПАСИБО", "спасибо"},
		{"punctuation splits words", "спасибо,мама!", "спасибо мама"},
		{"noise inside word", "б*л*я", "бля"},
		{"hyphen inside word", "ду-рак", "дурак"},
		{"spaced letters", "с у к а", "сука"},
		{"two single letters stay apart", "я и ты", "я и ты"},
		{"latin transliteration", "cyka", "сука"},
		{"latin digraph", "shlyukha", "шлюха"},
		{"digits", "3алупа", "залупа"},
		{"diacritics", "ёжик йогурт", "ежик иогурт"},
		{"collapse whitespace", "  много   пробелов  ", "много пробелов"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestModerate_Scenarios(t *testing.T) {
	f := Default()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"allow-listed parents", "Спасибо за родителей", true},
		{"plain gratitude", "За каждый день", true},
		{"gods grace", "За Божью благодать", true},
		{"health", "Благодарю за здоровье и друзей", true},
		{"root inside allowed word", "Спасибо барсука за компанию", true},
		{"not bad", "Всё неплохо, спасибо", true},
		{"bare insult", "дурак", false},
		{"shouting", "ДУРАК!!!", false},
		{"inside sentence", "Спасибо, ты дурак", false},
		{"spaced out", "д у р а к", false},
		{"split word", "ду рак", false},
		{"latin lookalike", "cyka", false},
		{"mixed script", "xyй", false},
		{"leet", "3алупа", false},
		{"symbol noise", "б.л.я.т.ь", false},
		{"yo folded", "хуё", false},
		{"containment", "пиздецкий", false},
		{"negative", "Ненавижу понедельники", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := f.Moderate(tt.text)
			assert.Equal(t, tt.want, res.OK(), "Moderate(%q)", tt.text)
			if !tt.want {
				assert.Equal(t, Rejected, res.Kind)
				assert.Equal(t, ReasonRejected, res.Reason)
			}
		})
	}
}

func TestModerate_EveryTermRejectedAsWholeWord(t *testing.T) {
	f := Default()
	for _, w := range forbiddenTerms {
		res := f.Moderate("Спасибо " + w)
		assert.False(t, res.OK(), "term %q accepted", w)
		assert.Equal(t, ReasonRejected, res.Reason)
	}
}

func TestModerate_AllowListOnlyAccepted(t *testing.T) {
	f := Default()
	for _, w := range allowedWords {
		assert.True(t, f.Moderate(w).OK(), "allowed word %q rejected", w)
	}
	for _, p := range allowedPhrases {
		assert.True(t, f.Moderate(p).OK(), "allowed phrase %q rejected", p)
	}
}

func TestModerate_CommonInflectionsAccepted(t *testing.T) {
	f := Default()
	for _, text := range []string{
		"Дети требуют внимания, и это счастье",
		"Спасибо за ребусы на каникулах",
		"Бабушкин хлебушек",
		"Прости, если я кого-то оскорбляю",
	} {
		assert.True(t, f.Moderate(text).OK(), "%q rejected", text)
	}
}

func TestModerate_ReasonDoesNotLeakTerm(t *testing.T) {
	res := Default().Moderate("какой же ты идиот")
	require.False(t, res.OK())
	assert.NotContains(t, res.Reason, "идиот")
}

func TestModerate_PhraseOverrideIsPerMatch(t *testing.T) {
	f := New([]string{"гад"}, nil, []string{"загадка жизни"})

	assert.True(t, f.Moderate("загадка жизни").OK(), "phrase present")
	assert.False(t, f.Moderate("загадка").OK(), "phrase absent")
	assert.False(t, f.Moderate("загадка жизни, гадина").OK(), "unrelated token in same text")
}

func TestModerate_ExactTermNeverOverridden(t *testing.T) {
	// "бля" is a fragment of the allowed "корабля" but still rejected alone.
	f := New([]string{"бля"}, []string{"корабля"}, nil)

	assert.True(t, f.Moderate("корабля").OK())
	assert.True(t, f.Moderate("корабл").OK())
	assert.False(t, f.Moderate("бля").OK())
}

func TestValidate(t *testing.T) {
	f := Default()

	tests := []struct {
		name string
		text string
		kind Kind
	}{
		{"empty", "", Empty},
		{"whitespace", "   \t\n", Empty},
		{"at limit", strings.Repeat("я", 300), Accepted},
		{"over limit", strings.Repeat("я", 301), TooLong},
		{"over limit with forbidden word", "дурак " + strings.Repeat("я", 300), TooLong},
		{"forbidden", "дурак", Rejected},
		{"fine", "Спасибо за родителей", Accepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, f.Validate(tt.text).Kind)
		})
	}
}

func TestValidate_Reasons(t *testing.T) {
	f := Default()
	assert.Equal(t, ReasonEmpty, f.Validate(" ").Reason)
	assert.Equal(t, "Текст не может быть длиннее 300 символов", f.Validate(strings.Repeat("a", 301)).Reason)
}

func TestWithLimit(t *testing.T) {
	f := WithLimit(10)
	assert.Equal(t, 10, f.MaxLength())
	assert.Equal(t, TooLong, f.Validate("Спасибо большое").Kind)
	assert.Equal(t, DefaultMaxLength, Default().MaxLength(), "default filter untouched")
}
