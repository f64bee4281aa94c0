package analysis

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Language selects the language the analysis is written in.
type Language string

const (
	English Language = "en"
	Chinese Language = "zh"
)

// ErrUnsupportedLanguage is returned by ParseLanguage for tags that match
// neither supported language.
var ErrUnsupportedLanguage = errors.New("unsupported language")

var (
	supported = []Language{English, Chinese}
	matcher   = language.NewMatcher([]language.Tag{
		language.English,
		language.SimplifiedChinese,
	})
)

// ParseLanguage maps a BCP 47 tag or Accept-Language style list such as
// "zh-Hans-CN" or "en-GB,en;q=0.8" to a supported Language. The empty
// string selects English.
func ParseLanguage(s string) (Language, error) {
	if s == "" {
		return English, nil
	}
	tags, _, err := language.ParseAcceptLanguage(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrUnsupportedLanguage, s, err)
	}
	if len(tags) == 0 {
		return English, nil
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
	}
	return supported[index], nil
}

// Instruction returns the sentence telling the model which language to
// respond in.
func (l Language) Instruction() string {
	if l == Chinese {
		return "Respond in Simplified Chinese (简体中文)."
	}
	return "Respond in English."
}

func (l Language) String() string {
	if l == Chinese {
		return "zh"
	}
	return "en"
}
