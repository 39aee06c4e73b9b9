package parse

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"vocabscan/internal/services"
)

// Card is one extracted vocabulary entry. The three fields are opaque text;
// the sink applies no cross-record deduplication on them.
type Card struct {
	Word    string
	Meaning string
	Example string
}

type rawCard struct {
	Word    string `yaml:"word"`
	Meaning string `yaml:"meaning"`
	Example string `yaml:"example"`
}

// Cards parses the collaborator's free-form reply into vocabulary cards. The
// reply is sanitized first (fence markers stripped), then decoded as a YAML
// list of entries; a bare single mapping is accepted as a one-entry list.
// Entries without a word are dropped; words are normalized and deduplicated
// within the reply.
func Cards(reply string) ([]Card, error) {
	payload := StripFences(reply)
	if payload == "" {
		return nil, services.Wrap(services.ErrParse, "parse", "cards", "empty reply", nil)
	}

	var raw []rawCard
	if err := yaml.Unmarshal([]byte(payload), &raw); err != nil {
		var single rawCard
		if singleErr := yaml.Unmarshal([]byte(payload), &single); singleErr != nil {
			return nil, services.Wrap(services.ErrParse, "parse", "cards", "reply is not a YAML entry list", err)
		}
		raw = []rawCard{single}
	}

	lower := cases.Lower(language.Und)
	fold := cases.Fold()
	seen := make(map[string]struct{}, len(raw))
	cards := make([]Card, 0, len(raw))
	for _, entry := range raw {
		word := strings.TrimSpace(entry.Word)
		if word == "" {
			continue
		}
		// Proper nouns keep their capitalization; everything else is folded
		// to lowercase so "Apple" the fruit and "apple" collapse to one form.
		if !startsUpper(word) {
			word = lower.String(word)
		}
		key := fold.String(word)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cards = append(cards, Card{
			Word:    word,
			Meaning: strings.TrimSpace(entry.Meaning),
			Example: strings.TrimSpace(entry.Example),
		})
	}
	return cards, nil
}

// StripFences removes a wrapping triple-backtick code fence, tolerating a
// language tag after the opening fence. Replies without fences pass through
// trimmed.
func StripFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := trimmed[3:]
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		if tag := strings.TrimSpace(body[:idx]); tag == "" || isFenceTag(tag) {
			body = body[idx+1:]
		}
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

func isFenceTag(tag string) bool {
	switch strings.ToLower(tag) {
	case "yaml", "yml", "json", "text":
		return true
	default:
		return false
	}
}

func startsUpper(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}
