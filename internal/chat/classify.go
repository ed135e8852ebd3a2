package chat

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/kalevra/GiftRally_Go/internal/buffer"
)

// positiveWords and negativeWords drive the implicit poll tally. A
// message counts once, positive winning ties.
var positiveWords = map[string]struct{}{
	"yes": {}, "yess": {}, "yeah": {}, "w": {}, "ww": {}, "www": {},
	"pog": {}, "poggers": {}, "love": {}, "fire": {}, "lets": {},
	"go": {}, "win": {}, "1": {},
}

var negativeWords = map[string]struct{}{
	"no": {}, "nah": {}, "nope": {}, "l": {}, "ll": {}, "boo": {},
	"skip": {}, "lose": {}, "2": {},
}

var positiveEmoji = []rune{'❤', '🔥', '👍', '💯', '🎉', '😍'}
var negativeEmoji = []rune{'👎', '💀', '🤮', '😡'}

// markerTokens are the collectible tokens for the multi-marker
// achievement. A viewer must show all four within one buffer window.
var markerTokens = map[string]struct{}{
	"red": {}, "blue": {}, "green": {}, "purple": {},
}

// minAllCapsLetters is the least letters a message needs before an
// all-uppercase message counts as shouting.
const minAllCapsLetters = 4

// Classify runs the comment heuristics over one chat message and
// returns the marks the supervisor feeds into the engagement buffer.
func Classify(text string) buffer.CommentMarks {
	normalized := norm.NFKC.String(text)

	marks := buffer.CommentMarks{
		Sentiment: sentiment(normalized),
		Markers:   markers(normalized),
		AllCaps:   isAllCaps(normalized),
		EmojiOnly: isEmojiOnly(normalized),
	}
	return marks
}

func sentiment(text string) int {
	lowered := strings.ToLower(text)
	for _, field := range strings.Fields(lowered) {
		word := strings.Trim(field, "!?.,:;")
		if _, ok := positiveWords[word]; ok {
			return 1
		}
		if _, ok := negativeWords[word]; ok {
			return -1
		}
	}
	for _, r := range text {
		for _, p := range positiveEmoji {
			if r == p {
				return 1
			}
		}
		for _, n := range negativeEmoji {
			if r == n {
				return -1
			}
		}
	}
	return 0
}

func markers(text string) []string {
	var found []string
	lowered := strings.ToLower(text)
	for _, field := range strings.Fields(lowered) {
		word := strings.Trim(field, "!?.,:;")
		if _, ok := markerTokens[word]; ok {
			found = append(found, word)
		}
	}
	return found
}

func isAllCaps(text string) bool {
	letters := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return letters >= minAllCapsLetters
}

func isEmojiOnly(text string) bool {
	sawEmoji := false
	for _, r := range text {
		switch {
		case isEmoji(r):
			sawEmoji = true
		case unicode.IsSpace(r):
		case r == '️' || r == '‍': // variation selector, ZWJ
		default:
			return false
		}
	}
	return sawEmoji
}

// isEmoji covers the common emoji blocks plus dingbats and misc symbols
func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF:
		return true
	case r >= 0x1F000 && r <= 0x1F2FF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r >= 0x2B00 && r <= 0x2BFF:
		return true
	}
	return false
}
