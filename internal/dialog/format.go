package dialog

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxMessageRunes is the chat-bubble comfort limit. Messages under it pass
// through untouched.
const maxMessageRunes = 240

var (
	detailHintRe  = regexp.MustCompile(`how|why|explain|details|reason`)
	sentenceEndRe = regexp.MustCompile(`[.!?]\s+`)
)

// format caps long answers at two sentences for readability. A prompt that
// asks for detail opts out of the cap entirely. This is a display
// heuristic, not a correctness transform.
func format(message, prompt string) string {
	if utf8.RuneCountInString(message) < maxMessageRunes {
		return message
	}
	if detailHintRe.MatchString(strings.ToLower(prompt)) {
		return message
	}

	sentences := splitSentences(message)
	if len(sentences) > 2 {
		sentences = sentences[:2]
	}
	return strings.Join(sentences, " ")
}

// splitSentences breaks on sentence-ending punctuation followed by
// whitespace, keeping the punctuation with its sentence.
func splitSentences(message string) []string {
	locs := sentenceEndRe.FindAllStringIndex(message, -1)
	if len(locs) == 0 {
		return []string{message}
	}

	sentences := make([]string, 0, len(locs)+1)
	prev := 0
	for _, loc := range locs {
		sentences = append(sentences, message[prev:loc[0]+1])
		prev = loc[1]
	}
	if tail := message[prev:]; tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}
