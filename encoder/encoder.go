// Package encoder turns free-form text into the one-hot feature vector the
// network was trained on. The scheme must stay identical to the trainer's.
package encoder

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/TheEpicBlock/mid-journey/model"
	"github.com/TheEpicBlock/mid-journey/tensor"
)

const (
	// Channels per character position: a-z plus one "other" slot.
	Channels = model.Channels
	// OtherChannel receives digits, punctuation and non-ASCII characters.
	OtherChannel = Channels - 1
)

// CharToChannel maps a character to its one-hot channel. ASCII letters are
// case-folded onto 0..25, whitespace is skipped and everything else is 26.
func CharToChannel(r rune) (int, bool) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	switch {
	case r >= 'a' && r <= 'z':
		return int(r - 'a'), true
	case unicode.IsSpace(r):
		return 0, false
	default:
		return OtherChannel, true
	}
}

// SplitTrailingWord separates the trailing word from the rest of the text.
//
// The trailing word is the last whitespace-delimited token that does not
// start with '('. When every token starts with '(' the last token is used.
// The prefix is the remaining tokens joined by single spaces.
func SplitTrailingWord(text string) (prefix, trailing string) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return "", ""
	}

	last := len(words) - 1
	for i := len(words) - 1; i >= 0; i-- {
		if !strings.HasPrefix(words[i], "(") {
			last = i
			break
		}
	}

	rest := make([]string, 0, len(words)-1)
	rest = append(rest, words[:last]...)
	rest = append(rest, words[last+1:]...)
	return strings.Join(rest, " "), words[last]
}

// FeatureIndex returns the flat feature index of channel at position, or
// false when position falls outside the inputLength character slots.
func FeatureIndex(inputLength, position, channel int) (int, bool) {
	if position < 0 || position >= inputLength || channel < 0 || channel >= Channels {
		return 0, false
	}
	return position*Channels + channel, true
}

// MaxChars is the number of characters a model with the given input length
// can see; longer prefixes are truncated.
func MaxChars(inputLength int) int {
	return inputLength
}

// Truncate shortens text to at most MaxChars(inputLength) bytes, the length
// unit the trainer uses for names. A multi-byte character straddling the
// limit is dropped whole so the result stays valid UTF-8.
func Truncate(text string, inputLength int) string {
	max := MaxChars(inputLength)
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// Encode builds the [inputLength, 27] feature tensor for text.
//
// The prefix is written left to right from position 0 and the trailing word
// right to left from position inputLength-1. Characters that would land
// outside the vector are dropped; encoding never fails.
func Encode(text string, inputLength int) *tensor.Tensor {
	out := tensor.New(inputLength, Channels)
	prefix, trailing := SplitTrailingWord(text)

	pos := 0
	for _, r := range prefix {
		write(out, inputLength, pos, r)
		pos++
	}

	j := 0
	for _, r := range trailing {
		write(out, inputLength, inputLength-j-1, r)
		j++
	}
	return out
}

func write(out *tensor.Tensor, inputLength, position int, r rune) {
	ch, ok := CharToChannel(r)
	if !ok {
		return
	}
	if idx, ok := FeatureIndex(inputLength, position, ch); ok {
		out.Data[idx] = 1
	}
}
