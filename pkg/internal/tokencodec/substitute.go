package tokencodec

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

// Encode replaces every standalone occurrence of a dictionary word in text with its code.
// Whitespace is copied through unchanged. A word that already has the shape of a code and
// is not itself in the dictionary gets one extra leading '[' so Decode can tell it apart.
func Encode(text string, dict types.Dictionary) string {
	if text == "" {
		return ""
	}
	codes := make(map[string]string, len(dict))
	for _, e := range dict {
		if _, dup := codes[e.Word]; !dup {
			codes[e.Word] = e.Code
		}
	}

	var b strings.Builder
	b.Grow(len(text))
	scanSegments(text, func(seg string, word bool) {
		if !word {
			b.WriteString(seg)
			return
		}
		if code, ok := codes[seg]; ok {
			b.WriteString(code)
			return
		}
		if codeShaped(seg) {
			b.WriteByte('[')
		}
		b.WriteString(seg)
	})
	return b.String()
}

// Decode reverses Encode. Codes missing from the dictionary are left as they are.
func Decode(coded string, dict types.Dictionary) string {
	if coded == "" {
		return ""
	}
	words := make(map[string]string, len(dict))
	for _, e := range dict {
		words[e.Code] = e.Word
	}

	var b strings.Builder
	b.Grow(len(coded) * 2)
	scanSegments(coded, func(seg string, word bool) {
		if !word || !codeShaped(seg) {
			b.WriteString(seg)
			return
		}
		if seg[1] == '[' {
			b.WriteString(seg[1:])
			return
		}
		if w, ok := words[seg]; ok {
			b.WriteString(w)
			return
		}
		b.WriteString(seg)
	})
	return b.String()
}

// decodeSubstrings restores payloads whose codes were spliced into the middle of words.
// Longer codes go first so "[1]" never eats part of "[12]".
func decodeSubstrings(coded string, dict types.Dictionary) string {
	entries := make(types.Dictionary, len(dict))
	copy(entries, dict)
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].Code) > len(entries[j].Code)
	})
	for _, e := range entries {
		if e.Code == "" {
			continue
		}
		coded = strings.ReplaceAll(coded, e.Code, e.Word)
	}
	return coded
}

// codeShaped reports whether s is one or more '[', then digits, then ']'.
func codeShaped(s string) bool {
	if len(s) < 3 || s[0] != '[' || s[len(s)-1] != ']' {
		return false
	}
	i := 0
	for i < len(s) && s[i] == '[' {
		i++
	}
	digits := s[i : len(s)-1]
	if digits == "" {
		return false
	}
	for j := 0; j < len(digits); j++ {
		if digits[j] < '0' || digits[j] > '9' {
			return false
		}
	}
	return true
}

// scanSegments splits s into alternating runs of whitespace and non-whitespace and calls
// fn for each run in order. Invalid UTF-8 bytes count as non-whitespace.
func scanSegments(s string, fn func(seg string, word bool)) {
	start := 0
	inWord := false
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		space := unicode.IsSpace(r)
		if i == 0 {
			inWord = !space
		} else if space == inWord {
			fn(s[start:i], inWord)
			start = i
			inWord = !space
		}
		i += size
	}
	if start < len(s) {
		fn(s[start:], inWord)
	}
}
