package tokencodec

import "strings"

// FrequencyTable counts whitespace-delimited words and remembers the order in which
// each distinct word first appeared.
type FrequencyTable struct {
	order  []string
	counts map[string]int
}

// Analyze builds the word frequency table of text. Words are case-sensitive.
// Empty or all-whitespace input yields an empty table.
func Analyze(text string) FrequencyTable {
	words := strings.Fields(text)
	table := FrequencyTable{
		order:  make([]string, 0, len(words)/2+1),
		counts: make(map[string]int, len(words)/2+1),
	}
	for _, w := range words {
		if _, seen := table.counts[w]; !seen {
			table.order = append(table.order, w)
		}
		table.counts[w]++
	}
	return table
}

// Len returns the number of distinct words.
func (t FrequencyTable) Len() int { return len(t.order) }

// Count returns how often word occurred.
func (t FrequencyTable) Count(word string) int { return t.counts[word] }

// Words returns the distinct words in first-occurrence order.
func (t FrequencyTable) Words() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Total returns the number of words, counting repeats.
func (t FrequencyTable) Total() int {
	n := 0
	for _, c := range t.counts {
		n += c
	}
	return n
}

// Recurring returns how many distinct words occur more than min times.
func (t FrequencyTable) Recurring(min int) int {
	n := 0
	for _, c := range t.counts {
		if c > min {
			n++
		}
	}
	return n
}
