package tokencodec

import (
	"sort"
	"strconv"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
)

// DefaultDictionarySize is the number of most frequent words that receive a code.
const DefaultDictionarySize = 50

// CodeFor returns the code assigned to the word at rank i.
func CodeFor(rank int) string {
	return "[" + strconv.Itoa(rank) + "]"
}

// BuildDictionary ranks the words of table by descending count, keeps at most max of
// them (DefaultDictionarySize when max <= 0) and assigns [0], [1], ... in rank order.
// Equal counts keep first-occurrence order.
func BuildDictionary(table FrequencyTable, max int) types.Dictionary {
	if max <= 0 {
		max = DefaultDictionarySize
	}
	if table.Len() == 0 {
		return types.Dictionary{}
	}

	ranked := table.Words()
	sort.SliceStable(ranked, func(i, j int) bool {
		return table.Count(ranked[i]) > table.Count(ranked[j])
	})
	if len(ranked) > max {
		ranked = ranked[:max]
	}

	dict := make(types.Dictionary, len(ranked))
	for i, word := range ranked {
		dict[i] = types.DictionaryEntry{Word: word, Code: CodeFor(i)}
	}
	return dict
}
