package bibword

const (
	// MaxWord is the maximum indexable length of a single word component,
	// matching the original format's fixed Word buffer.
	MaxWord = 31
	// MaxString is the maximum length of a compound (NUL-joined) word
	// buffer accumulated across a single field-value token.
	MaxString = 4095
)

// badWords is the fixed set of short common English words excluded from
// indexing regardless of field.
var badWords = []string{
	"also", "among", "an", "and", "are", "as", "at", "by",
	"for", "from", "have", "in", "into", "is", "of", "on",
	"or", "over", "so", "than", "the", "to", "under", "with",
}

var badWordSet map[string]struct{}

func init() {
	badWordSet = make(map[string]struct{}, len(badWords))
	for _, w := range badWords {
		badWordSet[w] = struct{}{}
	}
}

// IsIndexable reports whether word (already lower-cased) should be inserted
// into a field dictionary: non-empty and not a member of the bad-word
// dictionary. Single-letter words survive this filter (e.g. a lone "n"
// inside a math expression); only the fixed short-word list is excluded.
func IsIndexable(word string) bool {
	if len(word) == 0 {
		return false
	}
	_, bad := badWordSet[word]
	return !bad
}

// Truncate clamps word to MaxWord bytes, matching the hash dictionary's
// truncated-equality semantics (see internal/dict).
func Truncate(word string) string {
	if len(word) > MaxWord {
		return word[:MaxWord]
	}
	return word
}
