package query

// MatchPattern reports whether candidate matches pattern, where '*' matches
// any run of characters (including none) and '?' matches exactly one
// character. Matching is simulated with an NFA: one boolean "is this
// pattern position live" state per pattern position, advanced one input
// character at a time, giving O(len(pattern) * len(candidate)) time
// without recursion or backtracking.
func MatchPattern(pattern, candidate string) bool {
	n := len(pattern)
	// state[i] is true if, having consumed some prefix of candidate, the
	// pattern could be at position i (i.e. positions [0,i) of the pattern
	// have been satisfied).
	state := make([]bool, n+1)
	next := make([]bool, n+1)
	state[0] = true
	propagateStars(pattern, state)

	for _, ch := range []byte(candidate) {
		for i := range next {
			next[i] = false
		}
		for i := 0; i < n; i++ {
			if !state[i] {
				continue
			}
			switch pattern[i] {
			case '*':
				next[i] = true // '*' can also match zero-or-more, stay live
				next[i+1] = true
			case '?':
				next[i+1] = true
			default:
				if pattern[i] == ch {
					next[i+1] = true
				}
			}
		}
		state, next = next, state
		propagateStars(pattern, state)
	}
	return state[n]
}

// propagateStars marks every position reachable from a live position by
// crossing zero or more immediately-following '*' characters, so a '*' at
// the live frontier can "consume" nothing before the next input character.
func propagateStars(pattern string, state []bool) {
	for i := 0; i < len(pattern); i++ {
		if state[i] && pattern[i] == '*' {
			state[i+1] = true
		}
	}
}
