package domain

// MatchKey reports whether a configuration key matches a glob pattern.
// `*` matches any run of characters including none, `?` matches exactly
// one character, everything else matches literally.
func MatchKey(pattern, key string) bool {
	if pattern == "*" {
		return true
	}
	return matchGlob(pattern, key)
}

// matchGlob is an iterative glob matcher with single-star backtracking.
func matchGlob(pattern, s string) bool {
	pi, si := 0, 0
	starPi, starSi := -1, 0

	for si < len(s) {
		switch {
		case pi < len(pattern) && (pattern[pi] == '?' || pattern[pi] == s[si]):
			pi++
			si++
		case pi < len(pattern) && pattern[pi] == '*':
			starPi = pi
			starSi = si
			pi++
		case starPi >= 0:
			// Backtrack: let the last * absorb one more character.
			starSi++
			pi = starPi + 1
			si = starSi
		default:
			return false
		}
	}

	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}
