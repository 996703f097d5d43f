package ranking

import "unicode/utf8"

// Within1 reports whether a and b differ by at most one substitution,
// insertion, or deletion of a single codepoint. It operates directly on the
// input strings with a two-pointer scan and performs no allocation.
func Within1(a, b string) bool {
	if a == b {
		return true
	}

	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)

	switch {
	case la == lb:
		return within1SameLength(a, b)
	case la == lb+1:
		return within1Insertion(a, b)
	case lb == la+1:
		return within1Insertion(b, a)
	default:
		return false
	}
}

// within1SameLength reports whether equal-length strings differ in exactly
// one rune position.
func within1SameLength(a, b string) bool {
	diffs := 0
	for len(a) > 0 && len(b) > 0 {
		ra, sizeA := utf8.DecodeRuneInString(a)
		rb, sizeB := utf8.DecodeRuneInString(b)
		if ra != rb {
			diffs++
			if diffs > 1 {
				return false
			}
		}
		a = a[sizeA:]
		b = b[sizeB:]
	}
	return diffs == 1
}

// within1Insertion reports whether longer can be produced by inserting
// exactly one rune into shorter. Caller guarantees len(longer) == len(shorter)+1
// in rune count.
func within1Insertion(longer, shorter string) bool {
	skipped := false
	for len(shorter) > 0 {
		if len(longer) == 0 {
			return false
		}
		rl, sizeL := utf8.DecodeRuneInString(longer)
		rs, sizeS := utf8.DecodeRuneInString(shorter)
		if rl == rs {
			longer = longer[sizeL:]
			shorter = shorter[sizeS:]
			continue
		}
		if skipped {
			return false
		}
		skipped = true
		longer = longer[sizeL:]
		// shorter is not advanced: the skip at this position accounts for
		// longer's one extra rune.
	}
	// Remaining runes in longer (at most one) account for the insertion
	// skip, or the skip already happened mid-string.
	remaining := utf8.RuneCountInString(longer)
	if skipped {
		return remaining == 0
	}
	return remaining == 1
}

// WordOverlapCount counts how many queryWords have a 1-edit match against
// any token of question.
func WordOverlapCount(queryWords []string, question string) int {
	qTokens := Tokens(question)
	count := 0
	for _, q := range queryWords {
		for _, w := range qTokens {
			if Within1(q, w) {
				count++
				break
			}
		}
	}
	return count
}
