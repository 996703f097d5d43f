package ranking

import "strings"

// FTSExpression builds a column-filtered match expression of the form
// `"C: w1 OR C: w2 OR ..."` for the given words against column C, doubling
// any literal quote per the FTS escaping rule. An empty word list yields an
// empty string; the caller must not execute it.
func FTSExpression(column string, words []string) string {
	if len(words) == 0 {
		return ""
	}

	clauses := make([]string, len(words))
	for i, w := range words {
		clauses[i] = column + ": " + escapeFTSLiteral(w)
	}
	return strings.Join(clauses, " OR ")
}

func escapeFTSLiteral(w string) string {
	return strings.ReplaceAll(w, `"`, `""`)
}
