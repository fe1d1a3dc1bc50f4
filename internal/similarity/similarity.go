// Package similarity scores how alike two texts are, independently of any line alignment.
package similarity

import "github.com/pmezard/go-difflib/difflib"

// Ratio returns 2*M/T where M is the total size of the matching blocks between a and b and T
// the combined length, both counted in code points. Two empty texts are fully similar.
// No character is ever treated as junk, however often it occurs.
func Ratio(a, b string) float64 {
	ar, br := runes(a), runes(b)
	if len(ar)+len(br) == 0 {
		return 1.0
	}
	return difflib.NewMatcherWithJunk(ar, br, false, nil).Ratio()
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
