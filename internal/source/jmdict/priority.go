package jmdict

import (
	"strconv"
	"strings"
)

// Priority ranks; lower is more common. nfXX tags rank by their bucket
// (1-48, 500 words each) and outrank every other tag.
const (
	rankPrimaryList   = 50
	rankSecondaryList = 60
	rankUnlisted      = 100
)

var primaryLists = map[string]bool{"news1": true, "ichi1": true, "spec1": true, "gai1": true}
var secondaryLists = map[string]bool{"news2": true, "ichi2": true, "spec2": true, "gai2": true}

// rank converts ke_pri/re_pri tags into a priority. The best tag wins.
func rank(tags []string) int {
	best := rankUnlisted
	for _, t := range tags {
		r := rankUnlisted
		switch {
		case strings.HasPrefix(t, "nf"):
			if n, err := strconv.Atoi(t[2:]); err == nil && n > 0 {
				r = n
			}
		case primaryLists[t]:
			r = rankPrimaryList
		case secondaryLists[t]:
			r = rankSecondaryList
		}
		best = min(best, r)
	}
	return best
}
