package scheduling

import "time"

// overlaps reports whether the half-open intervals [s, e) and [S, E) share
// any point. An existing appointment [s, e) blocks a proposal [S, E) when:
//
//  1. s <= S < e  (proposal starts during the existing appointment), or
//  2. s <  E <= e (proposal ends during the existing appointment), or
//  3. S <= s && e <= E (proposal fully contains the existing appointment).
//
// Boundary touches (S == e or E == s) are not overlaps, so back-to-back
// slots are allowed.
func overlaps(s, e, S, E time.Time) bool {
	if !S.Before(s) && S.Before(e) {
		return true
	}
	if E.After(s) && !E.After(e) {
		return true
	}
	if !s.Before(S) && !e.After(E) {
		return true
	}
	return false
}
