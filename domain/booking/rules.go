package booking

import "time"

// MealChangeCutoff is how close to departure meal selections freeze.
const MealChangeCutoff = 24 * time.Hour

// CanModifyMeal reports whether a meal selection may still change for a
// flight departing at the given instant. Exactly 24 hours out is allowed;
// anything closer is not. The caller locates the record first — a missing
// booking is a not-found outcome, never a rule violation.
func CanModifyMeal(departure, now time.Time) (bool, string) {
	if departure.Sub(now) < MealChangeCutoff {
		return false, "departure is less than 24 hours away"
	}
	return true, ""
}
