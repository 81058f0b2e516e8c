package core

import (
	"log"
	"math"

	"guardpost.app/guardpost/utils"
)

// MaxPlausibleHours is the upper bound for a stored daily total; anything
// above it is treated as corrupt and recomputed by the cleanup sweep.
const MaxPlausibleHours = 1000

// ComputeTotalHours derives the worked hours for a day from the four event
// timestamps. All inputs are client-supplied strings and may be missing or
// unparseable.
//
// Rules:
//   - start or end missing/unparseable -> 0
//   - lunch interval is subtracted only when both lunch stamps parse;
//     a bad lunch stamp skips the subtraction, it does not zero the result
//   - negative durations clamp to 0
//   - result is rounded to 2 decimals
//
// Every caller that stores a total (event recording, admin edits, CSV
// import, cleanup) goes through this function so recomputation is
// idempotent.
func ComputeTotalHours(start, end, lunchStart, lunchEnd *string) float64 {
	if start == nil || end == nil {
		return 0
	}

	startAt, err := utils.ParseISOTime(*start)
	if err != nil {
		log.Printf("invalid start time %q: %v", *start, err)
		return 0
	}
	endAt, err := utils.ParseISOTime(*end)
	if err != nil {
		log.Printf("invalid end time %q: %v", *end, err)
		return 0
	}

	worked := endAt.Sub(*startAt)

	if lunchStart != nil && lunchEnd != nil {
		lunchStartAt, err1 := utils.ParseISOTime(*lunchStart)
		lunchEndAt, err2 := utils.ParseISOTime(*lunchEnd)
		if err1 == nil && err2 == nil {
			worked -= lunchEndAt.Sub(*lunchStartAt)
		} else {
			log.Printf("invalid lunch times %q / %q, skipping break subtraction",
				utils.Format(lunchStart), utils.Format(lunchEnd))
		}
	}

	if worked < 0 {
		return 0
	}

	return math.Round(worked.Hours()*100) / 100
}

// IsInvalidTotal reports whether a stored total needs the cleanup sweep:
// never computed, negative, or implausibly large.
func IsInvalidTotal(total *float64) bool {
	if total == nil {
		return true
	}
	return *total < 0 || *total > MaxPlausibleHours
}
