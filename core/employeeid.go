package core

import (
	"fmt"
	"strconv"
)

// NextEmployeeID suggests the next free employee ID: the maximum of all
// numeric-looking existing IDs plus one, zero-padded to 4 digits.
// Non-numeric IDs are ignored. The suggestion is advisory only; uniqueness
// is enforced by the users.employee_id index at insert time.
func NextEmployeeID(existing []string) string {
	max := 0
	for _, id := range existing {
		n, err := strconv.Atoi(id)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%04d", max+1)
}
