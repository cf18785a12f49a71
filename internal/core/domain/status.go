package domain

import "time"

// PaymentStatus is derived from an outstanding balance and a due date.
type PaymentStatus string

const (
	StatusPending PaymentStatus = "PENDING"
	StatusOverdue PaymentStatus = "OVERDUE"
	StatusPaid    PaymentStatus = "PAID"
)

// Severity orders statuses: OVERDUE > PENDING > PAID. Unknown values rank lowest.
func (s PaymentStatus) Severity() int {
	switch s {
	case StatusOverdue:
		return 2
	case StatusPending:
		return 1
	default:
		return 0
	}
}

// Classify derives the status of a balance against its due date at instant now.
// It is pure: PAID when nothing is owed, OVERDUE when something is owed past
// the due date, PENDING otherwise.
func Classify(balance Money, dueDate time.Time, now time.Time) PaymentStatus {
	if balance.IsZero() {
		return StatusPaid
	}
	if balance.IsPositive() && dueDate.Before(now) {
		return StatusOverdue
	}
	return StatusPending
}

// MostSevere returns the highest-severity status, or PAID when statuses is empty.
func MostSevere(statuses ...PaymentStatus) PaymentStatus {
	worst := StatusPaid
	for _, s := range statuses {
		if s.Severity() > worst.Severity() {
			worst = s
		}
	}
	return worst
}
