package schedule

import "time"

// BillingSchedule is the resolved set of dates for one recurring group.
// Zero times are meaningful sentinels:
//   - TrialEndDate zero: no trial
//   - FirstPaymentDate zero: not synchronized
//   - NextPaymentDate zero: only one payment ever occurs
//   - EndDate zero: unlimited subscription
type BillingSchedule struct {
	StartDate        time.Time `json:"start_date"`
	TrialEndDate     time.Time `json:"trial_end_date,omitempty"`
	FirstPaymentDate time.Time `json:"first_payment_date,omitempty"`
	NextPaymentDate  time.Time `json:"next_payment_date,omitempty"`
	EndDate          time.Time `json:"end_date,omitempty"`
}

// HasMoreThanOnePayment reports whether the schedule bills more than once.
func (s *BillingSchedule) HasMoreThanOnePayment() bool {
	return !s.NextPaymentDate.IsZero()
}
