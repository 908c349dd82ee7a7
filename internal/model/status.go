package model

// Status is the read-time classification of a debt or payment.
type Status string

const (
	StatusPayed    Status = "payed"
	StatusExpired  Status = "expired"
	StatusToday    Status = "today"
	StatusTomorrow Status = "tomorrow"
	StatusOpened   Status = "opened"
)

// DeriveStatus maps the paid flag, the due day and today's day of month to a
// status. Rules are evaluated in order; the first match wins.
func DeriveStatus(isPayed bool, expirationDay, today int) Status {
	switch {
	case isPayed:
		return StatusPayed
	case expirationDay < today:
		return StatusExpired
	case expirationDay == today:
		return StatusToday
	case expirationDay == today+1:
		return StatusTomorrow
	default:
		return StatusOpened
	}
}
