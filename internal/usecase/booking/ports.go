package booking

import (
	"github.com/BruksfildServices01/service-booking/internal/audit"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

// Notifier delivers customer/owner notifications. Implementations must not
// block the caller.
type Notifier interface {
	BookingCreated(owner models.Owner, b models.Booking)
	StatusChanged(owner models.Owner, b models.Booking)
}

type Auditor interface {
	Dispatch(ev audit.Event)
}
