package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainBooking "github.com/BruksfildServices01/service-booking/internal/domain/booking"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

func seedBooking(t *testing.T, s *memStore, status domainBooking.Status) models.Booking {
	t.Helper()

	b := models.Booking{
		ID:              501,
		OwnerID:         1,
		Reference:       "BK-TEST",
		CustomerName:    "Ada",
		ServiceDatetime: fixedNow.Add(48 * time.Hour),
		TotalPrice:      dec("45.00"),
		Status:          string(status),
	}
	s.bookings = append(s.bookings, b)
	s.bookingServices = append(s.bookingServices, models.BookingService{
		ID: 1, BookingID: 501, ServiceID: 1, ServiceName: "Deep Clean", Quantity: 1,
		UnitPrice: dec("50.00"), TotalPrice: dec("50.00"),
	})
	return b
}

func TestChangeBookingStatus_ValidTransition(t *testing.T) {
	store := seededStore()
	seedBooking(t, store, domainBooking.StatusPending)

	auditor := &recordingAuditor{}
	notifier := &recordingNotifier{}
	uc := NewChangeBookingStatus(store, auditor, notifier, quietLogger())
	uc.now = func() time.Time { return fixedNow }

	b, err := uc.Execute(context.Background(), ChangeStatusInput{
		OwnerID: 1, UserID: 9, BookingID: 501, Status: "confirmed",
	})
	require.NoError(t, err)

	assert.Equal(t, "confirmed", b.Status)
	require.NotNil(t, b.StatusChangedAt)
	assert.True(t, b.StatusChangedAt.Equal(fixedNow))

	stored, err := store.GetBooking(context.Background(), 1, 501)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", stored.Status)
	assert.True(t, stored.TotalPrice.Equal(dec("45.00")))
	require.Len(t, stored.Services, 1)
	assert.True(t, stored.Services[0].UnitPrice.Equal(dec("50.00")))

	assert.Equal(t, []string{"booking_status_changed"}, auditor.actions())
	assert.Len(t, notifier.changed, 1)
}

func TestChangeBookingStatus_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		from    domainBooking.Status
		to      string
		owner   uint
		wantErr error
	}{
		{"terminal booking", domainBooking.StatusCompleted, "confirmed", 1, domainBooking.ErrInvalidTransition},
		{"cancelled stays cancelled", domainBooking.StatusCancelled, "pending", 1, domainBooking.ErrInvalidTransition},
		{"unknown status", domainBooking.StatusPending, "archived", 1, domainBooking.ErrInvalidTransition},
		{"other owner", domainBooking.StatusPending, "confirmed", 2, domainBooking.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seededStore()
			seedBooking(t, store, tt.from)
			notifier := &recordingNotifier{}
			uc := NewChangeBookingStatus(store, &recordingAuditor{}, notifier, quietLogger())

			_, err := uc.Execute(context.Background(), ChangeStatusInput{
				OwnerID: tt.owner, BookingID: 501, Status: tt.to,
			})

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, string(tt.from), store.bookings[0].Status)
			assert.Empty(t, notifier.changed)
		})
	}
}

// racingStore lets another writer change the booking between read and write.
type racingStore struct {
	*memStore
	concurrent string
}

func (s *racingStore) GetBooking(ctx context.Context, ownerID, id uint) (*models.Booking, error) {
	b, err := s.memStore.GetBooking(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.bookings[0].Status = s.concurrent
	s.mu.Unlock()
	return b, nil
}

func TestChangeBookingStatus_LostRace(t *testing.T) {
	store := seededStore()
	seedBooking(t, store, domainBooking.StatusPending)
	racing := &racingStore{memStore: store, concurrent: string(domainBooking.StatusCancelled)}
	notifier := &recordingNotifier{}

	uc := NewChangeBookingStatus(racing, &recordingAuditor{}, notifier, quietLogger())

	_, err := uc.Execute(context.Background(), ChangeStatusInput{
		OwnerID: 1, BookingID: 501, Status: "confirmed",
	})

	assert.ErrorIs(t, err, domainBooking.ErrInvalidTransition)
	assert.Equal(t, "cancelled", store.bookings[0].Status)
	assert.Empty(t, notifier.changed)
}
