package booking

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/service-booking/internal/domain"
	domainBooking "github.com/BruksfildServices01/service-booking/internal/domain/booking"
	"github.com/BruksfildServices01/service-booking/internal/dto"
	"github.com/BruksfildServices01/service-booking/internal/httperr"
	"github.com/BruksfildServices01/service-booking/internal/models"
	"github.com/BruksfildServices01/service-booking/internal/timezone"
)

const CodeInvalidFilter = "invalid_filter"

var ErrInvalidFilter = httperr.ErrBusiness(CodeInvalidFilter)

type ListBookingsInput struct {
	OwnerID uint
	Status  string
	// From and To are calendar dates (YYYY-MM-DD) in the owner's timezone;
	// To is inclusive.
	From  string
	To    string
	Page  int
	Limit int
}

type ListBookings struct {
	repo domainBooking.Repository
}

func NewListBookings(repo domainBooking.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

func (uc *ListBookings) Execute(
	ctx context.Context,
	in ListBookingsInput,
) (*dto.BookingPageDTO, error) {

	if in.Status != "" && !domainBooking.IsValidStatus(in.Status) {
		return nil, ErrInvalidFilter
	}

	owner, err := uc.repo.GetActiveOwner(ctx, in.OwnerID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(owner.Timezone)

	if in.Page <= 0 {
		in.Page = 1
	}
	switch {
	case in.Limit <= 0:
		in.Limit = 20
	case in.Limit > 100:
		in.Limit = 100
	}

	filter := domainBooking.ListFilter{
		Status: in.Status,
		Page:   in.Page,
		Limit:  in.Limit,
	}

	if in.From != "" {
		from, err := time.ParseInLocation(time.DateOnly, in.From, loc)
		if err != nil {
			return nil, ErrInvalidFilter
		}
		filter.From = &from
	}
	if in.To != "" {
		to, err := time.ParseInLocation(time.DateOnly, in.To, loc)
		if err != nil {
			return nil, ErrInvalidFilter
		}
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}

	bookings, total, err := uc.repo.ListBookings(ctx, in.OwnerID, filter)
	if err != nil {
		return nil, err
	}

	page := &dto.BookingPageDTO{
		Items: make([]dto.BookingListDTO, 0, len(bookings)),
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}

	for _, b := range bookings {
		names := make([]string, 0, len(b.Services))
		for _, s := range b.Services {
			names = append(names, s.ServiceName)
		}

		page.Items = append(page.Items, dto.BookingListDTO{
			ID:              b.ID,
			Reference:       b.Reference,
			ServiceDatetime: b.ServiceDatetime.In(loc),
			Status:          b.Status,
			CustomerName:    b.CustomerName,
			CustomerEmail:   b.CustomerEmail,
			ZipCode:         b.ZipCode,
			ServiceNames:    names,
			TotalPrice:      b.TotalPrice,
		})
	}

	return page, nil
}

// GetBooking loads one booking of the owner with its snapshot rows.
type GetBooking struct {
	repo domainBooking.Repository
}

func NewGetBooking(repo domainBooking.Repository) *GetBooking {
	return &GetBooking{repo: repo}
}

func (uc *GetBooking) Execute(
	ctx context.Context,
	ownerID uint,
	bookingID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, ownerID, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domainBooking.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}
