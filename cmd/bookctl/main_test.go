package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/service-booking/internal/bookingflow"
	"github.com/BruksfildServices01/service-booking/internal/dto"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

type fakeAPI struct {
	submitted []dto.BookingSubmitRequest
}

func (f *fakeAPI) CheckCoverage(_ context.Context, zip string) (*dto.CoverageResponse, error) {
	return &dto.CoverageResponse{ZipCode: zip, Covered: true, Message: "covered"}, nil
}

func (f *fakeAPI) ListServices(context.Context) ([]dto.ServiceItem, error) {
	return []dto.ServiceItem{{ID: 1, Name: "Deep clean", Price: decimal.NewFromInt(120)}}, nil
}

func (f *fakeAPI) ListOptions(context.Context, uint) ([]models.ServiceOption, error) {
	return nil, nil
}

func (f *fakeAPI) PreviewDiscount(_ context.Context, code string, subtotal decimal.Decimal) (*dto.DiscountPreviewResponse, error) {
	amount := decimal.NewFromInt(20)
	return &dto.DiscountPreviewResponse{Code: code, Type: "fixed", DiscountAmount: amount, Total: subtotal.Sub(amount)}, nil
}

func (f *fakeAPI) SubmitBooking(_ context.Context, req dto.BookingSubmitRequest) (*dto.BookingSubmitResponse, error) {
	f.submitted = append(f.submitted, req)
	return &dto.BookingSubmitResponse{BookingID: 42, ReferenceNumber: "BK-TEST"}, nil
}

func newTestRunner(api bookingflow.API) *bookingflow.Runner {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return bookingflow.NewRunner(api, log,
		bookingflow.WithAutoAdvance(0),
		bookingflow.WithKeyFunc(func() string { return "key-1" }),
	)
}

func TestRun_CompleteBooking(t *testing.T) {
	api := &fakeAPI{}
	script := strings.Join([]string{
		"zip 10001",
		"toggle 1",
		"next",
		"name Ada Lovelace",
		"email ada@example.com",
		"address 1 Main St",
		"date 2026-10-20",
		"next",
		"code fall20",
		"submit",
	}, "\n")

	var out bytes.Buffer
	err := run(context.Background(), newTestRunner(api), strings.NewReader(script), &out)

	require.NoError(t, err)
	require.Len(t, api.submitted, 1)

	req := api.submitted[0]
	assert.Equal(t, []uint{1}, req.ServiceIDs)
	assert.Equal(t, "1 Main St", req.CustomerAddress)
	assert.Equal(t, "fall20", req.DiscountCode)
	assert.Equal(t, "key-1", req.IdempotencyKey)

	assert.Contains(t, out.String(), "Total")
	assert.Contains(t, out.String(), "100.00")
	assert.Contains(t, out.String(), "Reference BK-TEST")
}

func TestRun_EndOfInputStops(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), newTestRunner(&fakeAPI{}), strings.NewReader("help\n"), &out)

	assert.NoError(t, err)
	assert.Contains(t, out.String(), "commands:")
}

func TestParse(t *testing.T) {
	st := bookingflow.NewState()
	st.Customer.Name = "Ada"

	cmd, err := parse(st, "set 7 3")
	require.NoError(t, err)
	assert.Equal(t, bookingflow.SetOption{OptionID: 7, Value: "3"}, cmd.event)

	cmd, err = parse(st, "email ada@example.com")
	require.NoError(t, err)
	set := cmd.event.(bookingflow.SetCustomer)
	assert.Equal(t, "Ada", set.Customer.Name, "other fields are kept")
	assert.Equal(t, "ada@example.com", set.Customer.Email)

	_, err = parse(st, "toggle abc")
	assert.Error(t, err)

	_, err = parse(st, "dance")
	assert.Error(t, err)

	cmd, err = parse(st, "submit")
	require.NoError(t, err)
	assert.Equal(t, cmdSubmit, cmd.kind)
}
