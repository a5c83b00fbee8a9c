package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingListDTO struct {
	ID              uint            `json:"id"`
	Reference       string          `json:"reference_number"`
	ServiceDatetime time.Time       `json:"service_datetime"`
	Status          string          `json:"status"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	ZipCode         string          `json:"zip_code"`
	ServiceNames    []string        `json:"service_names"`
	TotalPrice      decimal.Decimal `json:"total_price"`
}

type BookingPageDTO struct {
	Items []BookingListDTO `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
