package models

import "time"

// PriceSnapshot is one recorded price observation
type PriceSnapshot struct {
	ID             int64     `json:"id"`
	MarketHashName string    `json:"market_hash_name"`
	DisplayName    string    `json:"display_name"`
	Line           string    `json:"line"`
	Price          float64   `json:"price"`
	FetchedAt      time.Time `json:"fetched_at"`
}
