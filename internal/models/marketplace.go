package models

// PriceResponse is the body returned by the single-item price endpoint
type PriceResponse struct {
	Success   bool           `json:"success"`
	Data      []PriceListing `json:"data"`
	ErrorCode int            `json:"errorCode"`
	ErrorMsg  string         `json:"errorMsg"`
}

// PriceListing is one platform's quote for an item
type PriceListing struct {
	Platform     string  `json:"platform"`
	PlatformItem string  `json:"platformItemId"`
	SellPrice    float64 `json:"sellPrice"`
	SellCount    int     `json:"sellCount"`
	BiddingPrice float64 `json:"biddingPrice"`
	BiddingCount int     `json:"biddingCount"`
	UpdateTime   int64   `json:"updateTime"`
}

// LowestSellPrice returns the smallest positive sell price across listings
func (r PriceResponse) LowestSellPrice() (float64, bool) {
	lowest, found := 0.0, false
	for _, l := range r.Data {
		if l.SellPrice <= 0 {
			continue
		}
		if !found || l.SellPrice < lowest {
			lowest, found = l.SellPrice, true
		}
	}
	return lowest, found
}
