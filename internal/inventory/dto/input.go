package dto

// ReservationLine is one SKU/quantity pair of a reservation batch.
type ReservationLine struct {
	SKU      string  `json:"sku"`
	Quantity float64 `json:"quantity"`
}

type ReserveInput struct {
	Items       []ReservationLine `json:"items"`
	OrderID     string            `json:"order_id"`
	PerformedBy string            `json:"performed_by"`
}

type RestockInput struct {
	SKU         string  `json:"sku"`
	Quantity    float64 `json:"quantity"`
	Reason      string  `json:"reason"`
	Location    *string `json:"location"`
	PerformedBy string  `json:"performed_by"`
}

type AdjustInput struct {
	SKU         string  `json:"sku"`
	Delta       float64 `json:"delta"`
	Reason      string  `json:"reason"`
	PerformedBy string  `json:"performed_by"`
}
