package domain

import "time"

// Product is one inventory row. Quantity is a whole unit count and can never
// go negative. ProfitValue is derived from the other two values on every
// write; it is stored for querying but never accepted from input.
type Product struct {
	ID          string
	OwnerID     string
	Code        string // unique per owner, not globally
	Name        string
	Quantity    int64
	NetValue    float64
	SaleValue   float64
	ProfitValue float64 // always SaleValue - NetValue
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UnitProfit recomputes the per-unit profit from the authoritative fields.
func (p Product) UnitProfit() float64 { return p.SaleValue - p.NetValue }

// TotalNet is the stocked net value of this product.
func (p Product) TotalNet() float64 { return float64(p.Quantity) * p.NetValue }

// TotalProfit is the profit realised if the whole stock sells.
func (p Product) TotalProfit() float64 { return float64(p.Quantity) * p.UnitProfit() }

// OutOfStock reports the persistent stock alert condition. It clears only
// when a quantity update brings the count back above zero.
func (p Product) OutOfStock() bool { return p.Quantity < 1 }

// InventorySummary aggregates an owner's inventory on demand. OutOfStock is
// every product below one unit; a non-empty list is an alert state the UI
// must surface until resolved.
type InventorySummary struct {
	TotalProducts int
	TotalNetValue float64
	TotalProfit   float64
	OutOfStock    []Product
}
