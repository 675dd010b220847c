package catalog

// StockStatus is the categorical reading of a quantity on hand.
type StockStatus string

const (
	StockUnknown     StockStatus = "Unknown"
	StockDanger      StockStatus = "Danger"
	StockLow         StockStatus = "Low"
	StockNormal      StockStatus = "Normal"
	StockOverstocked StockStatus = "Overstocked"
)

// Inclusive upper bounds.
const (
	dangerMax = 20
	lowMax    = 30
	normalMax = 50
)

// StockStatuses lists the filterable statuses in display order.
var StockStatuses = []StockStatus{StockDanger, StockLow, StockNormal, StockOverstocked}

// ClassifyStock maps a quantity to its status. A nil quantity is Unknown.
// Zero and negative quantities fall into Danger; there is no separate out-of-stock tier.
func ClassifyStock(qty *int) StockStatus {
	switch {
	case qty == nil:
		return StockUnknown
	case *qty <= dangerMax:
		return StockDanger
	case *qty <= lowMax:
		return StockLow
	case *qty <= normalMax:
		return StockNormal
	default:
		return StockOverstocked
	}
}
