package trade

import "github.com/shopspring/decimal"

// ShippingMethod is a delivery option offered at checkout
type ShippingMethod string

const (
	ShippingCourierDoor  ShippingMethod = "courier_door"
	ShippingCourierKiosk ShippingMethod = "courier_kiosk"
	ShippingPostNet      ShippingMethod = "postnet"
	ShippingFastway      ShippingMethod = "fastway"
)

// ShippingOption describes a method and its flat rate
type ShippingOption struct {
	Method      ShippingMethod  `json:"method"`
	Label       string          `json:"label"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
}

var (
	// FreeShippingThreshold is the subtotal from which shipping is free
	FreeShippingThreshold = decimal.NewFromInt(5000)
	// MinimumOrderSubtotal is the smallest subtotal accepted at checkout
	MinimumOrderSubtotal = decimal.NewFromInt(200)
)

var shippingOptions = []ShippingOption{
	{Method: ShippingCourierDoor, Label: "Courier to-Door", Description: "Delivered to your door", Cost: decimal.NewFromInt(180)},
	{Method: ShippingCourierKiosk, Label: "Courier to-Kiosk", Description: "Collect from courier kiosk", Cost: decimal.NewFromInt(180)},
	{Method: ShippingPostNet, Label: "PostNet", Description: "Collect from PostNet branch", Cost: decimal.NewFromInt(140)},
	{Method: ShippingFastway, Label: "Fastway (Main Cities)", Description: "Main cities only", Cost: decimal.NewFromInt(130)},
}

// ShippingOptions returns the available shipping methods
func ShippingOptions() []ShippingOption {
	out := make([]ShippingOption, len(shippingOptions))
	copy(out, shippingOptions)
	return out
}

// IsValid checks if the method is offered
func (m ShippingMethod) IsValid() bool {
	_, ok := m.option()
	return ok
}

// String returns the string representation of ShippingMethod
func (m ShippingMethod) String() string {
	return string(m)
}

func (m ShippingMethod) option() (ShippingOption, bool) {
	for _, o := range shippingOptions {
		if o.Method == m {
			return o, true
		}
	}
	return ShippingOption{}, false
}

// CalcShipping returns the shipping charge for a subtotal
func CalcShipping(subtotal decimal.Decimal, method ShippingMethod) (decimal.Decimal, error) {
	opt, ok := method.option()
	if !ok {
		return decimal.Zero, ErrInvalidShippingMethod.Withf("Invalid shipping method: %q", string(method))
	}
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero, nil
	}
	return opt.Cost, nil
}
