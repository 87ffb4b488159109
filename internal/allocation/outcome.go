package allocation

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Texts shown once every tier has run out of rooms.
const (
	SoldOutFooter  = "SOLD OUT — No more rooms available."
	SoldOutMessage = "All rooms are sold out."
)

// Status is the result category of a routed bid.
type Status int

const (
	Rejected Status = iota // no tier's rule matched
	Accepted               // a tier took the bid
	Invalid                // price was not a finite positive number
)

func (s Status) String() string {
	switch s {
	case Accepted:
		return "ACCEPTED"
	case Rejected:
		return "REJECTED"
	case Invalid:
		return "INVALID"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ACCEPTED":
		return Accepted, true
	case "REJECTED":
		return Rejected, true
	case "INVALID":
		return Invalid, true
	}
	return 0, false
}

// Outcome is what Route reports for one bid.  Tier and Remaining are only
// meaningful when Status is Accepted.
type Outcome struct {
	Status    Status
	Tier      Tier
	Price     float64
	Remaining int
}

func (o Outcome) Accepted() bool { return o.Status == Accepted }

// String renders the outcome as a bid log line.
func (o Outcome) String() string {
	switch o.Status {
	case Accepted:
		return fmt.Sprintf("ACCEPTED: %s booked at %s. Remaining: %d", o.Tier, FormatUSD(o.Price), o.Remaining)
	case Rejected:
		return fmt.Sprintf("REJECTED: No room type available for %s. Try another price.", FormatUSD(o.Price))
	default:
		return "INVALID: Please enter a positive numeric price, e.g., 199 or 280.00"
	}
}

var usd = message.NewPrinter(language.English)

// FormatUSD renders a price as $1,234.50.  Cents are rounded from the exact
// binary value, so 2.675 prints as $2.67.
func FormatUSD(price float64) string {
	sign := ""
	if price < 0 {
		sign, price = "-", -price
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(price, 'f', 2, 64), 64)
	if err != nil {
		rounded = price
	}
	return sign + usd.Sprintf("$%.2f", rounded)
}
