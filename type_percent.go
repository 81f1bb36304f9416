package folio

import "fmt"

// Percent is a percentage, 12.5 means 12.5%.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) IsZero() bool { return p == 0 }

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}

// ratio returns part/whole as a percentage, 0 when whole is zero.
func ratio(part, whole Money) Percent {
	if whole.IsZero() {
		return 0
	}
	return Percent(part.value.Div(whole.value).Shift(2).InexactFloat64())
}
