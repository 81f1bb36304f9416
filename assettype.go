package folio

import "strings"

// AssetType is the canonical class of an asset.
type AssetType string

const (
	Stock   AssetType = "STOCK"
	Bond    AssetType = "BOND"
	Crypto  AssetType = "CRYPTO"
	Unknown AssetType = "UNKNOWN"
)

func (t AssetType) IsZero() bool { return t == "" }

// NormalizeType canonicalizes a raw asset type label.
//
// Surrounding spaces are ignored. BOND_ETF is folded into BOND and an empty
// label becomes UNKNOWN. Any other label is returned as is, so an unexpected
// label stays out of every allocation bucket rather than being guessed into
// one. Labels are case sensitive, see ParseType for user input.
func NormalizeType(raw string) AssetType {
	switch label := strings.TrimSpace(raw); label {
	case "":
		return Unknown
	case "BOND_ETF":
		return Bond
	default:
		return AssetType(label)
	}
}

// ParseType normalizes an asset type typed by a user: "bond_etf" gives BOND.
func ParseType(s string) AssetType {
	return NormalizeType(strings.ToUpper(s))
}
