package models

import "strconv"

// unlimitedSentinel is the magic data amount the tenant API uses for
// unlimited plans.
const unlimitedSentinel = "9007199254740991"

// Package is a purchasable data plan scoped to one country. Packages
// for a country are always fetched and cached together as one unit.
type Package struct {
	PackageID    string    `json:"package_id"`
	Package      string    `json:"package"`
	ValidityDays int       `json:"validity_days"`
	PricePublic  float64   `json:"price_public"`
	DataAmount   string    `json:"dataAmount"`
	DataUnit     string    `json:"dataUnit"`
	Currency     string    `json:"currency,omitempty"`
	Geography    Geography `json:"geography"`
	Coverage     []string  `json:"coverage,omitempty"`
	CountryName  string    `json:"country_name"`
	WithCall     *bool     `json:"with_call,omitempty"`
	WithSMS      *bool     `json:"with_sms,omitempty"`
	WithHotspot  *bool     `json:"with_hotspot,omitempty"`
	CallMinutes  *int      `json:"call_minutes,omitempty"`
	SMSCount     *int      `json:"sms_count,omitempty"`
}

// IsUnlimited reports whether the plan carries the unlimited-data sentinel.
func (p Package) IsUnlimited() bool {
	return p.DataAmount == unlimitedSentinel
}

// DataAmountDisplay renders the data allowance, collapsing whole-GB
// amounts expressed in MB.
func (p Package) DataAmountDisplay() string {
	if p.IsUnlimited() {
		return "Unlimited"
	}
	if amount, err := strconv.Atoi(p.DataAmount); err == nil {
		switch p.DataUnit {
		case "MB", "mb":
			if amount%1024 == 0 {
				return strconv.Itoa(amount/1024) + " GB"
			}
			return strconv.Itoa(amount) + " MB"
		case "GB", "gb":
			return strconv.Itoa(amount) + " GB"
		}
	}
	return p.DataAmount
}
