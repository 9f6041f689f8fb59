package models

import (
	"encoding/json"
	"time"
)

// CachedCountry is the disk-cache row for one catalog entry. The whole
// catalog is replaced wholesale on every successful refresh.
type CachedCountry struct {
	CountryCode      string `gorm:"primaryKey"`
	CountryName      string `gorm:"index"`
	ImageURL         string
	Geography        string
	CoveredCountries string // JSON-encoded []string
	PackageCount     int
	LastUpdated      time.Time `gorm:"index"`
}

// NewCachedCountry converts a domain country into its cache row.
func NewCachedCountry(c Country, now time.Time) CachedCountry {
	covered := ""
	if len(c.CoveredCountries) > 0 {
		if data, err := json.Marshal(c.CoveredCountries); err == nil {
			covered = string(data)
		}
	}
	return CachedCountry{
		CountryCode:      c.CountryCode,
		CountryName:      c.CountryName,
		ImageURL:         c.ImageURL,
		Geography:        string(c.Geography),
		CoveredCountries: covered,
		PackageCount:     c.PackageCount,
		LastUpdated:      now,
	}
}

// ToCountry converts a cache row back to the domain model.
func (c CachedCountry) ToCountry() Country {
	var covered []string
	if c.CoveredCountries != "" {
		_ = json.Unmarshal([]byte(c.CoveredCountries), &covered)
	}
	geography := GeographyLocal
	if g := ParseGeography(c.Geography); g != nil {
		geography = *g
	}
	return Country{
		CountryCode:      c.CountryCode,
		CountryName:      c.CountryName,
		ImageURL:         c.ImageURL,
		Geography:        geography,
		CoveredCountries: covered,
		PackageCount:     c.PackageCount,
	}
}

// CachedESim is the disk-cache row for one purchased eSIM, keyed by the
// server-issued eSIM id.
type CachedESim struct {
	ESimID          string `gorm:"primaryKey"`
	ICCID           string
	Status          string
	PackageName     string
	PackageID       string
	Coverage        string // JSON-encoded []string
	QRCodeURL       string
	LpaCode         string
	SmdpAddress     string
	IosQuickInstall string
	ActivationDate  *time.Time
	ExpirationDate  *time.Time
	CreatedAt       *time.Time `gorm:"autoCreateTime:false"` // server-issued, not a row timestamp
	LastUpdated     time.Time  `gorm:"index"`
}

// NewCachedESim converts a domain eSIM into its cache row.
func NewCachedESim(e ESim, now time.Time) CachedESim {
	coverage := ""
	if len(e.Coverage) > 0 {
		if data, err := json.Marshal(e.Coverage); err == nil {
			coverage = string(data)
		}
	}
	return CachedESim{
		ESimID:          e.ESimID,
		ICCID:           e.ICCID,
		Status:          string(e.Status),
		PackageName:     e.PackageName,
		PackageID:       e.PackageID,
		Coverage:        coverage,
		QRCodeURL:       e.QRCodeURL,
		LpaCode:         e.LpaCode,
		SmdpAddress:     e.SmdpAddress,
		IosQuickInstall: e.IosQuickInstall,
		ActivationDate:  e.ActivationDate,
		ExpirationDate:  e.ExpirationDate,
		CreatedAt:       e.CreatedAt,
		LastUpdated:     now,
	}
}

// ToESim converts a cache row back to the domain model.
func (c CachedESim) ToESim() ESim {
	var coverage []string
	if c.Coverage != "" {
		_ = json.Unmarshal([]byte(c.Coverage), &coverage)
	}
	return ESim{
		ESimID:          c.ESimID,
		ICCID:           c.ICCID,
		Status:          ParseESimStatus(c.Status),
		PackageName:     c.PackageName,
		PackageID:       c.PackageID,
		Coverage:        coverage,
		QRCodeURL:       c.QRCodeURL,
		LpaCode:         c.LpaCode,
		SmdpAddress:     c.SmdpAddress,
		IosQuickInstall: c.IosQuickInstall,
		ActivationDate:  c.ActivationDate,
		ExpirationDate:  c.ExpirationDate,
		CreatedAt:       c.CreatedAt,
	}
}
