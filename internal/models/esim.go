package models

import (
	"sort"
	"time"
)

// ESimStatus is the lifecycle state reported by the tenant API.
type ESimStatus string

const (
	ESimStatusReady     ESimStatus = "READY FOR ACTIVATION"
	ESimStatusInstalled ESimStatus = "INSTALLED"
	ESimStatusExpired   ESimStatus = "EXPIRED"
	ESimStatusUnknown   ESimStatus = "UNKNOWN"
)

// ParseESimStatus maps a raw API status string to an ESimStatus.
func ParseESimStatus(raw string) ESimStatus {
	switch ESimStatus(raw) {
	case ESimStatusReady, ESimStatusInstalled, ESimStatusExpired:
		return ESimStatus(raw)
	}
	return ESimStatusUnknown
}

// Rank orders statuses along the allowed lifecycle direction:
// ready -> installed -> expired. Unknown sorts last.
func (s ESimStatus) Rank() int {
	switch s {
	case ESimStatusReady:
		return 0
	case ESimStatusInstalled:
		return 1
	case ESimStatusExpired:
		return 2
	}
	return 3
}

// ESim is a purchased eSIM owned by the authenticated user.
type ESim struct {
	ESimID          string     `json:"esim_id"`
	ICCID           string     `json:"iccid,omitempty"`
	Status          ESimStatus `json:"esim_status"`
	PackageName     string     `json:"package_name"`
	PackageID       string     `json:"package_id,omitempty"`
	Coverage        []string   `json:"coverage,omitempty"`
	QRCodeURL       string     `json:"qr_code_url,omitempty"`
	LpaCode         string     `json:"lpa_code,omitempty"`
	SmdpAddress     string     `json:"smdp_address,omitempty"`
	IosQuickInstall string     `json:"ios_quick_install,omitempty"`
	ActivationDate  *time.Time `json:"activation_date,omitempty"`
	ExpirationDate  *time.Time `json:"expiration_date,omitempty"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
}

// IsActive reports whether the eSIM is currently installed.
func (e ESim) IsActive() bool {
	return e.Status == ESimStatusInstalled
}

// SortESims orders eSIMs by status rank ascending so not-yet-activated
// ones surface first, ties broken by creation time descending.
func SortESims(esims []ESim) {
	sort.SliceStable(esims, func(i, j int) bool {
		ri, rj := esims[i].Status.Rank(), esims[j].Status.Rank()
		if ri != rj {
			return ri < rj
		}
		ti, tj := esims[i].CreatedAt, esims[j].CreatedAt
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.After(*tj)
		}
	})
}

// ESimUsage is the live usage report for a single eSIM. Never cached.
type ESimUsage struct {
	ESimID      string    `json:"esim_id"`
	ICCID       string    `json:"iccid"`
	PackageName string    `json:"package_name"`
	Usage       UsageData `json:"usage"`
}

type UsageData struct {
	Status string       `json:"status"`
	Data   UsageDetails `json:"data"`
}

type UsageDetails struct {
	ICCID          string `json:"iccid"`
	Status         string `json:"status"`
	StartedAt      int64  `json:"startedAt"`
	ExpiredAt      int64  `json:"expiredAt"`
	AllowedData    int    `json:"allowedData"`
	RemainingData  int    `json:"remainingData"`
	AllowedSms     int    `json:"allowedSms"`
	RemainingSms   int    `json:"remainingSms"`
	AllowedVoice   int    `json:"allowedVoice"`
	RemainingVoice int    `json:"remainingVoice"`
}

// DataUsedMB is the consumed portion of the data allowance.
func (u UsageDetails) DataUsedMB() int {
	return u.AllowedData - u.RemainingData
}
