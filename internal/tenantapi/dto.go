package tenantapi

import (
	"time"

	"pangea-go-server/internal/models"
)

// esimDTO mirrors the wire shape of an eSIM record. Dates come as
// ISO8601 strings and are parsed on the way to the domain model.
type esimDTO struct {
	ESimID          string   `json:"esim_id"`
	ICCID           string   `json:"iccid"`
	ESimStatus      string   `json:"esim_status"`
	ActivationDate  string   `json:"activation_date"`
	ExpirationDate  string   `json:"expiration_date"`
	PackageName     string   `json:"package_name"`
	PackageID       string   `json:"package_id"`
	Coverage        []string `json:"coverage"`
	QRCodeURL       string   `json:"qr_code_url"`
	LpaCode         string   `json:"lpa_code"`
	SmdpAddress     string   `json:"smdp_address"`
	IosQuickInstall string   `json:"ios_quick_install"`
	CreatedAt       string   `json:"createdAt"`
}

func (d esimDTO) toDomain() models.ESim {
	return models.ESim{
		ESimID:          d.ESimID,
		ICCID:           d.ICCID,
		Status:          models.ParseESimStatus(d.ESimStatus),
		PackageName:     d.PackageName,
		PackageID:       d.PackageID,
		Coverage:        d.Coverage,
		QRCodeURL:       d.QRCodeURL,
		LpaCode:         d.LpaCode,
		SmdpAddress:     d.SmdpAddress,
		IosQuickInstall: d.IosQuickInstall,
		ActivationDate:  parseISODate(d.ActivationDate),
		ExpirationDate:  parseISODate(d.ExpirationDate),
		CreatedAt:       parseISODate(d.CreatedAt),
	}
}

func parseISODate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
