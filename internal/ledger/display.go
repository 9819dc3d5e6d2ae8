package ledger

import (
	"fmt"
	"strings"

	"parcel-backend/internal/models"
)

// productBill is the signed bill amount as seen by the vendor.
func productBill(rec *models.DeliveryRecord) models.DisplayAmount {
	if blank(rec.PB) || rec.PBAmt.Blank() {
		return models.DisplayAmount{}
	}
	switch *rec.PB {
	case models.ModePrepaid:
		return models.ShowAmount(0)
	case models.ModeDue:
		return models.ShowAmount(rec.PBAmt.Decimal.Neg().InexactFloat64())
	default:
		return models.ShowAmount(rec.PBAmt.Decimal.InexactFloat64())
	}
}

// deliveryAmt renders e.g. "20 (COD)".
func deliveryAmt(rec *models.DeliveryRecord) string {
	if blank(rec.DC) || rec.DCAmt.Blank() {
		return models.Placeholder
	}
	return fmt.Sprintf("%s (%s)", rec.DCAmt.Decimal.String(), *rec.DC)
}

func description(rec *models.DeliveryRecord) string {
	parts := make([]string, 0, 3)
	for _, p := range []*string{rec.Name, rec.Address, rec.Mobile} {
		if !blank(p) {
			parts = append(parts, *p)
		}
	}
	if len(parts) == 0 {
		return models.Placeholder
	}
	return strings.Join(parts, ", ")
}
