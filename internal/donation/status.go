package donation

import "strings"

// Variant is the severity class used when rendering a status.
type Variant string

const (
	VariantSecondary Variant = "secondary"
	VariantSuccess   Variant = "success"
	VariantDanger    Variant = "danger"
	VariantWarning   Variant = "warning"
)

// StatusInfo holds the display label and severity for a donation status.
type StatusInfo struct {
	Label   string
	Variant Variant
}

// GetStatusInfo maps a raw status to its display form, case-insensitively.
// Unknown statuses render their uppercased raw value; an empty status
// renders "Desconhecido". Both get the warning variant.
func GetStatusInfo(status string) StatusInfo {
	s := strings.ToUpper(strings.TrimSpace(status))
	switch s {
	case "PENDENTE":
		return StatusInfo{Label: "Pendente", Variant: VariantSecondary}
	case "APROVADA":
		return StatusInfo{Label: "Aprovada", Variant: VariantSuccess}
	case "RECUSADA":
		return StatusInfo{Label: "Recusada", Variant: VariantDanger}
	}
	if s == "" {
		s = "Desconhecido"
	}
	return StatusInfo{Label: s, Variant: VariantWarning}
}
