package donation

import "net/http"

const maxEvidenceSize = 5 * 1024 * 1024

// Validation messages shown to the user, kept verbatim from the web client.
const (
	msgBadFormat = "Formato inválido. Use JPG ou PNG."
	msgTooLarge  = "A imagem deve ter no máximo 5MB."
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// ValidateEvidenceImage pre-checks a donation evidence photo before upload:
// content must sniff as JPEG or PNG and be at most 5 MiB (inclusive).
// Returns the empty string when the image is acceptable, otherwise a
// user-facing message. It never fails any other way; the server remains
// the authority.
func ValidateEvidenceImage(data []byte) string {
	if !allowedImageTypes[http.DetectContentType(data)] {
		return msgBadFormat
	}
	if len(data) > maxEvidenceSize {
		return msgTooLarge
	}
	return ""
}

// ValidateDescription enforces the optional description rule: when given,
// it must be 10–240 characters. Empty is fine.
func ValidateDescription(desc string) string {
	if desc == "" {
		return ""
	}
	n := len([]rune(desc))
	if n < 10 || n > 240 {
		return "A descrição deve ter entre 10 e 240 caracteres."
	}
	return ""
}
