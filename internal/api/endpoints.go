package api

import (
	"fmt"
	"strings"
)

// Endpoint paths, relative to the /api root of the EcoDoação backend.
const (
	PathLogin           = "contas/token/"
	PathRegister        = "contas/cadastrar/"
	PathRefresh         = "contas/token/refresh/"
	PathDashboard       = "contas/dashboard/"
	PathProfile         = "contas/usuarios/meu-perfil/"
	PathChangePassword  = "contas/usuarios/alterar-senha/"
	PathSubmitDonation  = "doacoes/submeter/"
	PathDonationHistory = "doacoes/historico/"
	PathDonationTypes   = "doacoes/tipos/"
	PathAdminPending    = "doacoes/admin/pendentes/"
	PathMyBadges        = "doacoes/badges/minhas/"
	PathAvailableBadges = "doacoes/badges/disponiveis/"
	PathPurchaseBadge   = "doacoes/badges/comprar/"
	PathAdminBadges     = "doacoes/admin/badges/"
)

func PathValidateDonation(id int64) string {
	return fmt.Sprintf("doacoes/admin/validar/%d/", id)
}

func PathAdminBadge(id int64) string {
	return fmt.Sprintf("doacoes/admin/badges/%d/", id)
}

// joinURL glues a base URL and a relative path, tolerating stray slashes
// on either side.
func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
