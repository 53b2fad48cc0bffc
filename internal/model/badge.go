package model

type BadgeKind string

const (
	BadgePurchase    BadgeKind = "COMPRA"
	BadgeAchievement BadgeKind = "CONQUISTA"
)

type Badge struct {
	ID                int64     `json:"id"`
	Name              string    `json:"nome"`
	Description       string    `json:"descricao"`
	Icon              *string   `json:"icone"`
	IconURL           *string   `json:"icone_url,omitempty"`
	Kind              BadgeKind `json:"tipo"`
	KindDisplay       string    `json:"tipo_display,omitempty"`
	CoinCost          int       `json:"custo_moedas"`
	DonationCriteria  *int      `json:"criterio_doacoes"`
	CoinCriteria      *int      `json:"criterio_moedas"`
	Active            bool      `json:"ativo"`
	CreatedAt         string    `json:"criado_em,omitempty"`
}

// UserBadge links a badge to the date the user earned or bought it.
type UserBadge struct {
	ID       int64  `json:"id"`
	Badge    Badge  `json:"badge"`
	EarnedAt string `json:"data_conquista"`
}
