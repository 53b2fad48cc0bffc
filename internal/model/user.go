package model

type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	CoinBalance int   `json:"saldo_moedas"`
	IsStaff    bool   `json:"is_staff"`
	IsActive   bool   `json:"is_active"`
	Role       string `json:"role"`
	DateJoined string `json:"date_joined"`
}
