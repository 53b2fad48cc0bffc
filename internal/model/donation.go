package model

import "time"

type DonationStatus string

const (
	DonationPending  DonationStatus = "PENDENTE"
	DonationApproved DonationStatus = "APROVADA"
	DonationRejected DonationStatus = "RECUSADA"
)

// Donation is a server-side donation record. The client never mutates it
// directly; status transitions happen through admin validation.
type Donation struct {
	ID            int64          `json:"id"`
	Donor         string         `json:"doador"`
	Type          string         `json:"tipo_doacao"`
	Status        DonationStatus `json:"status"`
	EvidencePhoto *string        `json:"evidencia_foto"`
	SubmittedAt   string         `json:"data_submissao"`
	RejectReason  *string        `json:"motivo_recusa,omitempty"`
	ValidatedAt   *string        `json:"data_validacao,omitempty"`
	ValidatedBy   *string        `json:"validado_por,omitempty"`
}

type DonationType struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	Coins int    `json:"moedas_atribuidas"`
}

// Submission is the locally mirrored record of a donation the user sent
// from this machine, kept so history is browsable without a backend.
type Submission struct {
	ID          int64     `json:"id"`
	Type        string    `json:"tipo"`
	Description string    `json:"descricao"`
	FileName    string    `json:"arquivo_nome,omitempty"`
	SubmittedAt time.Time `json:"data"`
	Status      string    `json:"status"`
}
