package badge

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/lucasvrm/ecodoacao/internal/api"
	"github.com/lucasvrm/ecodoacao/internal/model"
	"github.com/lucasvrm/ecodoacao/internal/wallet"
)

// Service covers badge listing, purchase and admin management.
type Service struct {
	client *api.Client
	wallet *wallet.Wallet
}

func NewService(client *api.Client, w *wallet.Wallet) *Service {
	return &Service{client: client, wallet: w}
}

// ListMine returns the badges the user already owns, refreshing the
// wallet's owned set.
func (s *Service) ListMine(ctx context.Context) ([]model.UserBadge, error) {
	var mine []model.UserBadge
	if err := s.client.Do(ctx, api.PathMyBadges, api.RequestOptions{}, &mine); err != nil {
		return nil, err
	}

	if s.wallet != nil {
		ids := make([]int64, 0, len(mine))
		for _, ub := range mine {
			ids = append(ids, ub.Badge.ID)
		}
		s.wallet.SetOwnedBadges(ids)
	}
	return mine, nil
}

func (s *Service) ListAvailable(ctx context.Context) ([]model.Badge, error) {
	var available []model.Badge
	if err := s.client.Do(ctx, api.PathAvailableBadges, api.RequestOptions{}, &available); err != nil {
		return nil, err
	}
	return available, nil
}

type purchaseRequest struct {
	BadgeID int64 `json:"badge_id"`
}

// PurchaseResult is the backend's answer to a badge purchase.
type PurchaseResult struct {
	Success   bool   `json:"sucesso"`
	Message   string `json:"mensagem"`
	Remaining *int   `json:"saldo_restante,omitempty"`
}

// Purchase buys a badge. On success the wallet gains the badge and takes
// the server's remaining balance when reported, falling back to a full
// dashboard resync otherwise.
func (s *Service) Purchase(ctx context.Context, badgeID int64) (*PurchaseResult, error) {
	var result PurchaseResult
	err := s.client.Do(ctx, api.PathPurchaseBadge, api.RequestOptions{
		Method: http.MethodPost,
		JSON:   purchaseRequest{BadgeID: badgeID},
	}, &result)
	if err != nil {
		return nil, err
	}

	if result.Success && s.wallet != nil {
		s.wallet.AddOwnedBadge(badgeID)
		if result.Remaining != nil {
			s.wallet.SetBalance(*result.Remaining)
		} else {
			s.wallet.SyncFromDashboard(ctx, s.client)
		}
	}
	return &result, nil
}

// AdminInput describes a badge being created or edited by an admin.
// Pointer fields are omitted from updates when nil.
type AdminInput struct {
	Name             string
	Description      string
	Kind             model.BadgeKind
	CoinCost         *int
	DonationCriteria *int
	CoinCriteria     *int
	Active           *bool
	Icon             *api.FormFile
}

func (in AdminInput) formFields() map[string]string {
	fields := map[string]string{}
	if in.Name != "" {
		fields["nome"] = in.Name
	}
	if in.Description != "" {
		fields["descricao"] = in.Description
	}
	if in.Kind != "" {
		fields["tipo"] = string(in.Kind)
	}
	if in.CoinCost != nil {
		fields["custo_moedas"] = strconv.Itoa(*in.CoinCost)
	}
	if in.DonationCriteria != nil {
		fields["criterio_doacoes"] = strconv.Itoa(*in.DonationCriteria)
	}
	if in.CoinCriteria != nil {
		fields["criterio_moedas"] = strconv.Itoa(*in.CoinCriteria)
	}
	if in.Active != nil {
		fields["ativo"] = strconv.FormatBool(*in.Active)
	}
	return fields
}

func (in AdminInput) jsonFields() map[string]any {
	payload := map[string]any{}
	if in.Name != "" {
		payload["nome"] = in.Name
	}
	if in.Description != "" {
		payload["descricao"] = in.Description
	}
	if in.Kind != "" {
		payload["tipo"] = in.Kind
	}
	if in.CoinCost != nil {
		payload["custo_moedas"] = *in.CoinCost
	}
	if in.DonationCriteria != nil {
		payload["criterio_doacoes"] = *in.DonationCriteria
	}
	if in.CoinCriteria != nil {
		payload["criterio_moedas"] = *in.CoinCriteria
	}
	if in.Active != nil {
		payload["ativo"] = *in.Active
	}
	return payload
}

// Create registers a new badge; the form goes up as multipart so an icon
// file can ride along.
func (s *Service) Create(ctx context.Context, in AdminInput) (*model.Badge, error) {
	var files []api.FormFile
	if in.Icon != nil {
		files = append(files, *in.Icon)
	}
	body, contentType, err := api.MultipartBody(in.formFields(), files...)
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}

	var created model.Badge
	err = s.client.Do(ctx, api.PathAdminBadges, api.RequestOptions{
		Method:      http.MethodPost,
		Body:        body,
		ContentType: contentType,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update patches a badge: multipart when a new icon is attached, plain
// JSON otherwise.
func (s *Service) Update(ctx context.Context, id int64, in AdminInput) (*model.Badge, error) {
	var updated model.Badge

	if in.Icon != nil {
		body, contentType, err := api.MultipartBody(in.formFields(), *in.Icon)
		if err != nil {
			return nil, fmt.Errorf("build multipart body: %w", err)
		}
		err = s.client.Do(ctx, api.PathAdminBadge(id), api.RequestOptions{
			Method:      http.MethodPatch,
			Body:        body,
			ContentType: contentType,
		}, &updated)
		if err != nil {
			return nil, err
		}
		return &updated, nil
	}

	err := s.client.Do(ctx, api.PathAdminBadge(id), api.RequestOptions{
		Method: http.MethodPatch,
		JSON:   in.jsonFields(),
	}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.client.Do(ctx, api.PathAdminBadge(id), api.RequestOptions{
		Method: http.MethodDelete,
	}, nil)
}

// FormatEarnedDate renders a badge conquest timestamp as dd/mm/yyyy.
func FormatEarnedDate(raw string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return raw
}
