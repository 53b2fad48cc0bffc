package donation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/lucasvrm/ecodoacao/internal/api"
	"github.com/lucasvrm/ecodoacao/internal/model"
	"github.com/lucasvrm/ecodoacao/internal/store"
)

// Service covers donation submission, history and admin validation.
type Service struct {
	client      *api.Client
	submissions *store.SubmissionStore
	types       *store.DonationTypeStore
	log         *slog.Logger
}

func NewService(client *api.Client, submissions *store.SubmissionStore, types *store.DonationTypeStore) *Service {
	return &Service{client: client, submissions: submissions, types: types, log: slog.Default()}
}

// SubmitInput is a new donation: the type id, an optional description and
// the evidence photo content.
type SubmitInput struct {
	TypeID      int64
	Description string
	FileName    string
	Evidence    []byte
}

// Submit pre-validates the evidence image, posts the multipart form and
// mirrors the accepted submission locally.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*model.Donation, error) {
	if msg := ValidateEvidenceImage(in.Evidence); msg != "" {
		return nil, errors.New(msg)
	}

	fields := map[string]string{
		"tipo_doacao": strconv.FormatInt(in.TypeID, 10),
	}
	if in.Description != "" {
		fields["descricao"] = in.Description
	}

	body, contentType, err := api.MultipartBody(fields, api.FormFile{
		Field:   "evidencia_foto",
		Name:    in.FileName,
		Content: in.Evidence,
	})
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}

	var created model.Donation
	err = s.client.Do(ctx, api.PathSubmitDonation, api.RequestOptions{
		Method:      http.MethodPost,
		Body:        body,
		ContentType: contentType,
	}, &created)
	if err != nil {
		return nil, err
	}

	if s.submissions != nil {
		if _, err := s.submissions.Save(created.Type, in.Description, in.FileName, string(created.Status)); err != nil {
			// Mirror failures must not undo a submission the server accepted.
			s.log.Warn("mirror submission locally", "error", err)
		}
	}
	return &created, nil
}

// HistoryQuery filters the user's donation history.
type HistoryQuery struct {
	Status string
	Page   int
}

func (s *Service) History(ctx context.Context, q HistoryQuery) (*model.Paginated[model.Donation], error) {
	params := url.Values{}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	path := api.PathDonationHistory
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page model.Paginated[model.Donation]
	if err := s.client.Do(ctx, path, api.RequestOptions{}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListPending returns donations awaiting admin validation.
func (s *Service) ListPending(ctx context.Context, page int) (*model.Paginated[model.Donation], error) {
	path := api.PathAdminPending
	if page > 0 {
		path += "?page=" + strconv.Itoa(page)
	}

	var result model.Paginated[model.Donation]
	if err := s.client.Do(ctx, path, api.RequestOptions{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ValidateResult is the backend's answer to an admin validation.
type ValidateResult struct {
	ID           int64                `json:"id"`
	Status       model.DonationStatus `json:"status"`
	Message      string               `json:"mensagem"`
	CoinsAwarded *int                 `json:"moedas_ganhas,omitempty"`
	Balance      *int                 `json:"saldo_atual,omitempty"`
	BadgesEarned []string             `json:"badges_conquistadas,omitempty"`
	RejectReason string               `json:"motivo_recusa,omitempty"`
}

// Validate approves or rejects a pending donation. Rejection carries the
// reason the admin typed.
func (s *Service) Validate(ctx context.Context, id int64, status model.DonationStatus, rejectReason string) (*ValidateResult, error) {
	payload := map[string]string{"status": string(status)}
	if rejectReason != "" {
		payload["motivo_recusa"] = rejectReason
	}

	var result ValidateResult
	err := s.client.Do(ctx, api.PathValidateDonation(id), api.RequestOptions{
		Method: http.MethodPatch,
		JSON:   payload,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Types fetches the donation-type list, refreshing the local cache on
// success and falling back to it when the backend is unreachable.
func (s *Service) Types(ctx context.Context) ([]model.DonationType, error) {
	var remote []model.DonationType
	err := s.client.Do(ctx, api.PathDonationTypes, api.RequestOptions{}, &remote)
	if err == nil && len(remote) > 0 {
		if s.types != nil {
			if cacheErr := s.types.Replace(remote); cacheErr != nil {
				s.log.Warn("cache donation types", "error", cacheErr)
			}
		}
		return remote, nil
	}

	if s.types != nil {
		cached, cacheErr := s.types.List()
		if cacheErr == nil && len(cached) > 0 {
			s.log.Debug("donation types served from local cache", "error", err)
			return cached, nil
		}
	}
	if err != nil {
		return nil, err
	}
	return remote, nil
}

// FormatDate renders a backend timestamp as dd/mm/yyyy hh:mm. Unparseable
// input comes back unchanged.
func FormatDate(raw string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("02/01/2006 15:04")
		}
	}
	return raw
}
