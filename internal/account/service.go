package account

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lucasvrm/ecodoacao/internal/api"
	"github.com/lucasvrm/ecodoacao/internal/model"
	"github.com/lucasvrm/ecodoacao/internal/token"
	"github.com/lucasvrm/ecodoacao/internal/wallet"
)

// Service covers login, registration, profile and session state.
type Service struct {
	client *api.Client
	tokens *token.Store
	wallet *wallet.Wallet
}

func NewService(client *api.Client, tokens *token.Store, w *wallet.Wallet) *Service {
	return &Service{client: client, tokens: tokens, wallet: w}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login authenticates and stores the returned token pair.
func (s *Service) Login(ctx context.Context, username, password string) error {
	var resp loginResponse
	err := s.client.Do(ctx, api.PathLogin, api.RequestOptions{
		Method: http.MethodPost,
		JSON:   loginRequest{Username: username, Password: password},
	}, &resp)
	if err != nil {
		return err
	}
	if resp.Access != "" || resp.Refresh != "" {
		if err := s.tokens.SetTokens(resp.Access, resp.Refresh); err != nil {
			return fmt.Errorf("store tokens: %w", err)
		}
	}
	return nil
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	var user model.User
	err := s.client.Do(ctx, api.PathRegister, api.RequestOptions{
		Method: http.MethodPost,
		JSON:   in,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Dashboard is the profile summary returned by the dashboard endpoint.
type Dashboard struct {
	Username    string        `json:"username"`
	Email       string        `json:"email"`
	CoinBalance int           `json:"saldo_moedas"`
	Badges      []model.Badge `json:"badges_conquistados"`
	Role        string        `json:"role"`
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	if err := s.client.Do(ctx, api.PathDashboard, api.RequestOptions{}, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateProfile patches whichever of username/email are non-empty.
func (s *Service) UpdateProfile(ctx context.Context, username, email string) (*model.User, error) {
	payload := map[string]string{}
	if username != "" {
		payload["username"] = username
	}
	if email != "" {
		payload["email"] = email
	}

	var user model.User
	err := s.client.Do(ctx, api.PathProfile, api.RequestOptions{
		Method: http.MethodPatch,
		JSON:   payload,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type changePasswordRequest struct {
	Current string `json:"senha_atual"`
	New     string `json:"nova_senha"`
}

func (s *Service) ChangePassword(ctx context.Context, current, new string) error {
	return s.client.Do(ctx, api.PathChangePassword, api.RequestOptions{
		Method: http.MethodPost,
		JSON:   changePasswordRequest{Current: current, New: new},
	}, nil)
}

func (s *Service) IsAuthenticated() bool {
	return s.tokens.Access() != ""
}

// Logout drops the session and zeroes the wallet cache.
func (s *Service) Logout() error {
	if s.wallet != nil {
		s.wallet.Reset()
	}
	return s.tokens.Clear()
}
