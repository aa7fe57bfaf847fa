package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reindeer-letter/letter-backend/internal/config"
	"github.com/reindeer-letter/letter-backend/internal/domain"
	"github.com/reindeer-letter/letter-backend/internal/repository"
	"github.com/reindeer-letter/letter-backend/pkg/jwt"
	pkglogger "github.com/reindeer-letter/letter-backend/pkg/logger"
	"gorm.io/gorm"
)

// OAuthService handles OAuth2 social login flows (Google, Kakao)
type OAuthService struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
	providers  map[domain.OAuthProvider]*config.OAuthProvider
	httpClient *http.Client
}

// NewOAuthService creates a new OAuthService
func NewOAuthService(userRepo repository.UserRepository, jwtManager *jwt.Manager) *OAuthService {
	return &OAuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		providers:  make(map[domain.OAuthProvider]*config.OAuthProvider),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// RegisterProvider registers an OAuth provider configuration
func (s *OAuthService) RegisterProvider(provider domain.OAuthProvider, cfg *config.OAuthProvider) {
	s.providers[provider] = cfg
}

// GenerateState returns a random state parameter for CSRF protection
func (s *OAuthService) GenerateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GetAuthURL returns the OAuth authorization URL for the given provider
func (s *OAuthService) GetAuthURL(provider domain.OAuthProvider, state string) (string, error) {
	cfg, ok := s.providers[provider]
	if !ok {
		return "", fmt.Errorf("unsupported provider: %s", provider)
	}

	switch provider {
	case domain.OAuthProviderGoogle:
		params := url.Values{
			"response_type": {"code"},
			"client_id":     {cfg.ClientID},
			"redirect_uri":  {cfg.RedirectURL},
			"scope":         {"openid email profile"},
			"state":         {state},
			"access_type":   {"offline"},
		}
		return "https://accounts.google.com/o/oauth2/v2/auth?" + params.Encode(), nil

	case domain.OAuthProviderKakao:
		params := url.Values{
			"response_type": {"code"},
			"client_id":     {cfg.ClientID},
			"redirect_uri":  {cfg.RedirectURL},
			"state":         {state},
		}
		return "https://kauth.kakao.com/oauth/authorize?" + params.Encode(), nil

	default:
		return "", fmt.Errorf("unsupported provider: %s", provider)
	}
}

// HandleCallback exchanges the authorization code, fetches the provider
// profile, and finds or creates the matching local account
func (s *OAuthService) HandleCallback(ctx context.Context, provider domain.OAuthProvider, code string) (*domain.LoginResponse, error) {
	cfg, ok := s.providers[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	accessToken, err := s.exchangeCode(ctx, provider, cfg, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	info, err := s.getUserInfo(ctx, provider, accessToken)
	if err != nil {
		return nil, fmt.Errorf("get user info failed: %w", err)
	}

	user, isNew, err := s.findOrCreateUser(info)
	if err != nil {
		return nil, err
	}

	access, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Nickname)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.userRepo.UpdateRefreshToken(user.ID, refresh); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &domain.LoginResponse{
		User:      user.ToResponse(),
		TokenPair: domain.TokenPair{AccessToken: access, RefreshToken: refresh},
		IsNewUser: isNew,
	}, nil
}

func (s *OAuthService) findOrCreateUser(info *domain.OAuthUserInfo) (*domain.User, bool, error) {
	user, err := s.userRepo.FindByProvider(info.Provider, info.ProviderUID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("find oauth user: %w", err)
	}

	nickname := info.Nickname
	if nickname == "" {
		nickname = string(info.Provider) + "_" + info.ProviderUID
	}
	// Nickname must be unique; fall back to a suffixed variant on collision
	if _, err := s.userRepo.FindByNickname(nickname); err == nil {
		nickname = fmt.Sprintf("%s_%s", nickname, uuid.New().String()[:8])
	}

	user = &domain.User{
		PublicID:        uuid.New().String(),
		Email:           info.Email,
		Nickname:        nickname,
		ProfileImageURL: info.ProfileImage,
		Provider:        info.Provider,
		ProviderUID:     info.ProviderUID,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, false, fmt.Errorf("create oauth user: %w", err)
	}

	pkglogger.GetLogger().Info().
		Str("provider", string(info.Provider)).
		Uint64("user_id", user.ID).
		Msg("created user from oauth login")

	return user, true, nil
}

func (s *OAuthService) exchangeCode(ctx context.Context, provider domain.OAuthProvider, cfg *config.OAuthProvider, code string) (string, error) {
	var tokenURL string
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"redirect_uri":  {cfg.RedirectURL},
		"code":          {code},
	}

	switch provider {
	case domain.OAuthProviderGoogle:
		tokenURL = "https://oauth2.googleapis.com/token"
	case domain.OAuthProviderKakao:
		tokenURL = "https://kauth.kakao.com/oauth/token"
	default:
		return "", fmt.Errorf("unsupported provider: %s", provider)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", err
	}
	if tokenResp.AccessToken == "" {
		return "", errors.New("access_token not found in token response")
	}
	return tokenResp.AccessToken, nil
}

func (s *OAuthService) getUserInfo(ctx context.Context, provider domain.OAuthProvider, accessToken string) (*domain.OAuthUserInfo, error) {
	var infoURL string
	switch provider {
	case domain.OAuthProviderGoogle:
		infoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	case domain.OAuthProviderKakao:
		infoURL = "https://kapi.kakao.com/v2/user/me"
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, infoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	switch provider {
	case domain.OAuthProviderGoogle:
		var g struct {
			ID      string `json:"id"`
			Email   string `json:"email"`
			Name    string `json:"name"`
			Picture string `json:"picture"`
		}
		if err := json.Unmarshal(body, &g); err != nil {
			return nil, err
		}
		return &domain.OAuthUserInfo{
			Provider:     domain.OAuthProviderGoogle,
			ProviderUID:  g.ID,
			Email:        g.Email,
			Nickname:     g.Name,
			ProfileImage: g.Picture,
		}, nil

	case domain.OAuthProviderKakao:
		var k struct {
			ID           int64 `json:"id"`
			KakaoAccount struct {
				Email   string `json:"email"`
				Profile struct {
					Nickname        string `json:"nickname"`
					ProfileImageURL string `json:"profile_image_url"`
				} `json:"profile"`
			} `json:"kakao_account"`
		}
		if err := json.Unmarshal(body, &k); err != nil {
			return nil, err
		}
		return &domain.OAuthUserInfo{
			Provider:     domain.OAuthProviderKakao,
			ProviderUID:  fmt.Sprintf("%d", k.ID),
			Email:        k.KakaoAccount.Email,
			Nickname:     k.KakaoAccount.Profile.Nickname,
			ProfileImage: k.KakaoAccount.Profile.ProfileImageURL,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
