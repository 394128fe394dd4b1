package adapters

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// TikTok open API endpoints.
const (
	tikTokAuthURL       = "https://www.tiktok.com/v2/auth/authorize/"
	tikTokTokenURL      = "https://open.tiktokapis.com/v2/oauth/token/"
	tikTokInitUploadURL = "https://open.tiktokapis.com/v2/post/publish/inbox/video/init/"
	tikTokUploadURL     = "https://open.tiktokapis.com/v2/post/publish/inbox/video/upload/"
	tikTokCheckURL      = "https://open.tiktokapis.com/v2/post/publish/inbox/video/query/"
	tikTokListURL       = "https://open.tiktokapis.com/v2/post/publish/list/"
)

// OAuthConfig holds the TikTok app credentials.
type OAuthConfig struct {
	ClientKey    string
	ClientSecret string
	RedirectURI  string
}

// OAuthTokens is the result of an authorization-code exchange.
type OAuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	OpenID       string `json:"open_id"`
	ExpiresIn    int    `json:"expires_in"`
}

// InitUploadResponse is the backend response to an upload initialization.
type InitUploadResponse struct {
	UploadID string `json:"upload_id"`
	Draft    bool   `json:"draft"`
	OpenID   string `json:"open_id,omitempty"`
	DryRun   bool   `json:"dry_run,omitempty"`
}

// UploadVideoResponse is the backend response to the byte upload.
type UploadVideoResponse struct {
	UploadID string `json:"upload_id"`
	Size     int    `json:"size"`
	Filename string `json:"filename"`
	Status   string `json:"status,omitempty"`
	DryRun   bool   `json:"dry_run,omitempty"`
}

// UploadStatusResponse is the backend answer to a status query.
type UploadStatusResponse struct {
	UploadID string `json:"upload_id"`
	OpenID   string `json:"open_id,omitempty"`
	Status   string `json:"status"`
	DryRun   bool   `json:"dry_run,omitempty"`
}

// VideoInfo is one published video in a listing.
type VideoInfo struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	OpenID string `json:"open_id,omitempty"`
}

// ListVideosResponse is one page of published videos.
type ListVideosResponse struct {
	Videos  []VideoInfo `json:"videos"`
	Cursor  int         `json:"cursor"`
	HasMore bool        `json:"has_more"`
	DryRun  bool        `json:"dry_run,omitempty"`
}

// UploadBackend covers the TikTok draft-upload flow plus OAuth helpers.
type UploadBackend interface {
	BuildLoginURL(state string, scopes []string) string
	ExchangeCode(ctx context.Context, code string) (OAuthTokens, error)
	InitUpload(ctx context.Context, accessToken, openID string, draft bool) (InitUploadResponse, error)
	UploadVideo(ctx context.Context, accessToken, openID, uploadID string, video []byte, filename string) (UploadVideoResponse, error)
	CheckUploadStatus(ctx context.Context, accessToken, openID, uploadID string) (UploadStatusResponse, error)
	ListVideos(ctx context.Context, accessToken, openID string, cursor, maxCount int) (ListVideosResponse, error)
}

// DryUploadBackend returns deterministic stubs without network calls.
type DryUploadBackend struct {
	cfg OAuthConfig
}

func NewDryUploadBackend(cfg OAuthConfig) *DryUploadBackend {
	return &DryUploadBackend{cfg: cfg}
}

func (d *DryUploadBackend) BuildLoginURL(state string, scopes []string) string {
	return oauthConfig(d.cfg, scopes).AuthCodeURL(state,
		oauth2.SetAuthURLParam("client_key", d.cfg.ClientKey))
}

func (d *DryUploadBackend) ExchangeCode(_ context.Context, code string) (OAuthTokens, error) {
	short := code
	if len(short) > 6 {
		short = short[:6]
	}
	return OAuthTokens{
		AccessToken:  "dry_access_" + short,
		RefreshToken: "dry_refresh_" + short,
		OpenID:       "dry_open_" + short,
		ExpiresIn:    3600,
	}, nil
}

func (d *DryUploadBackend) InitUpload(_ context.Context, _, openID string, draft bool) (InitUploadResponse, error) {
	return InitUploadResponse{UploadID: "dry-upload-123", Draft: draft, OpenID: openID, DryRun: true}, nil
}

func (d *DryUploadBackend) UploadVideo(_ context.Context, _, _, uploadID string, video []byte, filename string) (UploadVideoResponse, error) {
	return UploadVideoResponse{
		UploadID: uploadID,
		Size:     len(video),
		Filename: filename,
		Status:   "uploaded(dry)",
		DryRun:   true,
	}, nil
}

func (d *DryUploadBackend) CheckUploadStatus(_ context.Context, _, openID, uploadID string) (UploadStatusResponse, error) {
	return UploadStatusResponse{UploadID: uploadID, OpenID: openID, Status: "processed(dry)", DryRun: true}, nil
}

func (d *DryUploadBackend) ListVideos(_ context.Context, _, openID string, cursor, maxCount int) (ListVideosResponse, error) {
	videos := make([]VideoInfo, 0, maxCount)
	for i := cursor; i < cursor+maxCount; i++ {
		videos = append(videos, VideoInfo{
			ID:     fmt.Sprintf("dry-video-%d", i),
			Title:  fmt.Sprintf("Dry Video #%d", i),
			OpenID: openID,
		})
	}
	return ListVideosResponse{Videos: videos, Cursor: cursor + maxCount, HasMore: false, DryRun: true}, nil
}

// TikTokBackend is the live upload backend.
type TikTokBackend struct {
	cfg    OAuthConfig
	client *Client
}

// NewTikTokBackend fails fast when credentials are missing so a live run
// never degrades silently into a stub.
func NewTikTokBackend(cfg OAuthConfig) (*TikTokBackend, error) {
	if cfg.ClientKey == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("tiktok: missing client_key/client_secret in live mode")
	}
	// Loud banner so production-impacting runs stand out in logs.
	log.Info().Str("client_key", cfg.ClientKey).Msg("TIKTOK LIVE MODE ENABLED")
	return &TikTokBackend{cfg: cfg, client: NewClient(60 * time.Second)}, nil
}

func oauthConfig(cfg OAuthConfig, scopes []string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientKey,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  tikTokAuthURL,
			TokenURL: tikTokTokenURL,
		},
	}
}

func (t *TikTokBackend) BuildLoginURL(state string, scopes []string) string {
	// TikTok expects client_key instead of client_id in the query string.
	return oauthConfig(t.cfg, scopes).AuthCodeURL(state,
		oauth2.SetAuthURLParam("client_key", t.cfg.ClientKey))
}

func (t *TikTokBackend) ExchangeCode(ctx context.Context, code string) (OAuthTokens, error) {
	tok, err := oauthConfig(t.cfg, nil).Exchange(ctx, code,
		oauth2.SetAuthURLParam("client_key", t.cfg.ClientKey))
	if err != nil {
		return OAuthTokens{}, fmt.Errorf("tiktok token exchange: %w", err)
	}
	openID, _ := tok.Extra("open_id").(string)
	out := OAuthTokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		OpenID:       openID,
	}
	if !tok.Expiry.IsZero() {
		out.ExpiresIn = int(time.Until(tok.Expiry).Seconds())
	}
	log.Info().Str("client_key", t.cfg.ClientKey).Str("open_id", "[redacted]").Msg("oauth.exchange")
	return out, nil
}

func bearer(accessToken string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + accessToken}
}

func (t *TikTokBackend) InitUpload(ctx context.Context, accessToken, openID string, draft bool) (InitUploadResponse, error) {
	body := map[string]any{"open_id": openID, "draft": draft}
	var resp InitUploadResponse
	if err := t.client.DoJSON(ctx, "POST", tikTokInitUploadURL, bearer(accessToken), body, &resp); err != nil {
		return resp, fmt.Errorf("tiktok init upload: %w", err)
	}
	log.Info().Str("upload_id", resp.UploadID).Msg("upload.init")
	return resp, nil
}

func (t *TikTokBackend) UploadVideo(ctx context.Context, accessToken, openID, uploadID string, video []byte, filename string) (UploadVideoResponse, error) {
	body := map[string]any{
		"open_id":   openID,
		"upload_id": uploadID,
		"filename":  filename,
		"video":     video,
	}
	var resp UploadVideoResponse
	if err := t.client.DoJSON(ctx, "POST", tikTokUploadURL, bearer(accessToken), body, &resp); err != nil {
		return resp, fmt.Errorf("tiktok upload video: %w", err)
	}
	log.Info().Str("upload_id", uploadID).Int("size", len(video)).Msg("upload.video")
	return resp, nil
}

func (t *TikTokBackend) CheckUploadStatus(ctx context.Context, accessToken, openID, uploadID string) (UploadStatusResponse, error) {
	url := fmt.Sprintf("%s?open_id=%s&upload_id=%s", tikTokCheckURL, openID, uploadID)
	var resp UploadStatusResponse
	if err := t.client.DoJSON(ctx, "GET", url, bearer(accessToken), nil, &resp); err != nil {
		return resp, fmt.Errorf("tiktok upload status: %w", err)
	}
	log.Info().Str("upload_id", uploadID).Msg("upload.status")
	return resp, nil
}

func (t *TikTokBackend) ListVideos(ctx context.Context, accessToken, openID string, cursor, maxCount int) (ListVideosResponse, error) {
	url := fmt.Sprintf("%s?open_id=%s&cursor=%d&max_count=%d", tikTokListURL, openID, cursor, maxCount)
	var resp ListVideosResponse
	err := t.client.DoJSON(ctx, "GET", url, bearer(accessToken), nil, &resp)
	return resp, err
}
