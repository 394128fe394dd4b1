package adapters

import (
	"context"
	"time"
)

// RenderRequest carries the inputs for one avatar render job.
type RenderRequest struct {
	ScriptText string `json:"script_text"`
	AvatarID   string `json:"avatar_id"`
	VoiceID    string `json:"voice_id,omitempty"`
	Background string `json:"background,omitempty"`
}

// RenderSubmit is the backend response to a render submission. It is
// persisted verbatim as the first status snapshot.
type RenderSubmit struct {
	VideoID       string `json:"video_id"`
	ScriptPreview string `json:"script_preview,omitempty"`
	AvatarID      string `json:"avatar_id,omitempty"`
	DryRun        bool   `json:"dry_run,omitempty"`
}

// RenderStatus is one poll tick of a render job.
type RenderStatus struct {
	VideoID     string `json:"video_id"`
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
	DownloadURL string `json:"download_url,omitempty"`
	DryRun      bool   `json:"dry_run,omitempty"`
}

// RenderBackend submits avatar render jobs and polls their status.
type RenderBackend interface {
	RenderTextToAvatar(ctx context.Context, req RenderRequest) (RenderSubmit, error)
	PollStatus(ctx context.Context, videoID string) (RenderStatus, error)
	// Download fetches the finished artifact; a nil payload with nil error
	// means the backend supplies no content (caller writes a placeholder).
	Download(ctx context.Context, url string) ([]byte, error)
}

// DryRenderBackend completes every job immediately without network calls.
type DryRenderBackend struct{}

func (DryRenderBackend) RenderTextToAvatar(_ context.Context, req RenderRequest) (RenderSubmit, error) {
	preview := req.ScriptText
	if len(preview) > 40 {
		preview = preview[:40]
	}
	return RenderSubmit{
		VideoID:       "dry-video-abc123",
		ScriptPreview: preview,
		AvatarID:      req.AvatarID,
		DryRun:        true,
	}, nil
}

func (DryRenderBackend) PollStatus(_ context.Context, videoID string) (RenderStatus, error) {
	return RenderStatus{
		VideoID:     videoID,
		Status:      "completed(dry)",
		Progress:    100,
		DownloadURL: "https://example.com/dry-run.mp4",
		DryRun:      true,
	}, nil
}

func (DryRenderBackend) Download(context.Context, string) ([]byte, error) {
	return nil, nil
}

// HeyGenBackend is the live render backend.
type HeyGenBackend struct {
	apiKey  string
	baseURL string
	client  *Client
}

const heyGenBaseURL = "https://api.heygen.com/v2"

func NewHeyGenBackend(apiKey string) *HeyGenBackend {
	return &HeyGenBackend{
		apiKey:  apiKey,
		baseURL: heyGenBaseURL,
		client:  NewClient(30 * time.Second),
	}
}

func (h *HeyGenBackend) headers() map[string]string {
	if h.apiKey == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + h.apiKey}
}

func (h *HeyGenBackend) RenderTextToAvatar(ctx context.Context, req RenderRequest) (RenderSubmit, error) {
	var resp RenderSubmit
	err := h.client.DoJSON(ctx, "POST", h.baseURL+"/videos/createByText", h.headers(), req, &resp)
	return resp, err
}

func (h *HeyGenBackend) PollStatus(ctx context.Context, videoID string) (RenderStatus, error) {
	var resp RenderStatus
	err := h.client.DoJSON(ctx, "GET", h.baseURL+"/videos/"+videoID, h.headers(), nil, &resp)
	return resp, err
}

func (h *HeyGenBackend) Download(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, nil
	}
	return h.client.GetBytes(ctx, url)
}
