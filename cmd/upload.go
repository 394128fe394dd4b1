package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fantasy-tiktok-engine/adapters"
)

var uploadFlags struct {
	file        string
	week        int
	kind        string
	accessToken string
	openID      string
	outdir      string
}

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload one video file as a TikTok draft",
	Long: `Uploads a single .mp4 as a TikTok draft. In DRY_RUN mode deterministic
stub artifacts are written without any network call. Upload metadata goes to
<outdir>/week-<N>/<kind>/tiktok/upload.json plus a sidecar next to the file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateWeek(uploadFlags.week); err != nil {
			return err
		}
		info, err := os.Stat(uploadFlags.file)
		if err != nil || info.IsDir() {
			return fmt.Errorf("file not found: %s", uploadFlags.file)
		}

		backend, err := adapters.BuildUpload(env)
		if err != nil {
			return err
		}

		canonical := filepath.Join(uploadFlags.outdir,
			fmt.Sprintf("week-%d", uploadFlags.week), uploadFlags.kind, "tiktok", "upload.json")
		sidecar := uploadFlags.file + ".upload.json"

		accessToken := uploadFlags.accessToken
		if accessToken == "" {
			accessToken = env.TikTokAccessToken
		}
		openID := uploadFlags.openID
		if openID == "" {
			openID = env.TikTokOpenID
		}
		if !env.DryRun && (accessToken == "" || openID == "") {
			return fmt.Errorf("missing --access-token/--open-id (or TIKTOK_ACCESS_TOKEN/TIKTOK_OPEN_ID)")
		}

		video, err := os.ReadFile(uploadFlags.file)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		init, err := backend.InitUpload(ctx, accessToken, openID, true)
		if err != nil {
			return fmt.Errorf("init upload: %w", err)
		}
		if init.UploadID == "" {
			return fmt.Errorf("upload init returned no upload_id")
		}
		uploaded, err := backend.UploadVideo(ctx, accessToken, openID, init.UploadID, video, filepath.Base(uploadFlags.file))
		if err != nil {
			return fmt.Errorf("upload video: %w", err)
		}
		status, err := backend.CheckUploadStatus(ctx, accessToken, openID, init.UploadID)
		if err != nil {
			return fmt.Errorf("check upload status: %w", err)
		}

		payload := map[string]any{
			"upload_id": init.UploadID,
			"init":      init,
			"upload":    uploaded,
			"status":    status,
			"file":      uploadFlags.file,
			"week":      uploadFlags.week,
			"kind":      uploadFlags.kind,
			"dry_run":   env.DryRun,
		}
		for _, path := range []string{canonical, sidecar} {
			if err := writeJSONFile(path, payload); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "upload artifacts -> %s\n", canonical)
		return nil
	},
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadFlags.file, "file", "f", "", "path to .mp4 to upload")
	uploadCmd.Flags().IntVarP(&uploadFlags.week, "week", "w", 0, "NFL week (1-18)")
	uploadCmd.Flags().StringVarP(&uploadFlags.kind, "kind", "k", "", "content kind slug")
	uploadCmd.Flags().StringVar(&uploadFlags.accessToken, "access-token", "", "TikTok OAuth access token")
	uploadCmd.Flags().StringVar(&uploadFlags.openID, "open-id", "", "TikTok user open_id")
	uploadCmd.Flags().StringVarP(&uploadFlags.outdir, "outdir", "o", ".out", "output directory for upload metadata")
	_ = uploadCmd.MarkFlagRequired("file")
	_ = uploadCmd.MarkFlagRequired("week")
	_ = uploadCmd.MarkFlagRequired("kind")
	rootCmd.AddCommand(uploadCmd)
}
