// Package compositor builds 1080x1920 MP4s locally with ffmpeg. It is the
// offline alternative to the remote avatar renderer: a still background, an
// optional caption, and a WAV track in, one vertical video out.
package compositor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Compose renders background + audio + optional caption into outMP4.
// Encoding parameters are fixed so repeated runs produce comparable output.
// duration <= 0 means run until the shorter input ends.
func Compose(ctx context.Context, backgroundImage, audioWAV, caption, outMP4 string, duration float64) (string, error) {
	if _, err := os.Stat(backgroundImage); err != nil {
		return "", fmt.Errorf("background image: %w", err)
	}
	if _, err := os.Stat(audioWAV); err != nil {
		return "", fmt.Errorf("audio track: %w", err)
	}

	vfParts := []string{
		"scale=1080:1920:force_original_aspect_ratio=decrease",
		"pad=1080:1920:(ow-iw)/2:(oh-ih)/2:color=#000000",
		"format=yuv420p",
	}
	if caption != "" {
		safe := strings.ReplaceAll(caption, "'", "\\'")
		vfParts = append(vfParts,
			fmt.Sprintf("drawtext=text='%s':fontcolor=white:fontsize=48:box=1:boxcolor=0x00000099:x=(w-text_w)/2:y=h-200", safe))
	}

	args := []string{
		"-y",
		"-loop", "1",
		"-i", backgroundImage,
		"-i", audioWAV,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-g", "25",
		"-keyint_min", "25",
		"-sc_threshold", "0",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "128k",
		"-shortest",
		"-vf", strings.Join(vfParts, ","),
	}
	if duration > 0 {
		args = append(args, "-t", fmt.Sprintf("%g", duration))
	}
	args = append(args, outMP4)

	log.Debug().Str("out", outMP4).Msg("[compositor] running ffmpeg")
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg compose: %w", err)
	}
	if _, err := os.Stat(outMP4); err != nil {
		return "", fmt.Errorf("ffmpeg produced no output: %w", err)
	}
	return outMP4, nil
}

// BlackBackground writes a plain black 1080x1920 frame for runs that supply
// no artwork. Failure is not fatal to the caller when the file already
// exists.
func BlackBackground(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-f", "lavfi",
		"-i", "color=c=black:s=1080x1920",
		"-frames:v", "1",
		path,
	)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg background: %w", err)
	}
	return nil
}
