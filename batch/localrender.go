package batch

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"fantasy-tiktok-engine/compositor"
)

// RunLocalRender composes a local MP4 for every manifest entry of a week
// whose script file exists. Output goes to <week-dir>/videos/<stem>.mp4.
// Missing script files are skipped without error.
func RunLocalRender(ctx context.Context, week int, outRoot string) error {
	weekDir := WeekDir(outRoot, week)
	manifestPath := filepath.Join(weekDir, "manifest.json")
	if _, err := os.Stat(manifestPath); err != nil {
		return fmt.Errorf("no manifest for week %d: %w", week, err)
	}
	entries := ReadManifest(manifestPath)

	videosDir := filepath.Join(weekDir, "videos")
	if err := os.MkdirAll(videosDir, 0755); err != nil {
		return err
	}

	background := filepath.Join(weekDir, "background.jpg")
	if err := compositor.BlackBackground(ctx, background); err != nil {
		log.Warn().Err(err).Msg("[local-render] background synthesis failed")
	}

	for _, e := range entries {
		if e.Path == "" {
			continue
		}
		mdPath := filepath.Join(weekDir, e.Path)
		if _, err := os.Stat(mdPath); err != nil {
			continue
		}
		stem := strings.TrimSuffix(e.Path, filepath.Ext(e.Path))

		audio := filepath.Join(weekDir, stem+".wav")
		if _, err := os.Stat(audio); err != nil {
			if err := writeSilentWAV(audio, 2); err != nil {
				return fmt.Errorf("synthesize audio for %s: %w", stem, err)
			}
		}

		outMP4 := filepath.Join(videosDir, stem+".mp4")
		title := fmt.Sprintf("%s — %s", e.Player, e.Kind)
		if _, err := compositor.Compose(ctx, background, audio, title, outMP4, 0); err != nil {
			return fmt.Errorf("compose %s: %w", stem, err)
		}
		log.Info().Str("video", outMP4).Msg("[local-render] composed")
	}
	return nil
}

// writeSilentWAV emits a mono 16 kHz 16-bit PCM file of silence.
func writeSilentWAV(path string, seconds int) error {
	const (
		sampleRate    = 16000
		channels      = 1
		bitsPerSample = 16
	)
	frames := sampleRate * seconds
	dataLen := frames * channels * bitsPerSample / 8

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*channels*bitsPerSample/8))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*bitsPerSample/8))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(make([]byte, dataLen))

	return os.WriteFile(path, buf.Bytes(), 0644)
}
