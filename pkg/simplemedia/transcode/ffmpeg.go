// Package transcode implements the video transcode engine by driving ffmpeg
// and ffprobe subprocesses.
package transcode

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tendant/simple-media/pkg/simplemedia"
)

// FFmpeg runs ffmpeg for renditions and poster frames. Sources and outputs
// go through temp files; ffmpeg's mp4 muxer needs seekable output.
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	workDir     string
}

// Option configures the FFmpeg engine
type Option func(*FFmpeg)

// WithBinary overrides the ffmpeg binary path
func WithBinary(path string) Option {
	return func(f *FFmpeg) {
		f.ffmpegPath = path
	}
}

// WithProbeBinary overrides the ffprobe binary path
func WithProbeBinary(path string) Option {
	return func(f *FFmpeg) {
		f.ffprobePath = path
	}
}

// WithWorkDir overrides the scratch directory for intermediate files
func WithWorkDir(dir string) Option {
	return func(f *FFmpeg) {
		f.workDir = dir
	}
}

// New creates an ffmpeg-backed encoder
func New(options ...Option) *FFmpeg {
	f := &FFmpeg{
		ffmpegPath:  "ffmpeg",
		ffprobePath: "ffprobe",
		workDir:     os.TempDir(),
	}
	for _, option := range options {
		option(f)
	}
	return f
}

// Transcode converts the source into a fragmented MP4 at the preset's
// resolution and bitrates.
func (f *FFmpeg) Transcode(ctx context.Context, src []byte, preset simplemedia.RenditionPreset) ([]byte, error) {
	in, cleanup, err := f.writeSource(src)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	out := filepath.Join(f.workDir, fmt.Sprintf("rendition-%s-%s.mp4", preset.Name, uuid.NewString()))
	defer os.Remove(out)

	args := transcodeArgs(in, out, preset)
	if err := f.run(ctx, f.ffmpegPath, args); err != nil {
		return nil, fmt.Errorf("transcode %s: %w", preset.Name, err)
	}

	return os.ReadFile(out)
}

// ExtractFrame decodes one frame at the given fraction of the source
// duration and returns it as JPEG.
func (f *FFmpeg) ExtractFrame(ctx context.Context, src []byte, fraction float64) ([]byte, error) {
	if fraction < 0 || fraction > 1 {
		return nil, fmt.Errorf("frame fraction out of range: %v", fraction)
	}

	in, cleanup, err := f.writeSource(src)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	duration, err := f.probeDuration(ctx, in)
	if err != nil {
		return nil, err
	}

	out := filepath.Join(f.workDir, fmt.Sprintf("poster-%s.jpg", uuid.NewString()))
	defer os.Remove(out)

	args := extractFrameArgs(in, out, duration*fraction)
	if err := f.run(ctx, f.ffmpegPath, args); err != nil {
		return nil, fmt.Errorf("extract frame: %w", err)
	}

	return os.ReadFile(out)
}

// probeDuration reads the container duration in seconds via ffprobe.
func (f *FFmpeg) probeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, f.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe returned unparsable duration %q: %w", stdout.String(), err)
	}
	return duration, nil
}

func (f *FFmpeg) writeSource(src []byte) (string, func(), error) {
	in := filepath.Join(f.workDir, fmt.Sprintf("source-%s", uuid.NewString()))
	if err := os.WriteFile(in, src, 0600); err != nil {
		return "", nil, fmt.Errorf("failed to stage source: %w", err)
	}
	return in, func() { os.Remove(in) }, nil
}

func (f *FFmpeg) run(ctx context.Context, bin string, args []string) error {
	cmd := exec.CommandContext(ctx, bin, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", bin, err, lastLine(stderr.String()))
	}
	return nil
}

// transcodeArgs builds the ffmpeg argument list for one rendition. The scale
// filter keeps the aspect ratio and forces an even width for the encoder;
// frag_keyframe+empty_moov yields a fragmented stream.
func transcodeArgs(in, out string, preset simplemedia.RenditionPreset) []string {
	return []string{
		"-y",
		"-i", in,
		"-vf", fmt.Sprintf("scale=-2:%d", preset.Height),
		"-c:v", "libx264",
		"-b:v", preset.VideoBitrate,
		"-c:a", "aac",
		"-b:a", preset.AudioBitrate,
		"-movflags", "frag_keyframe+empty_moov",
		out,
	}
}

// extractFrameArgs builds the ffmpeg argument list for a single poster frame
// at the given offset in seconds.
func extractFrameArgs(in, out string, offset float64) []string {
	return []string{
		"-y",
		"-ss", strconv.FormatFloat(offset, 'f', 3, 64),
		"-i", in,
		"-vframes", "1",
		"-q:v", "2",
		out,
	}
}

// lastLine returns the last non-empty line of ffmpeg's stderr, which is
// where it reports the actual failure.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
