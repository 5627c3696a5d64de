package cityscape

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
)

// Screenshot queues a labeled screenshot of the next presented frame. The PNG
// is written to ScreenshotDir with a timestamped filename. Safe to call from
// Update or Draw.
func (s *Scene) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

// QueueStageDump requests that the border pipeline's intermediate buffers of
// the next frame be written to dir. It does nothing unless the border effect
// is in developer mode.
func (s *Scene) QueueStageDump(dir string) {
	if dir == "" {
		dir = s.ScreenshotDir
	}
	s.dumpQueue = append(s.dumpQueue, dir)
}

// flushScreenshots writes every queued screenshot of frame and every queued
// stage dump. Called at the end of Scene.Draw.
func (s *Scene) flushScreenshots(frame *Frame) {
	if len(s.screenshotQueue) > 0 {
		s.writeScreenshots(frame)
		s.screenshotQueue = s.screenshotQueue[:0]
	}
	if len(s.dumpQueue) > 0 {
		for _, dir := range s.dumpQueue {
			if s.border == nil {
				break
			}
			if _, err := s.border.DumpStages(dir); err != nil {
				Logger().Warn("stage dump failed", "dir", dir, "err", err)
			}
		}
		s.dumpQueue = s.dumpQueue[:0]
	}
}

func (s *Scene) writeScreenshots(frame *Frame) {
	if err := os.MkdirAll(s.ScreenshotDir, 0o755); err != nil {
		Logger().Warn("screenshot: mkdir failed", "dir", s.ScreenshotDir, "err", err)
		return
	}

	var img image.Image = frame.ToNRGBA()
	if sc := s.ScreenshotScale; sc > 0 && sc != 1 {
		w := max(1, int(float64(frame.Width)*sc))
		h := max(1, int(float64(frame.Height)*sc))
		img = transform.Resize(img, w, h, transform.Linear)
	}

	stamp := time.Now().Format("20060102_150405")
	for _, label := range s.screenshotQueue {
		path := filepath.Join(s.ScreenshotDir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			Logger().Warn("screenshot failed", "err", err)
			continue
		}
		Logger().Debug("screenshot written", "path", path)
	}
}

// DumpStages writes the intermediate buffers captured during the last frame
// as PNG files named after their stage ("ids", "edges", "blur1", "blur2")
// and returns the paths written. Only developer-mode effects capture stages.
func (e *BorderEffect) DumpStages(dir string) ([]string, error) {
	if !e.cfg.Developer {
		return nil, fmt.Errorf("dump stages: %w: developer mode is off", ErrInvalidConfig)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("dump stages: %w", err)
	}
	var paths []string
	for i, f := range e.stages.frames {
		if !e.stages.valid[i] {
			continue
		}
		path := filepath.Join(dir, stageNames[i]+".png")
		if err := writePNG(path, f.ToNRGBA()); err != nil {
			return paths, fmt.Errorf("dump stages: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
