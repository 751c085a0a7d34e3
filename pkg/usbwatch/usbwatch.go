// Package usbwatch polls for a labelled USB volume and exports the collected
// readings onto it when it appears.
package usbwatch

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vibration-logger/pkg/led"
	"vibration-logger/pkg/store"
)

// exportStampLayout suffixes export file names so repeated insertions never
// overwrite prior exports.
const exportStampLayout = "20060102_150405"

// Config parameterizes the watcher.
type Config struct {
	// VolumeLabel is the directory name the auto-mounter gives the volume.
	VolumeLabel string
	// MountDirs are candidate parent directories, probed in order.
	MountDirs []string
	// PollInterval paces the presence scan; Poll is a no-op in between.
	PollInterval time.Duration
	// LocalPath is the canonical local export file. The USB copy takes this
	// file's base name plus a timestamp suffix.
	LocalPath string
}

// Watcher detects insertion and removal edges of the labelled volume.
// Presence is re-derived on every scan; only the previous value is kept to
// detect the edge.
type Watcher struct {
	cfg       Config
	store     *store.Store
	indicator *led.CopyIndicator

	lastPoll  time.Time
	present   bool
	mountPath string
}

// New creates a watcher. The first Poll scans immediately.
func New(cfg Config, st *store.Store, indicator *led.CopyIndicator) *Watcher {
	return &Watcher{cfg: cfg, store: st, indicator: indicator}
}

// Poll scans the candidate mount dirs if the poll interval has elapsed. An
// absent→present edge triggers one export attempt; a present→absent edge
// resets the indicator. A failed export is not retried until the next fresh
// insertion edge.
func (w *Watcher) Poll(now time.Time) {
	if !w.lastPoll.IsZero() && now.Sub(w.lastPoll) < w.cfg.PollInterval {
		return
	}
	w.lastPoll = now

	mount, found := w.locate()

	switch {
	case found && !w.present:
		w.present = true
		w.mountPath = mount
		slog.Info("usb volume inserted", "label", w.cfg.VolumeLabel, "mount", mount)
		w.handleInsertion(mount, now)

	case !found && w.present:
		w.present = false
		w.mountPath = ""
		slog.Info("usb volume removed", "label", w.cfg.VolumeLabel)
		w.indicator.SetIdle()
	}
	// present→present and absent→absent are no-ops.
}

// Present reports the last derived presence and mount path.
func (w *Watcher) Present() (string, bool) { return w.mountPath, w.present }

// locate scans the candidate dirs in priority order; the first existing
// directory wins. With two matching volumes mounted at once the outcome is
// determined by list order alone.
func (w *Watcher) locate() (string, bool) {
	for _, dir := range w.cfg.MountDirs {
		path := filepath.Join(dir, w.cfg.VolumeLabel)
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// handleInsertion runs the export sequence for one insertion edge. An empty
// store skips the export entirely and leaves the indicator alone.
func (w *Watcher) handleInsertion(mount string, now time.Time) {
	if w.store.IsEmpty() {
		slog.Info("no readings collected, skipping export", "mount", mount)
		return
	}

	w.indicator.SetCopying()

	if err := w.export(mount, now); err != nil {
		slog.Error("usb export failed", "mount", mount, "error", err)
		w.indicator.SetIdle()
		return
	}

	w.indicator.SetCopied()
}

// export flushes the store to the canonical local file and copies that file
// onto the mount under a timestamped name.
func (w *Watcher) export(mount string, now time.Time) error {
	rows, err := w.store.Export(w.cfg.LocalPath)
	if err != nil {
		return fmt.Errorf("local flush: %w", err)
	}

	dest := filepath.Join(mount, exportName(w.cfg.LocalPath, now))
	if err := copyFile(w.cfg.LocalPath, dest); err != nil {
		return fmt.Errorf("usb copy: %w", err)
	}

	slog.Info("readings exported", "rows", rows, "file", dest)
	return nil
}

// exportName derives the USB file name: the local file's base name without
// extension, suffixed with a timestamp.
func exportName(localPath string, now time.Time) string {
	base := filepath.Base(localPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_%s.csv", base, now.Format(exportStampLayout))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
