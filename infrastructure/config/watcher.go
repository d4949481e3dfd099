package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	domaincfg "pulse-backend/domain/config"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// limitsFile is the on-disk shape of the tunable domain limits
type limitsFile struct {
	MaxPostLength    int      `json:"maxPostLength"`
	MaxCommentLength int      `json:"maxCommentLength"`
	MinHandleLength  int      `json:"minHandleLength"`
	MaxHandleLength  int      `json:"maxHandleLength"`
	MaxNameLength    int      `json:"maxNameLength"`
	AllowSelfLike    *bool    `json:"allowSelfLike"`
	AvatarPalette    []string `json:"avatarPalette"`
}

// LimitsWatcher reloads the domain limits file on change and swaps the
// result into the shared holder. Engines pick the new limits up on
// their next call; in-flight requests keep the limits they started with.
type LimitsWatcher struct {
	path    string
	holder  *domaincfg.Holder
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	stopCh  chan struct{}
}

// NewLimitsWatcher loads the initial limits and begins watching path.
// The directory is watched too so atomic saves (write temp, rename)
// are picked up.
func NewLimitsWatcher(path string, holder *domaincfg.Holder, logger *zap.Logger) (*LimitsWatcher, error) {
	cfg, err := loadLimitsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial limits: %w", err)
	}
	holder.Set(cfg)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch limits file: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn("Failed to watch limits directory", zap.Error(err))
	}

	return &LimitsWatcher{
		path:    path,
		holder:  holder,
		watcher: watcher,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}, nil
}

// Start begins watching for limits changes
func (w *LimitsWatcher) Start() {
	go w.watchLoop()
	w.logger.Info("Limits watcher started", zap.String("path", w.path))
}

// Stop stops watching for limits changes
func (w *LimitsWatcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
	w.logger.Info("Limits watcher stopped")
}

func (w *LimitsWatcher) watchLoop() {
	// Debounce: editors and atomic saves fire several events per write
	var debounceTimer *time.Timer
	debounceDuration := 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDuration, w.reload)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Limits watcher error", zap.Error(err))
		}
	}
}

func (w *LimitsWatcher) reload() {
	cfg, err := loadLimitsFromFile(w.path)
	if err != nil {
		w.logger.Error("Failed to reload limits, keeping current", zap.Error(err))
		return
	}

	w.holder.Set(cfg)
	w.logger.Info("Limits reloaded",
		zap.Int("maxPostLength", cfg.MaxPostLength),
		zap.Int("maxCommentLength", cfg.MaxCommentLength),
	)
}

// loadLimitsFromFile reads the limits file and overlays it on the
// defaults, validating the result
func loadLimitsFromFile(path string) (*domaincfg.DomainConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read limits file: %w", err)
	}

	var f limitsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse limits JSON: %w", err)
	}

	cfg := domaincfg.DefaultDomainConfig()
	if f.MaxPostLength > 0 {
		cfg.MaxPostLength = f.MaxPostLength
	}
	if f.MaxCommentLength > 0 {
		cfg.MaxCommentLength = f.MaxCommentLength
	}
	if f.MinHandleLength > 0 {
		cfg.MinHandleLength = f.MinHandleLength
	}
	if f.MaxHandleLength > 0 {
		cfg.MaxHandleLength = f.MaxHandleLength
	}
	if f.MaxNameLength > 0 {
		cfg.MaxNameLength = f.MaxNameLength
	}
	if f.AllowSelfLike != nil {
		cfg.AllowSelfLike = *f.AllowSelfLike
	}
	if len(f.AvatarPalette) > 0 {
		cfg.AvatarPalette = f.AvatarPalette
	}

	if cfg.MinHandleLength > cfg.MaxHandleLength {
		return nil, fmt.Errorf("minHandleLength %d exceeds maxHandleLength %d", cfg.MinHandleLength, cfg.MaxHandleLength)
	}
	if cfg.MaxCommentLength > cfg.MaxPostLength {
		return nil, fmt.Errorf("maxCommentLength %d exceeds maxPostLength %d", cfg.MaxCommentLength, cfg.MaxPostLength)
	}

	return cfg, nil
}
