package service

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// flagReloadDebounce coalesces the burst of fsnotify events editors emit on
// save into a single reload.
const flagReloadDebounce = 250 * time.Millisecond

// FlagDef is one feature flag in the YAML file. A flag is on for a user when
// Enabled is true, the user's role is in Roles (empty Roles means any role),
// and the user's rollout bucket falls under Percentage (0 means percentage is
// ignored and Enabled alone decides).
type FlagDef struct {
	Enabled    bool     `yaml:"enabled"`
	Percentage int      `yaml:"percentage"`
	Roles      []string `yaml:"roles"`
}

type flagFile struct {
	Flags map[string]FlagDef `yaml:"flags"`
}

// FlagService serves feature flags from a YAML file, optionally hot-reloaded
// when the file changes on disk.
type FlagService struct {
	path   string
	logger *slog.Logger

	mu    sync.RWMutex
	flags map[string]FlagDef

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewFlagService loads flags from path. A missing file is not an error; the
// service starts with every flag off.
func NewFlagService(path string, logger *slog.Logger) (*FlagService, error) {
	s := &FlagService{
		path:   path,
		logger: logger,
		flags:  map[string]FlagDef{},
		done:   make(chan struct{}),
	}
	if err := s.reload(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		logger.Warn("flag file missing, all flags off", "path", path)
	}
	return s, nil
}

// Watch starts watching the flag file's directory for changes. Watching the
// directory rather than the file survives editors that replace the file on
// save.
func (s *FlagService) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(s.path), err)
	}
	s.watcher = watcher

	s.wg.Add(1)
	go s.watchLoop()
	return nil
}

// Close stops the file watcher if one is running
func (s *FlagService) Close() error {
	if s.watcher == nil {
		return nil
	}
	close(s.done)
	err := s.watcher.Close()
	s.wg.Wait()
	return err
}

// Enabled reports whether the flag is on for the given user. Percentage
// rollout buckets users by a hash of the flag name and user ID so a user's
// bucket is stable per flag.
func (s *FlagService) Enabled(name, userID string) bool {
	s.mu.RLock()
	def, ok := s.flags[name]
	s.mu.RUnlock()

	if !ok || !def.Enabled {
		return false
	}
	if def.Percentage <= 0 || def.Percentage >= 100 {
		return def.Enabled
	}
	return bucket(name, userID) < def.Percentage
}

// EnabledFor is Enabled with the role allowlist applied. A flag listing roles
// is off for any role not named.
func (s *FlagService) EnabledFor(name, userID, role string) bool {
	s.mu.RLock()
	def, ok := s.flags[name]
	s.mu.RUnlock()

	if ok && len(def.Roles) > 0 {
		allowed := false
		for _, r := range def.Roles {
			if r == role {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}
	return s.Enabled(name, userID)
}

// All returns a snapshot of every flag definition
func (s *FlagService) All() map[string]FlagDef {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]FlagDef, len(s.flags))
	for k, v := range s.flags {
		out[k] = v
	}
	return out
}

func (s *FlagService) reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var file flagFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse flag file: %w", err)
	}
	if file.Flags == nil {
		file.Flags = map[string]FlagDef{}
	}

	s.mu.Lock()
	s.flags = file.Flags
	s.mu.Unlock()

	s.logger.Info("feature flags loaded", "path", s.path, "count", len(file.Flags))
	return nil
}

func (s *FlagService) watchLoop() {
	defer s.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-s.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(flagReloadDebounce)
				timerC = timer.C
			} else {
				timer.Reset(flagReloadDebounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			if err := s.reload(); err != nil {
				s.logger.Error("flag reload failed", "error", err)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("flag watcher error", "error", err)
		}
	}
}

// bucket maps a flag and user to 0-99
func bucket(flag, userID string) int {
	h := fnv.New32a()
	h.Write([]byte(flag))
	h.Write([]byte(":"))
	h.Write([]byte(userID))
	return int(h.Sum32() % 100)
}
