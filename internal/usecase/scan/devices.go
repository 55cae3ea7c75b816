package scan

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"opsdeck/internal/bootstrap/logging"
	"opsdeck/internal/errs"
)

var ErrUnknownDevice = errors.New("device is not registered")

// DeviceProfile describes one registered scanner device.
type DeviceProfile struct {
	ID      string `toml:"id"`
	Label   string `toml:"label"`
	Kitchen string `toml:"kitchen"`
}

type deviceFile struct {
	Devices []DeviceProfile `toml:"devices"`
}

// DeviceRegistry holds the scanner device profiles loaded from a TOML file.
// The file is watched and the profile set swapped atomically on change, so
// a device can be added or retired without restarting the server.
type DeviceRegistry struct {
	path    string
	watcher *fsnotify.Watcher
	done    chan struct{}

	mu       sync.RWMutex
	profiles map[string]DeviceProfile
}

func NewDeviceRegistry(path string) (*DeviceRegistry, error) {
	r := &DeviceRegistry{
		path:     path,
		profiles: make(map[string]DeviceProfile),
	}
	if err := r.reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Watch starts reacting to changes of the profiles file. It returns after
// the watcher is installed; reloads happen on a background goroutine until
// ctx is done or Close is called.
func (r *DeviceRegistry) Watch(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errs.Wrap(err, "create profile watcher")
	}
	// Watch the directory: editors replace the file on save, which drops a
	// watch installed on the file itself.
	if err := watcher.Add(filepath.Dir(r.path)); err != nil {
		watcher.Close()
		return errs.Wrap(err, "watch profile directory")
	}

	r.watcher = watcher
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(r.path) {
					continue
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
					continue
				}
				if err := r.reload(); err != nil {
					logging.Warn(ctx, "reload device profiles failed",
						slog.String("path", r.path), slog.Any("err", errs.Loggable(err)))
					continue
				}
				logging.Info(ctx, "device profiles reloaded",
					slog.String("path", r.path), slog.Int("devices", r.Len()))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Warn(ctx, "device profile watcher error", slog.Any("err", errs.Loggable(err)))
			}
		}
	}()
	return nil
}

func (r *DeviceRegistry) Close() error {
	if r.watcher == nil {
		return nil
	}
	err := r.watcher.Close()
	<-r.done
	return err
}

// Profile returns the profile of a registered device.
func (r *DeviceRegistry) Profile(deviceID string) (DeviceProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[deviceID]
	if !ok {
		return DeviceProfile{}, ErrUnknownDevice
	}
	return profile, nil
}

// Profiles lists all registered devices ordered by id.
func (r *DeviceRegistry) Profiles() []DeviceProfile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]DeviceProfile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		out = append(out, profile)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *DeviceRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}

func (r *DeviceRegistry) reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return errs.Wrap(err, "read device profiles")
	}

	var file deviceFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return errs.Wrap(err, "parse device profiles")
	}

	profiles := make(map[string]DeviceProfile, len(file.Devices))
	for _, profile := range file.Devices {
		if profile.ID == "" {
			return errors.New("device profile without id")
		}
		profiles[profile.ID] = profile
	}

	r.mu.Lock()
	r.profiles = profiles
	r.mu.Unlock()
	return nil
}
