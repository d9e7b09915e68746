package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"mid1lights/internal/app"
	"mid1lights/internal/events"
	"mid1lights/internal/logging"
	"mid1lights/internal/platform"
	"mid1lights/internal/storage"
	"mid1lights/internal/ui/preferences"
)

// options are the persistent command line flags. Non-empty values override
// settings.yaml.
type options struct {
	configPath  string
	keymapPath  string
	eepromPath  string
	logLevel    string
	logFormat   string
	metricsAddr string
}

func bindFlags(flags *pflag.FlagSet, opts *options) {
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to settings.yaml (default: user config dir)")
	flags.StringVar(&opts.keymapPath, "keymap", "", "Path to keymap.toml (default: built-in bindings)")
	flags.StringVar(&opts.eepromPath, "eeprom", "", "Path to the EEPROM image (default: user config dir)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Logging level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Logging format (text, json)")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9110")
}

// loadSettings resolves the settings file and applies flag overrides.
func (opts *options) loadSettings() (preferences.Settings, string, error) {
	settingsPath := opts.configPath
	if settingsPath == "" {
		resolved, err := storage.SettingsPath(appName)
		if err != nil {
			return preferences.DefaultSettings(), "", err
		}
		settingsPath = resolved
	}

	settings, err := storage.LoadSettingsFile(settingsPath)
	if err != nil {
		return settings, settingsPath, err
	}

	if opts.keymapPath != "" {
		settings.KeymapPath = opts.keymapPath
	}
	if opts.eepromPath != "" {
		settings.EEPROMPath = opts.eepromPath
	}
	if opts.logLevel != "" {
		settings.LogLevel = opts.logLevel
	}
	if opts.logFormat != "" {
		settings.LogFormat = opts.logFormat
	}
	if opts.metricsAddr != "" {
		settings.MetricsAddr = opts.metricsAddr
	}
	if settings.EEPROMPath == "" {
		imagePath, err := storage.EEPROMPath(appName)
		if err != nil {
			return settings, settingsPath, err
		}
		settings.EEPROMPath = imagePath
	}
	return settings, settingsPath, nil
}

// session is a running driver with its bus, lock and metrics endpoint.
type session struct {
	settings     preferences.Settings
	settingsPath string
	keymap       storage.Keymap
	bus          *events.Bus
	driver       *app.Driver
	lock         *platform.ImageLock
	metrics      *http.Server
	logger       *slog.Logger
	cancel       context.CancelFunc
}

func startSession(opts *options, logOutput io.Writer) (*session, error) {
	settings, settingsPath, err := opts.loadSettings()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	logging.Initialize(logging.Config{
		Level:  settings.LogLevel,
		Format: settings.LogFormat,
		Output: logOutput,
	})
	logger := logging.GetLogger("main")

	keymap, err := storage.LoadKeymap(settings.KeymapPath)
	if err != nil {
		return nil, fmt.Errorf("load keymap: %w", err)
	}

	lock, err := platform.AcquireImageLock(settings.EEPROMPath)
	if err != nil {
		return nil, err
	}

	bus := events.New()
	driver, err := app.New(app.Config{
		ScanInterval: settings.ScanInterval,
		Brightness:   settings.Brightness,
		EEPROMPath:   settings.EEPROMPath,
		Runtime:      settings.RuntimeConfig(),
	}, bus, nil, logging.GetLogger("driver"))
	if err != nil {
		_ = lock.Release()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	current := &session{
		settings:     settings,
		settingsPath: settingsPath,
		keymap:       keymap,
		bus:          bus,
		driver:       driver,
		lock:         lock,
		logger:       logger,
		cancel:       cancel,
	}
	current.serveMetrics(settings.MetricsAddr)
	driver.Start(ctx)

	logger.Info("session started", "settings", settingsPath, "eeprom", settings.EEPROMPath)
	return current, nil
}

func (current *session) serveMetrics(address string) {
	if address == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	current.metrics = &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := current.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			current.logger.Error("metrics server failed", "address", address, "error", err)
		}
	}()
	current.logger.Info("serving metrics", "address", address)
}

// close stops the driver, saves the image and releases the lock.
func (current *session) close() error {
	var errs []error
	if current.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := current.metrics.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop metrics server: %w", err))
		}
		cancel()
	}
	if err := current.driver.Stop(); err != nil {
		errs = append(errs, err)
	}
	current.cancel()
	if err := current.lock.Release(); err != nil {
		errs = append(errs, fmt.Errorf("release image lock: %w", err))
	}
	current.logger.Info("session closed")
	return errors.Join(errs...)
}

// saveSettings persists settings and applies what can change live.
func (current *session) saveSettings(settings preferences.Settings) {
	current.settings = settings
	current.driver.SetBrightness(settings.Brightness)
	if err := storage.SaveSettingsFile(current.settingsPath, settings); err != nil {
		current.logger.Error("save settings", "error", err)
	}
}
