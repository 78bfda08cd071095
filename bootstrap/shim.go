package bootstrap

import (
	"errors"
	"fmt"
	"sync"

	"eduverse/app"
	"eduverse/config"

	"go.uber.org/zap"
)

// ErrAppInit wraps every failure to obtain the application object
var ErrAppInit = errors.New("application initialization failed")

// Shim obtains the application object exactly once and re-exports it
type Shim struct {
	entryDir func() (string, error)
	newApp   func(*config.Config, *zap.Logger) (*app.Server, error)

	once   sync.Once
	server *app.Server
	config *config.Config
	logger *zap.Logger
	err    error
}

// NewShim returns a shim that builds the application with app.New
func NewShim() *Shim {
	return &Shim{
		entryDir: EntryDir,
		newApp:   app.New,
	}
}

var defaultShim = NewShim()

// Default returns the process-wide shim used by Application
func Default() *Shim {
	return defaultShim
}

// Application returns the application object of the default shim
func Application() (*app.Server, error) {
	return defaultShim.Application()
}

// Application prepares the search path, then loads .env files, configuration
// and the logger, and finally constructs the application. Construction runs
// once; later calls return the same object or the same error. Nothing here
// starts a server.
func (s *Shim) Application() (*app.Server, error) {
	s.once.Do(func() {
		s.server, s.err = s.initialize()
		if s.err != nil {
			s.err = fmt.Errorf("%w: %w", ErrAppInit, s.err)
		}
	})
	return s.server, s.err
}

func (s *Shim) initialize() (*app.Server, error) {
	dir, err := s.entryDir()
	if err != nil {
		return nil, err
	}
	PrependSearchPath(dir)
	paths := SearchPath()

	envFiles, err := LoadEnvFiles(paths)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := InitLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	s.config = cfg
	s.logger = logger

	sugar := logger.Sugar()
	if cfg.ConfigFile == "" {
		sugar.Info("No config file found, using defaults and env vars")
	}
	sugar.Infow("Resolved entry point",
		"entry_dir", dir,
		"search_path", paths,
		"config_file", cfg.ConfigFile,
		"env_files", envFiles,
		"environment", cfg.Environment)

	server, err := s.newApp(cfg, logger)
	if err != nil {
		sugar.Errorw("Failed to construct application", "error", err)
		return nil, err
	}
	return server, nil
}

// Config returns the loaded configuration, nil until Application has loaded it
func (s *Shim) Config() *config.Config {
	_, _ = s.Application()
	return s.config
}

// Logger returns the application logger, or a no-op logger when
// initialization failed before one was built
func (s *Shim) Logger() *zap.Logger {
	_, _ = s.Application()
	if s.logger == nil {
		return zap.NewNop()
	}
	return s.logger
}
