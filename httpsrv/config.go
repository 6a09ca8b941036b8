package httpsrv

import (
	"net/http"
	"time"

	"github.com/miruken-go/resource/config"
	"github.com/miruken-go/resource/internal"
)

// Config provides http.Server configuration.
type Config struct {
	Addr              string        `path:"addr"`
	Realm             string        `path:"realm"`
	ReadTimeout       time.Duration `path:"readTimeout"`
	ReadHeaderTimeout time.Duration `path:"readHeaderTimeout"`
	WriteTimeout      time.Duration `path:"writeTimeout"`
	IdleTimeout       time.Duration `path:"idleTimeout"`
	MaxHeaderBytes    int           `path:"maxHeaderBytes"`
}

// DefaultConfig is used for settings missing from a Config.
var DefaultConfig = Config{
	Addr:              ":8080",
	Realm:             "resource",
	ReadTimeout:       5 * time.Second,
	ReadHeaderTimeout: 2 * time.Second,
	WriteTimeout:      10 * time.Second,
	IdleTimeout:       60 * time.Second,
	MaxHeaderBytes:    1 << 20,
}

// LoadConfig reads the server Config at path.
func LoadConfig(provider config.Provider, path string) (Config, error) {
	return config.Load(provider, path, DefaultConfig)
}

// New creates a http.Server serving handler.
func New(
	handler http.Handler,
	cfg     *Config,
) *http.Server {
	if handler == nil {
		panic("handler cannot be nil")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	def := DefaultConfig
	return &http.Server{
		Addr:              internal.DefaultValue(cfg.Addr, def.Addr),
		Handler:           handler,
		ReadTimeout:       internal.DefaultValue(cfg.ReadTimeout, def.ReadTimeout),
		ReadHeaderTimeout: internal.DefaultValue(cfg.ReadHeaderTimeout, def.ReadHeaderTimeout),
		WriteTimeout:      internal.DefaultValue(cfg.WriteTimeout, def.WriteTimeout),
		IdleTimeout:       internal.DefaultValue(cfg.IdleTimeout, def.IdleTimeout),
		MaxHeaderBytes:    internal.DefaultValue(cfg.MaxHeaderBytes, def.MaxHeaderBytes),
	}
}

// ListenAndServe creates and starts a http.Server.
func ListenAndServe(
	handler http.Handler,
	cfg     *Config,
) error {
	return New(handler, cfg).ListenAndServe()
}
