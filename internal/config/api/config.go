package api_config

import (
	"time"

	"github.com/flexiride/backend/internal/notifier"
	"github.com/flexiride/backend/internal/obs"
	pg "github.com/flexiride/backend/internal/repository/postgres"
	s3store "github.com/flexiride/backend/internal/repository/s3"
)

type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type Server struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	MetricsAddr     string        `mapstructure:"metrics_addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	GracefulTimeout time.Duration `mapstructure:"graceful_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

func (oc *OTEL) AsOTELConfig() *obs.OTELConfig {
	return &obs.OTELConfig{
		Enable:      oc.Enable,
		Endpoint:    oc.OTLPEndpoint,
		ServiceName: oc.ServiceName,
		SampleRatio: oc.SampleRatio,
	}
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Auth carries the token and reset knobs. Access and refresh secrets must
// differ; a token signed for one purpose never verifies as the other.
type Auth struct {
	AccessSecret  string        `mapstructure:"access_secret"`
	AccessTTL     time.Duration `mapstructure:"access_ttl"`
	RefreshSecret string        `mapstructure:"refresh_secret"`
	RefreshTTL    time.Duration `mapstructure:"refresh_ttl"`
	HashCost      int           `mapstructure:"hash_cost"`
	ResetTTL      time.Duration `mapstructure:"reset_ttl"`
	ResetSweep    time.Duration `mapstructure:"reset_sweep"`
	ResetBaseURL  string        `mapstructure:"reset_base_url"`
}

type Config struct {
	App    App                 `mapstructure:"app"`
	Server Server              `mapstructure:"server"`
	DB     pg.Config           `mapstructure:"db"`
	OTEL   OTEL                `mapstructure:"otel"`
	Log    Log                 `mapstructure:"log"`
	Auth   Auth                `mapstructure:"auth"`
	SMTP   notifier.SMTPConfig `mapstructure:"smtp"`
	S3     s3store.Config      `mapstructure:"s3"`
}
