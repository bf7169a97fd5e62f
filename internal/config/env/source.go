package envconfig

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type sourceEnv struct {
	BaseURL  string        `env:"SOURCE_BASE_URL,required"`
	Token    string        `env:"SOURCE_API_TOKEN,required"`
	PageSize int           `env:"SOURCE_PAGE_SIZE" envDefault:"50"`
	Timeout  time.Duration `env:"SOURCE_HTTP_TIMEOUT" envDefault:"15s"`
}

type source struct {
	raw sourceEnv
}

func NewSourceConfig() (*source, error) {
	var raw sourceEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &source{raw: raw}, nil
}

func (cfg *source) BaseURL() string        { return cfg.raw.BaseURL }
func (cfg *source) Token() string          { return cfg.raw.Token }
func (cfg *source) PageSize() int          { return cfg.raw.PageSize }
func (cfg *source) Timeout() time.Duration { return cfg.raw.Timeout }
