package envconfig

import "github.com/caarlos0/env/v11"

type syncEnv struct {
	Secret          string `env:"SYNC_SECRET,required"`
	DefaultCurrency string `env:"SYNC_DEFAULT_CURRENCY" envDefault:"INR"`
}

type syncCfg struct {
	raw syncEnv
}

func NewSyncConfig() (*syncCfg, error) {
	var raw syncEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &syncCfg{raw: raw}, nil
}

func (cfg *syncCfg) Secret() string          { return cfg.raw.Secret }
func (cfg *syncCfg) DefaultCurrency() string { return cfg.raw.DefaultCurrency }
