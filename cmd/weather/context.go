package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/couchcryptid/weather-report-etl/internal/config"
	"github.com/couchcryptid/weather-report-etl/internal/observability"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = observability.NewLogger(cfg)
	})
	return c.config, c.configErr
}
