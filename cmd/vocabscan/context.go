package main

import (
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"vocabscan/internal/config"
)

// commandContext lazily loads configuration so that commands annotated with
// skipConfigLoad (config init, config path, presets) work on a fresh machine
// with no config file at all.
type commandContext struct {
	configFlag *string

	once sync.Once
	cfg  *config.Config
	err  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.once.Do(func() {
		// Best-effort: API keys may live in a local .env instead of the TOML.
		_ = godotenv.Load()

		path := ""
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.cfg, _, _, c.err = config.Load(path)
		if c.err == nil {
			c.err = c.cfg.EnsureDirectories()
		}
	})
	if c.err != nil {
		return nil, c.err
	}
	return c.cfg, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for cur := cmd; cur != nil; cur = cur.Parent() {
		if cur.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
