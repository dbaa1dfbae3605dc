package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"atelier/internal/client"
	"atelier/internal/config"
)

type commandContext struct {
	serverFlag *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(serverFlag, configFlag *string) *commandContext {
	return &commandContext{
		serverFlag: serverFlag,
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// baseURL resolves the daemon address: the --server flag wins, then the
// configured capture base URL, otherwise the API bind address is assumed to
// be reachable over plain HTTP.
func (c *commandContext) baseURL() string {
	if c.serverFlag != nil && strings.TrimSpace(*c.serverFlag) != "" {
		return strings.TrimSpace(*c.serverFlag)
	}
	cfg := c.configValue()
	if cfg != nil && cfg.Capture.BaseURL != "" {
		return cfg.Capture.BaseURL
	}
	bind := "127.0.0.1:5173"
	if cfg != nil && strings.TrimSpace(cfg.Paths.APIBind) != "" {
		bind = strings.TrimSpace(cfg.Paths.APIBind)
	}
	return "http://" + bind
}

func (c *commandContext) client() *client.Client {
	return client.New(c.baseURL())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
