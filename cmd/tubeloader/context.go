package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ytget/tubeloader/internal/bootstrap"
	"github.com/ytget/tubeloader/internal/config"
	"github.com/ytget/tubeloader/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *logging.Logger

	stackOnce sync.Once
	stack     *bootstrap.Stack
	stackErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && *c.logLevelFlag != "" {
			if !logging.ValidLevel(*c.logLevelFlag) {
				c.configErr = fmt.Errorf("invalid --log-level %q", *c.logLevelFlag)
				return
			}
			cfg.Logging.Level = strings.ToLower(*c.logLevelFlag)
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// loggerValue writes to stderr so stdout stays clean for results.
func (c *commandContext) loggerValue() *logging.Logger {
	c.loggerOnce.Do(func() {
		level := "info"
		if cfg, err := c.ensureConfig(); err == nil {
			level = cfg.Logging.Level
		}
		c.logger = logging.New(logging.Options{Level: level, Output: os.Stderr})
	})
	return c.logger
}

func (c *commandContext) ensureStack(ctx context.Context) (*bootstrap.Stack, error) {
	c.stackOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.stackErr = err
			return
		}
		c.stack, c.stackErr = bootstrap.Build(ctx, cfg, c.loggerValue())
	})
	return c.stack, c.stackErr
}

func (c *commandContext) close() error {
	if c.stack == nil {
		return nil
	}
	return c.stack.Close()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
