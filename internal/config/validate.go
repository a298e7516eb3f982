// internal/config/validate.go
package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Bot.Token == "" {
		errs = append(errs, "bot.token: required")
	}
	if len(c.Bot.Admins) == 0 {
		errs = append(errs, "bot.admins: at least one admin user id must be configured")
	}
	if !validLogLevels[c.Bot.LogLevel] {
		errs = append(errs, fmt.Sprintf("bot.log_level: must be one of debug, info, warn, error; got %q", c.Bot.LogLevel))
	}

	for _, ch := range c.Gate.RequiredChannels {
		if !strings.HasPrefix(ch, "@") {
			errs = append(errs, fmt.Sprintf("gate.required_channels: channel %q must start with @", ch))
		}
	}
	if c.Gate.CacheTTL.Duration < 0 {
		errs = append(errs, "gate.cache_ttl: must not be negative")
	}

	if c.Session.TTL.Duration < 0 {
		errs = append(errs, "session.ttl: must not be negative")
	}

	if c.Browse.PageSize < 1 {
		errs = append(errs, fmt.Sprintf("browse.page_size: must be at least 1, got %d", c.Browse.PageSize))
	}
	if c.Browse.SearchLimit < 1 {
		errs = append(errs, fmt.Sprintf("browse.search_limit: must be at least 1, got %d", c.Browse.SearchLimit))
	}

	return errs
}
