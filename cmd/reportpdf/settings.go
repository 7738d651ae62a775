package main

import (
	"errors"
	"fmt"
	"log/slog"

	reportpdf "github.com/alnah/go-reportpdf"
	"github.com/alnah/go-reportpdf/internal/assets"
	"github.com/alnah/go-reportpdf/internal/config"
	"github.com/alnah/go-reportpdf/internal/hints"
)

// resolveConfig layers the configuration: flags > env vars > config file > defaults.
// apply receives the config after env vars and must copy the command flags.
func resolveConfig(configFlag string, env *Environment, apply func(*config.Config)) (*config.Config, error) {
	envCfg, err := loadEnvConfig(env.Getenv)
	if err != nil {
		return nil, err
	}

	name := configFlag
	if name == "" {
		name = envCfg.ConfigName
	}

	cfg := config.DefaultConfig()
	if name != "" {
		if cfg, err = config.LoadConfig(name); err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, err
		}
	}

	applyEnvConfig(envCfg, cfg)
	if apply != nil {
		apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyTo copies the flags that were set into cfg.
func (f *renderFlags) applyTo(cfg *config.Config) {
	if f.timeout != "" {
		cfg.Generate.Timeout = f.timeout
	}
	if f.date != "" {
		cfg.Date = f.date
	}
	if f.locale != "" {
		cfg.Locale = f.locale
	}
	if f.style != "" {
		cfg.Style = f.style
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
	if f.watermarkText != "" {
		cfg.Watermark.Enabled = true
		cfg.Watermark.Text = f.watermarkText
	}
	if f.noCover {
		cfg.Cover.Enabled = false
	}
	if f.noTOC {
		cfg.TOC.Enabled = false
	}
	if f.noFooter {
		cfg.Footer.Enabled = false
	}
	if f.page.size != "" {
		cfg.Page.Size = f.page.size
	}
	if f.page.orientation != "" {
		cfg.Page.Orientation = f.page.orientation
	}
	if f.page.margin != 0 {
		cfg.Page.Margin = f.page.margin
	}
	if f.outputMode.html {
		cfg.Output.KeepHTML = true
	}
}

// converterOptions turns the config into converter options.
func converterOptions(cfg *config.Config, logger *slog.Logger) []reportpdf.Option {
	opts := []reportpdf.Option{reportpdf.WithLogger(logger)}
	if d := cfg.TimeoutDuration(); d > 0 {
		opts = append(opts, reportpdf.WithTimeout(d))
	}
	if cfg.Style != "" {
		opts = append(opts, reportpdf.WithStyle(cfg.Style))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, reportpdf.WithAssetPath(cfg.Assets.BasePath))
	}
	return opts
}

// checkConverterOptions builds and closes one converter so style and asset
// errors show up before any report starts. No browser is launched.
func checkConverterOptions(opts []reportpdf.Option) error {
	c, err := reportpdf.NewConverter(opts...)
	if err != nil {
		if errors.Is(err, reportpdf.ErrStyleNotFound) {
			return fmt.Errorf("%w%s", err, hints.ForStyleNotFound(assets.StyleNames()))
		}
		return err
	}
	return c.Close()
}
