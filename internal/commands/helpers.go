package commands

import (
	"github.com/popline/popline/internal/config"
	"github.com/popline/popline/internal/popup"
)

// popupOptions maps the settings file onto the popup engine's options.
func popupOptions(cfg *config.Config) popup.Options {
	opts := popup.Options{
		Wraparound:  cfg.Wraparound,
		FuzzyAccent: cfg.FuzzyAccent,
		MaxRows:     cfg.MaxRows,
		PopupColor:  cfg.Colors.Popup,
		DescColor:   cfg.Colors.Desc,
	}
	switch cfg.IgnoreCase {
	case "off":
		opts.IgnoreCase = popup.CaseExact
	case "on":
		opts.IgnoreCase = popup.CaseIgnore
	default:
		opts.IgnoreCase = popup.CaseRelaxed
	}
	return opts
}
