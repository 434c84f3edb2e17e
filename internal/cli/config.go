package cli

import (
	"fmt"
	"sort"
	"strings"

	"vitae-cli/internal/render"
	"vitae-cli/internal/store"

	"github.com/spf13/cobra"
)

// configKey binds a dotted key to one field of the global config.
type configKey struct {
	get func(cfg *store.GlobalConfig) any
	set func(cfg *store.GlobalConfig, v string) error
}

func exportConfig(cfg *store.GlobalConfig) *store.ExportConfig {
	if cfg.Export == nil {
		cfg.Export = &store.ExportConfig{}
	}
	return cfg.Export
}

func tuiConfig(cfg *store.GlobalConfig) *store.TUIConfig {
	if cfg.TUI == nil {
		cfg.TUI = &store.TUIConfig{}
	}
	return cfg.TUI
}

func stringKey(field func(cfg *store.GlobalConfig) *string) configKey {
	return configKey{
		get: func(cfg *store.GlobalConfig) any { return *field(cfg) },
		set: func(cfg *store.GlobalConfig, v string) error {
			*field(cfg) = strings.TrimSpace(v)
			return nil
		},
	}
}

func boolKey(field func(cfg *store.GlobalConfig) *bool) configKey {
	return configKey{
		get: func(cfg *store.GlobalConfig) any { return *field(cfg) },
		set: func(cfg *store.GlobalConfig, v string) error {
			b, err := parseSwitch(v)
			if err != nil {
				return err
			}
			*field(cfg) = b
			return nil
		},
	}
}

var configKeys = map[string]configKey{
	"currentWorkspace": {
		get: func(cfg *store.GlobalConfig) any { return cfg.CurrentWorkspace },
		set: func(cfg *store.GlobalConfig, v string) error {
			name, err := store.NormalizeWorkspaceName(v)
			if err != nil {
				return err
			}
			cfg.CurrentWorkspace = name
			return nil
		},
	},
	"skipItemDeleteConfirmation": boolKey(func(cfg *store.GlobalConfig) *bool { return &cfg.SkipItemDeleteConfirmation }),
	"defaultTemplate": {
		get: func(cfg *store.GlobalConfig) any { return cfg.DefaultTemplate },
		set: func(cfg *store.GlobalConfig, v string) error {
			v = strings.TrimSpace(v)
			if v != "" {
				if _, err := render.StyleFor(v); err != nil {
					return err
				}
			}
			cfg.DefaultTemplate = v
			return nil
		},
	},
	"export.bucket":    stringKey(func(cfg *store.GlobalConfig) *string { return &exportConfig(cfg).Bucket }),
	"export.region":    stringKey(func(cfg *store.GlobalConfig) *string { return &exportConfig(cfg).Region }),
	"export.endpoint":  stringKey(func(cfg *store.GlobalConfig) *string { return &exportConfig(cfg).Endpoint }),
	"export.prefix":    stringKey(func(cfg *store.GlobalConfig) *string { return &exportConfig(cfg).Prefix }),
	"tui.preview":      boolKey(func(cfg *store.GlobalConfig) *bool { return &tuiConfig(cfg).Preview }),
	"tui.glamourStyle": stringKey(func(cfg *store.GlobalConfig) *string { return &tuiConfig(cfg).GlamourStyle }),
}

func lookupConfigKey(key string) (configKey, error) {
	k, ok := configKeys[key]
	if !ok {
		names := make([]string, 0, len(configKeys))
		for n := range configKeys {
			names = append(names, n)
		}
		sort.Strings(names)
		return configKey{}, fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(names, ", "))
	}
	return k, nil
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Global settings (~/.vitae/config.json)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the whole config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cfg})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := lookupConfigKey(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"key": args[0], "value": k.get(cfg)}})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Example: strings.TrimSpace(`
  vitae config set defaultTemplate manhattan
  vitae config set skipItemDeleteConfirmation off
  vitae config set export.endpoint https://<account>.r2.cloudflarestorage.com
`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := lookupConfigKey(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := k.set(cfg, args[1]); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"key": args[0], "value": k.get(cfg)}})
		},
	})

	return cmd
}
