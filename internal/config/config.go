// Package config provides layered configuration loading for vaultpad.
// It merges Defaults -> Environment Variables, with validation. Command line
// flags are applied on top by the cmd package.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variables before they are matched to keys
const EnvPrefix = "VAULTPAD_"

// Config holds the merged runtime configuration
type Config struct {
	DataPath string `koanf:"data_path" validate:"required,vault_path"`
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`
	Keyring  bool   `koanf:"keyring"`
}

// DefaultAppConfig is the configuration used when nothing overrides it
var DefaultAppConfig = Config{
	DataPath: ".vaultpad",
	LogLevel: "warn",
	Keyring:  true,
}

var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DefaultAppConfig, "koanf"), nil)
}

var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), value
		},
	}), nil)
}

var registerValidators = func(v *validator.Validate) error {
	return v.RegisterValidation("vault_path", validVaultPath)
}

// Load reads defaults and the environment and validates the result
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration after flags have been applied
func (c *Config) Validate() error {
	v := validator.New()
	if err := registerValidators(v); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// validVaultPath accepts paths that name a file: not empty, not a root and
// not ending in a separator.
func validVaultPath(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	if strings.TrimSpace(p) != p || p == "" {
		return false
	}
	if strings.HasSuffix(p, "/") || strings.HasSuffix(p, string(filepath.Separator)) {
		return false
	}
	base := filepath.Base(filepath.Clean(p))
	return base != "." && base != ".." && base != string(filepath.Separator)
}
