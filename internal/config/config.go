// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/iancoleman/strcase"
	"github.com/spf13/viper"
	"reflect"
	"strings"
	"time"
)

type Config struct {
	Port    uint16 `mapstructure:"PORT" validate:"required"`
	Debug   bool   `mapstructure:"DEBUG"`
	SelfTLS bool   `mapstructure:"SELF_TLS"`
	TLSCert string `mapstructure:"TLS_CERT" validate:"required_with=TLSKey"`
	TLSKey  string `mapstructure:"TLS_KEY" validate:"required_with=TLSCert"`

	HibpURL      string        `mapstructure:"HIBP_URL" validate:"required,url"`
	HibpTimeout  time.Duration `mapstructure:"HIBP_TIMEOUT" validate:"gt=0"`
	HibpRetryMax int           `mapstructure:"HIBP_RETRY_MAX" validate:"gte=0,lte=10"`
	HibpPadding  bool          `mapstructure:"HIBP_PADDING"`

	CacheTTL     time.Duration `mapstructure:"CACHE_TTL" validate:"gte=0"`
	CacheMaxCost int64         `mapstructure:"CACHE_MAX_COST" validate:"gte=0"`
	RedisURL     string        `mapstructure:"REDIS_URL" validate:"omitempty,url"`

	HashAlgorithm  string `mapstructure:"HASH_ALGORITHM" validate:"oneof=pbkdf2-sha512 argon2id"`
	HashIterations int    `mapstructure:"HASH_ITERATIONS" validate:"gte=1"`

	PatternScorer    bool `mapstructure:"PATTERN_SCORER"`
	PatternMaxLength int  `mapstructure:"PATTERN_MAX_LENGTH" validate:"gte=0"`
}

var defaults = map[string]interface{}{
	"PORT":               3100,
	"HIBP_URL":           "https://api.pwnedpasswords.com",
	"HIBP_TIMEOUT":       "5s",
	"HIBP_RETRY_MAX":     0,
	"HIBP_PADDING":       true,
	"CACHE_TTL":          "1h",
	"CACHE_MAX_COST":     64 * 1024 * 1024,
	"HASH_ALGORITHM":     "pbkdf2-sha512",
	"HASH_ITERATIONS":    100000,
	"PATTERN_SCORER":     true,
	"PATTERN_MAX_LENGTH": 50,
}

func bindEnvs(iface interface{}, parts ...string) {
	ifv := reflect.ValueOf(iface)
	ift := reflect.TypeOf(iface)
	for i := 0; i < ift.NumField(); i++ {
		v := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			continue
		}
		switch v.Kind() {
		case reflect.Struct:
			bindEnvs(v.Interface(), append(parts, tv)...)
		default:
			_ = viper.BindEnv(strings.Join(append(parts, tv), "."))
		}
	}
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "required_with":
		return fmt.Sprintf("This field requires the presence of %s", strcase.ToScreamingSnake(fe.Param()))
	case "url":
		return "This field must be a valid URL"
	case "oneof":
		return fmt.Sprintf("This field must be one of [%s]", fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("This field must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("This field must be at most %s", fe.Param())
	}
	return fe.Error() // default error
}

// Load reads the configuration from the environment and any flags bound to viper, then
// validates it.
func Load() (config Config, err error) {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}

	// This is to not require a config file to unmarshal Envs in a struct
	// https://github.com/spf13/viper/issues/188#issuecomment-399884438
	config = Config{}
	bindEnvs(config)

	if err = viper.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("error reading configuration: %w", err)
	}

	validate := validator.New()
	if err = validate.Struct(&config); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			var msgs []string
			for _, fe := range ve {
				msgs = append(msgs, fmt.Sprintf("%s: %s", strcase.ToScreamingSnake(fe.Field()), msgForTag(fe)))
			}

			return config, errors.New(strings.Join(msgs, ". "))
		}
		return config, fmt.Errorf("error validating configuration: %w", err)
	}

	return config, nil
}

// ServesTLS reports whether the TLS settings are enough to start the server.
func (c Config) ServesTLS() bool {
	return c.SelfTLS || (c.TLSCert != "" && c.TLSKey != "")
}
