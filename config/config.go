//
// (C) Copyright 2020-2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

// Package config loads the mount helper's configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/rayleyva/eden/build"
	"github.com/rayleyva/eden/logging"
	"github.com/rayleyva/eden/provider/system"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("abspath", func(fl validator.FieldLevel) bool {
		return filepath.IsAbs(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Config defines the mount helper configuration.
type Config struct {
	PlistDecoder string           `yaml:"plist_decoder" validate:"oneof=native plutil"`
	Container    string           `yaml:"container" validate:"required,startswith=disk"`
	LogFile      string           `yaml:"log_file,omitempty" validate:"omitempty,abspath"`
	LogLevel     logging.LogLevel `yaml:"log_level,omitempty"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		PlistDecoder: build.DefaultPlistDecoder,
		Container:    build.DefaultContainer,
		LogLevel:     logging.LogLevelError,
	}
}

// DefaultPath returns the fixed location of the config file.
func DefaultPath() string {
	return filepath.Join(build.ConfigDir, build.ConfigFileName)
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			var msgs []string
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q check (value: %v)",
					fe.Field(), fe.Tag(), fe.Value()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// Load reads the config file at path. A missing file yields the default
// configuration. The file must be owned by root and must not be writable
// by group or other.
func Load(path string, op system.OwnershipProvider) (*Config, error) {
	fo, err := op.GetOwnership(path)
	switch {
	case os.IsNotExist(errors.Cause(err)):
		return DefaultConfig(), nil
	case err != nil:
		return nil, errors.Wrapf(err, "checking config file %s", path)
	}
	if fo.UID != 0 || fo.Mode.Perm()&0o022 != 0 {
		return nil, FaultBadPermissions(path, fo.UID, fo.Mode)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}

	return parse(path, data)
}

func parse(path string, data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, FaultValidationFailed(path, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, FaultValidationFailed(path, err.Error())
	}

	return cfg, nil
}
