// Copyright (c) 2025-present deep.rent GmbH (https://deep.rent)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deep-rent/lazybox/config"
	"github.com/deep-rent/lazybox/di"
	"github.com/deep-rent/lazybox/log"
	"github.com/deep-rent/lazybox/pattern"
)

// EnvPrefix is prepended to the environment variables that mirror flags,
// e.g. LAZYBOX_LOG_LEVEL for --log-level.
const EnvPrefix = "LAZYBOX"

// env holds the state shared by all subcommands of one invocation.
type env struct {
	v      *viper.Viper
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{v: viper.New()}

	cmd := &cobra.Command{
		Use:          "lazybox",
		Short:        "Inspect configuration through a lazy service container",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringSliceP("config", "c", nil,
		"configuration file overriding earlier ones (repeatable)")
	flags.StringSliceP("defaults", "d", nil,
		"configuration file providing defaults (repeatable)")
	flags.String("log-level", log.DefaultLevel.String(),
		"minimum log level (debug, info, warn, error)")
	flags.String("log-format", log.DefaultFormat.String(),
		"log format (text, json)")

	e.v.SetEnvPrefix(EnvPrefix)
	e.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	e.v.AutomaticEnv()
	_ = e.v.BindPFlags(flags)

	cmd.AddCommand(
		newKeysCmd(e),
		newGetCmd(e),
		newSaveCmd(e),
	)
	return cmd
}

func (e *env) init(cmd *cobra.Command) error {
	level, err := log.ParseLevel(e.v.GetString("log-level"))
	if err != nil {
		return err
	}
	format, err := log.ParseFormat(e.v.GetString("log-format"))
	if err != nil {
		return err
	}
	e.logger = log.New(
		log.WithLevel(level),
		log.WithFormat(format),
		log.WithWriter(cmd.ErrOrStderr()),
	)
	return nil
}

// box creates a container holding the configured defaults and overrides.
func (e *env) box() (*di.Box, error) {
	// Configuration keys are dotted, so parameters stop at dots.
	cache, err := pattern.NewCache(pattern.DefaultCacheSize, pattern.Delimiter("."))
	if err != nil {
		return nil, err
	}
	b := di.New(
		di.WithLogger(e.logger),
		di.WithPatterns(cache),
	)

	overrides, err := config.LoadAll(e.v.GetStringSlice("config")...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	p := config.Provider(e.v.GetStringSlice("defaults")...)
	if err := b.Register(p, overrides); err != nil {
		return nil, err
	}
	return b, nil
}
