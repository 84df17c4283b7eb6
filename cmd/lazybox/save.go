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
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/deep-rent/lazybox/config"
)

func newSaveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "save <file>",
		Short: "Write the merged configuration to a file",
		Long: `Write the merged configuration to a file. The format follows the
file extension: .json, .yaml, .yml or .env.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := e.box()
			if err != nil {
				return err
			}
			m := make(map[string]any, b.Size())
			for key := range b.Keys() {
				s, ok := key.(string)
				if !ok {
					continue
				}
				v, err := b.Get(s)
				if err != nil {
					return err
				}
				m[s] = v
			}
			if err := config.Save(args[0], m); err != nil {
				return err
			}
			e.logger.Info(
				"Configuration saved",
				slog.String("path", args[0]),
				slog.Int("keys", len(m)),
			)
			return nil
		},
	}
}
