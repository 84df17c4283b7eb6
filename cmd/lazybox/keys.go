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
	"strings"

	"github.com/spf13/cobra"

	"github.com/deep-rent/lazybox/di"
	"github.com/deep-rent/lazybox/pattern"
)

func newKeysCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "keys [pattern]",
		Short: "List keys, optionally filtered by a pattern",
		Long: `List the keys of the container in insertion order.

If a pattern is given, only matching keys are listed, each followed by the
parameters the pattern captured, e.g. "db.:name" prints "db.host name=host".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := e.box()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for key := range b.Keys() {
					fmt.Fprintln(out, key)
				}
				return nil
			}
			return b.Match(args[0], func(key any, p pattern.Params, _ *di.Box) {
				fields := []string{fmt.Sprint(key)}
				for _, name := range p.Names() {
					if v, ok := p.Lookup(name); ok {
						fields = append(fields, name+"="+v)
					}
				}
				fmt.Fprintln(out, strings.Join(fields, " "))
			})
		},
	}
}
