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
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deep-rent/lazybox/codec"
)

var outputs = map[string]codec.Encoder{
	"json": codec.JSON,
	"yaml": codec.YAML,
}

func newGetCmd(e *env) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, ok := outputs[output]
			if !ok {
				return fmt.Errorf("unsupported output format %q", output)
			}
			b, err := e.box()
			if err != nil {
				return err
			}
			v, err := b.Require(args[0])
			if err != nil {
				return err
			}
			raw, err := enc.Encode(v)
			if err != nil {
				return err
			}
			raw = append(bytes.TrimRight(raw, "\n"), '\n')
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "json",
		"output format (json, yaml)")
	return cmd
}
