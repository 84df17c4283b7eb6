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

// Package config loads configuration files into flat key/value maps whose
// keys join nested names with dots, so that a YAML document like
//
//	db:
//	  host: localhost
//
// yields the key "db.host". Such maps are what di.Box.Register accepts as
// overrides, and Provider turns them into defaults.
package config

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/deep-rent/lazybox/codec"
	"github.com/deep-rent/lazybox/di"
)

// Separator joins the names of nested configuration keys.
const Separator = "."

// Load reads the file at path and returns its flattened content. The codec
// is inferred from the file extension.
func Load(path string) (map[string]any, error) {
	dec, err := codec.Infer(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := dec.Decode(raw, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return Flatten(m), nil
}

// LoadAll loads every file in order and merges the results. Later files
// take precedence.
func LoadAll(paths ...string) (map[string]any, error) {
	ms := make([]map[string]any, 0, len(paths))
	for _, path := range paths {
		m, err := Load(path)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	return Merge(ms...), nil
}

// Save writes the flat map m to path. Dotted keys are expanded into nested
// objects for JSON and YAML files; dotenv files are written flat.
func Save(path string, m map[string]any) error {
	enc, err := codec.Infer(path)
	if err != nil {
		return err
	}
	v := m
	if enc != codec.Dotenv {
		v = Expand(m)
	}
	raw, err := enc.Encode(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}

// Flatten converts nested maps into a single map with dotted keys. Values
// other than maps, including slices, are kept as they are.
func Flatten(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	flatten(out, "", m)
	return out
}

func flatten(out map[string]any, prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + Separator + k
		}
		switch t := v.(type) {
		case map[string]any:
			flatten(out, key, t)
		case map[any]any:
			n := make(map[string]any, len(t))
			for kk, vv := range t {
				n[fmt.Sprint(kk)] = vv
			}
			flatten(out, key, n)
		default:
			out[key] = v
		}
	}
}

// Expand is the inverse of Flatten. If a key is both a value and the parent
// of other keys, the nested keys win.
func Expand(m map[string]any) map[string]any {
	out := make(map[string]any)
	// Shorter keys first, so that parents are replaced by their children.
	keys := slices.SortedFunc(maps.Keys(m), func(a, b string) int {
		return strings.Count(a, Separator) - strings.Count(b, Separator)
	})
	for _, key := range keys {
		parts := strings.Split(key, Separator)
		node := out
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = m[key]
	}
	return out
}

// Merge combines maps from left to right; later values override earlier
// ones.
func Merge(ms ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, m := range ms {
		maps.Copy(out, m)
	}
	return out
}

// Provider returns a di.Provider that sets every key loaded from paths as a
// default: keys that already have an entry in the container are kept, and
// pending definitions are not resolved.
func Provider(paths ...string) di.Provider {
	return di.ProviderFunc(func(b *di.Box) error {
		m, err := LoadAll(paths...)
		if err != nil {
			return err
		}
		for _, key := range slices.Sorted(maps.Keys(m)) {
			if !b.Has(key) {
				b.Set(key, m[key])
			}
		}
		return nil
	})
}
