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

package config_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deep-rent/lazybox/codec"
	"github.com/deep-rent/lazybox/config"
	"github.com/deep-rent/lazybox/di"
	"github.com/deep-rent/lazybox/log"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	type test struct {
		name    string
		file    string
		content string
		want    map[string]any
	}

	tests := []test{
		{
			name:    "json",
			file:    "app.json",
			content: `{"db":{"host":"localhost","tls":true},"name":"app"}`,
			want: map[string]any{
				"db.host": "localhost",
				"db.tls":  true,
				"name":    "app",
			},
		},
		{
			name:    "yaml",
			file:    "app.yaml",
			content: "db:\n  host: localhost\n  pool:\n    size: 4\ntags: [a, b]\n",
			want: map[string]any{
				"db.host":      "localhost",
				"db.pool.size": 4,
				"tags":         []any{"a", "b"},
			},
		},
		{
			name:    "dotenv",
			file:    "app.env",
			content: "DB_HOST=localhost\nDB_PORT=5432\n",
			want: map[string]any{
				"DB_HOST": "localhost",
				"DB_PORT": "5432",
			},
		},
		{
			name:    "empty yaml",
			file:    "empty.yml",
			content: "",
			want:    map[string]any{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := config.Load(write(t, tc.file, tc.content))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("Unsupported extension", func(t *testing.T) {
		_, err := config.Load(write(t, "app.ini", "a=1"))
		require.ErrorIs(t, err, codec.ErrUnsupported)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "missing.json"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("Malformed content", func(t *testing.T) {
		path := write(t, "app.json", "{")
		_, err := config.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), path)
	})
}

func TestLoadAll(t *testing.T) {
	base := write(t, "base.yaml", "db:\n  host: localhost\n  port: 5432\n")
	prod := write(t, "prod.json", `{"db":{"host":"db.internal"}}`)

	got, err := config.LoadAll(base, prod)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"db.host": "db.internal",
		"db.port": 5432,
	}, got)

	_, err = config.LoadAll(base, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestFlatten(t *testing.T) {
	in := map[string]any{
		"a": map[string]any{
			"b": map[string]any{"c": 1},
			"d": []any{1, 2},
		},
		"e": map[any]any{1: "one"},
		"f": nil,
	}
	assert.Equal(t, map[string]any{
		"a.b.c": 1,
		"a.d":   []any{1, 2},
		"e.1":   "one",
		"f":     nil,
	}, config.Flatten(in))

	assert.Empty(t, config.Flatten(nil))
}

func TestExpand(t *testing.T) {
	in := map[string]any{
		"a.b.c": 1,
		"a.d":   2,
		"e":     3,
	}
	assert.Equal(t, map[string]any{
		"a": map[string]any{
			"b": map[string]any{"c": 1},
			"d": 2,
		},
		"e": 3,
	}, config.Expand(in))

	t.Run("Nested keys win over values", func(t *testing.T) {
		got := config.Expand(map[string]any{"a": 1, "a.b": 2})
		assert.Equal(t, map[string]any{"a": map[string]any{"b": 2}}, got)
	})

	t.Run("Inverse of Flatten", func(t *testing.T) {
		flat := map[string]any{"x.y": "z", "x.w": true, "v": 1.5}
		assert.Equal(t, flat, config.Flatten(config.Expand(flat)))
	})
}

func TestMerge(t *testing.T) {
	got := config.Merge(
		map[string]any{"a": 1, "b": 1},
		nil,
		map[string]any{"b": 2, "c": 2},
	)
	assert.Equal(t, map[string]any{"a": 1, "b": 2, "c": 2}, got)
	assert.Empty(t, config.Merge())
}

func TestSave(t *testing.T) {
	m := map[string]any{"db.host": "localhost", "db.port": 5432}

	for _, name := range []string{"out.json", "out.yaml", "out.env"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, config.Save(path, m))

			got, err := config.Load(path)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "localhost", got["db.host"])
			assert.Equal(t, "5432", fmt.Sprint(got["db.port"]))
		})
	}

	t.Run("Nested output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested.yaml")
		require.NoError(t, config.Save(path, m))
		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "db:\n")
	})

	t.Run("Unsupported extension", func(t *testing.T) {
		err := config.Save(filepath.Join(t.TempDir(), "out.xml"), m)
		require.ErrorIs(t, err, codec.ErrUnsupported)
	})
}

func TestProvider(t *testing.T) {
	path := write(t, "defaults.yaml", "db:\n  host: localhost\n  port: 5432\nname: app\n")

	t.Run("Sets missing keys", func(t *testing.T) {
		b := di.New(di.WithLogger(log.Discard()))
		require.NoError(t, b.Register(config.Provider(path), nil))

		assert.Equal(t, "localhost", di.Must[string](b, "db.host"))
		assert.Equal(t, 5432, di.Must[int](b, "db.port"))
	})

	t.Run("Keeps existing entries", func(t *testing.T) {
		b := di.New(di.WithLogger(log.Discard()))
		b.Set("db.host", "db.internal")
		calls := 0
		require.NoError(t, b.Define("name", func() string {
			calls++
			return "custom"
		}))

		require.NoError(t, b.Register(config.Provider(path), nil))
		assert.Equal(t, 0, calls, "pending definitions must not be resolved")
		assert.Equal(t, "db.internal", di.Must[string](b, "db.host"))
		assert.Equal(t, "custom", di.Must[string](b, "name"))
	})

	t.Run("Overrides win over defaults", func(t *testing.T) {
		b := di.New(di.WithLogger(log.Discard()))
		require.NoError(t, b.Register(config.Provider(path), map[string]any{
			"db.port": 6543,
		}))
		assert.Equal(t, 6543, di.Must[int](b, "db.port"))
	})

	t.Run("Load errors", func(t *testing.T) {
		b := di.New(di.WithLogger(log.Discard()))
		err := b.Register(config.Provider(filepath.Join(t.TempDir(), "x.json")), nil)
		require.ErrorIs(t, err, os.ErrNotExist)
		assert.Equal(t, 0, b.Size())
	})
}
