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

// Package codec encodes and decodes configuration sources. The codec of a
// file is inferred from its extension.
package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrUnsupported is returned by Infer for unknown file extensions.
var ErrUnsupported = errors.New("unsupported file format")

type Decoder interface {
	Decode(data []byte, v any) error
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Codec interface {
	Decoder
	Encoder
}

var (
	// JSON is backed by github.com/goccy/go-json.
	JSON Codec = jsonCodec{}
	// YAML is backed by gopkg.in/yaml.v3.
	YAML Codec = yamlCodec{}
	// Dotenv reads and writes KEY=value files. It only handles flat maps:
	// Decode accepts *map[string]string and *map[string]any, Encode accepts
	// map[string]string and map[string]any.
	Dotenv Codec = dotenvCodec{}
)

type jsonCodec struct{}

func (jsonCodec) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Encode(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

type yamlCodec struct{}

func (yamlCodec) Decode(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

func (yamlCodec) Encode(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

type dotenvCodec struct{}

func (dotenvCodec) Decode(data []byte, v any) error {
	m, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return err
	}
	switch t := v.(type) {
	case *map[string]string:
		*t = m
	case *map[string]any:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		*t = out
	default:
		return fmt.Errorf("dotenv: cannot decode into %T", v)
	}
	return nil
}

func (dotenvCodec) Encode(v any) ([]byte, error) {
	var m map[string]string
	switch t := v.(type) {
	case map[string]string:
		m = t
	case map[string]any:
		m = make(map[string]string, len(t))
		for k, x := range t {
			if x == nil {
				m[k] = ""
				continue
			}
			m[k] = fmt.Sprint(x)
		}
	default:
		return nil, fmt.Errorf("dotenv: cannot encode %T", v)
	}
	s, err := godotenv.Marshal(m)
	if err != nil {
		return nil, err
	}
	return []byte(s + "\n"), nil
}

// Infer selects a codec by the extension of path: ".json", ".yaml", ".yml"
// or ".env". A file named exactly ".env" is recognized as well.
func Infer(path string) (Codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".env":
		return Dotenv, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, path)
	}
}
