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

// Package log configures the slog.Logger instances handed to containers and
// the command-line tool, using the functional options pattern.
//
// # Usage
//
// A container that reports every definition and resolution as JSON on
// standard error:
//
//	logger := log.New(
//		log.WithLevel("debug"),
//		log.WithFormat("json"),
//		log.WithWriter(os.Stderr),
//	)
//	b := di.New(di.WithLogger(logger))
//
// # Conventions
//
//   - Format attribute keys in lower camelCase.
//   - Log container keys under the "key" attribute.
//   - Capitalize the first letter of every log message.
//   - Do not end log messages with punctuation.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Default configuration values for a new logger.
const (
	DefaultLevel     = slog.LevelInfo
	DefaultAddSource = false
	DefaultFormat    = FormatText
)

// Format defines the log output format.
type Format uint8

const (
	FormatText Format = iota // Human-readable key=value pairs.
	FormatJSON               // One JSON object per line.
)

// String returns the lower-case name of the format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	default:
		return "text"
	}
}

// UnmarshalText parses a format name, see ParseFormat.
func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// New creates a slog.Logger. Without options, it logs at slog.LevelInfo in
// plain text to os.Stderr, without source information.
func New(opts ...Option) *slog.Logger {
	c := config{
		Level:     DefaultLevel,
		AddSource: DefaultAddSource,
		Format:    DefaultFormat,
		Writer:    os.Stderr,
	}
	for _, opt := range opts {
		opt(&c)
	}

	o := &slog.HandlerOptions{
		Level:     c.Level,
		AddSource: c.AddSource,
	}

	var handler slog.Handler
	switch c.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(c.Writer, o)
	default:
		handler = slog.NewTextHandler(c.Writer, o)
	}
	if len(c.Attrs) != 0 {
		handler = handler.WithAttrs(c.Attrs)
	}

	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type config struct {
	Level     slog.Level
	AddSource bool
	Format    Format
	Writer    io.Writer
	Attrs     []slog.Attr
}

// Option modifies the logger configuration.
type Option func(*config)

// WithLevel sets the minimum log level. It accepts a slog.Level or a string
// recognized by ParseLevel; invalid values leave the level unchanged.
func WithLevel(v any) Option {
	return func(c *config) {
		switch t := v.(type) {
		case slog.Level:
			c.Level = t
		case string:
			if level, err := ParseLevel(t); err == nil {
				c.Level = level
			}
		}
	}
}

// WithFormat sets the output format. It accepts a Format or a string
// recognized by ParseFormat; invalid values leave the format unchanged.
func WithFormat(v any) Option {
	return func(c *config) {
		switch t := v.(type) {
		case Format:
			c.Format = t
		case string:
			if format, err := ParseFormat(t); err == nil {
				c.Format = format
			}
		}
	}
}

// WithAddSource includes the source position in every record.
func WithAddSource(add bool) Option {
	return func(c *config) {
		c.AddSource = add
	}
}

// WithWriter sets the output destination. A nil writer is ignored.
func WithWriter(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.Writer = w
		}
	}
}

// WithAttrs adds attributes to every record, e.g. the name of the
// component that owns the logger.
func WithAttrs(attrs ...slog.Attr) Option {
	return func(c *config) {
		c.Attrs = append(c.Attrs, attrs...)
	}
}

// ParseLevel converts a string into a slog.Level. It accepts every string
// produced by slog.Level.MarshalText, ignoring case, including numeric
// offsets such as "error-8".
func ParseLevel(s string) (level slog.Level, err error) {
	if e := level.UnmarshalText([]byte(s)); e != nil {
		err = fmt.Errorf("invalid log level %q", s)
	}
	return
}

// ParseFormat converts "text" or "json", ignoring case, into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	default:
		return 0, fmt.Errorf("invalid log format %q", s)
	}
}
