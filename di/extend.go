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

package di

import (
	"fmt"
	"log/slog"
)

// Define stores a service definition at key, superseding any previous
// entry. See NewDefinition for the accepted shapes of def.
//
//	b.Define("answer", func() int { return 42 })
//	b.Define("dsn", "db.host", "db.name", func(host, name string) string {
//		return "postgres://" + host + "/" + name
//	})
func (b *Box) Define(key any, def ...any) error {
	if key == Self {
		return fmt.Errorf("%w: cannot define the container key", ErrReservedKey)
	}
	if !valid(key) {
		return invalid(key)
	}
	d, err := NewDefinition(def...)
	if err != nil {
		return err
	}
	b.replace(key, &entry{kind: kindPending, def: d})
	b.logger.Debug(
		"Service defined",
		slog.String("key", describe(key)),
		slog.Int("dependencies", len(d.deps)),
	)
	return nil
}

// Extend decorates the entry at key. The callback of def receives the
// previous result of key as its first argument, followed by the values of
// its own dependencies. If dependency keys are omitted, the callback may
// declare a second parameter to receive the container.
//
// Extending a missing key is the same as defining it. Extending a plain
// value decorates that value. Each call adds one decoration on top of the
// previous ones; nothing is resolved until key is accessed.
//
//	b.Extend("logger", func(l *slog.Logger) *slog.Logger {
//		return l.With("component", "api")
//	})
func (b *Box) Extend(key any, def ...any) error {
	if key == Self {
		return fmt.Errorf("%w: cannot extend the container key", ErrReservedKey)
	}
	if !valid(key) {
		return invalid(key)
	}
	e, ok := b.entries[key]
	if !ok {
		return b.Define(key, def...)
	}

	d, err := normalize(def, 1)
	if err != nil {
		return err
	}

	var base *Definition
	switch e.kind {
	case kindPending:
		base = e.def
	case kindProducer:
		base = drawing(e.producer)
	default:
		base = constant(e.value)
	}

	s := b.mint()
	b.put(s, &entry{kind: kindPending, def: base})
	d.ancestor = s
	b.put(key, &entry{kind: kindPending, def: d})

	b.logger.Debug(
		"Service extended",
		slog.String("key", describe(key)),
		slog.Int("dependencies", len(d.deps)),
	)
	return nil
}

// Rebase replaces the innermost definition of the decoration chain at key
// with def. Every decoration added by Extend stays attached and is applied
// to the new result the next time key is resolved. If key holds no pending
// definition, Rebase is the same as Define.
func (b *Box) Rebase(key any, def ...any) error {
	if key == Self {
		return fmt.Errorf("%w: cannot rebase the container key", ErrReservedKey)
	}
	if !valid(key) {
		return invalid(key)
	}
	e, ok := b.entries[key]
	if !ok || e.kind != kindPending {
		return b.Define(key, def...)
	}

	d, err := NewDefinition(def...)
	if err != nil {
		return err
	}

	root := e.def
	for root.ancestor != nil {
		a, ok := b.entries[root.ancestor]
		if !ok || a.kind != kindPending {
			// The predecessor is gone or was resolved on its own: the new
			// definition takes its place.
			b.swap(root.ancestor, &entry{kind: kindPending, def: d})
			b.logRebase(key)
			return nil
		}
		root = a.def
	}

	root.fn = d.fn
	root.deps = d.deps
	root.implicit = d.implicit
	root.repeatable = d.repeatable
	b.logRebase(key)
	return nil
}

func (b *Box) logRebase(key any) {
	b.logger.Debug("Service rebased", slog.String("key", describe(key)))
}
