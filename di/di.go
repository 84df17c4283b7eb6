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

// Package di provides a lazy service container.
//
// A Box maps keys to values. A value is either stored eagerly with Set, or
// described by a service definition with Define. Definitions are resolved
// on first access, and the result replaces the definition, so every later
// Get returns the same instance.
//
// # Usage
//
//	b := di.New()
//	b.Set("db.dsn", "postgres://localhost/app")
//	_ = b.Define("db", "db.dsn", func(dsn string) (*sql.DB, error) {
//		return sql.Open("postgres", dsn)
//	})
//	db, err := di.Use[*sql.DB](b, "db")
//
// # Decoration
//
// Extend wraps an existing entry: the previous result becomes the first
// argument of the new callback. Rebase swaps the innermost definition of
// such a chain and keeps every decoration on top of it.
//
//	_ = b.Define("greeting", func() string { return "hello" })
//	_ = b.Extend("greeting", strings.ToUpper)
//	_ = b.Rebase("greeting", func() string { return "bye" })
//	v, _ := b.Get("greeting") // "BYE"
//
// # Repeatable services
//
// A callback wrapped with Factory is never memoized: every Get calls it
// again with the arguments captured on first access.
//
// A Box is not safe for concurrent use. Dependency cycles are not detected.
package di

import (
	"fmt"
	"iter"
	"log/slog"
	"reflect"
	"slices"

	"github.com/deep-rent/lazybox/pattern"
)

// Self is the key of the container itself. Get(Self) returns the Box, and
// callbacks defined without dependency keys may receive it as their sole
// argument. Self is not stored in the key space: it is never enumerated and
// cannot be overwritten.
var Self any = self{}

type self struct{}

// slot is the opaque key of a hidden ancestor entry minted by Extend. It has
// no printable form.
type slot struct {
	id uint64
}

type kind uint8

const (
	kindValue kind = iota
	kindPending
	kindProducer
)

// entry is the tagged content stored at a key.
type entry struct {
	kind     kind
	value    any
	def      *Definition
	producer *Producer
}

// config holds configuration options for a Box.
type config struct {
	logger   *slog.Logger
	patterns *pattern.Cache
}

// Option configures a Box.
type Option func(*config)

// WithLogger sets the logger that receives debug events about definitions
// and resolutions. A nil value is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPatterns makes Match compile its patterns through the given cache
// instead of compiling them on every call. A nil value is ignored.
func WithPatterns(cache *pattern.Cache) Option {
	return func(c *config) {
		if cache != nil {
			c.patterns = cache
		}
	}
}

// Box is the lazy service container.
type Box struct {
	entries  map[any]*entry
	order    []any
	seq      uint64
	logger   *slog.Logger
	patterns *pattern.Cache
}

// New creates an empty Box.
func New(opts ...Option) *Box {
	c := config{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&c)
	}

	return &Box{
		entries:  make(map[any]*entry),
		logger:   c.logger,
		patterns: c.patterns,
	}
}

// Set stores value at key, superseding any previous entry. A value created
// by Factory is stored as a repeatable definition without dependency keys;
// Set panics if its callback is invalid. Set also panics if key is Self,
// nil or not comparable.
func (b *Box) Set(key, value any) {
	if key == Self {
		panic(fmt.Errorf("%w: cannot set the container key", ErrReservedKey))
	}
	if !valid(key) {
		panic(invalid(key))
	}
	if r, ok := value.(*Repeatable); ok {
		def, err := NewDefinition(r)
		if err != nil {
			panic(err)
		}
		b.replace(key, &entry{kind: kindPending, def: def})
		return
	}
	b.replace(key, &entry{kind: kindValue, value: value})
}

// Has reports whether key holds a value, a pending definition or a
// repeatable producer. It is false for keys that cannot be stored.
func (b *Box) Has(key any) bool {
	if key == Self {
		return true
	}
	if !valid(key) {
		return false
	}
	_, ok := b.entries[key]
	return ok
}

// Delete removes the entry at key and reports whether there was one.
func (b *Box) Delete(key any) bool {
	if !valid(key) {
		return false
	}
	_, ok := b.remove(key)
	if ok {
		b.logger.Debug("Entry deleted", slog.String("key", describe(key)))
	}
	return ok
}

// DeleteDeep removes the entry at key like Delete. If the entry was a
// pending decoration, the hidden entry holding its immediate predecessor is
// removed as well. Predecessors further down the chain are left in place.
func (b *Box) DeleteDeep(key any) bool {
	if !valid(key) {
		return false
	}
	e, ok := b.remove(key)
	if !ok {
		return false
	}
	if e.kind == kindPending && e.def.ancestor != nil {
		b.remove(e.def.ancestor)
	}
	b.logger.Debug("Entry deleted", slog.String("key", describe(key)))
	return true
}

// Clear removes every entry. The Self key remains available.
func (b *Box) Clear() {
	clear(b.entries)
	b.order = nil
}

// Size returns the number of stored keys, including hidden predecessors of
// unresolved decoration chains.
func (b *Box) Size() int {
	return len(b.entries)
}

// Keys returns the stored keys in insertion order, skipping hidden
// predecessors. No definition is resolved while iterating.
func (b *Box) Keys() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, key := range slices.Clone(b.order) {
			if _, hidden := key.(*slot); hidden {
				continue
			}
			if _, ok := b.entries[key]; !ok {
				continue
			}
			if !yield(key) {
				return
			}
		}
	}
}

// put stores e at key, moving key to the end of the insertion order.
func (b *Box) put(key any, e *entry) {
	b.remove(key)
	b.entries[key] = e
	b.order = append(b.order, key)
}

// replace is like put, but if the superseded entry is a pending decoration,
// the hidden entries of its whole chain are removed too.
func (b *Box) replace(key any, e *entry) {
	old, ok := b.remove(key)
	for ok && old.kind == kindPending && old.def.ancestor != nil {
		old, ok = b.remove(old.def.ancestor)
	}
	b.put(key, e)
}

// swap replaces the entry at key without touching the insertion order.
func (b *Box) swap(key any, e *entry) {
	if _, ok := b.entries[key]; !ok {
		b.order = append(b.order, key)
	}
	b.entries[key] = e
}

func (b *Box) remove(key any) (*entry, bool) {
	e, ok := b.entries[key]
	if !ok {
		return nil, false
	}
	delete(b.entries, key)
	if i := slices.Index(b.order, key); i >= 0 {
		b.order = slices.Delete(b.order, i, i+1)
	}
	return e, true
}

// mint creates a fresh hidden key.
func (b *Box) mint() *slot {
	b.seq++
	return &slot{id: b.seq}
}

// valid reports whether key can be stored in the entry map. Interface
// values are checked against their dynamic content, so a struct holding a
// slice in an interface field is rejected as well.
func valid(key any) bool {
	return key != nil && reflect.ValueOf(key).Comparable()
}

func invalid(key any) error {
	return fmt.Errorf("%w: %T is not comparable", ErrInvalidKey, key)
}

// describe renders a key for error messages and logs.
func describe(key any) string {
	switch k := key.(type) {
	case self:
		return "container"
	case *slot:
		return fmt.Sprintf("<ancestor#%d>", k.id)
	}
	if s, ok := printable(key); ok {
		return s
	}
	return fmt.Sprintf("%v", key)
}
