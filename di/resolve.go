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
	"reflect"
	"slices"
)

// Producer is the live state of a repeatable service. It holds the
// callbacks of a decoration chain together with the arguments resolved when
// the service was first accessed.
type Producer struct {
	key   any
	steps []step
}

type step struct {
	fn   reflect.Value
	args []any
}

// Next evaluates the chain once and returns the fresh result. The innermost
// callback runs first; each following callback receives the previous result
// as its first argument.
func (p *Producer) Next() (any, error) {
	var v any
	for i, s := range p.steps {
		var err error
		if v, err = s.run(p.key, i, v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// run calls the callback of the i-th step of a chain. Every step after the
// first receives prev in front of its own arguments.
func (s step) run(key any, i int, prev any) (any, error) {
	args := s.args
	if i > 0 {
		args = append([]any{prev}, s.args...)
	}
	return call(key, s.fn, args)
}

// Get returns the value of key, resolving a pending definition if needed.
// It returns nil and no error if key has no entry. For a repeatable service,
// every call produces a new value.
func (b *Box) Get(key any) (any, error) {
	v, _, err := b.Lookup(key)
	return v, err
}

// Lookup is like Get but additionally reports whether key has an entry.
// A key that cannot be stored fails with ErrInvalidKey.
func (b *Box) Lookup(key any) (any, bool, error) {
	if key == Self {
		return b, true, nil
	}
	if !valid(key) {
		return nil, false, invalid(key)
	}
	e, ok := b.entries[key]
	if !ok {
		return nil, false, nil
	}
	switch e.kind {
	case kindPending:
		v, err := b.instantiate(key, e.def)
		return v, true, err
	case kindProducer:
		v, err := e.producer.Next()
		if err != nil {
			return nil, true, fmt.Errorf("produce '%s': %w", describe(key), err)
		}
		return v, true, nil
	default:
		return e.value, true, nil
	}
}

// Require is like Get but fails with a *MissingDependencyError if the
// result is nil.
func (b *Box) Require(key any) (any, error) {
	v, err := b.Get(key)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, &MissingDependencyError{Key: key}
	}
	return v, nil
}

// Resolve requires every dependency of def from left to right and returns
// their values. It stops at the first dependency that cannot be resolved.
func (b *Box) Resolve(def *Definition) ([]any, error) {
	return b.resolve(def.Dependencies())
}

// Raw returns the entry at key as stored, without resolving it: the plain
// value, the pending *Definition, or the *Producer of a repeatable service.
func (b *Box) Raw(key any) (any, bool) {
	if key == Self {
		return b, true
	}
	if !valid(key) {
		return nil, false
	}
	e, ok := b.entries[key]
	if !ok {
		return nil, false
	}
	switch e.kind {
	case kindPending:
		return e.def, true
	case kindProducer:
		return e.producer, true
	default:
		return e.value, true
	}
}

func (b *Box) resolve(deps []any) ([]any, error) {
	args := make([]any, 0, len(deps))
	for _, dep := range deps {
		v, err := b.Require(dep)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

// instantiate resolves the decoration chain ending in def and stores the
// outcome at key.
func (b *Box) instantiate(key any, def *Definition) (any, error) {
	chain, slots, err := b.chain(def)
	if err != nil {
		return nil, fmt.Errorf("resolve '%s': %w", describe(key), err)
	}

	// Each link resolves its own dependencies only after the link below it
	// has run, so side effects of the base are visible to the decorations.
	var v any
	p := &Producer{key: key, steps: make([]step, 0, len(chain))}
	for i, d := range chain {
		args, err := b.resolve(d.deps)
		if err != nil {
			return nil, fmt.Errorf("resolve '%s': %w", describe(key), err)
		}
		s := step{fn: d.fn, args: args}
		if v, err = s.run(key, i, v); err != nil {
			return nil, fmt.Errorf("resolve '%s': %w", describe(key), err)
		}
		p.steps = append(p.steps, s)
	}

	// A callback may have redefined key while it was being resolved.
	if e, ok := b.entries[key]; !ok || e.def != def {
		return v, nil
	}
	for _, s := range slots {
		b.remove(s)
	}
	if chain[0].repeatable {
		b.swap(key, &entry{kind: kindProducer, producer: p})
	} else {
		b.swap(key, &entry{kind: kindValue, value: v})
	}

	b.logger.Debug(
		"Service resolved",
		slog.String("key", describe(key)),
		slog.Int("decorations", len(chain)-1),
		slog.Bool("repeatable", chain[0].repeatable),
	)
	return v, nil
}

// chain walks the ancestors of tip and returns the definitions from the root
// to tip, along with the hidden keys that were traversed. A hidden entry
// that was resolved on its own acts as the root.
func (b *Box) chain(tip *Definition) ([]*Definition, []any, error) {
	var (
		defs  = []*Definition{tip}
		slots []any
	)
	for d := tip; d.ancestor != nil; {
		e, ok := b.entries[d.ancestor]
		if !ok {
			return nil, nil, &MissingDependencyError{Key: d.ancestor}
		}
		slots = append(slots, d.ancestor)
		switch e.kind {
		case kindPending:
			d = e.def
		case kindProducer:
			d = drawing(e.producer)
		default:
			d = constant(e.value)
		}
		defs = append(defs, d)
	}
	slices.Reverse(defs)
	return defs, slots, nil
}

// Use resolves key and asserts the result to T. A missing key or a nil value
// yields the zero value of T without an error.
func Use[T any](b *Box, key any) (T, error) {
	var zero T
	v, err := b.Get(key)
	if err != nil || v == nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf(
			"%w: '%s' holds %T, not %T",
			ErrArgumentType, describe(key), v, zero,
		)
	}
	return t, nil
}

// Must requires key and asserts the result to T. It panics if the key is
// missing, resolution fails, or the value has a different type.
func Must[T any](b *Box, key any) T {
	v, err := b.Require(key)
	if err != nil {
		panic(err)
	}
	t, ok := v.(T)
	if !ok {
		panic(fmt.Errorf(
			"%w: '%s' holds %T, not %T",
			ErrArgumentType, describe(key), v, *new(T),
		))
	}
	return t
}
