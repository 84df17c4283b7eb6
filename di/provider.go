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
	"maps"
	"reflect"
	"slices"
)

// Provider is a unit of configuration applied to a Box by Register.
//
//	type DatabaseProvider struct{ DSN string }
//
//	func (p DatabaseProvider) Register(b *di.Box) error {
//		b.SetDefault("db.dsn", p.DSN)
//		return b.Define("db", "db.dsn", openDB)
//	}
type Provider interface {
	// Register defines services and parameters on b.
	Register(b *Box) error
}

// ProviderFunc adapts an ordinary function to the Provider interface.
type ProviderFunc func(b *Box) error

// Register calls f(b).
func (f ProviderFunc) Register(b *Box) error {
	return f(b)
}

// Register applies p to the Box and then sets every pair of config,
// overriding whatever p stored under the same keys. Config keys are applied
// in sorted order.
//
// A nil provider fails with ErrInvalidProvider before anything is changed.
func (b *Box) Register(p Provider, config map[string]any) error {
	if isNil(p) {
		return fmt.Errorf("%w: provider is nil", ErrInvalidProvider)
	}
	if err := p.Register(b); err != nil {
		return fmt.Errorf("register provider %T: %w", p, err)
	}
	for _, key := range slices.Sorted(maps.Keys(config)) {
		b.Set(key, config[key])
	}

	b.logger.Debug(
		"Provider registered",
		slog.String("provider", fmt.Sprintf("%T", p)),
		slog.Int("overrides", len(config)),
	)
	return nil
}

// SetDefault returns the resolved value of key if it has an entry. A pending
// definition is resolved, never replaced. Otherwise it sets key to value and
// returns the resolved value, which differs from value only for a callback
// wrapped with Factory.
func (b *Box) SetDefault(key, value any) (any, error) {
	if key != Self && !valid(key) {
		return nil, invalid(key)
	}
	if !b.Has(key) {
		b.Set(key, value)
	}
	return b.Get(key)
}

func isNil(p Provider) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
