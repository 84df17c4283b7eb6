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
	"reflect"
	"slices"
	"strconv"

	"github.com/deep-rent/lazybox/pattern"
)

// Visitor is called by Match for every matching key.
type Visitor func(key any, params pattern.Params, b *Box)

// Match calls fn for every stored key whose printable form matches the
// path-style pattern pat, in insertion order. Parameters captured by the
// pattern are passed along. Pending definitions are not resolved.
//
// Strings, numbers, booleans and fmt.Stringer values are printable. Other
// keys, including the hidden predecessors of decoration chains, are skipped.
//
//	b.Match("db.:name", func(key any, p pattern.Params, b *di.Box) {
//		fmt.Println(key, p.Get("name"))
//	})
func (b *Box) Match(pat string, fn Visitor) error {
	var (
		p   *pattern.Pattern
		err error
	)
	if b.patterns != nil {
		p, err = b.patterns.Compile(pat)
	} else {
		p, err = pattern.Compile(pat)
	}
	if err != nil {
		return err
	}

	for _, key := range slices.Clone(b.order) {
		if _, ok := b.entries[key]; !ok {
			continue
		}
		s, ok := printable(key)
		if !ok {
			continue
		}
		if params, ok := p.Match(s); ok {
			fn(key, params, b)
		}
	}
	return nil
}

// printable converts key into its string form. A Stringer that panics is
// treated as not printable.
func printable(key any) (s string, ok bool) {
	defer func() {
		if recover() != nil {
			s, ok = "", false
		}
	}()

	switch k := key.(type) {
	case string:
		return k, true
	case fmt.Stringer:
		return k.String(), true
	}

	v := reflect.ValueOf(key)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, v.Type().Bits()), true
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true
	case reflect.String:
		return v.String(), true
	default:
		return "", false
	}
}
