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
)

var errorType = reflect.TypeFor[error]()

// Definition describes how to compute the value of a key on demand.
//
// A Definition is created by NewDefinition, Define, Extend or Rebase. Its
// fields are not exported; Raw hands out the stored pointer for inspection
// only.
type Definition struct {
	fn         reflect.Value
	deps       []any
	implicit   bool
	ancestor   *slot
	repeatable bool
}

// NewDefinition normalizes def into a Definition. The last element of def is
// the callback; any preceding elements are the keys of its dependencies, in
// the order in which the callback receives them.
//
// When no dependency keys are given, the callback may declare either no
// parameters at all, or a single parameter that receives the container
// (the Self key).
//
// The callback must be a function returning one value, or a value and an
// error. A callback wrapped with Factory yields a repeatable definition.
func NewDefinition(def ...any) (*Definition, error) {
	return normalize(def, 0)
}

// Func returns the callback of the definition.
func (d *Definition) Func() any { return d.fn.Interface() }

// Dependencies returns the full, ordered list of keys whose values are passed
// to the callback. For a decoration, the first key is the hidden slot that
// holds the decorated predecessor.
func (d *Definition) Dependencies() []any {
	if d.ancestor == nil {
		return slices.Clone(d.deps)
	}
	return append([]any{d.ancestor}, d.deps...)
}

// Implicit reports whether the dependencies were omitted when the
// definition was created.
func (d *Definition) Implicit() bool { return d.implicit }

// Repeatable reports whether the callback was marked with Factory.
func (d *Definition) Repeatable() bool { return d.repeatable }

// Decorates reports whether the definition decorates a predecessor created
// by Extend.
func (d *Definition) Decorates() bool { return d.ancestor != nil }

// Repeatable marks a callback whose result is never memoized. It is created
// by Factory.
type Repeatable struct {
	fn any
}

// Factory marks fn as repeatable: every Get of a key defined with it calls
// fn again, with the arguments that were resolved the first time the key was
// accessed.
//
//	b.Set("nonce", di.Factory(rand.Int64))
func Factory(fn any) *Repeatable {
	return &Repeatable{fn: fn}
}

// normalize builds a Definition whose callback receives base leading
// arguments in addition to its dependencies.
func normalize(def []any, base int) (*Definition, error) {
	if len(def) == 0 {
		return nil, fmt.Errorf("%w: no callback given", ErrInvalidDefinition)
	}

	last, deps := def[len(def)-1], def[:len(def)-1]
	d := &Definition{}
	if r, ok := last.(*Repeatable); ok {
		if r == nil {
			return nil, fmt.Errorf("%w: nil factory", ErrInvalidDefinition)
		}
		last, d.repeatable = r.fn, true
	}

	fn := reflect.ValueOf(last)
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, fmt.Errorf(
			"%w: callback is %T, not a function",
			ErrInvalidDefinition, last,
		)
	}
	t := fn.Type()
	switch {
	case t.NumOut() == 1:
	case t.NumOut() == 2 && t.Out(1) == errorType:
	default:
		return nil, fmt.Errorf(
			"%w: callback %s must return a value and an optional error",
			ErrInvalidDefinition, t,
		)
	}

	for i, dep := range deps {
		if !valid(dep) {
			return nil, fmt.Errorf(
				"%w: dependency %d is not a valid key",
				ErrInvalidDefinition, i,
			)
		}
	}

	d.fn = fn
	if len(deps) == 0 {
		d.implicit = true
		switch {
		case accepts(t, base):
		case accepts(t, base+1):
			d.deps = []any{Self}
		default:
			return nil, fmt.Errorf(
				"%w: callback %s must take %d or %d parameters",
				ErrInvalidDefinition, t, base, base+1,
			)
		}
		return d, nil
	}

	if !accepts(t, base+len(deps)) {
		return nil, fmt.Errorf(
			"%w: callback %s cannot take %d arguments",
			ErrInvalidDefinition, t, base+len(deps),
		)
	}
	d.deps = slices.Clone(deps)
	return d, nil
}

// accepts reports whether a function of type t can be called with n
// arguments.
func accepts(t reflect.Type, n int) bool {
	if t.IsVariadic() {
		return n >= t.NumIn()-1
	}
	return n == t.NumIn()
}

// constant is the pseudo-definition used to decorate a plain value.
func constant(v any) *Definition {
	return &Definition{fn: reflect.ValueOf(func() any { return v })}
}

// drawing is the pseudo-definition used to decorate a live producer: each
// evaluation draws a fresh value from it.
func drawing(p *Producer) *Definition {
	return &Definition{fn: reflect.ValueOf(p.Next), repeatable: true}
}

// call invokes fn on behalf of key with the given arguments. It converts
// panics into errors, just like an error returned by fn.
func call(key any, fn reflect.Value, args []any) (out any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = fmt.Errorf(
				"%w for '%s': %v",
				ErrServicePanic, describe(key), rec,
			)
		}
	}()

	t := fn.Type()
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		p := param(t, i)
		if arg == nil {
			in[i] = reflect.Zero(p)
			continue
		}
		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(p) {
			return nil, fmt.Errorf(
				"%w for '%s': cannot use %T as argument %d of type %s",
				ErrArgumentType, describe(key), arg, i, p,
			)
		}
		in[i] = v
	}

	res := fn.Call(in)
	if len(res) == 2 && !res[1].IsNil() {
		return nil, res[1].Interface().(error)
	}
	return res[0].Interface(), nil
}

// param returns the type of the i-th argument of a function of type t.
func param(t reflect.Type, i int) reflect.Type {
	if t.IsVariadic() && i >= t.NumIn()-1 {
		return t.In(t.NumIn() - 1).Elem()
	}
	return t.In(i)
}
