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
	"errors"
	"fmt"
)

var (
	// ErrInvalidDefinition is returned when a service definition does not
	// reduce to a callable Go function with a matching number of parameters.
	ErrInvalidDefinition = errors.New("invalid service definition")
	// ErrMissingDependency is matched by every *MissingDependencyError.
	ErrMissingDependency = errors.New("missing dependency")
	// ErrInvalidProvider is returned by Register for nil providers.
	ErrInvalidProvider = errors.New("invalid provider")
	// ErrReservedKey is returned when writing to the Self key.
	ErrReservedKey = errors.New("reserved key")
	// ErrInvalidKey is returned for keys that cannot be stored in a Box:
	// nil and values that are not comparable with ==.
	ErrInvalidKey = errors.New("invalid key")
	// ErrArgumentType is returned when a resolved dependency cannot be passed
	// to the parameter of a service callback.
	ErrArgumentType = errors.New("argument type mismatch")
	// ErrServicePanic wraps panics raised by service callbacks.
	ErrServicePanic = errors.New("panic during service call")
)

// MissingDependencyError reports a key that had no value when it was
// required.
type MissingDependencyError struct {
	Key any
}

// Error implements the error interface.
func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("missing dependency '%s'", describe(e.Key))
}

// Unwrap makes the error match ErrMissingDependency.
func (e *MissingDependencyError) Unwrap() error {
	return ErrMissingDependency
}
