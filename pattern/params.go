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

package pattern

import "maps"

// Params holds the parameters captured by a match. Every parameter of the
// pattern is present in Names; optional parameters that did not participate
// in the match have no value.
type Params struct {
	names  []string
	values map[string]string
}

// Lookup returns the value captured for name and whether there was one.
func (p Params) Lookup(name string) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Get returns the value captured for name, or an empty string.
func (p Params) Get(name string) string {
	return p.values[name]
}

// Names returns the names of all parameters of the pattern.
func (p Params) Names() []string {
	return append([]string(nil), p.names...)
}

// Len returns the number of parameters that captured a value.
func (p Params) Len() int {
	return len(p.values)
}

// Map returns the captured values keyed by parameter name. Absent optional
// parameters are omitted.
func (p Params) Map() map[string]string {
	return maps.Clone(p.values)
}
