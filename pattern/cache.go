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

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the capacity used by NewCache for non-positive sizes.
const DefaultCacheSize = 128

// Cache keeps recently compiled patterns. All patterns in a cache share the
// options given to NewCache. A Cache is safe for concurrent use.
type Cache struct {
	opts []Option
	lru  *lru.Cache[string, *Pattern]
}

// NewCache creates a cache holding up to size compiled patterns.
func NewCache(size int, opts ...Option) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	l, err := lru.New[string, *Pattern](size)
	if err != nil {
		return nil, err
	}
	return &Cache{opts: opts, lru: l}, nil
}

// Compile returns the cached pattern for s, compiling and caching it on a
// miss. Patterns that fail to compile are not cached.
func (c *Cache) Compile(s string) (*Pattern, error) {
	if p, ok := c.lru.Get(s); ok {
		return p, nil
	}
	p, err := Compile(s, c.opts...)
	if err != nil {
		return nil, err
	}
	c.lru.Add(s, p)
	return p, nil
}

// Len returns the number of cached patterns.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Purge drops every cached pattern.
func (c *Cache) Purge() {
	c.lru.Purge()
}
