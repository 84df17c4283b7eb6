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

package pattern_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deep-rent/lazybox/pattern"
)

func TestCache(t *testing.T) {
	t.Run("Returns the cached pattern", func(t *testing.T) {
		c, err := pattern.NewCache(4)
		require.NoError(t, err)

		p1, err := c.Compile("db.:name")
		require.NoError(t, err)
		p2, err := c.Compile("db.:name")
		require.NoError(t, err)
		assert.Same(t, p1, p2)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("Evicts the least recently used pattern", func(t *testing.T) {
		c, err := pattern.NewCache(2)
		require.NoError(t, err)

		first, err := c.Compile("a")
		require.NoError(t, err)
		for i := range 2 {
			_, err := c.Compile(fmt.Sprintf("b%d", i))
			require.NoError(t, err)
		}
		assert.Equal(t, 2, c.Len())

		again, err := c.Compile("a")
		require.NoError(t, err)
		assert.NotSame(t, first, again)
	})

	t.Run("Does not cache failures", func(t *testing.T) {
		c, err := pattern.NewCache(0)
		require.NoError(t, err)

		_, err = c.Compile(`/:id(\d+`)
		require.ErrorIs(t, err, pattern.ErrInvalid)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("Applies options", func(t *testing.T) {
		c, err := pattern.NewCache(1, pattern.Sensitive())
		require.NoError(t, err)

		p, err := c.Compile("db.:name")
		require.NoError(t, err)
		assert.False(t, p.MatchString("DB.main"))
		assert.True(t, p.MatchString("db.main"))
	})

	t.Run("Purge", func(t *testing.T) {
		c, err := pattern.NewCache(2)
		require.NoError(t, err)
		_, err = c.Compile("a")
		require.NoError(t, err)

		c.Purge()
		assert.Equal(t, 0, c.Len())
	})
}
