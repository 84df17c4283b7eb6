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

// Package pattern compiles path-style key patterns into matchers. Patterns
// follow the syntax of path-to-regexp, as implemented by
// github.com/soongo/path-to-regexp.
//
// # Syntax
//
// A pattern consists of literal text and parameters. A parameter is a colon
// followed by a name made of word characters. A "/" or "." immediately in
// front of a parameter is its prefix and becomes optional together with the
// parameter.
//
//	foo.:bar         matches "foo.x", captures bar="x"
//	foo.:bar.:baz?   matches "foo.x" and "foo.x.y"
//	/files/:path*    matches "/files", "/files/a" and "/files/a/b"
//	/users/:id(\d+)  matches "/users/42" but not "/users/me"
//	/assets/(.*)     matches everything below "/assets/"
//
// Modifiers follow the parameter: "?" makes it optional, "+" repeats it at
// least once, "*" makes it optional and repeatable. A custom pattern can be
// given in parentheses; a parenthesized group without a name is captured
// under its zero-based position. A backslash escapes the next character.
//
// A parameter without a custom pattern runs up to the next delimiter
// character, which is one of "/#?" unless configured with Delimiter.
// Matching is case-insensitive and accepts one trailing delimiter unless
// configured otherwise.
package pattern

import (
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"
	pathToRegexp "github.com/soongo/path-to-regexp"
)

// ErrInvalid is returned for patterns that cannot be compiled.
var ErrInvalid = errors.New("invalid pattern")

// DefaultDelimiter holds the characters a parameter cannot cross by default.
const DefaultDelimiter = "/#?"

type config struct {
	sensitive bool
	strict    bool
	end       bool
	delimiter string
}

// Option configures the compilation of a Pattern.
type Option func(*config)

// Sensitive makes matching case-sensitive.
func Sensitive() Option {
	return func(c *config) { c.sensitive = true }
}

// Strict disallows the optional trailing delimiter.
func Strict() Option {
	return func(c *config) { c.strict = true }
}

// Prefix lets the pattern match the beginning of a key, up to a delimiter,
// instead of the whole key.
func Prefix() Option {
	return func(c *config) { c.end = false }
}

// Delimiter sets the characters that parameters without a custom pattern
// cannot cross. Delimiter(".") keeps "foo.:bar" within one dotted segment.
// An empty value is ignored.
func Delimiter(chars string) Option {
	return func(c *config) {
		if chars != "" {
			c.delimiter = chars
		}
	}
}

// Pattern is a compiled key pattern.
type Pattern struct {
	src   string
	re    *regexp2.Regexp
	names []string
}

// Compile parses s and returns a Pattern.
func Compile(s string, opts ...Option) (*Pattern, error) {
	c := config{end: true, delimiter: DefaultDelimiter}
	for _, opt := range opts {
		opt(&c)
	}

	var tokens []pathToRegexp.Token
	re, err := pathToRegexp.PathToRegexp(s, &tokens, &pathToRegexp.Options{
		Sensitive: c.sensitive,
		Strict:    c.strict,
		End:       &c.end,
		Delimiter: c.delimiter,
	})
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalid, s, err)
	}

	names := make([]string, 0, len(tokens))
	for _, t := range tokens {
		names = append(names, fmt.Sprint(t.Name))
	}
	return &Pattern{src: s, re: re, names: names}, nil
}

// MustCompile is like Compile but panics if s cannot be compiled.
func MustCompile(s string, opts ...Option) *Pattern {
	p, err := Compile(s, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source of the pattern.
func (p *Pattern) String() string { return p.src }

// Names returns the parameter names in order of appearance.
func (p *Pattern) Names() []string {
	return append([]string(nil), p.names...)
}

// MatchString reports whether s matches the pattern.
func (p *Pattern) MatchString(s string) bool {
	ok, err := p.re.MatchString(s)
	return err == nil && ok
}

// Match matches s against the pattern and returns the captured parameters.
func (p *Pattern) Match(s string) (Params, bool) {
	m, err := p.re.FindStringMatch(s)
	if err != nil || m == nil {
		return Params{}, false
	}
	params := Params{
		names:  p.names,
		values: make(map[string]string, len(p.names)),
	}
	for i, name := range p.names {
		g := m.GroupByNumber(i + 1)
		if g == nil || len(g.Captures) == 0 {
			continue
		}
		params.values[name] = g.String()
	}
	return params, true
}
