// Copyright 2025 Sonic Labs
// This file is part of Aida Testing Infrastructure for Sonic
//
// Aida is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Aida is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Aida. If not, see <http://www.gnu.org/licenses/>.

package utils

import (
	"fmt"
	"strconv"
)

// Must returns value if err is nil and panics otherwise.
func Must[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}

// ArgsBuilder helps create []string for CLI testing in a type-safe way
type ArgsBuilder struct {
	args []string
}

func NewArgs(cmd ...string) *ArgsBuilder {
	return &ArgsBuilder{args: append([]string{}, cmd...)}
}

func format(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}

// Flag appends --name value. A false boolean flag is omitted and a true
// one is appended without a value.
func (b *ArgsBuilder) Flag(name string, value any) *ArgsBuilder {
	if v, ok := value.(bool); ok {
		if v {
			b.args = append(b.args, "--"+name)
		}
		return b
	}
	s, ok := format(value)
	if !ok {
		panic(fmt.Sprintf("unsupported flag type %T", value))
	}
	b.args = append(b.args, "--"+name, s)
	return b
}

func (b *ArgsBuilder) Arg(value any) *ArgsBuilder {
	s, ok := format(value)
	if !ok {
		panic(fmt.Sprintf("unsupported arg type %T", value))
	}
	b.args = append(b.args, s)
	return b
}

func (b *ArgsBuilder) Build() []string {
	return b.args
}
