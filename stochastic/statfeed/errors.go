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

package statfeed

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrContractViolation is matched by every error caused by an invalid
// configuration or query. The engine state is never modified when it is returned.
var ErrContractViolation = errors.New("contract violation")

// Field selects the configuration parameter of an engine.
type Field int

const (
	CountField Field = iota
	ExponentField
)

// String returns the name of the field as used by the host messages.
func (f Field) String() string {
	switch f {
	case CountField:
		return "element count"
	case ExponentField:
		return "exponent"
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// ConfigError reports a rejected configuration value.
type ConfigError struct {
	Field  Field
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %v (%v): %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrContractViolation
}

func newConfigError(f Field, v float64, reason string) error {
	return &ConfigError{Field: f, Value: v, Reason: reason}
}
