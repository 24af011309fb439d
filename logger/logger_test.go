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

package logger

import (
	"testing"
	"time"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
)

func TestLogger_NewLogger(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		log := NewLogger("DEBUG", "statfeedTest")
		assert.NotNil(t, log)
		assert.True(t, log.IsEnabledFor(logging.DEBUG))
	})

	t.Run("lower case level", func(t *testing.T) {
		log := NewLogger("warning", "statfeedLowerCase")
		assert.True(t, log.IsEnabledFor(logging.WARNING))
		assert.False(t, log.IsEnabledFor(logging.NOTICE))
	})

	t.Run("invalid log level", func(t *testing.T) {
		log := NewLogger("INVALID", "statfeedInvalid")
		assert.NotNil(t, log)
		assert.True(t, log.IsEnabledFor(logging.INFO))
		assert.False(t, log.IsEnabledFor(logging.DEBUG))
	})
}

func TestLogger_ParseTime(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		h, m, s uint32
	}{
		{"seconds only", 42 * time.Second, 0, 0, 42},
		{"minutes", 125 * time.Second, 0, 2, 5},
		{"hours", 3661 * time.Second, 1, 1, 1},
		{"rounding", 1500 * time.Millisecond, 0, 0, 2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			hours, minutes, seconds := ParseTime(test.elapsed)
			assert.Equal(t, test.h, hours)
			assert.Equal(t, test.m, minutes)
			assert.Equal(t, test.s, seconds)
		})
	}
}
