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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(int64(999)))
	assert.Equal(t, "1,234,567", FormatNumber(uint64(1234567)))
	assert.Equal(t, "-12,000", FormatNumber(-12000))
}

func TestFormatEntries(t *testing.T) {
	txt := FormatEntries("State", []string{"Count", "Weight"},
		[]float64{2, 0, 1},
		[]float64{1, 0},
	)
	lines := strings.Split(txt, "\n")
	assert.Contains(t, lines[1], "State")
	assert.Contains(t, txt, "INDEX")
	assert.Contains(t, txt, "COUNT")
	assert.Contains(t, txt, "WEIGHT")
	assert.Contains(t, txt, "2.000000")
	assert.Contains(t, txt, "1.000000")
	assert.Greater(t, len(lines), 5)
}

func TestFormatEntries_UnnamedColumns(t *testing.T) {
	txt := FormatEntries("", nil, []float64{0.25})
	assert.Contains(t, txt, "COLUMN 0")
	assert.Contains(t, txt, "0.250000")
}

func TestFormatSummary(t *testing.T) {
	txt := FormatSummary("Summary", [][2]string{
		{"Selections", FormatNumber(10000)},
		{"Entropy", "2.30"},
	})
	assert.Contains(t, txt, "Summary")
	assert.Contains(t, txt, "Selections")
	assert.Contains(t, txt, "10,000")
	assert.Contains(t, txt, "2.30")
}
