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

package recorder

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// SQL statements of the selection history table.
const (
	HistoryCreate = "CREATE TABLE IF NOT EXISTS selections (step INTEGER, query REAL, selected INTEGER)"
	HistoryInsert = "INSERT INTO selections (step, query, selected) VALUES (?, ?, ?)"
	historySelect = "SELECT step, query, selected FROM selections ORDER BY step"
)

// Row is a single selection.
type Row struct {
	Step     int64   `db:"step"`
	Query    float64 `db:"query"`
	Selected int     `db:"selected"`
}

// History buffers selections until they are drained into a database.
type History struct {
	mu   sync.Mutex
	rows [][]any
	step int64
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Observe appends a selection to the buffer.
func (h *History) Observe(query float64, index int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rows = append(h.rows, []any{h.step, query, index})
	h.step++
}

// Drain returns the buffered rows in insertion order and empties the buffer.
func (h *History) Drain() [][]any {
	h.mu.Lock()
	defer h.mu.Unlock()
	rows := h.rows
	h.rows = nil
	return rows
}

// LoadHistory reads a selection history from a sqlite3 database.
func LoadHistory(conn string) (_ []Row, err error) {
	db, err := sqlx.Open("sqlite3", conn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open connection to sqlite3 %s", conn)
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()
	return loadHistory(db)
}

func loadHistory(db *sqlx.DB) ([]Row, error) {
	var rows []Row
	if err := db.Select(&rows, historySelect); err != nil {
		return nil, errors.Wrap(err, "cannot read selection history")
	}
	return rows, nil
}
