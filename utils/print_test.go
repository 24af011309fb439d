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
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testInsert = "INSERT INTO items (id, value) VALUES (?, ?)"

func newSqlMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	return db, mock
}

func TestPrinters_PrintAndClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	p1 := NewMockPrinter(ctrl)
	p2 := NewMockPrinter(ctrl)
	ps := NewPrinters().AddPrinter(p1).AddPrinter(p2)
	assert.Equal(t, 2, ps.Len())

	gomock.InOrder(
		p1.EXPECT().Print().Return(nil),
		p2.EXPECT().Print().Return(nil),
	)
	assert.NoError(t, ps.Print())

	p1.EXPECT().Close().Return(nil)
	p2.EXPECT().Close().Return(nil)
	assert.NoError(t, ps.Close())
}

func TestPrinters_PrintContinuesAfterFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	p1 := NewMockPrinter(ctrl)
	p2 := NewMockPrinter(ctrl)
	ps := NewPrinters().AddPrinter(p1).AddPrinter(p2)

	mockErr := errors.New("mock error")
	p1.EXPECT().Print().Return(mockErr)
	p2.EXPECT().Print().Return(nil)
	assert.ErrorIs(t, ps.Print(), mockErr)

	p1.EXPECT().Close().Return(nil)
	p2.EXPECT().Close().Return(mockErr)
	assert.ErrorIs(t, ps.Close(), mockErr)
}

func TestPrinters_AddPrinterToFile(t *testing.T) {
	f := func() string { return "hello" }
	assert.Equal(t, 1, NewPrinters().AddPrinterToFile("test.txt", f).Len())
	assert.Equal(t, 0, NewPrinters().AddPrinterToFile("", f).Len())
}

func TestPrinterToWriter_Print(t *testing.T) {
	var buf bytes.Buffer
	text := "first"
	p := NewPrinterToWriter(&buf, func() string { return text })
	require.NoError(t, p.Print())
	text = ""
	require.NoError(t, p.Print())
	text = "second"
	require.NoError(t, p.Print())
	assert.Equal(t, "first\nsecond\n", buf.String())
	assert.NoError(t, p.Close())
}

func TestPrinterToFile_PrintAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	text := "a"
	p := NewPrinterToFile(path, func() string { return text })
	require.NoError(t, p.Print())
	text = "b"
	require.NoError(t, p.Print())
	require.NoError(t, p.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data))
}

func TestPrinterToFile_PrintFailsOnDirectory(t *testing.T) {
	p := NewPrinterToFile(t.TempDir(), func() string { return "x" })
	err := p.Print()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to print to file")
}

func TestPrinterToDb_Print(t *testing.T) {
	db, mock := newSqlMock(t)
	rows := [][]any{{1, 0.5}, {2, 0.25}}
	p := NewPrinterToDb(db, testInsert, func() [][]any { return rows })

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(testInsert)
	prep.ExpectExec().WithArgs(1, 0.5).WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs(2, 0.25).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()
	require.NoError(t, p.Print())

	mock.ExpectClose()
	require.NoError(t, p.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrinterToDb_PrintSkipsEmptyBatch(t *testing.T) {
	db, mock := newSqlMock(t)
	p := NewPrinterToDb(db, testInsert, func() [][]any { return nil })
	require.NoError(t, p.Print())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrinterToDb_PrintErrors(t *testing.T) {
	mockErr := errors.New("mock error")
	rows := [][]any{{1, 0.5}}

	t.Run("Begin", func(t *testing.T) {
		db, mock := newSqlMock(t)
		p := NewPrinterToDb(db, testInsert, func() [][]any { return rows })
		mock.ExpectBegin().WillReturnError(mockErr)
		assert.ErrorIs(t, p.Print(), mockErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Prepare", func(t *testing.T) {
		db, mock := newSqlMock(t)
		p := NewPrinterToDb(db, testInsert, func() [][]any { return rows })
		mock.ExpectBegin()
		mock.ExpectPrepare(testInsert).WillReturnError(mockErr)
		mock.ExpectRollback()
		assert.ErrorIs(t, p.Print(), mockErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Exec", func(t *testing.T) {
		db, mock := newSqlMock(t)
		p := NewPrinterToDb(db, testInsert, func() [][]any { return rows })
		mock.ExpectBegin()
		mock.ExpectPrepare(testInsert).ExpectExec().WithArgs(1, 0.5).WillReturnError(mockErr)
		mock.ExpectRollback()
		assert.ErrorIs(t, p.Print(), mockErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Commit", func(t *testing.T) {
		db, mock := newSqlMock(t)
		p := NewPrinterToDb(db, testInsert, func() [][]any { return rows })
		mock.ExpectBegin()
		mock.ExpectPrepare(testInsert).ExpectExec().WithArgs(1, 0.5).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit().WillReturnError(mockErr)
		assert.ErrorIs(t, p.Print(), mockErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPrinterToBuffer_FlushesAtCapacity(t *testing.T) {
	db, mock := newSqlMock(t)
	next := 0
	p := NewPrinterToDb(db, testInsert, func() [][]any {
		next++
		return [][]any{{next, 0.0}}
	}).Bufferize(2)

	require.NoError(t, p.Print())
	assert.Equal(t, 1, p.Length())

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(testInsert)
	prep.ExpectExec().WithArgs(1, 0.0).WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs(2, 0.0).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()
	require.NoError(t, p.Print())
	assert.Equal(t, 0, p.Length())

	require.NoError(t, p.Print())
	mock.ExpectBegin()
	mock.ExpectPrepare(testInsert).ExpectExec().WithArgs(3, 0.0).WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()
	mock.ExpectClose()
	require.NoError(t, p.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrinterToDb_NewPrinterToSqlite3(t *testing.T) {
	conn := filepath.Join(t.TempDir(), "test.db")
	next := 0
	p, err := NewPrinterToSqlite3(conn,
		"CREATE TABLE IF NOT EXISTS items (id INTEGER, value REAL)",
		testInsert,
		func() [][]any {
			next++
			return [][]any{{next, float64(next) / 2}}
		})
	require.NoError(t, err)
	require.NoError(t, p.Print())
	require.NoError(t, p.Print())

	var count int
	require.NoError(t, p.db.QueryRow("SELECT COUNT(*) FROM items").Scan(&count))
	assert.Equal(t, 2, count)
	require.NoError(t, p.Close())

	_, err = NewPrinterToSqlite3(conn, "CREATE TABLE broken (", testInsert, nil)
	assert.ErrorContains(t, err, "failed to initialise")
}
