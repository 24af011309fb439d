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

package sampler

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/0xsoniclabs/statfeed/stochastic/host"
	"github.com/0xsoniclabs/statfeed/stochastic/recorder"
	"github.com/0xsoniclabs/statfeed/stochastic/statistics/exponential"
	"github.com/0xsoniclabs/statfeed/utils"
	"github.com/cockroachdb/errors"
)

// historyBatch is the number of selections inserted per transaction.
const historyBatch = 1000

// textOutlets renders the outlets of an object as text lines, e.g.
// "index 3" and "list 1 0 2".
type textOutlets struct {
	lines []string
}

func (o *textOutlets) Index(index int) {
	o.lines = append(o.lines, "index "+strconv.Itoa(index))
}

func (o *textOutlets) List(values []float64) {
	var b strings.Builder
	b.WriteString("list")
	for _, v := range values {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	o.lines = append(o.lines, b.String())
}

// Text returns the pending lines.
func (o *textOutlets) Text() string {
	return strings.Join(o.lines, "\n")
}

func (o *textOutlets) Reset() {
	o.lines = o.lines[:0]
}

// discardOutlets drops all output.
type discardOutlets struct{}

func (discardOutlets) Index(int)      {}
func (discardOutlets) List([]float64) {}

// newQueries returns a generator of queries in [0,1] following the
// truncated exponential distribution with the given rate.
func newQueries(rg *rand.Rand, lambda float64) func() float64 {
	return func() float64 {
		return exponential.Sample(rg, lambda)
	}
}

// simulate dispatches steps generated queries to object. Every message is
// passed to sink after it was dispatched; sink may be nil.
func simulate(object *host.Object, next func() float64, steps int, sink func(host.Message) error) error {
	for i := 0; i < steps; i++ {
		msg := host.Float(next())
		if err := object.Dispatch(msg); err != nil {
			return errors.Wrapf(err, "step %d", i)
		}
		if sink == nil {
			continue
		}
		if err := sink(msg); err != nil {
			return err
		}
	}
	return nil
}

// newHistory returns a selection history together with a buffered printer
// draining it into the database conn. Both are nil if conn is empty, so that
// no selection is retained without a database.
func newHistory(conn string) (*recorder.History, utils.Printer, error) {
	if conn == "" {
		return nil, nil, nil
	}
	history := recorder.NewHistory()
	db, err := utils.NewPrinterToSqlite3(conn, recorder.HistoryCreate, recorder.HistoryInsert, history.Drain)
	if err != nil {
		return nil, nil, err
	}
	return history, db.Bufferize(historyBatch), nil
}
