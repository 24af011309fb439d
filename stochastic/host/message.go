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

package host

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Message selectors understood by the object.
const (
	FloatSelector     = "float"      // sample a query
	ElemsSelector     = "in_elems"   // set the element count
	ExpSelector       = "in_exp"     // set the exponent
	BangSelector      = "bang"       // post counts and weights to the console
	CountsOutSelector = "counts_out" // send counts to the list outlet
	RandomizeSelector = "randomize"  // load random counts
	SequenceSelector  = "sequence"   // load a descending ramp
	ResetSelector     = "reset"      // load uniform counts
)

// numArgs is the number of arguments per selector.
var numArgs = map[string]int{
	FloatSelector:     1,
	ElemsSelector:     1,
	ExpSelector:       1,
	BangSelector:      0,
	CountsOutSelector: 0,
	RandomizeSelector: 0,
	SequenceSelector:  0,
	ResetSelector:     0,
}

// Selectors returns all known selectors in alphabetical order.
func Selectors() []string {
	res := make([]string, 0, len(numArgs))
	for s := range numArgs {
		res = append(res, s)
	}
	sort.Strings(res)
	return res
}

// Message is a single host message: a selector and its numeric arguments.
type Message struct {
	Selector string
	Args     []float64
}

// Float creates a query message.
func Float(q float64) Message {
	return Message{Selector: FloatSelector, Args: []float64{q}}
}

// Parse reads a message in text form. A bare number is a float message and a
// trailing semicolon is ignored.
func Parse(line string) (Message, error) {
	line = strings.TrimSpace(line)
	line = strings.TrimSpace(strings.TrimSuffix(line, ";"))
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Message{}, errors.New("empty message")
	}

	if v, err := strconv.ParseFloat(fields[0], 64); err == nil {
		if len(fields) != 1 {
			return Message{}, errors.Newf("a number must not be followed by arguments: %q", line)
		}
		return Float(v), nil
	}

	selector := fields[0]
	want, ok := numArgs[selector]
	if !ok {
		return Message{}, errors.Newf("unknown selector %q; expected one of %v", selector, strings.Join(Selectors(), ", "))
	}
	if len(fields)-1 != want {
		return Message{}, errors.Newf("selector %q expects %d argument(s), got %d", selector, want, len(fields)-1)
	}
	msg := Message{Selector: selector}
	for _, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Message{}, errors.Wrapf(err, "invalid argument of %q", selector)
		}
		msg.Args = append(msg.Args, v)
	}
	return msg, nil
}

// String renders the message in the text form read by Parse.
func (m Message) String() string {
	var b strings.Builder
	b.WriteString(m.Selector)
	for _, a := range m.Args {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(a, 'g', -1, 64))
	}
	b.WriteByte(';')
	return b.String()
}
