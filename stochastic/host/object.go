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
	"github.com/0xsoniclabs/statfeed/logger"
	"github.com/0xsoniclabs/statfeed/stochastic/generator"
	"github.com/0xsoniclabs/statfeed/stochastic/statfeed"
	"github.com/cockroachdb/errors"
)

// Outlets receive the output of an object.
//
//go:generate mockgen -source object.go -destination object_mock.go -package host
type Outlets interface {
	Index(index int)       // selected index of a float message
	List(values []float64) // counts of a counts_out message
}

// Observer is notified about every sampled query.
type Observer interface {
	Observe(query float64, index int)
}

// Object connects a sampling engine to the message-driven host. It plays the
// role of the patch object: two configuration inlets, an index outlet and a
// list outlet, and the console for dumps and warnings.
type Object struct {
	engine    *statfeed.Engine
	out       Outlets
	log       logger.Logger
	metrics   *Metrics
	observers []Observer
}

// NewObject creates an object around engine. metrics may be nil.
func NewObject(engine *statfeed.Engine, out Outlets, log logger.Logger, metrics *Metrics) *Object {
	o := &Object{
		engine:  engine,
		out:     out,
		log:     log,
		metrics: metrics,
	}
	if metrics != nil {
		metrics.ActiveCount.Set(float64(engine.Count()))
		metrics.Exponent.Set(engine.Exponent())
	}
	return o
}

// AddObserver registers an observer of sampled queries.
func (o *Object) AddObserver(obs Observer) *Object {
	o.observers = append(o.observers, obs)
	return o
}

// Engine returns the engine driven by the object.
func (o *Object) Engine() *statfeed.Engine {
	return o.engine
}

// Dispatch routes a message to the engine.
func (o *Object) Dispatch(msg Message) error {
	if want, ok := numArgs[msg.Selector]; !ok {
		return errors.Newf("unknown selector %q", msg.Selector)
	} else if len(msg.Args) != want {
		return errors.Newf("selector %q expects %d argument(s), got %d", msg.Selector, want, len(msg.Args))
	}

	var err error
	switch msg.Selector {
	case FloatSelector:
		err = o.sample(msg.Args[0])
	case ElemsSelector:
		err = o.configure(statfeed.CountField, msg.Args[0])
	case ExpSelector:
		err = o.configure(statfeed.ExponentField, msg.Args[0])
	case BangSelector:
		o.post()
	case CountsOutSelector:
		o.out.List(o.engine.Counts())
	case RandomizeSelector, SequenceSelector, ResetSelector:
		err = o.load(msg.Selector)
	}
	if err != nil && o.metrics != nil {
		o.metrics.Rejected.Inc()
	}
	return err
}

func (o *Object) sample(q float64) error {
	warnings := o.engine.RangeWarnings()
	index, err := o.engine.Sample(q)
	if err != nil {
		return errors.Wrap(err, "cannot sample")
	}
	if o.metrics != nil {
		o.metrics.Samples.Inc()
		if o.engine.RangeWarnings() != warnings {
			o.metrics.RangeWarnings.Inc()
		}
	}
	for _, obs := range o.observers {
		obs.Observe(q, index)
	}
	o.out.Index(index)
	return nil
}

func (o *Object) configure(f statfeed.Field, v float64) error {
	if err := o.engine.Configure(f, v); err != nil {
		return errors.Wrapf(err, "cannot set %v", f)
	}
	o.log.Debugf("Set %v to %v", f, v)
	if o.metrics != nil {
		o.metrics.ActiveCount.Set(float64(o.engine.Count()))
		o.metrics.Exponent.Set(o.engine.Exponent())
	}
	return nil
}

func (o *Object) load(selector string) error {
	mode, err := generator.ParseMode(selector)
	if err != nil {
		return err
	}
	if err := o.engine.Load(mode); err != nil {
		return err
	}
	o.log.Debugf("Loaded counts (%v)", mode)
	if o.metrics != nil {
		o.metrics.BulkLoads.WithLabelValues(mode.String()).Inc()
	}
	return nil
}

// post prints counts and weights to the console.
func (o *Object) post() {
	snapshot := o.engine.Snapshot()
	for i, c := range snapshot.Counts {
		o.log.Noticef("Count %d: %f", i, c)
	}
	o.log.Notice("----")
	for i, w := range snapshot.Weights {
		o.log.Noticef("Weight %d: %f", i, w)
	}
}
