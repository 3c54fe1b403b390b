/*
Copyright 2025 The goARRG Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package dispose

import (
	"errors"
	"fmt"
	"runtime"

	"goarrg.com/debug"

	"goarrg.com/dispose/internal/util"
)

type State uint32

const (
	Live State = iota
	Consumed
)

func (s State) String() string {
	switch s {
	case Live:
		return "Live"
	case Consumed:
		return "Consumed"
	default:
		return fmt.Sprintf("State(%d)", uint32(s))
	}
}

// slot holds everything the cleanup fallback needs, it must never point back at
// the Disposable or the cleanup would keep the handle reachable forever.
type slot[T any] struct {
	value    T
	disposer Disposer[T]
	state    State
	options  Options
}

func (s *slot[T]) take() (T, Disposer[T]) {
	var zero T
	v, f := s.value, s.disposer
	s.value, s.disposer = zero, nil
	s.state = Consumed
	return v, f
}

// run consumes the slot and calls the disposer, state is Consumed before the
// disposer gets control so a failing disposer can never be called again.
func (s *slot[T]) run() error {
	v, f := s.take()
	return f(v)
}

func (s *slot[T]) runCaught() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrorDisposerPanic{Value: r}
		}
	}()
	return s.run()
}

func (s *slot[T]) report(err error) {
	if s.options.Reporter != nil {
		s.options.Reporter(s.options.Name, err)
		return
	}
	instance.logger.EPrintf("Disposer for %q failed while another failure was in flight: %s", s.options.Name, err)
}

// suppress applies the policy to a disposer failure that must not replace the
// failure already in flight.
func (s *slot[T]) suppress(err error) {
	switch s.options.Policy {
	case PolicyIgnore:
	case PolicyAbort:
		s.report(err)
		abort("Aborting after disposer for %q failed: %s\n%s", s.options.Name, err, debug.StackTrace(0))
	default:
		s.report(err)
	}
}

/*
Disposable owns a value that must be consumed exactly once, either by Dispose which
hands it to its disposer, or by IntoInner which hands it back to the caller. Go has no
destructors, so the scope exit hook is explicit: defer Release right after
construction and the disposer runs on every path out of the function that did not
consume the handle first.

	buf := dispose.New(device.NewBuffer(), dispose.Bind(device, (*Device).DestroyBuffer))
	defer buf.Release(&err)

A Disposable must not be copied and is not safe for concurrent use, ownership may
move between goroutines as long as only one of them uses it at a time.
*/
type Disposable[T any] struct {
	noCopy  util.NoCopy
	slot    *slot[T]
	cleanup runtime.Cleanup
	tracked bool
}

func New[T any](value T, disposer Disposer[T]) *Disposable[T] {
	return NewWithOptions(value, disposer, Options{})
}

func NewWithOptions[T any](value T, disposer Disposer[T], options Options) *Disposable[T] {
	options.validate(typeName(&value))
	if disposer == nil {
		abort("Trying to create Disposable %q with a nil disposer", options.Name)
	}
	d := &Disposable[T]{
		slot: &slot[T]{value: value, disposer: disposer, state: Live, options: options},
	}
	d.noCopy.Init()
	if options.Cleanup {
		d.cleanup = runtime.AddCleanup(d, reclaim[T], d.slot)
		d.tracked = true
	}
	return d
}

func (d *Disposable[T]) consumed() bool {
	return d == nil || d.slot == nil || d.slot.state == Consumed
}

func (d *Disposable[T]) check(op string) {
	if d == nil || d.slot == nil {
		abort("%s called on a nil or zero Disposable:\n%s", op, debug.StackTrace(0))
	}
	if d.slot.state == Consumed {
		abort("%s called on consumed Disposable %q:\n%s", op, d.slot.options.Name, debug.StackTrace(0))
	}
	d.noCopy.Check()
}

// retire moves the handle out of the live state without touching the payload.
func (d *Disposable[T]) retire() {
	if d.tracked {
		d.cleanup.Stop()
		d.tracked = false
	}
	d.noCopy.Close()
}

func (d *Disposable[T]) Name() string {
	if d == nil || d.slot == nil {
		return ""
	}
	return d.slot.options.Name
}

func (d *Disposable[T]) State() State {
	if d.consumed() {
		return Consumed
	}
	return Live
}

func (d *Disposable[T]) String() string {
	return fmt.Sprintf("Disposable[%s](%s)", d.Name(), d.State())
}

/*
Value returns the payload, it aborts if the handle was already consumed. With
Options.Cleanup the handle must stay reachable for as long as the returned payload is
in use, otherwise the cleanup may dispose it underneath the caller. WithRef and WithMut
keep the handle alive for the duration of their callback.
*/
func (d *Disposable[T]) Value() T {
	d.check("Value")
	return d.slot.value
}

/*
Dispose runs the disposer with the payload and returns its error unmodified.
Calling it on a consumed handle does nothing and returns nil, which makes it safe to
dispose explicitly even when a deferred Release is also pending.
*/
func (d *Disposable[T]) Dispose() error {
	if d.consumed() {
		return nil
	}
	d.noCopy.Check()
	d.retire()
	return d.slot.run()
}

/*
IntoInner returns the payload and drops the disposer without calling it, the caller
takes over responsibility for the teardown. Calling it on a consumed handle aborts.
*/
func (d *Disposable[T]) IntoInner() T {
	d.check("IntoInner")
	d.retire()
	v, _ := d.slot.take()
	return v
}

/*
Release is the scope exit hook and is meant to be deferred:

	func f() (err error) {
		h := dispose.New(v, disposer)
		defer h.Release(&err)
		...
	}

If the handle was consumed it does nothing. Otherwise it disposes, and what happens to
a disposer failure depends on whether another failure is already in flight:

  - No failure in flight: the disposer error is stored in *errp, or panicked with
    unmodified if errp is nil, so it cannot vanish. A disposer panic propagates.
  - A panic is unwinding or *errp already holds an error: disposer errors and panics
    are captured and handed to the handle's Policy, then the original panic resumes
    with its original value and *errp keeps the original error (PolicyJoin appends
    the disposer failure to it).

Release must be called directly by defer, it relies on recover to see the unwinding
panic. runtime.Goexit (t.FailNow for instance) is invisible to recover, so a Goexit in
flight counts as no failure in flight: a failing disposer with a nil errp panics on
top of it.
*/
func (d *Disposable[T]) Release(errp *error) {
	if d.consumed() {
		return
	}
	d.noCopy.Check()

	if r := recover(); r != nil {
		d.retire()
		if err := d.slot.runCaught(); err != nil {
			d.slot.suppress(err)
		}
		panic(r)
	}

	d.retire()
	if errp != nil && *errp != nil {
		if err := d.slot.runCaught(); err != nil {
			d.slot.suppress(err)
			if d.slot.options.Policy == PolicyJoin {
				*errp = errors.Join(*errp, err)
			}
		}
		return
	}

	if err := d.slot.run(); err != nil {
		if errp == nil {
			panic(err)
		}
		*errp = err
	}
}

/*
Use calls f with the live payload and releases the handle on every path out of it,
it is Release for callers that prefer a scoped block to a defer. Calling IntoInner or
Dispose on d from inside f is allowed.
*/
func Use[T, R any](d *Disposable[T], f func(T) (R, error)) (ret R, err error) {
	d.check("Use")
	defer d.Release(&err)
	return f(d.slot.value)
}

func WithRef[T, R any](d *Disposable[T], f func(T) R) R {
	d.check("WithRef")
	defer runtime.KeepAlive(d)
	return f(d.slot.value)
}

// WithMut gives f a pointer to the payload, it is only valid for the duration of the
// call.
func WithMut[T, R any](d *Disposable[T], f func(*T) R) R {
	d.check("WithMut")
	defer runtime.KeepAlive(d)
	return f(&d.slot.value)
}

func reclaim[T any](s *slot[T]) {
	if s.state == Consumed {
		return
	}
	recordLeak(s.options.Name)
	instance.logger.WPrintf("Disposable %q was reclaimed by the garbage collector without being consumed", s.options.Name)
	if err := s.runCaught(); err != nil {
		s.suppress(err)
	}
}
