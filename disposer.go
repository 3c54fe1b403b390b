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

import "errors"

/*
Disposer takes ownership of a payload and tears it down. It is called at most once per
handle and must not keep the payload around after it returns.
*/
type Disposer[T any] func(T) error

func Infallible[T any](f func(T)) Disposer[T] {
	return func(v T) error {
		f(v)
		return nil
	}
}

/*
Bind captures the context a teardown needs at construction time, for resources that
can only be destroyed through their owner:

	dispose.New(buffer, dispose.Bind(device, func(d *Device, b *Buffer) error {
		return d.DestroyBuffer(b)
	}))
*/
func Bind[C, T any](ctx C, f func(C, T) error) Disposer[T] {
	return func(v T) error {
		return f(ctx, v)
	}
}

type Destroyer interface {
	Destroy()
}

// NewDestroyer wraps a value that already knows how to destroy itself.
func NewDestroyer[T Destroyer](v T) *Disposable[T] {
	return NewWithOptions(v, func(v T) error {
		v.Destroy()
		return nil
	}, Options{})
}

// DisposeAll hands every item to f in order, a failing item does not stop the rest.
func DisposeAll[T any](items []T, f Disposer[T]) error {
	var errs []error
	for _, item := range items {
		if err := f(item); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
