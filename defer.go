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

/*
Defer turns f into a handle, disposing it calls f and IntoInner cancels it.
Unlike a plain defer statement the action can be called off or handed to another owner:

	rollback := dispose.Defer(func() { _ = tx.Rollback() })
	defer rollback.Release(nil)
	...
	rollback.IntoInner()
*/
func Defer(f func()) *Disposable[func()] {
	if f == nil {
		abort("Defer called with a nil func")
	}
	return NewWithOptions(f, func(f func()) error {
		f()
		return nil
	}, Options{Name: "Defer"})
}

func DeferWith[W any](with W, f func(W)) *Disposable[W] {
	if f == nil {
		abort("DeferWith called with a nil func")
	}
	return NewWithOptions(with, Infallible(f), Options{Name: "DeferWith"})
}
