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

import "goarrg.com/debug"

// AbortCanary aborts the process when disposed, see AbortOnPanic.
type AbortCanary struct{}

func NewAbortCanary() *Disposable[AbortCanary] {
	return NewWithOptions(AbortCanary{}, func(AbortCanary) error {
		abort("AbortCanary disposed:\n%s", debug.StackTrace(0))
		return nil
	}, Options{Name: "AbortCanary", Policy: PolicyAbort})
}

// ReleaseCanary consumes the canary without aborting.
func ReleaseCanary(c *Disposable[AbortCanary]) {
	c.IntoInner()
}

/*
AbortOnPanic runs f and aborts through the platform instead of unwinding if f panics,
for regions where a half finished operation leaves state that nothing can recover.
*/
func AbortOnPanic[T any](f func() T) T {
	canary := NewAbortCanary()
	defer canary.Release(nil)

	ret := f()

	ReleaseCanary(canary)
	return ret
}
