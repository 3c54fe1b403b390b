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

import "fmt"

// ErrorDisposerPanic carries the value of a disposer panic that was captured instead
// of being allowed to replace a failure already in flight.
type ErrorDisposerPanic struct {
	Value any
}

func (ErrorDisposerPanic) Is(target error) bool {
	_, ok := target.(ErrorDisposerPanic)
	return ok
}

func (e ErrorDisposerPanic) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func (e ErrorDisposerPanic) Error() string {
	return fmt.Sprintf("Disposer panicked: %v", e.Value)
}

type ErrorUnknownPolicy struct {
	Value string
}

func (ErrorUnknownPolicy) Is(target error) bool {
	_, ok := target.(ErrorUnknownPolicy)
	return ok
}

func (e ErrorUnknownPolicy) Error() string {
	return fmt.Sprintf("Unknown policy: %q", e.Value)
}
