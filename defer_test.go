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

package dispose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goarrg.com/dispose"
)

func TestDeferRunsAtScopeExit(t *testing.T) {
	ran := 0
	func() {
		d := dispose.Defer(func() { ran++ })
		defer d.Release(nil)
		assert.Zero(t, ran)
	}()
	assert.Equal(t, 1, ran)
}

func TestDeferRunsOnEarlyReturnWithError(t *testing.T) {
	ran := 0
	err := func() (err error) {
		d := dispose.Defer(func() { ran++ })
		defer d.Release(&err)
		return errDevice
	}()
	assert.Same(t, errDevice, err)
	assert.Equal(t, 1, ran)
}

func TestDeferCanceledByIntoInner(t *testing.T) {
	ran := 0
	func() {
		d := dispose.Defer(func() { ran++ })
		defer d.Release(nil)
		d.IntoInner()
	}()
	assert.Zero(t, ran)
}

func TestDeferWith(t *testing.T) {
	var got []string
	d := dispose.DeferWith("staging", func(s string) { got = append(got, s) })
	assert.Equal(t, "staging", d.Value())
	require.NoError(t, d.Dispose())
	assert.Equal(t, []string{"staging"}, got)
}

func TestDeferNilAborts(t *testing.T) {
	assert.PanicsWithValue(t, "Fatal Error", func() { dispose.Defer(nil) })
}
