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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goarrg.com/dispose"
)

type fakeDevice struct {
	destroyed []string
	lost      bool
}

func (d *fakeDevice) destroyBuffer(name string) error {
	if d.lost {
		return errDevice
	}
	d.destroyed = append(d.destroyed, name)
	return nil
}

func TestBindPassesOwner(t *testing.T) {
	dev := &fakeDevice{}
	h := dispose.New("vertices", dispose.Bind(dev, (*fakeDevice).destroyBuffer))
	require.NoError(t, h.Dispose())
	assert.Equal(t, []string{"vertices"}, dev.destroyed)

	dev.lost = true
	h = dispose.New("indices", dispose.Bind(dev, (*fakeDevice).destroyBuffer))
	assert.Same(t, errDevice, h.Dispose())
}

type semaphore struct {
	destroyed int
}

func (s *semaphore) Destroy() {
	s.destroyed++
}

func TestNewDestroyer(t *testing.T) {
	s := &semaphore{}
	func() {
		h := dispose.NewDestroyer(s)
		defer h.Release(nil)
		assert.Equal(t, "*dispose_test.semaphore", h.Name())
	}()
	assert.Equal(t, 1, s.destroyed)
}

func TestDisposeAll(t *testing.T) {
	var seen []int
	errOdd := errors.New("odd")
	err := dispose.DisposeAll([]int{1, 2, 3, 4}, func(v int) error {
		seen = append(seen, v)
		if v%2 == 1 {
			return errOdd
		}
		return nil
	})
	assert.Equal(t, []int{1, 2, 3, 4}, seen)
	assert.ErrorIs(t, err, errOdd)

	assert.NoError(t, dispose.DisposeAll([]int{}, func(int) error { return errOdd }))
}
