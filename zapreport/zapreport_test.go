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

package zapreport_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"goarrg.com/dispose"
	"goarrg.com/dispose/zapreport"
)

func TestReporterWritesSuppressedFailure(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	errDevice := errors.New("device lost")
	errUpload := errors.New("upload failed")

	err := func() (err error) {
		h := dispose.NewWithOptions(1, func(int) error { return errDevice },
			zapreport.Options("vertices", dispose.PolicyLog, zap.New(core)))
		defer h.Release(&err)
		return errUpload
	}()
	assert.Same(t, errUpload, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "dispose", entries[0].LoggerName)
	fields := entries[0].ContextMap()
	assert.Equal(t, "vertices", fields["handle"])
	assert.Equal(t, "device lost", fields["error"])
}

func TestReporterRecordsPanicValue(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	assert.PanicsWithValue(t, "boom", func() {
		h := dispose.NewWithOptions(1, func(int) error { panic("second") },
			dispose.Options{Name: "image", Reporter: zapreport.Reporter(zap.New(core))})
		defer h.Release(nil)
		panic("boom")
	})

	entries := logs.FilterField(zap.String("handle", "image")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "second", entries[0].ContextMap()["panic"])
}

func TestNilLoggerIsSilent(t *testing.T) {
	assert.NotPanics(t, func() {
		zapreport.Reporter(nil)("x", errors.New("x"))
		_ = zapreport.Options("x", dispose.PolicyIgnore, nil)
	})
}
