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

// Package zapreport sends suppressed disposer failures to a zap logger.
package zapreport

import (
	"errors"

	"go.uber.org/zap"

	"goarrg.com/dispose"
)

// Reporter returns a dispose.Reporter writing one error entry per failure, a nil
// logger reports nothing.
func Reporter(l *zap.Logger) dispose.Reporter {
	if l == nil {
		l = zap.NewNop()
	}
	return func(name string, err error) {
		fields := []zap.Field{
			zap.String("handle", name),
			zap.Error(err),
		}
		var p dispose.ErrorDisposerPanic
		if errors.As(err, &p) {
			fields = append(fields, zap.Any("panic", p.Value))
		}
		l.Error("disposer failed while another failure was in flight", fields...)
	}
}

// Options returns dispose.Options naming the handle and reporting through l.
func Options(name string, policy dispose.Policy, l *zap.Logger) dispose.Options {
	if l == nil {
		l = zap.NewNop()
	}
	return dispose.Options{
		Name:     name,
		Policy:   policy,
		Reporter: Reporter(l.Named("dispose")),
	}
}
