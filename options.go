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
	"fmt"
	"strings"
)

/*
Policy decides what happens to a disposer failure that occurs while another failure
is already in flight, that is when Release runs during a panic or with *errp already
set. The original failure always continues, the policy only decides the fate of the
second one.
*/
type Policy uint32

const (
	// PolicyLog reports the disposer failure and lets the original failure continue.
	PolicyLog Policy = iota
	// PolicyAbort reports the disposer failure and aborts through the platform.
	PolicyAbort
	// PolicyIgnore drops the disposer failure.
	PolicyIgnore
	// PolicyJoin reports like PolicyLog and, on error returning paths, joins the
	// disposer failure after the original error.
	PolicyJoin
)

func (p Policy) String() string {
	switch p {
	case PolicyLog:
		return "Log"
	case PolicyAbort:
		return "Abort"
	case PolicyIgnore:
		return "Ignore"
	case PolicyJoin:
		return "Join"
	default:
		return fmt.Sprintf("Policy(%d)", uint32(p))
	}
}

func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(data []byte) error {
	switch strings.ToLower(string(data)) {
	case "log":
		*p = PolicyLog
	case "abort":
		*p = PolicyAbort
	case "ignore":
		*p = PolicyIgnore
	case "join":
		*p = PolicyJoin
	default:
		return ErrorUnknownPolicy{Value: string(data)}
	}
	return nil
}

// Reporter receives disposer failures that a Policy decided not to propagate.
type Reporter func(name string, err error)

type Options struct {
	// Name identifies the handle in logs, reports and leak accounting.
	// Defaults to the payload type.
	Name   string
	Policy Policy
	// Reporter overrides the package logger for suppressed failures.
	Reporter Reporter
	/*
		Cleanup registers a garbage collector cleanup that disposes the payload if the
		handle becomes unreachable while still live. This is a best effort fallback:
		it runs at an unspecified time on the runtime's cleanup goroutine, and the
		disposer must be safe to call from there. Every such disposal is recorded,
		see Leaks.
	*/
	Cleanup bool
}

func (o *Options) validate(payloadType string) {
	if o.Name == "" {
		o.Name = payloadType
	}
	if o.Policy > PolicyJoin {
		abort("Options.Policy for %q is not a valid policy: %s", o.Name, o.Policy)
	}
}

func typeName[T any](v *T) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", v), "*")
}
