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

	"goarrg.com/dispose/internal/container"
	"goarrg.com/dispose/internal/util"
)

// Member is anything a Group can dispose, both *Disposable[T] and *Group qualify.
type Member interface {
	Name() string
	Dispose() error
}

/*
Group owns the disposal of several handles and disposes them in reverse order of
adoption, so resources created from earlier ones go first. The Group itself is linear:
Dispose and Release follow the same rules as on a Disposable.
*/
type Group struct {
	noCopy   util.NoCopy
	name     string
	policy   Policy
	reporter Reporter
	members  container.Stack[Member]
	consumed bool
}

func NewGroup(name string) *Group {
	return NewGroupWithPolicy(name, PolicyLog)
}

func NewGroupWithPolicy(name string, policy Policy) *Group {
	return NewGroupWithOptions(Options{Name: name, Policy: policy})
}

// NewGroupWithOptions uses the Name, Policy and Reporter of options, Cleanup does not
// apply to groups.
func NewGroupWithOptions(options Options) *Group {
	options.validate("Group")
	g := &Group{name: options.Name, policy: options.Policy, reporter: options.Reporter}
	g.noCopy.Init()
	return g
}

func (g *Group) check(op string) {
	if g == nil {
		abort("%s called on a nil Group", op)
	}
	if g.consumed {
		abort("%s called on consumed Group %q", op, g.name)
	}
	g.noCopy.Check()
}

func (g *Group) Name() string {
	return g.name
}

func (g *Group) Len() int {
	if g.consumed {
		return 0
	}
	return g.members.Len()
}

// Names lists member names in adoption order.
func (g *Group) Names() []string {
	members := g.members.Data()
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name()
	}
	return names
}

func (g *Group) Add(m Member) {
	g.check("Add")
	if m == nil {
		abort("Group %q: trying to add a nil member", g.name)
	}
	g.members.Push(m)
}

/*
Adopt hands the disposal of d to g and returns d for chaining. d stays usable, and
consuming it directly later turns the group's disposal of it into a no-op.
*/
func Adopt[T any](g *Group, d *Disposable[T]) *Disposable[T] {
	d.check("Adopt")
	g.Add(d)
	return d
}

func (g *Group) disposeMember(m Member) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrorDisposerPanic{Value: r}
		}
	}()
	return m.Dispose()
}

/*
Dispose disposes every member in reverse order of adoption. A failing or panicking
member does not stop the rest, all failures are joined in the returned error.
*/
func (g *Group) Dispose() error {
	if g == nil || g.consumed {
		return nil
	}
	g.noCopy.Check()
	g.consumed = true
	g.noCopy.Close()

	var errs []error
	for !g.members.Empty() {
		if err := g.disposeMember(g.members.Pop()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Release is the Group counterpart of Disposable.Release and must be deferred directly.
func (g *Group) Release(errp *error) {
	if g == nil || g.consumed {
		return
	}

	if r := recover(); r != nil {
		if err := g.Dispose(); err != nil {
			g.suppress(err)
		}
		panic(r)
	}

	if errp != nil && *errp != nil {
		if err := g.Dispose(); err != nil {
			g.suppress(err)
			if g.policy == PolicyJoin {
				*errp = errors.Join(*errp, err)
			}
		}
		return
	}

	if err := g.Dispose(); err != nil {
		if errp == nil {
			panic(err)
		}
		*errp = err
	}
}

func (g *Group) report(err error) {
	if g.reporter != nil {
		g.reporter(g.name, err)
		return
	}
	instance.logger.EPrintf("Disposing Group %q failed while another failure was in flight: %s", g.name, err)
}

func (g *Group) suppress(err error) {
	switch g.policy {
	case PolicyIgnore:
	case PolicyAbort:
		g.report(err)
		abort("Aborting after disposing Group %q failed: %s", g.name, err)
	default:
		g.report(err)
	}
}
