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

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"goarrg.com/debug"
	"goarrg.com/dispose"
)

var flags flag.FlagSet

type scenarios []string

func (s *scenarios) UnmarshalText(data []byte) error {
	list := scenarios{}
	for _, name := range strings.Split(string(data), ",") {
		name = strings.ToUpper(strings.TrimSpace(name))
		if _, ok := runners[name]; !ok {
			return debug.Errorf("Unknown scenario: %q", name)
		}
		list = append(list, name)
	}
	*s = list
	return nil
}

func (s scenarios) MarshalText() (text []byte, err error) {
	return []byte(strings.Join(s, ",")), nil
}

// device stands in for the owner a handle has to be destroyed through.
type device struct {
	log   []int
	fail  bool
	label string
}

func (d *device) destroy(v int) error {
	if d.fail {
		return debug.Errorf("%s: device lost while destroying %d", d.label, v)
	}
	d.log = append(d.log, v)
	return nil
}

var runners = map[string]func(*device, dispose.Policy) error{
	"A": func(d *device, p dispose.Policy) error {
		h := dispose.NewWithOptions(42, dispose.Bind(d, (*device).destroy), dispose.Options{Name: "A", Policy: p})
		return h.Dispose()
	},
	"B": func(d *device, p dispose.Policy) error {
		h := dispose.NewWithOptions(7, dispose.Bind(d, (*device).destroy), dispose.Options{Name: "B", Policy: p})
		_ = h.IntoInner()
		return nil
	},
	"C": func(d *device, p dispose.Policy) (err error) {
		h := dispose.NewWithOptions(3, dispose.Bind(d, (*device).destroy), dispose.Options{Name: "C", Policy: p})
		defer h.Release(&err)
		return nil
	},
	"D": func(d *device, p dispose.Policy) (err error) {
		d.fail = true
		h := dispose.NewWithOptions(9, dispose.Bind(d, (*device).destroy), dispose.Options{Name: "D", Policy: p})
		defer h.Release(&err)
		return nil
	},
	"E": func(d *device, p dispose.Policy) (err error) {
		d.fail = true
		h := dispose.NewWithOptions(11, dispose.Bind(d, (*device).destroy), dispose.Options{Name: "E", Policy: p})
		defer h.Release(&err)
		return debug.Errorf("upload failed")
	},
}

func help() {
	fmt.Fprintf(flags.Output(), "Usage: cooler [flags]\n"+
		"Runs the linear handle scenarios and prints what each disposer saw.\n\n")
	flags.PrintDefaults()
}

func main() {
	debug.SetLevel(debug.LogLevelWarn)

	flags.Usage = help
	flags.Init("", flag.ExitOnError)

	v := flags.Bool("v", false, "Verbose - Print high level tasks")
	vv := flags.Bool("vv", false, "Very Verbose - Print everything")

	policy := dispose.PolicyLog
	flags.TextVar(&policy, "policy", dispose.PolicyLog, "Sets the policy for disposer failures during another failure.\n"+
		"Valid values are \"log\", \"abort\", \"ignore\" and \"join\".")

	run := scenarios{}
	flags.TextVar(&run, "run", scenarios{"A", "B", "C", "D", "E"}, "Comma separated scenarios to run.")

	err := flags.Parse(os.Args[1:])
	if err != nil {
		panic(err)
	}

	if *v {
		debug.SetLevel(debug.LogLevelInfo)
		dispose.SetLogLevel(debug.LogLevelInfo)
	} else if *vv {
		debug.SetLevel(debug.LogLevelVerbose)
		dispose.SetLogLevel(debug.LogLevelVerbose)
	}

	if len(run) == 0 {
		run = scenarios{"A", "B", "C", "D", "E"}
	}

	for _, name := range run {
		d := &device{label: name}
		debug.IPrintf("Running scenario %s with policy %s", name, policy)
		err := runners[name](d, policy)
		fmt.Printf("%s: log=%v", name, d.log)
		if err != nil {
			fmt.Printf(" err=%q", err)
		}
		fmt.Println()
	}

	if report := dispose.LeakReport(); report != "" {
		debug.WPrintf("Leaked handles:\n%s", report)
	}
}
