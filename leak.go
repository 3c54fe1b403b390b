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
	"slices"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
)

// written from the runtime's cleanup goroutine
var leaks = struct {
	sync.Mutex
	count map[string]int
}{
	count: map[string]int{},
}

func recordLeak(name string) {
	leaks.Lock()
	leaks.count[name]++
	leaks.Unlock()
}

// Leaks returns how many handles of each name were disposed by the cleanup fallback
// instead of by their owner.
func Leaks() map[string]int {
	leaks.Lock()
	defer leaks.Unlock()
	return maps.Clone(leaks.count)
}

func ResetLeaks() {
	leaks.Lock()
	clear(leaks.count)
	leaks.Unlock()
}

// LeakReport formats Leaks one name per line sorted by name, empty if nothing leaked.
func LeakReport() string {
	leaks.Lock()
	defer leaks.Unlock()

	keys := maps.Keys(leaks.count)
	slices.Sort(keys)

	sb := strings.Builder{}
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("%s: %d\n", k, leaks.count[k]))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
