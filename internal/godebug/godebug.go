// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package godebug parses the TINYFIBERDEBUG environment variable.
//
// The variable uses the same syntax as GODEBUG: a comma-separated list of
// name=value pairs. Unknown names and malformed values are ignored.
//
//	TINYFIBERDEBUG=stackpages=16,schedtrace=1
package godebug

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// EnvVar is the name of the environment variable read by Get.
const EnvVar = "TINYFIBERDEBUG"

// Settings holds the parsed debug variables.
type Settings struct {
	// StackPages is the default number of usable pages per fiber stack.
	StackPages int
	// GuardPages is the number of inaccessible pages below each stack.
	GuardPages int
	// SchedTrace enables scheduler debug logging when non-zero.
	SchedTrace int
}

// Defaults returns the settings used when TINYFIBERDEBUG is empty.
func Defaults() Settings {
	return Settings{
		StackPages: 8,
		GuardPages: 1,
	}
}

// Parse parses a TINYFIBERDEBUG value on top of Defaults.
func Parse(s string) Settings {
	set := Defaults()
	dbgvars := []struct {
		name  string
		value *int
		min   int
	}{
		{"stackpages", &set.StackPages, 1},
		{"guardpages", &set.GuardPages, 1},
		{"schedtrace", &set.SchedTrace, 0},
	}

	for p := s; p != ""; {
		field := ""
		i := strings.IndexByte(p, ',')
		if i < 0 {
			field, p = p, ""
		} else {
			field, p = p[:i], p[i+1:]
		}
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			continue
		}
		key = strings.TrimSpace(key)
		for _, v := range dbgvars {
			if v.name == key && n >= v.min {
				*v.value = n
			}
		}
	}
	return set
}

// Get returns the settings of the current process. The environment is read
// once, on first use.
var Get = sync.OnceValue(func() Settings {
	return Parse(os.Getenv(EnvVar))
})
