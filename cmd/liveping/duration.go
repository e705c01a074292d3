// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// parseDuration parses either a plain number of seconds, as ping takes its
// deadline, or a Go duration such as "1m30s".
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q, expecting seconds or a duration such as 1m30s", s)
	}
	return d, nil
}

// durationFlag is a duration flag value that additionally accepts plain
// seconds.
type durationFlag time.Duration

func newDurationFlag(d time.Duration) *durationFlag {
	f := durationFlag(d)
	return &f
}

func (f *durationFlag) String() string { return time.Duration(*f).String() }

func (f *durationFlag) Set(s string) error {
	d, err := parseDuration(s)
	if err != nil {
		return err
	}
	*f = durationFlag(d)
	return nil
}

func (f *durationFlag) Type() string { return "duration" }

// durationHook decodes durations from configuration files and environment
// variables the same way as from flags.
func durationHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(time.Duration(0)) {
		return data, nil
	}
	return parseDuration(data.(string))
}

// decodeHook is viper's default decode hook, with durations also accepting
// plain seconds.
var decodeHook = mapstructure.ComposeDecodeHookFunc(
	durationHook,
	mapstructure.StringToSliceHookFunc(","),
)
