// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import "github.com/muesli/termenv"

// tipColor marks the tips of the chart bars.
var tipColor = termenv.ANSIBrightRed
