// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types_test

import (
	"github.com/siemens/liveping/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("information model", func() {

	It("renders replies like ping does", func() {
		Expect(types.Reply{
			Size:    64,
			Address: "127.0.0.1",
			Seq:     3,
			TTL:     64,
			RTT:     0.045,
		}.String()).To(Equal("64 bytes from 127.0.0.1: icmp_req=3 ttl=64 time=0.045 ms"))
	})

	DescribeTable("formatting round-trip times",
		func(ms float64, expected string) {
			Expect(types.FormatRTT(ms)).To(Equal(expected))
		},
		Entry("zero", 0.0, "0.000"),
		Entry("sub-millisecond", 0.0451, "0.045"),
		Entry("milliseconds", 1.234, "1.23"),
		Entry("tens of milliseconds", 12.345, "12.3"),
		Entry("hundreds of milliseconds", 123.4, "123"),
	)

	It("stringifies event kinds", func() {
		Expect(types.NoEvent.String()).To(Equal("none"))
		Expect(types.Skipped.String()).To(Equal("skipped"))
		Expect(types.Reordered.String()).To(Equal("reordered"))
		Expect(types.Rescaled.String()).To(Equal("rescaled"))
		Expect(types.Rendered.String()).To(Equal("rendered"))
		Expect(types.EventKind(42).String()).To(Equal("EventKind(42)"))
	})

	It("tells anomalies from other events", func() {
		Expect(types.Skipped.IsAnomaly()).To(BeTrue())
		Expect(types.Reordered.IsAnomaly()).To(BeTrue())
		Expect(types.NoEvent.IsAnomaly()).To(BeFalse())
		Expect(types.Rescaled.IsAnomaly()).To(BeFalse())
	})

	It("describes events", func() {
		Expect(types.Event{Kind: types.Skipped, Observed: 5, Expected: 2}.String()).To(
			Equal("skipped 3 reply(s): got seq 5, expected 2"))
		Expect(types.Event{Kind: types.Reordered, Observed: 1, Expected: 2}.String()).To(
			Equal("out of order reply: got seq 1, expected 2"))
		Expect(types.Event{Kind: types.Rescaled, Value: 12.5}.String()).To(ContainSubstring("12.5"))
	})

	It("reports through functions and discards", func() {
		var got []types.Event
		r := types.ReporterFunc(func(ev types.Event) { got = append(got, ev) })
		r.Report(types.Event{Kind: types.Skipped})
		Expect(got).To(ConsistOf(HaveField("Kind", types.Skipped)))
		Expect(func() { types.Discard.Report(types.Event{Kind: types.Reordered}) }).NotTo(Panic())
		Expect(func() { types.LogReporter.Report(types.Event{Kind: types.Rendered}) }).NotTo(Panic())
	})

})
