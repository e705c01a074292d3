// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/siemens/liveping/reply"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/success"
)

// fakeProbe writes an executable shell script with the specified body and
// returns its path.
func fakeProbe(body string) string {
	GinkgoHelper()
	path := filepath.Join(GinkgoT().TempDir(), "fakeping")
	Expect(os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755)).To(Succeed())
	return path
}

var _ = Describe("probes", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("builds command lines", func() {
		Expect(newOptions(nil).args("localhost")).To(Equal([]string{"localhost"}))
		Expect(newOptions([]Option{
			WithCount(5),
			WithDeadline(1500 * time.Millisecond),
		}).args("example.org")).To(Equal([]string{"example.org", "-c", "5", "-w", "2"}))
	})

	It("defaults options", func() {
		o := newOptions([]Option{WithCommand(""), WithInterval(0)})
		Expect(o.command).To(Equal(DefaultCommand))
		Expect(o.interval).To(Equal(time.Second))
		Expect(o.unprivileged).To(BeFalse())
		Expect(newOptions([]Option{AsUnprivileged()}).unprivileged).To(BeTrue())
	})

	Context("external command", func() {

		It("streams the command's output", NodeTimeout(10*time.Second), func(ctx context.Context) {
			cmd := fakeProbe(`echo "PING $*"
echo "64 bytes from 127.0.0.1: icmp_req=1 ttl=64 time=0.045 ms"
echo "64 bytes from 127.0.0.1: icmp_req=2 ttl=64 time=0.050 ms"`)
			p := Successful(Exec(ctx, "localhost",
				WithCommand(cmd), WithCount(2), WithDeadline(time.Second)))
			sc := reply.NewScanner(p.Output())
			seqs := []int{}
			for sc.Scan() {
				seqs = append(seqs, sc.Reply().Seq)
			}
			Expect(sc.Err()).NotTo(HaveOccurred())
			Expect(sc.Skipped()).To(Equal(1))
			Expect(seqs).To(Equal([]int{1, 2}))
			Expect(p.Wait()).To(Succeed())
		})

		It("passes the host and limits", NodeTimeout(10*time.Second), func(ctx context.Context) {
			cmd := fakeProbe(`echo "$*"`)
			p := Successful(Exec(ctx, "example.org",
				WithCommand(cmd), WithCount(3), WithDeadline(2500*time.Millisecond)))
			out := Successful(io.ReadAll(p.Output()))
			Expect(string(out)).To(Equal("example.org -c 3 -w 3\n"))
			Expect(p.Wait()).To(Succeed())
		})

		It("reports failing commands", NodeTimeout(10*time.Second), func(ctx context.Context) {
			cmd := fakeProbe(`echo "ping: unknown host" >&2
exit 2`)
			p := Successful(Exec(ctx, "rottenhost.", WithCommand(cmd), WithStderr(GinkgoWriter)))
			Expect(io.ReadAll(p.Output())).To(BeEmpty())
			Expect(p.Wait()).To(MatchError(ContainSubstring("failed")))
		})

		It("reports missing commands", func(ctx context.Context) {
			_, err := Exec(ctx, "localhost", WithCommand("/nonexisting/ping"))
			Expect(err).To(MatchError(ContainSubstring("cannot start probe command")))
		})

		It("kills the command when cancelled", NodeTimeout(10*time.Second), func(ctx context.Context) {
			cmd := fakeProbe(`echo "64 bytes from 127.0.0.1: icmp_req=1 ttl=64 time=0.045 ms"
exec sleep 30`)
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			p := Successful(Exec(ctx, "localhost", WithCommand(cmd)))
			sc := reply.NewScanner(p.Output())
			Expect(sc.Scan()).To(BeTrue())
			cancel()
			Expect(sc.Scan()).To(BeFalse())
			Expect(p.Wait()).To(Succeed())
		})

	})

	Context("native pinger", func() {

		BeforeEach(func() {
			if os.Getuid() != 0 {
				Skip("needs root")
			}
		})

		It("pings", NodeTimeout(30*time.Second), func(ctx context.Context) {
			p := Successful(Native(ctx, "127.0.0.1",
				WithCount(3), WithInterval(100*time.Millisecond), WithDeadline(5*time.Second)))
			sc := reply.NewScanner(p.Output())
			seqs := []int{}
			for sc.Scan() {
				Expect(sc.Reply().Address).To(Equal("127.0.0.1"))
				seqs = append(seqs, sc.Reply().Seq)
			}
			Expect(sc.Err()).NotTo(HaveOccurred())
			Expect(seqs).To(Equal([]int{0, 1, 2}))
			Expect(sc.Skipped()).To(BeNumerically(">=", 3)) // banner and summary
			Expect(p.Wait()).To(Succeed())
		})

		It("stops when cancelled", NodeTimeout(30*time.Second), func(ctx context.Context) {
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			p := Successful(Native(ctx, "127.0.0.1", WithInterval(100*time.Millisecond)))
			sc := reply.NewScanner(p.Output())
			Expect(sc.Scan()).To(BeTrue())
			cancel()
			for sc.Scan() {
			}
			Expect(p.Wait()).To(Succeed())
		})

	})

})
