// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gbytes"
	. "github.com/onsi/gomega/gleak"
)

// fakePing writes an executable shell script with the specified body and
// returns its path.
func fakePing(body string) string {
	GinkgoHelper()
	path := filepath.Join(GinkgoT().TempDir(), "fakeping")
	Expect(os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755)).To(Succeed())
	return path
}

// setenv sets an environment variable for the duration of the current test.
func setenv(name, value string) {
	GinkgoHelper()
	Expect(os.Setenv(name, value)).To(Succeed())
	DeferCleanup(os.Unsetenv, name)
}

// run the root command with the specified args, returning its output and
// error.
func run(args ...string) (*Buffer, error) {
	out := NewBuffer()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(GinkgoWriter)
	return out, cmd.Execute()
}

var _ = Describe("liveping command", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("exits with code 1 on errors", func() {
		oldArgs := os.Args
		oldExit := osExit
		DeferCleanup(func() {
			os.Args = oldArgs
			osExit = oldExit
		})
		exitCode := -1
		osExit = func(code int) { exitCode = code }
		os.Args = []string{"liveping"}
		main()
		Expect(exitCode).To(Equal(1))
	})

	DescribeTable("rejects invalid flags",
		func(errtext string, args ...string) {
			_, err := run(append(args, "localhost")...)
			Expect(err).To(MatchError(ContainSubstring(errtext)))
		},
		Entry("zero width", "--width out of range", "--width", "0"),
		Entry("huge height", "--height out of range", "--height", "10000"),
		Entry("negative deadline", "--deadline must not be negative", "--deadline", "-1s"),
		Entry("short interval", "--interval must be at least 10ms", "--interval", "1ms"),
		Entry("empty command", "--command must not be empty", "--command", ""),
		Entry("bad sequence token", "--seq-token", "--seq-token", "icmp seq"),
		Entry("quiet and verbose", "quiet", "--quiet", "--verbose"),
	)

	DescribeTable("parses durations",
		func(s string, expected time.Duration) {
			Expect(parseDuration(s)).To(Equal(expected))
		},
		Entry("plain seconds", "5", 5*time.Second),
		Entry("zero", "0", time.Duration(0)),
		Entry("duration", "1m30s", 90*time.Second),
		Entry("fractions", "200ms", 200*time.Millisecond),
	)

	It("rejects invalid durations", func() {
		Expect(parseDuration("soon")).Error().To(MatchError(ContainSubstring("invalid duration")))
		_, err := run("-w", "soon", "localhost")
		Expect(err).To(MatchError(ContainSubstring("invalid duration")))
	})

	DescribeTable("passes deadlines in seconds to the ping command",
		func(env string, args ...string) {
			argsfile := filepath.Join(GinkgoT().TempDir(), "args")
			cmd := fakePing(`echo "$*" > ` + argsfile)
			if env != "" {
				setenv("LIVEPING_DEADLINE", env)
			}
			_, err := run(append([]string{"--command", cmd}, append(args, "127.0.0.1")...)...)
			Expect(err).NotTo(HaveOccurred())
			Expect(os.ReadFile(argsfile)).To(Equal([]byte("127.0.0.1 -w 5\n")))
		},
		Entry("plain seconds", "", "-w", "5"),
		Entry("duration", "", "--deadline", "4500ms"),
		Entry("environment", "5"),
	)

	It("requires exactly one host", func() {
		_, err := run()
		Expect(err).To(HaveOccurred())
		_, err = run("foo", "bar")
		Expect(err).To(HaveOccurred())
	})

	It("takes settings from the environment", func() {
		setenv("LIVEPING_HEIGHT", "0")
		_, err := run("localhost")
		Expect(err).To(MatchError(ContainSubstring("--height out of range")))
	})

	It("takes settings from a configuration file", func() {
		cfgname := filepath.Join(GinkgoT().TempDir(), "liveping.yaml")
		Expect(os.WriteFile(cfgname, []byte("width: 5000\n"), 0644)).To(Succeed())
		_, err := run("--config", cfgname, "localhost")
		Expect(err).To(MatchError(ContainSubstring("--width out of range")))
	})

	It("fails on a missing configuration file", func() {
		_, err := run("--config", filepath.Join(GinkgoT().TempDir(), "missing.yaml"), "localhost")
		Expect(err).To(MatchError(ContainSubstring("cannot read configuration")))
	})

	It("fails when the ping command cannot be started", func() {
		_, err := run("--command", filepath.Join(GinkgoT().TempDir(), "nonexisting"), "localhost")
		Expect(err).To(MatchError(ContainSubstring("cannot start probe command")))
	})

	It("charts the replies of the ping command", func() {
		cmd := fakePing(`echo "PING $1 ($1) 56(84) bytes of data."
echo "64 bytes from $1: icmp_req=1 ttl=64 time=1.00 ms"
echo "64 bytes from $1: icmp_req=2 ttl=64 time=2.00 ms"
echo "64 bytes from $1: icmp_req=4 ttl=64 time=4.00 ms"`)
		out, err := run("--command", cmd, "--width", "8", "--height", "10", "127.0.0.1")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Say(`-\*\n---\*\n-------\*\n`))
		Expect(out).To(Say(`127\.0\.0\.1: 3 replies, 1 skipped \(1 missing\), 0 out of order, max 4\.00 ms\n`))
	})

	It("keeps quiet", func() {
		cmd := fakePing(`echo "64 bytes from $1: icmp_req=1 ttl=64 time=1.00 ms"`)
		out, err := run("--command", cmd, "--quiet", "--width", "4", "--height", "4", "127.0.0.1")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Say(`---\*\n`))
		Expect(out).NotTo(Say(`replies`))
	})

	It("accepts additional sequence tokens", func() {
		cmd := fakePing(`echo "64 bytes from $1: icmp_seq=1 ttl=64 time=1.00 ms"
echo "64 bytes from $1: icmp_req=2 ttl=64 time=1.00 ms"`)
		out, err := run("--command", cmd, "--seq-token", "icmp_seq", "127.0.0.1")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Say(`: 2 replies, 0 skipped`))
	})

	It("doesn't chart when the ping command fails", func() {
		cmd := fakePing(`echo "ping: unknown host $1" >&2
exit 2`)
		out, err := run("--command", cmd, "nonexisting.invalid")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Say(`: 0 replies`))
	})

})
