// Command ckmsdemo is manual-testing scaffolding for the ckms package, not a
// supported CLI surface. It builds a ckms.Summary from a synthetic or
// stdin-fed stream and prints its count, sum, last, and a handful of
// quantiles at the end.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	log "github.com/cihub/seelog"

	"github.com/cmsd2/quantiles/ckms"
	"github.com/cmsd2/quantiles/internal/tracelog"
)

// opts are the command-line options.
var opts struct {
	epsilon   float64
	fromStdin bool
	count     int
	logLevel  string
}

// Version is filled in at build time; empty in local/dev builds.
var Version string

// die logs a fatal error and exits immediately.
func die(format string, args ...interface{}) {
	log.Errorf(format, args...)
	log.Flush()
	os.Exit(1)
}

// handleSignal closes exit on SIGINT/SIGTERM so a stream being fed in can
// be interrupted cleanly.
func handleSignal(exit chan struct{}) {
	sigChan := make(chan os.Signal, 10)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	for signo := range sigChan {
		switch signo {
		case syscall.SIGINT, syscall.SIGTERM:
			log.Infof("received signal %v, stopping stream", signo)
			close(exit)
			return
		default:
			log.Warnf("unhandled signal %v", signo)
		}
	}
}

func main() {
	if err := tracelog.Configure("info"); err != nil {
		die("cannot configure logger: %v", err)
	}
	defer tracelog.Flush()

	flag.Float64Var(&opts.epsilon, "epsilon", 0.001, "approximation error (0,1)")
	flag.BoolVar(&opts.fromStdin, "stdin", false, "read one float64 per line from stdin instead of generating synthetic data")
	flag.IntVar(&opts.count, "count", 1000, "number of synthetic values to insert when -stdin is not set")
	flag.StringVar(&opts.logLevel, "loglevel", "info", "seelog minimum level")
	flag.Parse()

	if opts.logLevel != "info" {
		if err := tracelog.Configure(opts.logLevel); err != nil {
			die("cannot configure logger: %v", err)
		}
	}

	if Version != "" {
		log.Infof("ckmsdemo %s", Version)
	}

	exit := make(chan struct{})
	go handleSignal(exit)

	summary := ckms.New[float64](opts.epsilon)

	if opts.fromStdin {
		readStdin(summary, exit)
	} else {
		readSynthetic(summary, exit)
	}

	report(summary)
}

// readSynthetic feeds a uniformly random stream into summary, stopping
// early if exit is closed mid-stream.
func readSynthetic(summary *ckms.Summary[float64], exit chan struct{}) {
	rand.Seed(time.Now().UTC().UnixNano())
	log.Infof("inserting %d synthetic values with epsilon=%v", opts.count, opts.epsilon)

	for i := 0; i < opts.count; i++ {
		select {
		case <-exit:
			log.Warnf("stopped early after %d values", i)
			return
		default:
		}
		summary.Insert(rand.Float64() * float64(opts.count))
	}
}

// readStdin feeds one float64 per line from stdin into summary, stopping
// early if exit is closed mid-stream.
func readStdin(summary *ckms.Summary[float64], exit chan struct{}) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-exit:
			log.Warnf("stopped early while reading stdin")
			return
		default:
		}
		v, err := strconv.ParseFloat(scanner.Text(), 64)
		if err != nil {
			log.Warnf("skipping unparseable line %q: %v", scanner.Text(), err)
			continue
		}
		summary.Insert(v)
	}
	if err := scanner.Err(); err != nil {
		die("error reading stdin: %v", err)
	}
}

// report prints the summary's aggregates and a fixed set of quantiles.
func report(summary *ckms.Summary[float64]) {
	count := summary.Count()
	fmt.Printf("count: %d\n", count)

	if sum, ok := summary.Sum(); ok {
		fmt.Printf("sum: %v\n", sum)
	}
	if last, ok := summary.Last(); ok {
		fmt.Printf("last: %v\n", last)
	}

	for _, phi := range []float64{0.00, 0.05, 0.50, 0.95, 0.99, 1.00} {
		q, ok := summary.Query(phi)
		if !ok {
			fmt.Printf("query(%.2f): empty\n", phi)
			continue
		}
		fmt.Printf("query(%.2f): rank=%d value=%v\n", phi, q.Rank, q.Value)
	}
}
