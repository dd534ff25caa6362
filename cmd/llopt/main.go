// Command llopt runs the local SSA optimization pass over an LLVM IR
// module: dead-code elimination, algebraic simplification,
// dominator-aware CSE, and redundant-memory-access elimination.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dshills/llopt/internal/irio"
	"github.com/dshills/llopt/internal/ssaopt"
)

func main() {
	var mem2reg bool
	var noCSE bool
	var verbose bool
	var noVerify bool
	flag.BoolVar(&mem2reg, "mem2reg", false, "input already promoted to SSA registers (mem2reg pre-pass is out of scope for this tool)")
	flag.BoolVar(&noCSE, "no-cse", false, "disable the optimization; pass IR through unchanged")
	flag.BoolVar(&verbose, "verbose", false, "print collected statistics to stderr")
	flag.BoolVar(&noVerify, "no", false, "skip post-pass IR verification")
	flag.Parse()

	args := flag.Args()
	input := ""
	output := "out.bc"
	if len(args) >= 1 {
		input = args[0]
	}
	if len(args) >= 2 {
		output = args[1]
	}
	if input == "" {
		fmt.Fprintln(os.Stderr, "usage: llopt [flags] <input> [output]")
		os.Exit(1)
	}

	module, err := irio.ReadModule(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "llopt: %v\n", err)
		os.Exit(1)
	}

	stats := &ssaopt.Stats{}
	if !noCSE {
		ssaopt.Run(module, stats)
	} else {
		ssaopt.CountModule(module, stats)
	}

	if !noVerify {
		if err := irio.Verify(module); err != nil {
			fmt.Fprintf(os.Stderr, "llopt: output failed verification: %v\n", err)
			os.Exit(2)
		}
	}

	if err := irio.WriteModule(output, module); err != nil {
		fmt.Fprintf(os.Stderr, "llopt: %v\n", err)
		os.Exit(1)
	}
	if err := irio.WriteStats(output+".stats", stats); err != nil {
		fmt.Fprintf(os.Stderr, "llopt: %v\n", err)
		os.Exit(1)
	}

	if verbose {
		for _, row := range stats.Rows() {
			fmt.Fprintf(os.Stderr, "%s,%s\n", row[0], row[1])
		}
	}
}
