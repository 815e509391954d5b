// Command pljit-repl is a minimal demonstration front-end around the
// pljit registry: it compiles a single ".pl" source file, registers it
// as one function, and either evaluates it once against a fixed
// argument vector or reports its compilation/runtime diagnostic. It
// performs ordinary process I/O (flags, files, stdout) but none of
// that I/O is part of the PL language itself.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/orizon-lang/pljit"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show engine version information")
		loadFile    = flag.String("load", "", "path to a .pl source file to compile and run")
		argsFlag    = flag.String("args", "", "comma-separated integer arguments to PARAM")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s --load FILE [--args 1,2,3]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Compiles and evaluates a single PL function once.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("pljit-repl, engine version %s\n", pljit.EngineVersion)
		os.Exit(0)
	}

	if *loadFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	text, err := os.ReadFile(*loadFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pljit-repl: %v\n", err)
		os.Exit(1)
	}

	args, err := parseArgs(*argsFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pljit-repl: %v\n", err)
		os.Exit(1)
	}

	reg := pljit.NewRegistry(pljit.Config{})

	fn, err := reg.RegisterFunction(*loadFile, string(text))
	if err != nil {
		fmt.Fprintf(os.Stderr, "pljit-repl: %v\n", err)
		os.Exit(1)
	}

	result, diagErr := fn.Evaluate(args)
	if diagErr != nil {
		diagErr.Render(os.Stderr)
		os.Exit(1)
	}

	fmt.Println(result)
}

func parseArgs(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	args := make([]int64, len(parts))

	for i, part := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid argument %q: %w", part, err)
		}

		args[i] = v
	}

	return args, nil
}
