package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/zephyrtronium/lexcalc"
)

func main() {
	log.SetFlags(0)
	var (
		inname, verb string
		with         [][2]string
		echo         bool
		verbose      bool
		linker       lexcalc.Linker
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "%g", "result formatting string")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.BoolVar(&linker.InsertVariableValuesDirectly, "inline-vars", false, "link variables by value instead of by slot")
	flag.BoolVar(&linker.InsertFunctionTreesDirectly, "inline-funcs", false, "link calls by substituting function bodies")
	flag.BoolVar(&echo, "echo", false, "print linked expressions")
	flag.BoolVar(&verbose, "v", false, "log definitions and evaluations")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	ctx := lexcalc.NewContext(lexcalc.Library(lexcalc.StandardLibrary()))
	s := lexcalc.NewSession(
		lexcalc.WithContext(ctx),
		lexcalc.WithLinker(linker),
		lexcalc.WithLogger(logger),
	)
	for _, d := range with {
		if _, err := s.Exec(d[0] + " = " + d[1]); err != nil {
			log.Fatal(errors.Wrapf(err, "setting %s", d[0]))
		}
	}

	r := repl{s: s, out: os.Stdout, verb: verb + "\n", echo: echo}
	f, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatal(err)
	}
	for _, arg := range flag.Args() {
		r.line(arg)
	}
	if f == nil {
		return
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		r.line(sc.Text())
	}
	if err := sc.Err(); err != nil {
		log.Fatal(err)
	}
}

func infile(inname string, std bool) (*os.File, error) {
	switch {
	case inname != "" && inname != "-":
		return os.Open(inname)
	case inname == "-", std:
		return os.Stdin, nil
	}
	return nil, nil
}
