// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command gocpp is a standalone C-style preprocessor: it reads a
// source file (or stdin), expands macros and conditional-compilation
// directives per spec.md, and writes the result to stdout. Flags
// follow the CLI surface in spec.md §6:
//
//	gocpp [-I includedir]... [-D name[=value]]... [file]
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rofl0r/gocpp/internal/cpp/cliargs"
	"github.com/rofl0r/gocpp/internal/cpp/diag"
	"github.com/rofl0r/gocpp/internal/cpp/directive"
	"github.com/rofl0r/gocpp/internal/cpp/include"
	"github.com/rofl0r/gocpp/internal/cpp/macro"
	"github.com/rofl0r/gocpp/internal/cpp/session"
)

func main() {
	var includeDirs cliargs.StringList
	var defines cliargs.StringList
	flag.Var(&includeDirs, "I", "Add a directory to the #include search path (repeatable; glob patterns are expanded)")
	flag.Var(&defines, "D", "Pre-define a macro as NAME or NAME=VALUE (repeatable)")
	flag.Parse()

	if flag.NArg() > 1 {
		flag.Usage()
		log.Fatalf("gocpp accepts at most one input file, got %d arguments", flag.NArg())
	}

	defs, err := cliargs.ParseDefines(defines.Values)
	if err != nil {
		log.Fatalf("gocpp: %v", err)
	}

	searchPath, err := include.NewSearchPath(includeDirs.Values)
	if err != nil {
		log.Fatalf("gocpp: %v", err)
	}

	macros := macro.NewTable()
	for _, d := range defs {
		macros.DefineObjectLike(d.Name, d.Value)
	}

	inputPath, cleanup, err := resolveInput(flag.Arg(0))
	if err != nil {
		log.Fatalf("gocpp: %v", err)
	}
	defer cleanup()

	sess := session.New(macros, searchPath, os.Stdout)
	driver := directive.New(sess)
	if err := driver.ProcessFile(inputPath); err != nil {
		printDiagnostic(err)
		os.Exit(1)
	}
}

// resolveInput returns the path gocpp should open: the positional
// file argument if one was given and is not "-", or a temporary copy
// of stdin otherwise. gocpp's core driver always opens its input by
// path (so #include can resolve sibling files relative to it), so
// stdin input is staged to a temp file rather than threaded through
// as an io.Reader.
func resolveInput(arg string) (path string, cleanup func(), err error) {
	if arg != "" && arg != "-" {
		return arg, func() {}, nil
	}
	f, err := os.CreateTemp("", "gocpp-stdin-*")
	if err != nil {
		return "", nil, fmt.Errorf("staging stdin: %w", err)
	}
	if _, err := f.ReadFrom(os.Stdin); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("reading stdin: %w", err)
	}
	name := f.Name()
	f.Close()
	return name, func() { os.Remove(name) }, nil
}

// printDiagnostic writes err to stderr in the wire format spec.md §6
// mandates when it is a *diag.Diagnostic, or as a plain line
// otherwise (tokenizer/include/argument errors that never acquired a
// source location).
func printDiagnostic(err error) {
	var d *diag.Diagnostic
	if errors.As(err, &d) {
		fmt.Fprintln(os.Stderr, d.Format())
		return
	}
	fmt.Fprintln(os.Stderr, err.Error())
}
