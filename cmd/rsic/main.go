/*
Rsic compiles a single Rust-like source file through the lexer, canonical
LR(1) parser, and semantic analyzer in package rustlite, and prints the
results to stdout.

Usage:

	rsic [flags] [file]

The flags are:

	-f, --file FILE
		The source file to compile. May also be given as a bare positional
		argument; the flag takes precedence if both are given.

	--tables
		Also print the ACTION/GOTO table the parser was driven from.

	-c, --config FILE
		Load defaults from the given TOML config file instead of the
		default "rsic.toml" in the current directory. Ignored if no such
		file exists, whether or not it was given explicitly.

Diagnostics and a non-zero exit status are produced for lex, parse, or
semantic errors; semantic errors do not prevent the token list, parse tree,
and quadruple program from being printed, since the analyzer always runs
to completion (see package rustlite's Result).
*/
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	rustlite "github.com/ashgrove/rustlite"
)

const (
	// ExitSuccess indicates a clean compile with no semantic diagnostics.
	ExitSuccess = iota

	// ExitDiagnostics indicates a clean lex/parse but one or more semantic
	// diagnostics were reported.
	ExitDiagnostics

	// ExitCompileError indicates lexing or parsing itself failed.
	ExitCompileError

	// ExitUsageError indicates bad flags or a missing/unreadable source
	// file.
	ExitUsageError
)

// fileConfig is the shape of an optional rsic.toml: default output
// toggles and a destination for the table dump, the way the teacher's
// tqw/game config layers give TOML-decoded defaults a CLI can still
// override with explicit flags.
type fileConfig struct {
	Tables    bool   `toml:"tables"`
	TablesOut string `toml:"tables_out"`
}

var (
	returnCode int = ExitSuccess

	flagFile   *string = pflag.StringP("file", "f", "", "Source file to compile")
	flagTables *bool   = pflag.Bool("tables", false, "Also print the ACTION/GOTO table")
	flagConfig *string = pflag.StringP("config", "c", "rsic.toml", "TOML config file with default output toggles")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	cfg := loadConfig(*flagConfig)

	path := *flagFile
	if path == "" && pflag.NArg() > 0 {
		path = pflag.Arg(0)
	}
	if path == "" {
		log.Println("ERROR: no source file given (use -f or a positional argument)")
		returnCode = ExitUsageError
		return
	}

	src, err := os.ReadFile(path)
	if err != nil {
		log.Printf("ERROR: reading %s: %v\n", path, err)
		returnCode = ExitUsageError
		return
	}

	showTables := cfg.Tables || *flagTables

	res, err := rustlite.Compile(string(src))
	if err != nil {
		log.Printf("ERROR: %v\n", err)
		returnCode = ExitCompileError
		return
	}

	fmt.Println("== tokens ==")
	for _, tok := range res.Tokens {
		fmt.Println(tok.String())
	}

	fmt.Println("\n== parse tree ==")
	fmt.Println(res.Tree.String())

	if showTables {
		fmt.Println("== ACTION/GOTO table ==")
		dest := os.Stdout
		if cfg.TablesOut != "" {
			f, err := os.Create(cfg.TablesOut)
			if err != nil {
				log.Printf("ERROR: writing table dump to %s: %v\n", cfg.TablesOut, err)
			} else {
				defer f.Close()
				dest = f
			}
		}
		fmt.Fprintln(dest, res.Table.String())
	}

	fmt.Println("\n== quadruples ==")
	for i, q := range res.Quads {
		fmt.Printf("%4d: %s\n", i, q.String())
	}

	if len(res.Diagnostics) > 0 {
		fmt.Println("\n== semantic diagnostics ==")
		for _, d := range res.Diagnostics {
			fmt.Println(d.Error())
		}
		returnCode = ExitDiagnostics
	}
}

// loadConfig reads path as TOML into a fileConfig, returning a zero-value
// config (all defaults off, no table destination) if path doesn't exist —
// the library and this CLI both work with zero configuration.
func loadConfig(path string) fileConfig {
	var cfg fileConfig
	if path == "" {
		return cfg
	}
	if _, err := os.Stat(path); err != nil {
		return cfg
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		log.Printf("WARNING: ignoring %s: %v\n", path, err)
		return fileConfig{}
	}
	return cfg
}
