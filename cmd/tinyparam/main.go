// tinyparam is a CLI for inspecting and editing parameter files.
//
// Usage:
//
//	tinyparam get <file> <key>            Print one parameter value
//	tinyparam set <file> <key> <value>    Overwrite one parameter value
//	tinyparam keys <file>                 List all parameter paths
//	tinyparam init [opts] <file>          Create a starter parameter file
//	tinyparam repl [file]                 Interactive shell
//
// Options for 'init':
//
//	-f, --force    Overwrite an existing file
//
// A JSONC config file at $XDG_CONFIG_HOME/tinyparam/config.json (fallback
// ~/.config/tinyparam/config.json) can set the default file for 'repl' and
// the history file location.
package main

import (
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/teddyxiong53/tinyparam"
	"github.com/teddyxiong53/tinyparam/internal/fs"
)

// seedParams is the starter document written by 'tinyparam init'.
const seedParams = `{
    "system": {
        "audio": {
            "volume": "50",
            "mute": "false"
        },
        "display": {
            "brightness": "75"
        }
    }
}
`

var errUsage = errors.New("usage error")

func main() {
	err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)

		if errors.Is(err, errUsage) {
			printUsage()
		}

		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage:
  tinyparam get <file> <key>            Print one parameter value
  tinyparam set <file> <key> <value>    Overwrite one parameter value
  tinyparam keys <file>                 List all parameter paths
  tinyparam init [opts] <file>          Create a starter parameter file
  tinyparam repl [file]                 Interactive shell
`)
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "get":
		return runGet(rest)
	case "set":
		return runSet(rest)
	case "keys":
		return runKeys(rest)
	case "init":
		return runInit(rest)
	case "repl":
		return runREPL(rest)
	case "help", "--help", "-h":
		printUsage()

		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// withStore opens path, runs op, and closes the store afterwards.
func withStore(path string, op func(*tinyparam.Store) error) error {
	store, err := tinyparam.Open(path)
	if err != nil {
		return err
	}

	defer func() { _ = store.Close() }()

	return op(store)
}

func runGet(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: get <file> <key>", errUsage)
	}

	return withStore(args[0], func(store *tinyparam.Store) error {
		value, err := store.Get(args[1])
		if err != nil {
			return err
		}

		fmt.Println(value)

		return nil
	})
}

func runSet(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("%w: set <file> <key> <value>", errUsage)
	}

	return withStore(args[0], func(store *tinyparam.Store) error {
		return store.Set(args[1], args[2])
	})
}

func runKeys(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: keys <file>", errUsage)
	}

	return withStore(args[0], func(store *tinyparam.Store) error {
		keys, err := store.Keys()
		if err != nil {
			return err
		}

		for _, key := range keys {
			fmt.Println(key)
		}

		return nil
	})
}

func runInit(args []string) error {
	flags := flag.NewFlagSet("init", flag.ContinueOnError)
	force := flags.BoolP("force", "f", false, "overwrite an existing file")

	if err := flags.Parse(args); err != nil {
		return err
	}

	if flags.NArg() != 1 {
		return fmt.Errorf("%w: init [opts] <file>", errUsage)
	}

	path := flags.Arg(0)
	fsys := fs.NewReal()

	if !*force {
		exists, err := fsys.Exists(path)
		if err != nil {
			return err
		}

		if exists {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	if err := fsys.WriteFileAtomic(path, []byte(seedParams)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Printf("created %s\n", path)

	return nil
}

func runREPL(args []string) error {
	flags := flag.NewFlagSet("repl", flag.ContinueOnError)
	configPath := flags.String("config", "", "explicit config file")

	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := LoadConfig(*configPath, os.Environ())
	if err != nil {
		return err
	}

	path := cfg.File
	if flags.NArg() > 0 {
		path = flags.Arg(0)
	}

	if path == "" {
		return fmt.Errorf("%w: repl [file] (or set \"file\" in the config)", errUsage)
	}

	store, err := tinyparam.Open(path)
	if err != nil {
		return err
	}

	defer func() { _ = store.Close() }()

	repl := &REPL{store: store, historyFile: cfg.HistoryFile}

	return repl.Run()
}
