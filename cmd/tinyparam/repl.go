package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/teddyxiong53/tinyparam"
)

// replCommands are the command names offered by tab completion.
var replCommands = []string{"get", "set", "keys", "help", "exit", "quit"}

// REPL is the interactive command loop over one open store.
type REPL struct {
	store       *tinyparam.Store
	historyFile string
	liner       *liner.State
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	// Set up liner for readline-style input
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	// Load history
	if r.historyFile != "" {
		if f, err := os.Open(r.historyFile); err == nil {
			r.liner.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Printf("tinyparam - parameter store CLI (%s)\n", r.store.Path())
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt("tinyparam> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Add to history
		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")

			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "get":
			r.cmdGet(args)

		case "set":
			r.cmdSet(args)

		case "keys", "ls", "list":
			r.cmdKeys()

		case "clear", "cls":
			fmt.Print("\033[H\033[2J")

		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()

	return nil
}

// saveHistory persists command history to disk.
func (r *REPL) saveHistory() {
	if r.historyFile == "" {
		return
	}

	if f, err := os.Create(r.historyFile); err == nil {
		r.liner.WriteHistory(f)
		f.Close()
	}
}

// completer provides tab completion for commands and parameter keys.
func (r *REPL) completer(line string) []string {
	fields := strings.Fields(line)

	// Completing the command itself.
	if len(fields) <= 1 && !strings.HasSuffix(line, " ") {
		var out []string

		for _, cmd := range replCommands {
			if strings.HasPrefix(cmd, strings.ToLower(line)) {
				out = append(out, cmd)
			}
		}

		return out
	}

	// Completing a key argument for get/set.
	cmd := strings.ToLower(fields[0])
	if cmd != "get" && cmd != "set" {
		return nil
	}

	prefix := ""
	if len(fields) > 1 {
		prefix = fields[1]
	}

	keys, err := r.store.Keys()
	if err != nil {
		return nil
	}

	var out []string

	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			out = append(out, cmd+" "+key)
		}
	}

	return out
}

func (r *REPL) printHelp() {
	fmt.Print(`Commands:
  get <key>            Print a parameter value
  set <key> <value>    Overwrite a parameter value
  keys                 List all parameter paths
  clear                Clear the screen
  help                 Show this help
  exit / quit / q      Exit
`)
}

func (r *REPL) cmdGet(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: get <key>")

		return
	}

	value, err := r.store.Get(args[0])
	if err != nil {
		fmt.Printf("error: %v\n", err)

		return
	}

	fmt.Println(value)
}

func (r *REPL) cmdSet(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: set <key> <value>")

		return
	}

	// Values may contain spaces; everything after the key is the value.
	value := strings.Join(args[1:], " ")

	if err := r.store.Set(args[0], value); err != nil {
		fmt.Printf("error: %v\n", err)

		return
	}

	fmt.Printf("%s = %s\n", args[0], value)
}

func (r *REPL) cmdKeys() {
	keys, err := r.store.Keys()
	if err != nil {
		fmt.Printf("error: %v\n", err)

		return
	}

	for _, key := range keys {
		fmt.Println(key)
	}
}
