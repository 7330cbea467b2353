// Package repl provides the interactive query shell over a cleaned
// table: type SQL, get an aligned result table back.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sg243/retailql/internal/domain/data"
	"github.com/sg243/retailql/internal/engine"
	"github.com/sg243/retailql/internal/executor"
	"github.com/sg243/retailql/internal/normalizer"
)

// Start runs the interactive loop until exit or EOF.
func Start(eng *engine.Engine, table data.Table, actions []normalizer.Action) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("retailql: query the cleaned upload as table \"data\"")
	fmt.Println("Type 'exit' or '\\q' to quit, '\\cols' to list columns.")

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		if line == "exit" || line == "\\q" {
			break
		}

		if line == "\\actions" {
			for _, a := range actions {
				fmt.Println(a)
			}
			continue
		}

		if line == "\\cols" {
			for _, c := range table.Columns {
				fmt.Printf("  - %s\n", c)
			}
			continue
		}

		if rest, ok := strings.CutPrefix(line, "\\plan "); ok {
			p, err := eng.Plan(rest, table)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			fmt.Println(p)
			continue
		}

		result, err := eng.Execute(line, table)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		PrintResult(os.Stdout, result)
	}
}

// PrintResult renders the result as an aligned text table followed by
// the row-count message.
func PrintResult(w io.Writer, res *executor.Result) {
	if len(res.Columns) > 0 {
		renderTable(w, res.Columns, res.Rows)
	}
	if res.Message != "" {
		fmt.Fprintln(w, res.Message)
	}
}
