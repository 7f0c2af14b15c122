// Command msgfit reads a card message from stdin, cleans it the way the
// editor does and reports whether it fits on the card.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"card-editor/internal/message"
)

func main() {
	quiet := flag.Bool("q", false, "Only print the cleaned message")
	flag.Parse()

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read message: %v\n", err)
		os.Exit(1)
	}

	in := string(data)
	out := message.Validate(in)
	fmt.Print(out)
	if *quiet {
		return
	}

	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "Lines: %.2f of %d\n", message.TotalLines(out), message.MaxLines)
	if out != in {
		fmt.Fprintf(os.Stderr, "Changed: %d -> %d characters\n", len([]rune(in)), len([]rune(out)))
	}
}
