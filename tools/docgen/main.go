// Package main generates CLI reference documentation from the auction-proxy
// command tree.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra/doc"

	"github.com/donaldgifford/auction-proxy/cmd/auction-proxy/cmd"
)

func main() {
	output := flag.String("output", "docs/cli", "output directory for generated markdown")
	manPages := flag.Bool("man", false, "also generate man pages into <output>/man")
	flag.Parse()

	if err := generate(*output, *manPages); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("CLI docs generated in %s/\n", *output)
}

func generate(output string, manPages bool) error {
	if err := os.MkdirAll(output, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	root := cmd.Root()
	root.DisableAutoGenTag = true

	if err := doc.GenMarkdownTree(root, output); err != nil {
		return fmt.Errorf("generating markdown: %w", err)
	}

	if !manPages {
		return nil
	}
	manDir := filepath.Join(output, "man")
	if err := os.MkdirAll(manDir, 0o750); err != nil {
		return fmt.Errorf("creating man directory: %w", err)
	}
	header := &doc.GenManHeader{Title: "AUCTION-PROXY", Section: "1"}
	if err := doc.GenManTree(root, header, manDir); err != nil {
		return fmt.Errorf("generating man pages: %w", err)
	}
	return nil
}
