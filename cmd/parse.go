package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledgerline/ledgerline/parser"
	"github.com/ledgerline/ledgerline/pdftext"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse statement(s) into categorized transactions",
	Long: `Parses a statement file, or every statement in a folder, and
prints the categorized transactions as JSON. PDF files have their text
extracted first; anything else is read as plain text.`,
	Run: runParse,
}

func runParse(cmd *cobra.Command, args []string) {
	target := viper.GetString("target")

	p, err := buildParser()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if info, err := os.Stat(target); err == nil && info.IsDir() {
		log.Println("📂 Scanning", target)
		entries, err := os.ReadDir(target)
		if err != nil {
			log.Fatal(err)
		}

		results := []*parser.Result{}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			result := parseFile(p, filepath.Join(target, e.Name()))
			if result != nil && len(result.Transactions) > 0 {
				results = append(results, result)
			}
		}

		asJSON, _ := json.Marshal(results)
		fmt.Println(string(asJSON))
		return
	}

	log.Println("📄 Parsing", target)
	result := parseFile(p, target)
	if result == nil || len(result.Transactions) < 1 {
		// Stable sentinel for nothing-found, easier on shell pipelines
		// than an error exit.
		fmt.Println("{}")
		return
	}

	asJSON, _ := json.Marshal(result)
	fmt.Println(string(asJSON))
}

// parseFile loads one statement, via PDF text extraction when needed, and
// runs it through the parser. Returns nil on any per-file failure.
func parseFile(p *parser.Parser, path string) *parser.Result {
	var text string
	var err error

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err = pdftext.FromFile(path)
	} else {
		var raw []byte
		raw, err = os.ReadFile(path)
		text = string(raw)
	}
	if err != nil {
		log.Printf("⚠️ Skipping %s: %v", path, err)
		return nil
	}

	result, err := p.ParseTransactions(text)
	if err != nil {
		log.Printf("⚠️ Skipping %s: %v", path, err)
		return nil
	}
	return result
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringP("folder", "f", ".", "Folder in which ledgerline will scan for statements")
	viper.BindPFlag("target", parseCmd.Flags().Lookup("folder"))
}
