package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"

	"github.com/ledgerline/ledgerline/parser"
	"github.com/ledgerline/ledgerline/parser/bank"
	"github.com/ledgerline/ledgerline/parser/txn"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Embedded default configuration, used when no .ledgerline.yaml is found.
const defaultConfigYAML = `
parser:
  min_confidence: 0.3
  use_learning: true
banks:
# Custom bank profiles layered over the built-ins, keyed by profile id:
#   firstnational:
#     name: First National Bank
#     detection:
#       - (?i)first\s+national\s+bank
#     date_formats:
#       - \b\d{2}/\d{2}/\d{4}\b
#     layouts: [tabular]
#     currency: $
categories:
# Custom merchant keywords mapped to categories, checked before the
# built-in rules:
#   acme gym: Subscriptions
`

var (
	cfgFile string
	verbose bool
	rootCmd = &cobra.Command{
		Use:   "ledgerline [filename]",
		Short: "Extract categorized transactions from bank statements",
		Long: `ledgerline turns redacted bank statement text or PDFs into
structured, categorized transactions as JSON.`,
		Args: cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 1 {
				viper.Set("target", args[0])
				runParse(parseCmd, []string{})
				return
			}
			cmd.Help()
		},
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default is ./.ledgerline.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogging() {
	if !verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetFlags(log.Ltime | log.Lmsgprefix)
		log.SetPrefix("INFO: ")
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".ledgerline")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := viper.ReadConfig(bytes.NewBufferString(defaultConfigYAML)); err != nil {
				fmt.Printf("Error loading embedded configuration: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Printf("Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}

// bankConfig is the YAML shape of one custom bank profile.
type bankConfig struct {
	Name        string   `mapstructure:"name"`
	Detection   []string `mapstructure:"detection"`
	DateFormats []string `mapstructure:"date_formats"`
	Layouts     []string `mapstructure:"layouts"`
	Currency    string   `mapstructure:"currency"`
	Adaptive    bool     `mapstructure:"adaptive"`
}

// buildParser assembles a Parser from the active viper configuration.
func buildParser() (*parser.Parser, error) {
	opts, err := parserOptions()
	if err != nil {
		return nil, err
	}
	return parser.New(opts), nil
}

// parserOptions reads the active viper configuration into parser options:
// tuning knobs, custom category keywords, and custom bank profiles.
func parserOptions() (parser.Options, error) {
	opts := parser.Options{
		MinConfidence: viper.GetFloat64("parser.min_confidence"),
		UseLearning:   viper.GetBool("parser.use_learning"),
	}

	if raw := viper.GetStringMapString("categories"); len(raw) > 0 {
		keywords := map[string]txn.Category{}
		for keyword, name := range raw {
			cat := txn.Category(name)
			if !txn.IsValidCategory(cat) {
				return parser.Options{}, fmt.Errorf("config: unknown category %q for keyword %q", name, keyword)
			}
			keywords[keyword] = cat
		}
		opts.CustomKeywords = keywords
	}

	var banks map[string]bankConfig
	if err := viper.UnmarshalKey("banks", &banks); err != nil {
		return parser.Options{}, fmt.Errorf("config: decoding banks: %w", err)
	}
	if len(banks) > 0 {
		registry := bank.NewRegistry()
		for key, bc := range banks {
			profile, err := profileFromConfig(bc)
			if err != nil {
				return parser.Options{}, fmt.Errorf("config: bank %q: %w", key, err)
			}
			registry.Register(key, profile)
			log.Printf("🏦 Registered custom bank profile: %s", key)
		}
		opts.Registry = registry
	}

	return opts, nil
}

func profileFromConfig(bc bankConfig) (bank.Profile, error) {
	p := bank.Profile{
		Name:        bc.Name,
		DateFormats: bc.DateFormats,
		Layouts:     bc.Layouts,
		Currency:    bc.Currency,
		Adaptive:    bc.Adaptive,
	}
	for _, src := range bc.Detection {
		re, err := regexp.Compile(src)
		if err != nil {
			return bank.Profile{}, fmt.Errorf("detection pattern %q: %w", src, err)
		}
		p.Detection = append(p.Detection, re)
	}
	return p, nil
}
