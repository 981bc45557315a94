// Package parser is the public entry point: it sequences bank detection,
// pattern generation, multi-strategy extraction, normalization and
// categorization over one block of redacted statement text.
package parser

import (
	"fmt"
	"log"
	"strings"

	"github.com/ledgerline/ledgerline/parser/bank"
	"github.com/ledgerline/ledgerline/parser/categorize"
	"github.com/ledgerline/ledgerline/parser/normalize"
	"github.com/ledgerline/ledgerline/parser/patterns"
	"github.com/ledgerline/ledgerline/parser/txn"
	"github.com/shopspring/decimal"
)

// DefaultMinConfidence is the acceptance floor applied to extraction
// candidates when the caller does not supply one.
const DefaultMinConfidence = 0.3

// Options configure one Parser instance.
type Options struct {
	// MinConfidence discards extraction candidates scoring below it.
	// Zero means DefaultMinConfidence.
	MinConfidence float64
	// MaxAmount is the sanity ceiling on absolute amounts. Zero means the
	// normalize default.
	MaxAmount decimal.Decimal
	// MinMerchantLen loosens or tightens merchant validation. Zero means
	// the normalize default.
	MinMerchantLen int
	// UseLearning enables the session learning store.
	UseLearning bool
	// CustomKeywords maps caller keywords to category overrides.
	CustomKeywords map[string]txn.Category
	// Registry overrides the bank-profile registry. Nil builds a fresh
	// one with the built-in profiles.
	Registry *bank.Registry
}

// Stats counts line-level processing outcomes for one parse.
type Stats struct {
	TotalLines            int `json:"totalLines"`
	ProcessedLines        int `json:"processedLines"`
	SkippedLines          int `json:"skippedLines"`
	SuccessfulExtractions int `json:"successfulExtractions"`
}

// Metadata is the run-level envelope returned alongside transactions.
type Metadata struct {
	BankName             string               `json:"bankName"`
	ExtractionConfidence float64              `json:"extractionConfidence"`
	TotalTransactions    int                  `json:"totalTransactions"`
	ProcessingStats      Stats                `json:"processingStats"`
	CategoryDistribution map[txn.Category]int `json:"categoryDistribution"`
}

// Result is the full output of one parse.
type Result struct {
	Transactions []txn.Categorized `json:"transactions"`
	Metadata     Metadata          `json:"metadata"`
}

// Parser holds all per-instance state: the profile registry and the
// categorizer with its learning store. Instances are cheap; share one to
// keep a session's learned merchants, or build fresh for isolation.
type Parser struct {
	opts        Options
	registry    *bank.Registry
	categorizer *categorize.Categorizer
}

// New builds a Parser.
func New(opts Options) *Parser {
	if opts.MinConfidence == 0 {
		opts.MinConfidence = DefaultMinConfidence
	}
	registry := opts.Registry
	if registry == nil {
		registry = bank.NewRegistry()
	}
	catOpts := []categorize.Option{categorize.WithLearning(opts.UseLearning)}
	if opts.CustomKeywords != nil {
		catOpts = append(catOpts, categorize.WithCustomKeywords(opts.CustomKeywords))
	}
	return &Parser{
		opts:        opts,
		registry:    registry,
		categorizer: categorize.New(catOpts...),
	}
}

// Registry exposes the profile registry for custom bank onboarding.
func (p *Parser) Registry() *bank.Registry {
	return p.registry
}

// ParseTransactions converts one block of statement text into categorized
// transactions plus run metadata. Per-line extraction misses are counted,
// not errored; only catastrophic failures return an error.
func (p *Parser) ParseTransactions(text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("parse transactions: statement text is empty")
	}

	profile := p.registry.Detect(text)
	log.Printf("🏦 Detected bank profile: %s", profile.Name)

	cfg, err := patterns.Build(profile)
	if err != nil {
		return nil, fmt.Errorf("parse transactions: %w", err)
	}

	candidates, stats := p.extract(text, cfg)

	normOpts := normalize.DefaultOptions()
	if p.opts.MinMerchantLen > 0 {
		normOpts.MinMerchantLen = p.opts.MinMerchantLen
	}
	if !p.opts.MaxAmount.IsZero() {
		normOpts.MaxAmount = p.opts.MaxAmount
	}
	raws := normalize.Run(candidates, normOpts)

	distribution := map[txn.Category]int{}
	transactions := make([]txn.Categorized, 0, len(raws))
	for _, raw := range raws {
		categorized, _ := p.categorizer.Categorize(raw)
		distribution[categorized.Category]++
		transactions = append(transactions, categorized)
	}

	confidence := 0.0
	if len(candidates) > 0 {
		for _, cand := range candidates {
			confidence += cand.Confidence
		}
		confidence /= float64(len(candidates))
	}

	log.Printf("✅ Extracted %d transactions (%d lines, confidence %.2f)",
		len(transactions), stats.TotalLines, confidence)

	return &Result{
		Transactions: transactions,
		Metadata: Metadata{
			BankName:             profile.Name,
			ExtractionConfidence: confidence,
			TotalTransactions:    len(transactions),
			ProcessingStats:      stats,
			CategoryDistribution: distribution,
		},
	}, nil
}
