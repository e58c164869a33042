package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kerem-kaynak/swedish-compound/pkg/compound"
)

// fileConfig is the YAML configuration for the analyzer CLI.
type fileConfig struct {
	Lexicon    string  `yaml:"lexicon"`
	POSModel   string  `yaml:"pos_model"`
	StatsModel string  `yaml:"stats_model"`
	Gamma      float64 `yaml:"gamma"`
	Policy     string  `yaml:"policy"`
	Cutoff     *bool   `yaml:"cutoff"`
	Cache      *bool   `yaml:"cache"`
	Limits     struct {
		MaxWordLen     int `yaml:"max_word_len"`
		MaxTimeSeconds int `yaml:"max_time_seconds"`
		MaxIterations  int `yaml:"max_iterations"`
		MaxSplits      int `yaml:"max_splits"`
		MaxAnalyses    int `yaml:"max_analyses"`
	} `yaml:"limits"`
}

type wordResult struct {
	Word      string                    `json:"word"`
	Lemgrams  string                    `json:"lemgrams"`
	Wordforms string                    `json:"wordforms"`
	Baseforms string                    `json:"baseforms"`
	Analyses  []compound.RankedCompound `json:"analyses,omitempty"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: analyze <config.yaml> [text]")
		fmt.Println("       analyze <config.yaml>          (interactive mode)")
		os.Exit(1)
	}

	cfg, err := loadFileConfig(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	saldo, err := compound.LoadSaldoLexicon(cfg.Lexicon, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading lexicon: %v\n", err)
		os.Exit(1)
	}
	posModel, err := compound.LoadPOSModel(cfg.POSModel, cfg.Gamma, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading POS model: %v\n", err)
		os.Exit(1)
	}
	stats, err := compound.NewStatsLexicon(cfg.StatsModel, cfg.Gamma, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading statistics model: %v\n", err)
		os.Exit(1)
	}
	defer stats.Close()

	analyzerConfig := cfg.analyzerConfig()
	normalizer := compound.NewNormalizer()

	analyze := func(text string) {
		tokens := compound.TokensFromText(text, normalizer)
		doc := compound.NewDocLexicon(tokens)
		analyzer := compound.NewAnalyzer(saldo, doc, posModel, stats, analyzerConfig, logger)
		formatter := compound.DefaultFormatter()

		results := make([]wordResult, 0, len(tokens))
		for _, tok := range tokens {
			ranked := analyzer.AnalyzeRanked(tok.Word, tok.MSD)
			results = append(results, wordResult{
				Word:      tok.Word,
				Lemgrams:  formatter.Lemgrams(ranked),
				Wordforms: formatter.Wordforms(ranked),
				Baseforms: formatter.Baseforms(ranked, tok.MSD, stats, doc),
				Analyses:  ranked,
			})
		}
		output, _ := json.Marshal(results)
		fmt.Println(string(output))
	}

	// If text provided as argument, analyze and exit
	if len(os.Args) > 2 {
		analyze(strings.Join(os.Args[2:], " "))
		return
	}

	// Interactive mode
	fmt.Println("Swedish Compound Analyzer (interactive mode)")
	fmt.Printf("Lexicon loaded: %d words\n", saldo.WordCount())
	fmt.Println("Type a word or sentence, press Enter to analyze. Ctrl+C to exit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := scanner.Text()
		if text == "" {
			continue
		}
		analyze(text)
	}
}

func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Lexicon == "" || cfg.POSModel == "" || cfg.StatsModel == "" {
		return nil, fmt.Errorf("config must set lexicon, pos_model and stats_model")
	}
	return &cfg, nil
}

func (c *fileConfig) analyzerConfig() compound.Config {
	config := compound.DefaultConfig()
	if c.Policy == "logadditive" {
		config.Policy = compound.ScoreLogAdditive
	}
	if c.Cutoff != nil {
		config.Cutoff = *c.Cutoff
	}
	if c.Cache != nil {
		config.Cache = *c.Cache
	}
	if c.Limits.MaxWordLen > 0 {
		config.Limits.MaxWordLen = c.Limits.MaxWordLen
	}
	if c.Limits.MaxTimeSeconds > 0 {
		config.Limits.MaxTime = time.Duration(c.Limits.MaxTimeSeconds) * time.Second
	}
	if c.Limits.MaxIterations > 0 {
		config.Limits.MaxIterations = c.Limits.MaxIterations
	}
	if c.Limits.MaxSplits > 0 {
		config.Limits.MaxSplits = c.Limits.MaxSplits
	}
	if c.Limits.MaxAnalyses > 0 {
		config.Limits.MaxAnalyses = c.Limits.MaxAnalyses
	}
	return config
}
