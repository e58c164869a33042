package main

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/kerem-kaynak/swedish-compound/pkg/compound"
)

func main() {
	if len(os.Args) < 3 {
		printUsage()
		os.Exit(1)
	}

	modelPath := os.Args[1]
	command := os.Args[2]

	logger := zap.NewNop()
	stats, err := compound.NewStatsLexicon(modelPath, compound.DefaultGamma, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading statistics model: %v\n", err)
		os.Exit(1)
	}
	defer stats.Close()

	switch command {
	case "add":
		if len(os.Args) < 6 {
			fmt.Println("Error: add requires word, tag and count")
			os.Exit(1)
		}
		word, tag := os.Args[3], os.Args[4]
		count, err := strconv.ParseUint(os.Args[5], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: bad count '%s': %v\n", os.Args[5], err)
			os.Exit(1)
		}
		if err := stats.AddCount(word, tag, count); err != nil {
			fmt.Fprintf(os.Stderr, "Error adding '%s/%s': %v\n", word, tag, err)
			os.Exit(1)
		}
		fmt.Printf("Added: %s/%s +%d\n", word, tag, count)
		fmt.Printf("Total pairs: %d\n", stats.EntryCount())

	case "remove":
		if len(os.Args) < 5 {
			fmt.Println("Error: remove requires word and tag")
			os.Exit(1)
		}
		word, tag := os.Args[3], os.Args[4]
		if err := stats.RemoveEntry(word, tag); err != nil {
			fmt.Fprintf(os.Stderr, "Error removing '%s/%s': %v\n", word, tag, err)
			os.Exit(1)
		}
		fmt.Printf("Removed: %s/%s\n", word, tag)
		fmt.Printf("Total pairs: %d\n", stats.EntryCount())

	case "freq":
		if len(os.Args) < 5 {
			fmt.Println("Error: freq requires word and tag")
			os.Exit(1)
		}
		word, tag := os.Args[3], os.Args[4]
		fmt.Printf("freq(%s, %s) = %d\n", word, tag, stats.Freq(word, tag))
		fmt.Printf("prob(%s, %s) = %.3e\n", word, tag, stats.Prob(word, tag))

	case "rebuild":
		if err := stats.RebuildFST(); err != nil {
			fmt.Fprintf(os.Stderr, "Error rebuilding FST: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("FST rebuilt. Total pairs: %d\n", stats.EntryCount())

	case "stats":
		fmt.Printf("Model: %s\n", modelPath)
		fmt.Printf("Pair count: %d\n", stats.EntryCount())
		fmt.Printf("Observations: %d\n", stats.Total())

	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: modelmgr <stats.txt> <command> [args...]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  add <word> <tag> <count>  Add observations for a word-tag pair")
	fmt.Println("  remove <word> <tag>       Remove a word-tag pair")
	fmt.Println("  freq <word> <tag>         Show frequency and smoothed probability")
	fmt.Println("  rebuild                   Rebuild FST from text file")
	fmt.Println("  stats                     Show model statistics")
}
