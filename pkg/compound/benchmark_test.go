package compound

import (
	"testing"

	"go.uber.org/zap"
)

func BenchmarkSplitWord(b *testing.B) {
	saldo := testSaldoLexicon()
	doc := emptyDocLexicon()
	logger := zap.NewNop()
	limits := DefaultLimits()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		splitWord(saldo, doc, "glasbilklubb", "", limits, logger)
	}
}

func BenchmarkThreeConsonantRule(b *testing.B) {
	segments := []string{"glas", "sten", "nål"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		threeConsonantRule(segments)
	}
}

func BenchmarkAnalyzeRanked(b *testing.B) {
	config := DefaultConfig()
	config.Cache = false
	analyzer := newTestAnalyzer(b, config)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		analyzer.AnalyzeRanked("glasskål", "NN.sg.indef.nom")
	}
}

func BenchmarkAnalyzeRanked_CacheHit(b *testing.B) {
	analyzer := newTestAnalyzer(b, DefaultConfig())
	analyzer.AnalyzeRanked("glasskål", "NN.sg.indef.nom")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		analyzer.AnalyzeRanked("glasskål", "NN.sg.indef.nom")
	}
}

func BenchmarkStatsProb(b *testing.B) {
	stats := newTestStats(b, "glas\tNN\t50\nskål\tNN\t40\nbil\tNN\t100\n")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		stats.Prob("glas", "NN")
	}
}
