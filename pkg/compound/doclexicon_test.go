package compound

import "testing"

func TestDocLexicon(t *testing.T) {
	doc := NewDocLexicon([]Token{
		{Word: "Husbåten", MSD: "NN.sg.def.nom"},
		{Word: "ror", MSD: "VB.prs.akt"},
		{Word: "ut", MSD: "AB"}, // too short, skipped
		{Word: "nu", MSD: "AB"}, // too short, skipped
		{Word: "grön", MSD: "JJ.pos.sg"},
	})

	if doc.WordCount() != 3 {
		t.Errorf("WordCount = %d, want 3 (two-letter words skipped)", doc.WordCount())
	}
	if doc.Known("ut") {
		t.Error("two-letter words must be skipped")
	}
	if !doc.Known("husbåten") || !doc.Known("Husbåten") {
		t.Error("lookup must be case-insensitive")
	}
}

func TestDocLexicon_Prefixes(t *testing.T) {
	doc := NewDocLexicon([]Token{{Word: "grön", MSD: "JJ.pos.sg"}})

	prefixes := doc.Prefixes("grön")
	if len(prefixes) != 1 {
		t.Fatalf("Prefixes(grön) = %v, want one analysis", prefixes)
	}
	if prefixes[0].Lemgram != UnknownLemgram {
		t.Errorf("document analyses must carry the unknown-lemgram sentinel, got %q", prefixes[0].Lemgram)
	}
	if len(prefixes[0].Tags) != 1 || prefixes[0].Tags[0] != "JJ" {
		t.Errorf("Prefixes(grön) tags = %v, want the coarse POS [JJ]", prefixes[0].Tags)
	}

	if got := doc.Prefixes("okänd"); len(got) != 0 {
		t.Errorf("Prefixes(okänd) = %v, want none", got)
	}
}

func TestDocLexicon_Suffixes(t *testing.T) {
	doc := NewDocLexicon([]Token{
		{Word: "båten", MSD: "NN.sg.def.nom"},
		{Word: "ror", MSD: "VB.prs.akt"},
		{Word: "grön", MSD: "JJ.pos.sg"},
	})

	tests := []struct {
		name    string
		segment string
		msd     string
		want    int
	}{
		{"noun qualifies", "båten", "", 1},
		{"verb qualifies", "ror", "", 1},
		{"adjective does not qualify", "grön", "", 0},
		{"coarse pos constraint matches", "båten", "NN.sg.def.nom", 1},
		{"mismatching constraint rejects", "båten", "VB.prs.akt", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := doc.Suffixes(tt.segment, tt.msd); len(got) != tt.want {
				t.Errorf("Suffixes(%q, %q) = %v, want %d analyses", tt.segment, tt.msd, got, tt.want)
			}
		})
	}
}

func TestDocLexicon_InfixesMatchPrefixes(t *testing.T) {
	doc := NewDocLexicon([]Token{{Word: "grön", MSD: "JJ.pos.sg"}})
	if len(doc.Infixes("grön")) != len(doc.Prefixes("grön")) {
		t.Error("the document lexicon treats infixes like prefixes")
	}
}
