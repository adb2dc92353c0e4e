package slug

import "testing"

func TestGenerate(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"Il Cavallo Spettrale.png", "cavallo-spettrale"},
		{"Farfalla Cosmica.jpg", "farfalla-cosmica"},
		{"La Città Sommersa.png", "citta-sommersa"},
		{"Guardiano dell'Obelisco.png", "guardiano-dellobelisco"},
		{"  Volpe   Artica  .png", "volpe-artica"},
		{"UPPERCASE NAME.PNG", "uppercase-name"},
		{"un drago.png", "drago"},
		{"lago-nero.png", "lagonero"},
		{"Lago Nero.png", "lago-nero"},
		{"n1 - final (v2).png", "n1-final-v2"},
	}

	for _, tt := range tests {
		if got := Generate(tt.filename); got != tt.want {
			t.Errorf("Generate(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestGenerateStripsOnlyFirstArticle(t *testing.T) {
	// Only the leading article goes, not inner ones
	if got := Generate("Il Re e Il Mare.png"); got != "re-e-il-mare" {
		t.Errorf("Generate = %q, want %q", got, "re-e-il-mare")
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		slug string
		want string
	}{
		{"cavallo-spettrale", "Cavallo Spettrale"},
		{"farfalla-cosmica", "Farfalla Cosmica"},
		{"guardiano-del-faro", "Guardiano del Faro"},
		{"signora-delle-nebbie", "Signora delle Nebbie"},
		{"volpe", "Volpe"},
		// Particle at the start still capitalizes
		{"della-notte", "Della Notte"},
		// More than four words get truncated
		{"uno-due-tre-quattro-cinque", "Uno Due Tre Quattro"},
	}

	for _, tt := range tests {
		if got := Title(tt.slug); got != tt.want {
			t.Errorf("Title(%q) = %q, want %q", tt.slug, got, tt.want)
		}
	}
}

func TestUnique(t *testing.T) {
	taken := map[string]bool{}
	if got := Unique("Cavallo.png", taken); got != "cavallo" {
		t.Errorf("Unique = %q, want cavallo", got)
	}

	taken["cavallo"] = true
	if got := Unique("Cavallo.png", taken); got != "cavallo-2" {
		t.Errorf("Unique = %q, want cavallo-2", got)
	}

	taken["cavallo-2"] = true
	if got := Unique("Cavallo.png", taken); got != "cavallo-3" {
		t.Errorf("Unique = %q, want cavallo-3", got)
	}
}

func TestBatch(t *testing.T) {
	mappings, invalid := Batch([]string{
		"Il Cavallo Spettrale.png",
		"Cavallo Spettrale.jpg", // collides after article strip
		"Farfalla Cosmica.png",
	})

	if len(invalid) != 0 {
		t.Fatalf("unexpected invalid slugs: %v", invalid)
	}
	if len(mappings) != 3 {
		t.Fatalf("got %d mappings, want 3", len(mappings))
	}

	if mappings[0].Slug != "cavallo-spettrale" || mappings[0].Deduped {
		t.Errorf("first mapping = %+v", mappings[0])
	}
	if mappings[1].Slug != "cavallo-spettrale-2" || !mappings[1].Deduped {
		t.Errorf("second mapping should be deduped, got %+v", mappings[1])
	}
	if mappings[2].Slug != "farfalla-cosmica" {
		t.Errorf("third mapping = %+v", mappings[2])
	}
}

func TestBatchReportsInvalid(t *testing.T) {
	mappings, invalid := Batch([]string{"!!.png", "ok name.png"})

	if len(invalid) != 1 {
		t.Fatalf("got %d invalid, want 1", len(invalid))
	}
	if len(mappings) != 1 || mappings[0].Slug != "ok-name" {
		t.Fatalf("mappings = %+v", mappings)
	}
}
