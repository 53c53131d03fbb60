package rank

import (
	"errors"
	"slices"
	"testing"

	"github.com/jmylchreest/hexit/internal/colour"
	hexerr "github.com/jmylchreest/hexit/internal/errors"
)

func sw(name colour.SwatchName, hex string, population int) *colour.Swatch {
	return &colour.Swatch{Name: name, Hex: hex, Population: population}
}

func TestNew(t *testing.T) {
	tests := []struct {
		policy  Policy
		want    string
		wantErr bool
	}{
		{policy: PolicyPriority, want: "*rank.PriorityRanker"},
		{policy: "", want: "*rank.PriorityRanker"},
		{policy: PolicyDominance, want: "*rank.DominanceRanker"},
		{policy: "median", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			r, err := New(tt.policy)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			switch r.(type) {
			case *PriorityRanker:
				if tt.want != "*rank.PriorityRanker" {
					t.Errorf("New(%q) = %T, want %s", tt.policy, r, tt.want)
				}
			case *DominanceRanker:
				if tt.want != "*rank.DominanceRanker" {
					t.Errorf("New(%q) = %T, want %s", tt.policy, r, tt.want)
				}
			}
		})
	}
}

func TestIsValidPolicy(t *testing.T) {
	if !IsValidPolicy(PolicyPriority) || !IsValidPolicy(PolicyDominance) {
		t.Error("IsValidPolicy() = false for a known policy")
	}
	if IsValidPolicy("random") {
		t.Error("IsValidPolicy(random) = true, want false")
	}
}

// Properties that hold for every policy.
func TestRankersCommon(t *testing.T) {
	rankers := map[string]Ranker{
		"priority":  NewPriorityRanker(),
		"dominance": NewDominanceRanker(),
	}

	for name, r := range rankers {
		t.Run(name+"/all absent", func(t *testing.T) {
			sets := []colour.SwatchSet{
				nil,
				{},
				{colour.Vibrant: nil, colour.Muted: nil},
				{colour.Vibrant: sw(colour.Vibrant, "", 10)},
			}
			for _, set := range sets {
				got, err := r.Rank(set)
				var empty *hexerr.ExtractionEmptyError
				if !errors.As(err, &empty) {
					t.Fatalf("Rank(%v) error = %v, want *ExtractionEmptyError", set, err)
				}
				if len(got) != 0 {
					t.Errorf("Rank() = %v, want no colours", got)
				}
			}
		})

		t.Run(name+"/single swatch", func(t *testing.T) {
			for _, n := range colour.SwatchNames() {
				set := colour.SwatchSet{n: sw(n, "#123456", 7)}
				got, err := r.Rank(set)
				if err != nil {
					t.Fatalf("Rank() error = %v", err)
				}
				if !slices.Equal(got, []string{"#123456"}) {
					t.Errorf("Rank(%s only) = %v, want [#123456]", n, got)
				}
			}
		})

		t.Run(name+"/single zero population swatch", func(t *testing.T) {
			got, err := r.Rank(colour.SwatchSet{colour.DarkMuted: sw(colour.DarkMuted, "#0a0b0c", 0)})
			if err != nil {
				t.Fatalf("Rank() error = %v", err)
			}
			if !slices.Equal(got, []string{"#0a0b0c"}) {
				t.Errorf("Rank() = %v, want [#0a0b0c]", got)
			}
		})

		t.Run(name+"/duplicate hex", func(t *testing.T) {
			set := colour.SwatchSet{
				colour.Vibrant:   sw(colour.Vibrant, "#aa0000", 40),
				colour.Muted:     sw(colour.Muted, "#aa0000", 35),
				colour.DarkMuted: sw(colour.DarkMuted, "#001100", 25),
			}
			got, err := r.Rank(set)
			if err != nil {
				t.Fatalf("Rank() error = %v", err)
			}
			if !slices.Equal(got, []string{"#aa0000", "#001100"}) {
				t.Errorf("Rank() = %v, want [#aa0000 #001100]", got)
			}
		})

		t.Run(name+"/at most two", func(t *testing.T) {
			set := colour.SwatchSet{}
			for i, n := range colour.SwatchNames() {
				set[n] = sw(n, colour.RGB{R: uint8(i * 40), G: 10, B: 10}.Hex(), 100-i)
			}
			got, err := r.Rank(set)
			if err != nil {
				t.Fatalf("Rank() error = %v", err)
			}
			if len(got) != MaxColours {
				t.Errorf("Rank() len = %d, want %d", len(got), MaxColours)
			}
		})
	}
}

func TestPriorityRanker(t *testing.T) {
	tests := []struct {
		name string
		set  colour.SwatchSet
		want []string
	}{
		{
			name: "vibrant and muted",
			set: colour.SwatchSet{
				colour.Vibrant: sw(colour.Vibrant, "#384350", 500),
				colour.Muted:   sw(colour.Muted, "#788390", 300),
			},
			want: []string{"#384350", "#788390"},
		},
		{
			name: "priority ignores population",
			set: colour.SwatchSet{
				colour.Vibrant:    sw(colour.Vibrant, "#111111", 1),
				colour.Muted:      sw(colour.Muted, "#222222", 2),
				colour.LightMuted: sw(colour.LightMuted, "#eeeeee", 10000),
				colour.DarkMuted:  sw(colour.DarkMuted, "#333333", 9000),
			},
			want: []string{"#111111", "#222222"},
		},
		{
			name: "skips absent names in order",
			set: colour.SwatchSet{
				colour.LightMuted:   sw(colour.LightMuted, "#eeeeee", 900),
				colour.DarkVibrant:  sw(colour.DarkVibrant, "#220044", 1),
				colour.LightVibrant: sw(colour.LightVibrant, "#ffaacc", 5),
			},
			want: []string{"#220044", "#ffaacc"},
		},
		{
			name: "duplicate forces walk to continue",
			set: colour.SwatchSet{
				colour.Vibrant:     sw(colour.Vibrant, "#abcdef", 10),
				colour.Muted:       sw(colour.Muted, "#abcdef", 10),
				colour.DarkVibrant: sw(colour.DarkVibrant, "#012345", 10),
			},
			want: []string{"#abcdef", "#012345"},
		},
		{
			name: "invalid swatches are skipped",
			set: colour.SwatchSet{
				colour.Vibrant:   sw(colour.Vibrant, "red", 100),
				colour.Muted:     sw(colour.Muted, "#00ff00", 5),
				colour.DarkMuted: sw(colour.DarkMuted, "#0000ff", 1),
			},
			want: []string{"#00ff00", "#0000ff"},
		},
	}

	r := NewPriorityRanker()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Rank(tt.set)
			if err != nil {
				t.Fatalf("Rank() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Rank() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPriorityRankerFallbackByPopulation(t *testing.T) {
	// A custom order that names only one present swatch exercises the
	// population fallback.
	r := &PriorityRanker{order: []colour.SwatchName{colour.Vibrant}}
	set := colour.SwatchSet{
		colour.Vibrant:    sw(colour.Vibrant, "#ff0000", 1),
		colour.DarkMuted:  sw(colour.DarkMuted, "#111111", 50),
		colour.LightMuted: sw(colour.LightMuted, "#eeeeee", 80),
	}

	got, err := r.Rank(set)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	want := []string{"#ff0000", "#eeeeee"}
	if !slices.Equal(got, want) {
		t.Errorf("Rank() = %v, want %v", got, want)
	}
}

func TestPriorityRankerFallbackSkipsSeen(t *testing.T) {
	r := &PriorityRanker{order: []colour.SwatchName{colour.Vibrant}}
	set := colour.SwatchSet{
		colour.Vibrant:   sw(colour.Vibrant, "#ff0000", 90),
		colour.DarkMuted: sw(colour.DarkMuted, "#ff0000", 50),
		colour.Muted:     sw(colour.Muted, "#00ff00", 10),
	}

	got, err := r.Rank(set)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	want := []string{"#ff0000", "#00ff00"}
	if !slices.Equal(got, want) {
		t.Errorf("Rank() = %v, want %v", got, want)
	}
}

func TestDominanceRanker(t *testing.T) {
	tests := []struct {
		name string
		set  colour.SwatchSet
		want []string
	}{
		{
			name: "dominant swatch collapses",
			set: colour.SwatchSet{
				colour.Muted:     sw(colour.Muted, "#101010", 900),
				colour.Vibrant:   sw(colour.Vibrant, "#ff0000", 50),
				colour.DarkMuted: sw(colour.DarkMuted, "#202020", 50),
			},
			want: []string{"#101010"},
		},
		{
			name: "exactly eighty percent does not collapse",
			set: colour.SwatchSet{
				colour.Muted:   sw(colour.Muted, "#101010", 80),
				colour.Vibrant: sw(colour.Vibrant, "#ff0000", 20),
			},
			want: []string{"#101010", "#ff0000"},
		},
		{
			name: "ordered by population not name",
			set: colour.SwatchSet{
				colour.Vibrant:    sw(colour.Vibrant, "#ff0000", 10),
				colour.LightMuted: sw(colour.LightMuted, "#eeeeee", 60),
				colour.DarkMuted:  sw(colour.DarkMuted, "#111111", 30),
			},
			want: []string{"#eeeeee", "#111111"},
		},
		{
			name: "ties keep enumeration order",
			set: colour.SwatchSet{
				colour.LightMuted:  sw(colour.LightMuted, "#eeeeee", 10),
				colour.Muted:       sw(colour.Muted, "#888888", 10),
				colour.DarkVibrant: sw(colour.DarkVibrant, "#220044", 10),
			},
			want: []string{"#220044", "#888888"},
		},
		{
			name: "zero total population",
			set: colour.SwatchSet{
				colour.Vibrant:     sw(colour.Vibrant, "#ff0000", 0),
				colour.DarkVibrant: sw(colour.DarkVibrant, "#880000", 0),
			},
			want: []string{"#ff0000", "#880000"},
		},
	}

	r := NewDominanceRanker()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Rank(tt.set)
			if err != nil {
				t.Fatalf("Rank() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Rank() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRankIsDeterministic(t *testing.T) {
	set := colour.SwatchSet{
		colour.Vibrant:   sw(colour.Vibrant, "#ff0000", 10),
		colour.Muted:     sw(colour.Muted, "#00ff00", 10),
		colour.DarkMuted: sw(colour.DarkMuted, "#0000ff", 10),
	}

	for _, r := range []Ranker{NewPriorityRanker(), NewDominanceRanker()} {
		first, _ := r.Rank(set)
		for i := 0; i < 20; i++ {
			got, _ := r.Rank(set)
			if !slices.Equal(got, first) {
				t.Fatalf("%T.Rank() = %v, then %v", r, first, got)
			}
		}
	}
}
