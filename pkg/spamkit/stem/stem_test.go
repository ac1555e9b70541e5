package stem

import (
	"errors"
	"testing"

	"github.com/cognicore/spamkit/pkg/spamkit/internalerr"
)

func TestPorter(t *testing.T) {
	s := Porter{}
	tests := map[string]string{
		"caresses":   "caress",
		"ponies":     "poni",
		"running":    "run",
		"connection": "connect",
		"":           "",
	}
	for in, want := range tests {
		if got := s.Stem(in); got != want {
			t.Errorf("Porter.Stem(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPorterShortWords(t *testing.T) {
	s := Porter{}
	if got := s.Stem("eed"); got != "eed" {
		t.Errorf("Porter.Stem(%q) = %q, want %q", "eed", got, "eed")
	}
	for _, in := range []string{"eeds", "eeded"} {
		if got := s.Stem(in); got == "" {
			t.Errorf("Porter.Stem(%q) returned an empty stem", in)
		}
	}
}

func TestSnowball(t *testing.T) {
	s := Snowball{}
	tests := map[string]string{
		"running":    "run",
		"connection": "connect",
		"generously": "generous",
		"":           "",
	}
	for in, want := range tests {
		if got := s.Stem(in); got != want {
			t.Errorf("Snowball.Stem(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStemIsDeterministic(t *testing.T) {
	for _, s := range []Stemmer{Porter{}, Snowball{}} {
		first := s.Stem("congratulations")
		for i := 0; i < 10; i++ {
			if got := s.Stem("congratulations"); got != first {
				t.Fatalf("%s stemmer not deterministic: %q vs %q", s.Name(), got, first)
			}
		}
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "", want: AlgorithmPorter},
		{name: "porter", want: AlgorithmPorter},
		{name: "Snowball", want: AlgorithmSnowball},
		{name: "lancaster", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.name)
			if tt.wantErr {
				if !errors.Is(err, internalerr.ErrInvalidConfig) {
					t.Fatalf("New(%q) error = %v, want ErrInvalidConfig", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q): %v", tt.name, err)
			}
			if s.Name() != tt.want {
				t.Errorf("New(%q).Name() = %q, want %q", tt.name, s.Name(), tt.want)
			}
		})
	}
}
