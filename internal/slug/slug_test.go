package slug

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allowedChars = regexp.MustCompile(`^[a-z0-9-]*$`)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"punctuation and digits", "Rust Conf 2024!", "rust-conf-2024"},
		{"diacritics folded", "São Paulo Café", "sao-paulo-cafe"},
		{"accents in the middle", "Crème Brûlée Night", "creme-brulee-night"},
		{"sharp s", "Straße Fest", "strasse-fest"},
		{"nordic letters", "Ærøskøbing", "aeroskobing"},
		{"dotted capital i", "İstanbul", "istanbul"},
		{"collapse separators", "  Hello,   World!! ", "hello-world"},
		{"underscores and slashes", "snake_case/path\\name", "snake-case-path-name"},
		{"leading and trailing hyphens", "--already-a-slug--", "already-a-slug"},
		{"already a slug", "go-meetup-2025", "go-meetup-2025"},
		{"empty", "", ""},
		{"only punctuation", "!!! ???", ""},
		{"non latin script", "日本", ""},
		{"mixed script keeps latin part", "Go 日本 Tour", "go-tour"},
		{"fi ligature", "ﬁnal Conf", "final-conf"},
		{"full-width digits", "Conf ２０２４", "conf-2024"},
		{"full-width letters", "Ｒust Ｃonf", "rust-conf"},
		{"superscript digit", "Room ²", "room-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(tt.title))
		})
	}
}

func TestGenerate_Properties(t *testing.T) {
	titles := []string{
		"Rust Conf 2024!",
		"NLW Unite: pass.in",
		"  ---  ",
		"Über   Café & Résumé",
		"a",
		"A-B--C---D",
		"100% Go!",
		"tab\tand\nnewline",
		"emoji 🎉 party",
		strings.Repeat("x ", 50),
	}

	for _, title := range titles {
		t.Run(title, func(t *testing.T) {
			got := Generate(title)
			require.Regexp(t, allowedChars, got)
			assert.False(t, strings.HasPrefix(got, "-"), "leading hyphen in %q", got)
			assert.False(t, strings.HasSuffix(got, "-"), "trailing hyphen in %q", got)
			assert.NotContains(t, got, "--")
			assert.Equal(t, got, Generate(title), "deterministic")
			assert.Equal(t, got, Generate(got), "idempotent")
			if got != "" {
				assert.True(t, Valid(got))
			}
		})
	}
}

func TestGenerate_LigatureDoesNotCollide(t *testing.T) {
	assert.NotEqual(t, Generate("nal Conf"), Generate("ﬁnal Conf"))
}

func TestGenerate_MaxLength(t *testing.T) {
	word := strings.Repeat("a", 9)
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "short title untouched",
			title: "Rust Conf 2024",
			want:  "rust-conf-2024",
		},
		{
			name:  "exactly max length",
			title: strings.Repeat("b", MaxLength),
			want:  strings.Repeat("b", MaxLength),
		},
		{
			name:  "cut falls on a hyphen",
			title: strings.Repeat("b", MaxLength) + " x",
			want:  strings.Repeat("b", MaxLength),
		},
		{
			name:  "cut falls right after a hyphen",
			title: strings.Repeat(word+" ", 30),
			want:  strings.TrimSuffix(strings.Repeat(word+"-", 20), "-"),
		},
		{
			name:  "cut inside a word backs off to the previous hyphen",
			title: strings.Repeat(word+" ", 19) + strings.Repeat("c", 30),
			want:  strings.TrimSuffix(strings.Repeat(word+"-", 19), "-"),
		},
		{
			name:  "single long word is cut hard",
			title: strings.Repeat("d", MaxLength+50),
			want:  strings.Repeat("d", MaxLength),
		},
		{
			name:  "expanding compatibility forms stay bounded",
			title: strings.Repeat("ﬃ ", 300),
			want:  strings.TrimSuffix(strings.Repeat("ffi-", 50), "-"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.title)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), MaxLength)
			assert.True(t, Valid(got))
			assert.Equal(t, got, Generate(got), "idempotent")
		})
	}
}

func TestGenerate_LongTitleBounded(t *testing.T) {
	title := strings.Repeat("Gophers gather to talk about concurrency ", 300)
	got := Generate(title)
	assert.LessOrEqual(t, len(got), MaxLength)
	assert.True(t, Valid(got))
	assert.True(t, strings.HasPrefix(got, "gophers-gather-to-talk"))
}

func TestValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"rust-conf-2024", true},
		{"a", true},
		{"", false},
		{"-a", false},
		{"a-", false},
		{"a--b", false},
		{"Rust", false},
		{"a_b", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Valid(tt.in), tt.in)
	}
}

func FuzzGenerate(f *testing.F) {
	for _, seed := range []string{"Rust Conf 2024!", "São Paulo", "", "--", "日本"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, title string) {
		got := Generate(title)
		if !allowedChars.MatchString(got) {
			t.Fatalf("Generate(%q) = %q contains disallowed characters", title, got)
		}
		if got != "" && !Valid(got) {
			t.Fatalf("Generate(%q) = %q is not canonical", title, got)
		}
		if len(got) > MaxLength {
			t.Fatalf("Generate(%q) = %q exceeds %d bytes", title, got, MaxLength)
		}
		if again := Generate(got); again != got {
			t.Fatalf("Generate not idempotent: %q -> %q", got, again)
		}
	})
}
