package i18n

import "testing"

func TestResolveFallbackOrder(t *testing.T) {
	testCases := []struct {
		name string
		text Text
		lang Lang
		def  string
		want string
	}{
		{"english fallback", Text{English: "Apple"}, Tamil, "", "Apple"},
		{"empty map default", Text{}, Tamil, "N/A", "N/A"},
		{"nil map default", nil, Sinhala, "placeholder", "placeholder"},
		{"requested wins", Text{Tamil: "x", English: "y"}, Tamil, "", "x"},
		{"tamil after english", Text{Tamil: "t", Sinhala: "s"}, Sinhala, "", "s"},
		{"tamil before sinhala", Text{Tamil: "t", Sinhala: "s"}, English, "", "t"},
		{"blank value skipped", Text{Tamil: "", English: "e"}, Tamil, "", "e"},
		{"sinhala last", Text{Sinhala: "s"}, Tamil, "", "s"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Resolve(tc.text, tc.lang, tc.def); got != tc.want {
				t.Fatalf("Resolve(...) = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTextEmpty(t *testing.T) {
	if !(Text{English: "  "}).Empty() {
		t.Fatal("expected whitespace-only text to be empty")
	}
	if (Text{Sinhala: "අ"}).Empty() {
		t.Fatal("expected sinhala text to be non-empty")
	}
}

func TestParseLang(t *testing.T) {
	testCases := []struct {
		in   string
		want Lang
		ok   bool
	}{
		{"ta", Tamil, true},
		{"ta-IN", Tamil, true},
		{"EN_us", English, true},
		{"si-LK", Sinhala, true},
		{"fr", "", false},
		{"", "", false},
		{"???", "", false},
	}
	for _, tc := range testCases {
		got, ok := ParseLang(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseLang(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestMatchAcceptLanguage(t *testing.T) {
	if got := Match("en-GB,en;q=0.9"); got != English {
		t.Fatalf("Match(en-GB) = %q, want %q", got, English)
	}
	if got := Match(""); got != DefaultLang {
		t.Fatalf("Match(empty) = %q, want %q", got, DefaultLang)
	}
}

func TestResolverURL(t *testing.T) {
	r := NewResolver("https://cdn.example.com/")
	testCases := []struct {
		in, want string
	}{
		{"https://other.example.com/a.mp3", "https://other.example.com/a.mp3"},
		{"http://other.example.com/a.mp3", "http://other.example.com/a.mp3"},
		{"/uploads/a.png", "https://cdn.example.com/uploads/a.png"},
		{"uploads/a.png", "https://cdn.example.com/uploads/a.png"},
		{"", ""},
	}
	for _, tc := range testCases {
		if got := r.URL(tc.in); got != tc.want {
			t.Errorf("URL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	media := r.Media(Text{English: "/audio/en.mp3"}, Tamil)
	if media != "https://cdn.example.com/audio/en.mp3" {
		t.Fatalf("Media(...) = %q", media)
	}
}
