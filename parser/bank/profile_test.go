package bank

import (
	"regexp"
	"strings"
	"testing"
)

func TestDetect_KnownBank(t *testing.T) {
	r := NewRegistry()

	p := r.Detect("Wells Fargo Everyday Checking\nStatement Period 07/01/2018 - 07/31/2018")
	if p.Key != "wellsfargo" {
		t.Errorf("Expected 'wellsfargo', got '%s'", p.Key)
	}
}

func TestDetect_FallsBackToGeneric(t *testing.T) {
	r := NewRegistry()

	p := r.Detect("SOME CREDIT UNION\n07/01 COFFEE 5.75")
	if p.Key != GenericKey {
		t.Errorf("Expected generic fallback, got '%s'", p.Key)
	}
	if !p.Adaptive {
		t.Error("Expected generic profile to be adaptive")
	}
}

func TestDetect_OnlySamplesHead(t *testing.T) {
	r := NewRegistry()

	// The signature appears beyond the sampled window, so it must not match.
	text := strings.Repeat("x", detectWindow) + "\nBank of America"
	p := r.Detect(text)
	if p.Key != GenericKey {
		t.Errorf("Expected generic, got '%s'", p.Key)
	}
}

func TestRegister_CustomProfile(t *testing.T) {
	r := NewRegistry()
	r.Register("acme", Profile{
		Name:      "ACME Bank",
		Detection: []*regexp.Regexp{regexp.MustCompile(`ACME BANK`)},
		Layouts:   []string{LayoutTabular},
		Currency:  "$",
	})

	p := r.Detect("ACME BANK STATEMENT\n07/01 COFFEE 5.75")
	if p.Name != "ACME Bank" {
		t.Errorf("Expected 'ACME Bank', got '%s'", p.Name)
	}
	if p.Key != "acme" {
		t.Errorf("Expected key 'acme', got '%s'", p.Key)
	}
}

func TestRegister_ReplaceKeepsOrder(t *testing.T) {
	r := NewRegistry()
	before := len(r.Keys())

	r.Register("chase", Profile{
		Name:      "Chase Updated",
		Detection: []*regexp.Regexp{regexp.MustCompile(`(?i)Chase`)},
	})

	if len(r.Keys()) != before {
		t.Errorf("Expected %d keys after replace, got %d", before, len(r.Keys()))
	}
	p, ok := r.Get("chase")
	if !ok || p.Name != "Chase Updated" {
		t.Errorf("Expected replaced profile, got %+v", p)
	}
}

func TestRegister_ZeroValueRegistry(t *testing.T) {
	var r Registry
	r.Register("acme", Profile{
		Name:      "ACME Bank",
		Detection: []*regexp.Regexp{regexp.MustCompile(`ACME BANK`)},
	})

	p, ok := r.Get("acme")
	if !ok || p.Name != "ACME Bank" {
		t.Errorf("Expected registered profile, got %+v", p)
	}
	if len(r.Keys()) != 1 {
		t.Errorf("Expected 1 key, got %d", len(r.Keys()))
	}
}

func TestDetect_RegistryOrderWins(t *testing.T) {
	r := NewRegistry()
	// Both signatures match; the earlier registration must win.
	text := "JPMorgan Chase and Bank of America joint notice"
	p := r.Detect(text)
	if p.Key != "chase" {
		t.Errorf("Expected 'chase' (registered first), got '%s'", p.Key)
	}
}
