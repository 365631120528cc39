package club

import "testing"

func TestNameFromTeam(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Vejlby IK 2":      "Vejlby IK",
		"Vejlby IK":        "Vejlby IK",
		" Højbjerg 12 ":    "Højbjerg",
		"Team 2000 Aarhus": "Team 2000 Aarhus",
		"Skovbakken 3":     "Skovbakken",
		"":                 "",
	}
	for in, want := range cases {
		if got := NameFromTeam(in); got != want {
			t.Fatalf("NameFromTeam(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestClubValidate(t *testing.T) {
	t.Parallel()

	if err := (Club{ID: 12, Name: "Vejlby IK"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Club{ID: 0, Name: "Vejlby IK"}).Validate(); err == nil {
		t.Fatalf("expected error for zero id")
	}
	if err := (Club{ID: 12, Name: " "}).Validate(); err == nil {
		t.Fatalf("expected error for blank name")
	}
}
