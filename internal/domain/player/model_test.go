package player

import (
	"testing"
	"time"
)

func TestPlayerAge(t *testing.T) {
	t.Parallel()

	born := time.Date(1996, 10, 19, 0, 0, 0, 0, time.UTC)
	p := Player{ID: 76749, Name: "Gustav V. Yde", BirthDate: &born}

	cases := []struct {
		now  time.Time
		want int
	}{
		{now: time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), want: 29},
		{now: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), want: 30},
		{now: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), want: 30},
	}
	for _, tc := range cases {
		got, ok := p.Age(tc.now)
		if !ok || got != tc.want {
			t.Fatalf("Age(%s)=%d,%v want %d", tc.now.Format(time.DateOnly), got, ok, tc.want)
		}
	}

	if _, ok := (Player{ID: 1, Name: "x"}).Age(time.Now()); ok {
		t.Fatalf("expected unknown age without birth date")
	}
}

func TestIsPresent(t *testing.T) {
	t.Parallel()

	if IsPresent("") || IsPresent("   ") {
		t.Fatalf("blank name must not count as present")
	}
	if IsPresent("Ikke fremmødt") || IsPresent(" Ikke fremmødt (udeblevet)") {
		t.Fatalf("no-show marker must not count as present")
	}
	if !IsPresent("Anders Jensen") {
		t.Fatalf("regular name must count as present")
	}
}

func TestPlayerValidateAndNormalize(t *testing.T) {
	t.Parallel()

	p := Player{ID: 1, Name: "  Anders Jensen ", ClubName: " Vejlby IK"}.Normalized()
	if p.Name != "Anders Jensen" || p.ClubName != "Vejlby IK" {
		t.Fatalf("unexpected normalized player %+v", p)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if err := (Player{Name: "x"}).Validate(); err == nil {
		t.Fatalf("expected error for missing id")
	}
}
