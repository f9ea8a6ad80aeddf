package wizard

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var testToday = time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)

func always(int) bool { return true }
func never(int) bool  { return false }

func TestNext_NeverPassesTotal(t *testing.T) {
	s := NewState()
	for i := 0; i < 10; i++ {
		s = Next(s, always)
	}
	if s.Current != TotalSteps {
		t.Fatalf("expected step %d, got %d", TotalSteps, s.Current)
	}
}

func TestPrev_NeverBelowOne(t *testing.T) {
	s := State{Current: 3, Total: TotalSteps}
	for i := 0; i < 10; i++ {
		s = Prev(s)
	}
	if s.Current != 1 {
		t.Fatalf("expected step 1, got %d", s.Current)
	}
}

func TestNext_GuardFailureStays(t *testing.T) {
	s := NewState()
	if got := Next(s, never); got != s {
		t.Fatalf("expected no transition, got %+v", got)
	}
}

func TestNext_GuardSeesCurrentStep(t *testing.T) {
	var seen []int
	s := NewState()
	for i := 0; i < 3; i++ {
		s = Next(s, func(step int) bool {
			seen = append(seen, step)
			return true
		})
	}
	if diff := cmp.Diff([]int{1, 2, 3}, seen); diff != "" {
		t.Fatalf("guard steps mismatch (-want +got):\n%s", diff)
	}
}

func TestButtonsFor(t *testing.T) {
	cases := []struct {
		step int
		want Buttons
	}{
		{1, Buttons{Prev: false, Next: true, Submit: false}},
		{2, Buttons{Prev: true, Next: true, Submit: false}},
		{3, Buttons{Prev: true, Next: false, Submit: true}},
	}
	for _, c := range cases {
		got := ButtonsFor(State{Current: c.step, Total: TotalSteps})
		if got != c.want {
			t.Errorf("step %d: got %+v want %+v", c.step, got, c.want)
		}
	}
}

func TestStepClasses(t *testing.T) {
	got := StepClasses(State{Current: 2, Total: 3})
	want := []StepClass{StepCompleted, StepActive, StepPending}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}
}

func validDetails() *Values {
	f := NewValues(nil)
	f.Set(FieldTitle, "Ataque en Parque Saval")
	f.Set(FieldDate, "2025-12-20")
	f.Set(FieldAnimalType, "dog")
	f.Set(FieldSeverity, "moderate")
	f.Set(FieldDescription, strings.Repeat("a", MinDescriptionLength))
	return f
}

func TestValidateStep1_OK(t *testing.T) {
	res := ValidateStep(1, validDetails(), testToday)
	if !res.OK {
		t.Fatalf("expected ok, got %+v", res)
	}
}

func TestValidateStep1_ShortDescriptionFails(t *testing.T) {
	f := validDetails()
	f.Set(FieldDescription, strings.Repeat("a", MinDescriptionLength-1))

	res := ValidateStep(1, f, testToday)
	if res.OK {
		t.Fatalf("expected failure for 49 chars")
	}
	if res.Warning == nil || res.Warning.Kind != WarningMissingFields {
		t.Fatalf("expected missing_fields warning, got %+v", res.Warning)
	}
	if diff := cmp.Diff([]string{FieldDescription}, res.Mark); diff != "" {
		t.Fatalf("marked fields mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateStep1_DescriptionIsTrimmedAndCountsRunes(t *testing.T) {
	f := validDetails()
	f.Set(FieldDescription, "   "+strings.Repeat("ñ", MinDescriptionLength-1)+"   ")
	if ValidateStep(1, f, testToday).OK {
		t.Fatalf("padding must not count towards the minimum")
	}

	f.Set(FieldDescription, strings.Repeat("ñ", MinDescriptionLength))
	if !ValidateStep(1, f, testToday).OK {
		t.Fatalf("50 runes of 2 bytes each must pass")
	}
}

func TestValidateStep1_FutureDateFailsAndClears(t *testing.T) {
	f := validDetails()
	f.Set(FieldDate, "2025-12-23")

	res := ValidateStep(1, f, testToday)
	if res.OK {
		t.Fatalf("expected failure for future date")
	}
	if res.Warning == nil || res.Warning.Kind != WarningInvalidDate {
		t.Fatalf("expected invalid_date warning, got %+v", res.Warning)
	}
	if diff := cmp.Diff([]string{FieldDate}, res.Clear); diff != "" {
		t.Fatalf("cleared fields mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateStep1_TodayIsValid(t *testing.T) {
	f := validDetails()
	f.Set(FieldDate, "2025-12-22")
	if !ValidateStep(1, f, testToday).OK {
		t.Fatalf("today must be accepted")
	}
}

func TestValidateStep1_MissingFields(t *testing.T) {
	f := validDetails()
	f.Clear(FieldSeverity)
	f.Set(FieldTitle, "   ")

	res := ValidateStep(1, f, testToday)
	if res.OK {
		t.Fatalf("expected failure")
	}
	if diff := cmp.Diff([]string{FieldTitle, FieldSeverity}, res.Mark); diff != "" {
		t.Fatalf("marked fields mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateStep2_RequiresBothCoordinates(t *testing.T) {
	f := NewValues(nil)
	f.Set(FieldLatitude, "-39.81")
	if ValidateStep(2, f, testToday).OK {
		t.Fatalf("expected failure with only latitude")
	}
	f.Set(FieldLongitude, "-73.24")
	if !ValidateStep(2, f, testToday).OK {
		t.Fatalf("expected ok with both coordinates")
	}
}

func TestValidateStep3_AlwaysOK(t *testing.T) {
	if !ValidateStep(3, NewValues(nil), testToday).OK {
		t.Fatalf("step 3 has nothing to validate")
	}
}

func TestCounter(t *testing.T) {
	c := Counter(strings.Repeat("x", 25))
	if c.Valid || c.Percent != 50 || c.Label != "Mínimo 50 caracteres (25/50)" {
		t.Fatalf("unexpected counter %+v", c)
	}

	c = Counter(strings.Repeat("x", 120))
	if !c.Valid || c.Percent != 100 || c.Label != "120 caracteres" {
		t.Fatalf("unexpected counter %+v", c)
	}
}
