package validate

import (
	"strings"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCondition_Valid(t *testing.T) {
	r := Condition("Hypertension", "Persistently elevated arterial blood pressure.",
		[]string{"Headache", "Dizziness"}, []string{"Lifestyle changes", "Medication"}, nil)
	if !r.Valid {
		t.Fatalf("expected valid, got errors: %v", r.Errors)
	}
	if len(r.Errors) != 0 {
		t.Errorf("expected no errors, got %v", r.Errors)
	}
}

func TestCondition_ShortName(t *testing.T) {
	r := Condition("H", "Persistently elevated arterial blood pressure.", nil, nil, nil)
	if r.Valid {
		t.Fatal("expected invalid")
	}
	found := false
	for _, e := range r.Errors {
		if strings.Contains(e, "name") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an error mentioning the name constraint, got %v", r.Errors)
	}
}

func TestCondition_MissingFields(t *testing.T) {
	r := Condition("", "", nil, nil, nil)
	if r.Valid {
		t.Fatal("expected invalid")
	}
	if len(r.Errors) != 2 {
		t.Errorf("expected 2 errors (name, description), got %v", r.Errors)
	}
}

func TestCondition_ShortDescription(t *testing.T) {
	r := Condition("Hypertension", "too short", nil, nil, nil)
	if r.Valid {
		t.Fatal("expected invalid")
	}
}

func TestCondition_BlankListItem(t *testing.T) {
	r := Condition("Hypertension", "Persistently elevated arterial blood pressure.",
		[]string{"Headache", "  "}, nil, nil)
	if r.Valid {
		t.Fatal("expected invalid for blank symptom entry")
	}
}

func TestMedication_Valid(t *testing.T) {
	r := Medication("Lisinopril", "ACE inhibitor",
		UsesList([]string{"Hypertension", "Heart failure"}),
		[]string{"Dry cough"}, "10-40 mg daily", []string{"Pregnancy"})
	if !r.Valid {
		t.Fatalf("expected valid, got %v", r.Errors)
	}
}

func TestMedication_TextUses(t *testing.T) {
	r := Medication("Metformin", "Biguanide",
		UsesText("First-line therapy for type 2 diabetes"),
		nil, "500-2000 mg daily", nil)
	if !r.Valid {
		t.Fatalf("expected valid, got %v", r.Errors)
	}
}

func TestMedication_ShortTextUses(t *testing.T) {
	r := Medication("Metformin", "Biguanide", UsesText("T2D"), nil, "500-2000 mg daily", nil)
	if r.Valid {
		t.Fatal("expected invalid for uses shorter than 5 characters")
	}
}

func TestMedication_MissingDosing(t *testing.T) {
	r := Medication("Metformin", "Biguanide", UsesList([]string{"Diabetes"}), nil, "", nil)
	if r.Valid {
		t.Fatal("expected invalid")
	}
	found := false
	for _, e := range r.Errors {
		if strings.Contains(e, "dosing") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected dosing error, got %v", r.Errors)
	}
}

func TestUsesItems(t *testing.T) {
	if got := UsesText("  ").Items(); len(got) != 0 {
		t.Errorf("blank text uses should normalize to empty list, got %v", got)
	}
	if got := UsesText("Pain relief").Items(); len(got) != 1 || got[0] != "Pain relief" {
		t.Errorf("text uses should become single-item list, got %v", got)
	}
	if got := UsesList(nil).Items(); got == nil || len(got) != 0 {
		t.Errorf("nil list should normalize to empty list, got %v", got)
	}
}

func TestReference_Valid(t *testing.T) {
	r := Reference("2020 International Society of Hypertension Global Practice Guidelines",
		strPtr("https://example.org/guidelines/hypertension"), strPtr("Unger T, et al."),
		strPtr("Hypertension"), intPtr(2020), strPtr("10.1161/HYPERTENSIONAHA.120.15026"))
	if !r.Valid {
		t.Fatalf("expected valid, got %v", r.Errors)
	}
}

func TestReference_ShortTitleAndBadYear(t *testing.T) {
	r := Reference("AB", nil, nil, nil, intPtr(1750), nil)
	if r.Valid {
		t.Fatal("expected invalid")
	}
	var hasTitle, hasYear bool
	for _, e := range r.Errors {
		if strings.Contains(e, "title") {
			hasTitle = true
		}
		if strings.Contains(e, "year") {
			hasYear = true
		}
	}
	if !hasTitle || !hasYear {
		t.Errorf("expected both title and year violations, got %v", r.Errors)
	}
}

func TestReference_BadURL(t *testing.T) {
	r := Reference("A perfectly reasonable title", strPtr("not a url"), nil, nil, nil, nil)
	if r.Valid {
		t.Fatal("expected invalid url")
	}
}

func TestReference_BadDOI(t *testing.T) {
	r := Reference("A perfectly reasonable title", nil, nil, nil, nil, strPtr("doi:11.1234/x"))
	if r.Valid {
		t.Fatal("expected invalid doi")
	}
}

func TestReference_FutureYearWithinGrace(t *testing.T) {
	next := time.Now().Year() + 1
	r := Reference("A perfectly reasonable title", nil, nil, nil, &next, nil)
	if !r.Valid {
		t.Fatalf("year %d should be accepted, got %v", next, r.Errors)
	}
	after := next + 1
	r = Reference("A perfectly reasonable title", nil, nil, nil, &after, nil)
	if r.Valid {
		t.Errorf("year %d should be rejected", after)
	}
}

func TestGuideline_Valid(t *testing.T) {
	r := Guideline("2023 AHA/ACC Guideline for the Management of Heart Failure",
		"American Heart Association", 2023, nil, strPtr("https://www.ahajournals.org/hf"))
	if !r.Valid {
		t.Fatalf("expected valid, got %v", r.Errors)
	}
}

func TestGuideline_MissingYear(t *testing.T) {
	r := Guideline("2023 AHA/ACC Guideline for the Management of Heart Failure",
		"American Heart Association", 0, nil, nil)
	if r.Valid {
		t.Fatal("expected invalid without publication year")
	}
}

func TestGuideline_ShortOrganization(t *testing.T) {
	r := Guideline("2023 AHA/ACC Guideline for the Management of Heart Failure", "A", 2023, nil, nil)
	if r.Valid {
		t.Fatal("expected invalid organization")
	}
}

func TestResultErr(t *testing.T) {
	if err := (Result{Valid: true}).Err(); err != nil {
		t.Errorf("valid result should have nil Err, got %v", err)
	}
	r := Condition("", "", nil, nil, nil)
	if err := r.Err(); err == nil {
		t.Error("invalid result should produce an error")
	}
}
