package nav

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/rules"
	"github.com/goliatone/go-formflow/pkg/validate"
)

func quietOptions() model.Options {
	return model.Options{Logger: log.New(io.Discard)}
}

func quietRegistry() *rules.Registry {
	return rules.NewRegistry(log.New(io.Discard))
}

// Three questions where the middle one is gated behind a rule that fails for
// the current answers.
func gatedForm(t *testing.T) *model.Form {
	t.Helper()

	registry := quietRegistry()
	registry.AddRule("is-returner", rules.MatchAll).
		AddPart("isReturner", rules.Equals, "true")

	form := model.New("visa", "Visa application", model.SingleQuestion, registry, quietOptions())
	form.AddQuestion("Full name", "", "").AddTextControl("fullName")
	form.AddQuestion("Previous visa number", "", "").
		SetDisplayRule("is-returner").
		AddTextControl("previousVisa")
	form.AddQuestion("Arrival date", "", "").AddDateControl("arrival")
	if err := form.Initialise(); err != nil {
		t.Fatalf("Initialise: %v", err)
	}
	return form
}

func TestSingleQuestionSkipsGatedQuestion(t *testing.T) {
	t.Parallel()

	form := gatedForm(t)
	nav := New(form)

	page, err := nav.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(page.Questions) != 1 || page.Questions[0].Caption != "Full name" {
		t.Fatalf("first page: %+v", page.Questions)
	}
	if !page.AtStart || page.AtEnd {
		t.Fatalf("first page boundaries: atStart=%v atEnd=%v", page.AtStart, page.AtEnd)
	}

	page, err = nav.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(page.Questions) != 1 || page.Questions[0].Caption != "Arrival date" {
		t.Fatalf("second page should skip the gated question, got %+v", page.Questions)
	}
	if page.AtStart || !page.AtEnd {
		t.Fatalf("second page boundaries: atStart=%v atEnd=%v", page.AtStart, page.AtEnd)
	}
}

func TestSingleQuestionGateOpensWithData(t *testing.T) {
	t.Parallel()

	form := gatedForm(t)
	form.SetValue("isReturner", "true")
	nav := New(form)

	if _, err := nav.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	page, err := nav.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if page.Questions[0].Caption != "Previous visa number" {
		t.Fatalf("expected the gated question once its rule passes, got %q", page.Questions[0].Caption)
	}
	if page.AtStart || page.AtEnd {
		t.Fatalf("middle page boundaries: atStart=%v atEnd=%v", page.AtStart, page.AtEnd)
	}
}

func TestPreviousWalksBackwards(t *testing.T) {
	t.Parallel()

	form := gatedForm(t)
	nav := New(form)

	if _, err := nav.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, err := nav.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	page, err := nav.Previous()
	if err != nil {
		t.Fatalf("Previous: %v", err)
	}
	if page.Questions[0].Caption != "Full name" {
		t.Fatalf("Previous landed on %q, want Full name", page.Questions[0].Caption)
	}
	if !page.AtStart {
		t.Fatalf("expected atStart after walking back to the first question")
	}
}

func TestSingleSectionMode(t *testing.T) {
	t.Parallel()

	registry := quietRegistry()
	registry.AddRule("travelling-with-family", rules.MatchAll).
		AddPart("withFamily", rules.Equals, "true")

	form := model.New("visa", "Visa application", model.SingleSection, registry, quietOptions())
	form.AddSection("Applicant")
	form.AddQuestion("Full name", "", "").AddTextControl("fullName")
	form.AddSection("Family").SetDisplayRule("travelling-with-family")
	form.AddQuestion("Family members", "", "").AddTextControl("familyMembers")
	form.AddSection("Travel")
	form.AddQuestion("Arrival date", "", "").AddDateControl("arrival")
	form.AddQuestion("Departure date", "", "").AddDateControl("departure")
	if err := form.Initialise(); err != nil {
		t.Fatalf("Initialise: %v", err)
	}

	nav := New(form)
	page, err := nav.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(page.Questions) != 1 || page.Questions[0].SectionID != 1 {
		t.Fatalf("first section page wrong: %+v", page.Questions)
	}
	if !page.AtStart || page.AtEnd {
		t.Fatalf("first section boundaries: atStart=%v atEnd=%v", page.AtStart, page.AtEnd)
	}

	page, err = nav.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(page.Questions) != 2 || page.Questions[0].SectionID != 3 {
		t.Fatalf("second page should be the Travel section, got %+v", page.Questions)
	}
	if page.AtStart || !page.AtEnd {
		t.Fatalf("travel section boundaries: atStart=%v atEnd=%v", page.AtStart, page.AtEnd)
	}
}

func TestEntireFormMode(t *testing.T) {
	t.Parallel()

	form := model.New("visa", "Visa application", model.EntireForm, nil, quietOptions())
	form.AddQuestion("Full name", "", "").AddTextControl("fullName")
	form.AddQuestion("Arrival date", "", "").AddDateControl("arrival")
	if err := form.Initialise(); err != nil {
		t.Fatalf("Initialise: %v", err)
	}

	page, err := New(form).Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(page.Questions) != 2 {
		t.Fatalf("entire form should show every question, got %d", len(page.Questions))
	}
	if !page.AtStart || !page.AtEnd {
		t.Fatalf("entire form is always both at start and at end")
	}
}

func TestZeroQuestionsIsStructuralError(t *testing.T) {
	t.Parallel()

	form := model.New("empty", "Empty", model.SingleQuestion, nil, quietOptions())
	if err := form.Initialise(); err != nil {
		t.Fatalf("Initialise: %v", err)
	}
	if _, err := New(form).Next(); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestValiditySnapshotIsDry(t *testing.T) {
	t.Parallel()

	form := model.New("visa", "Visa application", model.SingleQuestion, nil, quietOptions())
	control := form.AddQuestion("Full name", "", "").AddTextControl("fullName").
		AddValidator(validate.Required("name required"))
	if err := form.Initialise(); err != nil {
		t.Fatalf("Initialise: %v", err)
	}

	page, err := New(form).Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if valid, ok := page.Validity["visa:fullName"]; !ok || valid {
		t.Fatalf("snapshot should report the empty required control invalid, got %v/%v", valid, ok)
	}
	if page.Valid() {
		t.Fatalf("page with an invalid control must not report valid")
	}
	if control.ErrorMessage() != "" {
		t.Fatalf("snapshot mutated error state: %q", control.ErrorMessage())
	}

	form.SetValue("fullName", "Ada Lovelace")
	page, err = New(form).Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !page.Valid() {
		t.Fatalf("page should be valid once the control is filled")
	}
}
