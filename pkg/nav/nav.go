// Package nav walks a form according to its draw mode, computing the set of
// questions currently visible under rule gating, the start and end boundary
// flags, and a dry validity snapshot for the visible controls.
package nav

import (
	"errors"

	"github.com/goliatone/go-formflow/pkg/model"
)

// ErrNoQuestions is returned when navigation is requested on a form without
// questions. That is a configuration defect the host application must hear
// about, not an empty page.
var ErrNoQuestions = errors.New("nav: form has no questions")

// Page is one visible step of the form.
type Page struct {
	// Questions is the visible set, in form order.
	Questions []*model.Question
	// AtStart and AtEnd report whether any further visible item exists
	// behind or ahead of the current one.
	AtStart bool
	AtEnd   bool
	// Validity maps control ids to the outcome of a dry synchronous
	// validation: no error state is mutated, so a control the user never
	// touched is not visibly flagged.
	Validity map[string]bool
}

// Valid reports whether every visible control passed the dry check.
func (p *Page) Valid() bool {
	for _, ok := range p.Validity {
		if !ok {
			return false
		}
	}
	return true
}

// Navigator tracks a cursor over a form's sections or questions. The zero
// cursor sits before the first item, so the first forward step lands on the
// first visible item.
type Navigator struct {
	form     *model.Form
	lastItem int
}

// New returns a navigator positioned before the start of form.
func New(form *model.Form) *Navigator {
	return &Navigator{form: form, lastItem: -1}
}

// Reset moves the cursor back before the first item.
func (n *Navigator) Reset() {
	n.lastItem = -1
}

// Next advances to the next visible page.
func (n *Navigator) Next() (*Page, error) {
	return n.step(+1)
}

// Previous moves back to the previous visible page.
func (n *Navigator) Previous() (*Page, error) {
	return n.step(-1)
}

func (n *Navigator) step(direction int) (*Page, error) {
	if len(n.form.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	switch n.form.Mode {
	case model.EntireForm:
		page := &Page{
			Questions: append([]*model.Question(nil), n.form.Questions...),
			AtStart:   true,
			AtEnd:     true,
		}
		n.snapshotValidity(page)
		return page, nil
	case model.SingleSection:
		return n.stepSection(direction)
	default:
		return n.stepQuestion(direction)
	}
}

func (n *Navigator) stepSection(direction int) (*Page, error) {
	found := n.findSection(n.lastItem+direction, direction)
	if found < 0 {
		// No further visible section in that direction; hold position.
		found = n.findSection(n.lastItem, direction)
		if found < 0 {
			return nil, ErrNoQuestions
		}
	}
	n.lastItem = found

	sectionID := n.form.Sections[found].ID
	page := &Page{
		AtStart: n.findSection(found-1, -1) < 0,
		AtEnd:   n.findSection(found+1, +1) < 0,
	}
	for _, question := range n.form.Questions {
		if question.SectionID == sectionID {
			page.Questions = append(page.Questions, question)
		}
	}
	n.snapshotValidity(page)
	return page, nil
}

func (n *Navigator) stepQuestion(direction int) (*Page, error) {
	found := n.findQuestion(n.lastItem+direction, direction)
	if found < 0 {
		found = n.findQuestion(n.lastItem, direction)
		if found < 0 {
			return nil, ErrNoQuestions
		}
	}
	n.lastItem = found

	page := &Page{
		Questions: []*model.Question{n.form.Questions[found]},
		AtStart:   n.findQuestion(found-1, -1) < 0,
		AtEnd:     n.findQuestion(found+1, +1) < 0,
	}
	n.snapshotValidity(page)
	return page, nil
}

// findSection walks from index `from` in `direction`, skipping sections whose
// gating rule evaluates false, and returns the first visible index or -1.
func (n *Navigator) findSection(from, direction int) int {
	for i := from; i >= 0 && i < len(n.form.Sections); i += direction {
		if n.visible(n.form.Sections[i].RuleToMatch) {
			return i
		}
	}
	return -1
}

func (n *Navigator) findQuestion(from, direction int) int {
	for i := from; i >= 0 && i < len(n.form.Questions); i += direction {
		if n.visible(n.form.Questions[i].RuleToMatch) {
			return i
		}
	}
	return -1
}

// visible evaluates a gating rule name; an ungated item is always visible.
func (n *Navigator) visible(rule string) bool {
	if rule == "" {
		return true
	}
	registry := n.form.Registry()
	if registry == nil {
		return false
	}
	return registry.Evaluate(rule, n.form.Store())
}

func (n *Navigator) snapshotValidity(page *Page) {
	page.Validity = make(map[string]bool)
	for _, question := range page.Questions {
		for _, control := range question.Controls {
			page.Validity[control.ID()] = control.CheckValid()
		}
	}
}
