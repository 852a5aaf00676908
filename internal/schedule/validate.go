package schedule

import (
	"fmt"

	"github.com/carebook/booking-api/internal/models"
	appErrors "github.com/carebook/booking-api/pkg/errors"
)

// ValidateWindows checks one day's category windows before any staged edit
// or submission. Checks run in order and short-circuit on the first failure:
// completeness, then ordering, then phone/in-person overlap. A failing
// result must never be followed by a state mutation.
//
// Break hours are not cross-checked against phone or in-person hours; that
// is a known limitation of the current editing rules, kept deliberately.
func ValidateWindows(w models.CategoryWindows) error {
	categories := []struct {
		name   string
		window models.TimeWindow
	}{
		{"phone", w.Phone.Normalized()},
		{"in_person", w.InPerson.Normalized()},
		{"break", w.Break.Normalized()},
	}

	for _, c := range categories {
		if !c.window.Set() && !c.window.Empty() {
			return validationError(fmt.Sprintf("%s window is incomplete", c.name))
		}
	}

	for _, c := range categories {
		if c.window.Empty() {
			continue
		}
		from, err := clockToMinutes(c.window.From)
		if err != nil {
			return validationError(fmt.Sprintf("%s window: %v", c.name, err))
		}
		to, err := clockToMinutes(c.window.To)
		if err != nil {
			return validationError(fmt.Sprintf("%s window: %v", c.name, err))
		}
		if from >= to {
			return validationError(fmt.Sprintf("%s window ends before it starts", c.name))
		}
	}

	phone := w.Phone.Normalized()
	inPerson := w.InPerson.Normalized()
	if phone.Set() && inPerson.Set() {
		overlap, err := strictOverlap(phone, inPerson)
		if err != nil {
			return validationError(err.Error())
		}
		if overlap {
			return validationError("phone and in-person hours overlap")
		}
	}

	return nil
}

// strictOverlap reports whether either boundary of one window lies strictly
// between the boundaries of the other, in either direction. Touching
// boundaries do not overlap.
func strictOverlap(a, b models.TimeWindow) (bool, error) {
	aFrom, err := clockToMinutes(a.From)
	if err != nil {
		return false, err
	}
	aTo, err := clockToMinutes(a.To)
	if err != nil {
		return false, err
	}
	bFrom, err := clockToMinutes(b.From)
	if err != nil {
		return false, err
	}
	bTo, err := clockToMinutes(b.To)
	if err != nil {
		return false, err
	}

	return strictlyBetween(bFrom, aFrom, aTo) ||
		strictlyBetween(bTo, aFrom, aTo) ||
		strictlyBetween(aFrom, bFrom, bTo) ||
		strictlyBetween(aTo, bFrom, bTo), nil
}

func strictlyBetween(x, lo, hi int) bool {
	return x > lo && x < hi
}

func validationError(reason string) error {
	return appErrors.Clone(appErrors.ErrValidation, reason)
}
