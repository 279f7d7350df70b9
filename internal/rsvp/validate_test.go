package rsvp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"wedding-site/internal/models"
)

var testMenu = Menu{
	Starters: []string{"Soup", "Salad"},
	Mains:    []string{"Beef", "Fish", "Risotto"},
}

func validRSVP() models.RSVP {
	return models.RSVP{
		Names:      []string{"Sam", "Lee"},
		Email:      "sam@example.com",
		Attendance: models.AttendanceYes,
		Meals: []models.MealChoice{
			{Name: "Sam", Starter: "Soup", Main: "Beef"},
			{Name: "Lee", Starter: "Salad", Main: "Risotto"},
		},
	}
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field)
	}
	return fields
}

func TestValidateAcceptsCompleteRSVP(t *testing.T) {
	require.NoError(t, Validate(validRSVP(), testMenu))
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*models.RSVP)
		field string
	}{
		{"no names", func(r *models.RSVP) { r.Names = nil }, "names"},
		{"blank names", func(r *models.RSVP) { r.Names = []string{" ", ""} }, "names"},
		{"no email", func(r *models.RSVP) { r.Email = "" }, "email"},
		{"bad email", func(r *models.RSVP) { r.Email = "not-an-email" }, "email"},
		{"unset attendance", func(r *models.RSVP) { r.Attendance = models.AttendanceUnset }, "attendance"},
		{"unknown attendance", func(r *models.RSVP) { r.Attendance = "maybe" }, "attendance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRSVP()
			tt.edit(&r)
			require.Contains(t, fieldsOf(t, Validate(r, testMenu)), tt.field)
		})
	}
}

func TestValidateAllowsBlankExtraNames(t *testing.T) {
	r := validRSVP()
	r.Names = []string{"Sam", "  "}
	r.Meals = r.Meals[:1]
	require.NoError(t, Validate(r, testMenu))
}

func TestValidateMealsOnlyWhenAttending(t *testing.T) {
	r := validRSVP()
	r.Meals = nil
	require.Equal(t, []string{"meals", "meals"}, fieldsOf(t, Validate(r, testMenu)))

	r.Attendance = models.AttendanceNo
	require.NoError(t, Validate(r, testMenu))
}

func TestValidateMealsAgainstMenu(t *testing.T) {
	r := validRSVP()
	r.Meals[0].Main = "Lobster"
	require.Equal(t, []string{"meals.main"}, fieldsOf(t, Validate(r, testMenu)))

	r = validRSVP()
	r.Meals[1].Starter = ""
	require.Equal(t, []string{"meals.starter"}, fieldsOf(t, Validate(r, testMenu)))

	// Without starters on the menu the starter is free-form.
	require.NoError(t, Validate(r, Menu{Mains: testMenu.Mains}))
}

func TestValidateWithoutMenuSkipsMeals(t *testing.T) {
	r := validRSVP()
	r.Meals = nil
	require.NoError(t, Validate(r, Menu{}))
}

func TestValidationErrorsMessage(t *testing.T) {
	err := ValidationErrors{{Field: "email", Tag: "required"}, {Field: "meals", Tag: "required", Param: "Sam"}}
	require.Equal(t, "email failed on required; meals failed on required=Sam", err.Error())
	require.Equal(t, "validation failed", ValidationErrors{}.Error())
}
