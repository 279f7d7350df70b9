package rsvp

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"wedding-site/internal/models"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Menu lists the meal options guests choose from when attending.
// An empty Mains list turns meal selection off.
type Menu struct {
	Starters []string `json:"starters,omitempty"`
	Mains    []string `json:"mains,omitempty"`
}

func (m Menu) enabled() bool { return len(m.Mains) > 0 }

// FieldError is a single field validation failure.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

// ValidationErrors collects field failures.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(v))
	for i, err := range v {
		if err.Param != "" {
			parts[i] = err.Field + " failed on " + err.Tag + "=" + err.Param
		} else {
			parts[i] = err.Field + " failed on " + err.Tag
		}
	}
	return strings.Join(parts, "; ")
}

// Validate checks the required fields of r. Meals become required only when
// the guest is attending and the menu offers mains.
func Validate(r models.RSVP, menu Menu) error {
	var failures ValidationErrors

	if err := getValidator().Struct(r); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		for _, fe := range ve {
			failures = append(failures, FieldError{
				Field: fe.Field(),
				Tag:   fe.Tag(),
				Param: fe.Param(),
			})
		}
	}

	if r.Attendance == models.AttendanceYes && menu.enabled() {
		failures = append(failures, validateMeals(r, menu)...)
	}

	if len(failures) == 0 {
		return nil
	}
	return failures
}

func validateMeals(r models.RSVP, menu Menu) ValidationErrors {
	var failures ValidationErrors
	byName := make(map[string]models.MealChoice, len(r.Meals))
	for _, m := range r.Meals {
		byName[strings.TrimSpace(m.Name)] = m
	}

	for _, name := range trimmedNames(r.Names) {
		choice, ok := byName[name]
		switch {
		case !ok || strings.TrimSpace(choice.Main) == "":
			failures = append(failures, FieldError{Field: "meals", Tag: "required", Param: name})
		case !contains(menu.Mains, choice.Main):
			failures = append(failures, FieldError{Field: "meals.main", Tag: "oneof", Param: name})
		case len(menu.Starters) > 0 && !contains(menu.Starters, choice.Starter):
			failures = append(failures, FieldError{Field: "meals.starter", Tag: "oneof", Param: name})
		}
	}
	return failures
}

func contains(options []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

func trimmedNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := fld.Tag.Get("json")
			if comma := strings.Index(name, ","); comma != -1 {
				name = name[:comma]
			}
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		// At least one entry must survive trimming.
		_ = validate.RegisterValidation("anynonblank", func(fl validator.FieldLevel) bool {
			names, ok := fl.Field().Interface().([]string)
			return ok && len(trimmedNames(names)) > 0
		})
	})
	return validate
}
