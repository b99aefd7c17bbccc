package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/myblog-api/internal/models"
	"github.com/myblog-api/internal/slug"
)

// Validator checks imported content records. Besides the struct rules it
// remembers the names and slugs already seen in the current batch.
type Validator struct {
	validate *validator.Validate
	seen     map[models.ImportResource]map[string]bool
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their JSON name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "unicode_slug", func(fl validator.FieldLevel) bool {
		return slug.Valid(fl.Field().String())
	})
	mustRegister(v, "project_status", func(fl validator.FieldLevel) bool {
		return models.ProjectStatus(fl.Field().String()).Valid()
	})

	return &Validator{
		validate: v,
		seen:     make(map[models.ImportResource]map[string]bool),
	}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

// Remember records a unique key (name or slug) for resource in the current batch
func (v *Validator) Remember(resource models.ImportResource, key string) {
	if v.seen[resource] == nil {
		v.seen[resource] = make(map[string]bool)
	}
	v.seen[resource][key] = true
}

func (v *Validator) duplicate(resource models.ImportResource, key string) bool {
	return key != "" && v.seen[resource][key]
}

// ValidateUser validates a user record
func (v *Validator) ValidateUser(user *models.UserNDJSON) []models.ValidationError {
	errs := v.structErrors(user)
	if v.duplicate(models.ImportUsers, user.Username) {
		errs = append(errs, models.ValidationError{Field: "username", Message: "duplicate username", Value: user.Username})
	}
	return errs
}

// ValidateCategory validates a category record
func (v *Validator) ValidateCategory(category *models.CategoryNDJSON) []models.ValidationError {
	errs := v.structErrors(category)
	if v.duplicate(models.ImportCategories, category.Name) {
		errs = append(errs, models.ValidationError{Field: "name", Message: "duplicate name", Value: category.Name})
	}
	return errs
}

// ValidateTag validates a tag record
func (v *Validator) ValidateTag(tag *models.TagNDJSON) []models.ValidationError {
	errs := v.structErrors(tag)
	if v.duplicate(models.ImportTags, tag.Name) {
		errs = append(errs, models.ValidationError{Field: "name", Message: "duplicate name", Value: tag.Name})
	}
	return errs
}

// ValidatePost validates a post record. slugValue is the slug that will be
// stored, either given or generated from the title.
func (v *Validator) ValidatePost(post *models.PostNDJSON, slugValue string) []models.ValidationError {
	errs := v.structErrors(post)
	errs = append(errs, v.checkSlug(models.ImportPosts, post.Slug, slugValue)...)
	return errs
}

// ValidateTechStack validates a tech stack record
func (v *Validator) ValidateTechStack(stack *models.TechStackNDJSON) []models.ValidationError {
	errs := v.structErrors(stack)
	if v.duplicate(models.ImportTechStacks, stack.Name) {
		errs = append(errs, models.ValidationError{Field: "name", Message: "duplicate name", Value: stack.Name})
	}
	return errs
}

// ValidateProject validates a project record
func (v *Validator) ValidateProject(project *models.ProjectNDJSON, slugValue string) []models.ValidationError {
	errs := v.structErrors(project)
	errs = append(errs, v.checkSlug(models.ImportProjects, project.Slug, slugValue)...)
	return errs
}

// checkSlug covers generated slugs, which the struct rules never see
func (v *Validator) checkSlug(resource models.ImportResource, given, final string) []models.ValidationError {
	if given != "" {
		// struct rules already judged the given slug; only batch uniqueness is left
		if v.duplicate(resource, final) {
			return []models.ValidationError{{Field: "slug", Message: "duplicate slug", Value: final}}
		}
		return nil
	}

	switch {
	case final == "":
		return []models.ValidationError{{Field: "slug", Message: "could not derive a slug from title; provide one"}}
	case utf8.RuneCountInString(final) > models.MaxSlugLength:
		return []models.ValidationError{{Field: "slug", Message: fmt.Sprintf("generated slug exceeds %d characters; provide one", models.MaxSlugLength), Value: final}}
	case v.duplicate(resource, final):
		return []models.ValidationError{{Field: "slug", Message: "duplicate slug", Value: final}}
	}
	return nil
}

func (v *Validator) structErrors(record any) []models.ValidationError {
	err := v.validate.Struct(record)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []models.ValidationError{{Field: "record", Message: err.Error()}}
	}

	out := make([]models.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, models.ValidationError{
			Field:   fieldName(fe),
			Message: message(fe),
			Value:   value(fe),
		})
	}
	return out
}

// fieldName drops the struct prefix: "PostNDJSON.tags[1]" becomes "tags[1]"
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	name := fieldName(fe)
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	case "email":
		return "invalid email format"
	case "url":
		return "invalid URL"
	case "hexcolor":
		return "color must be a hex color such as #61dafb"
	case "unicode_slug":
		return "slug may contain only letters, digits, marks, underscores and hyphens"
	case "project_status":
		return "invalid status, must be one of: developing, completed, online, offline"
	default:
		return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
	}
}

func value(fe validator.FieldError) any {
	if fe.Tag() == "required" {
		return nil
	}
	return fe.Value()
}
