package validators

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"lms/middleware"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	// custom validation tags & texts
	safeTextTag   = "safetext"
	safeTextText  = "{0} contains invalid characters"
	safeTextRegex = regexp.MustCompile(`[<>{}]`)

	requiredTag  = "required"
	requiredText = "{0} is required"
)

func init() {
	validate = validator.New()
	english := en.New()
	translator, _ = ut.New(english, english).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(safeTextTag, func(fl validator.FieldLevel) bool {
		return !safeTextRegex.MatchString(fl.Field().String())
	})
	registerTranslation(safeTextTag, safeTextText, false)
	registerTranslation(requiredTag, requiredText, true)
}

func registerTranslation(tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// ValidateStruct runs struct tag validation and returns field → message
func ValidateStruct(s interface{}) map[string]string {
	errs := make(map[string]string)
	if err := validate.Struct(s); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				errs[fe.Field()] = fe.Translate(translator)
			}
		} else {
			errs["_"] = err.Error()
		}
	}
	return errs
}

// Normalizer lets a request trim its fields and add cross-field errors
type Normalizer interface {
	Normalize() map[string]string
}

// ValidateBody parses the body into T, validates it and stores it under key
func ValidateBody[T any](key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if n, ok := any(reqData).(Normalizer); ok {
			for k, v := range n.Normalize() {
				errors[k] = v
			}
		}
		for k, v := range ValidateStruct(reqData) {
			if _, exists := errors[k]; !exists {
				errors[k] = v
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(key, reqData)
		return c.Next()
	}
}

// Body returns the request stored by ValidateBody
func Body[T any](c *fiber.Ctx, key string) *T {
	v, _ := c.Locals(key).(*T)
	return v
}

// IDParam validates a positive integer path parameter and stores it as uint under the same name
func IDParam(params ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, param := range params {
			raw := strings.TrimSpace(c.Params(param))
			if raw == "" {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing "+param+"!", nil)
			}
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+param+"!", nil)
			}
			c.Locals(param, uint(id))
		}
		return c.Next()
	}
}

// ID returns a path id stored by IDParam
func ID(c *fiber.Ctx, param string) uint {
	id, _ := c.Locals(param).(uint)
	return id
}

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// PageQuery holds normalized pagination values
type PageQuery struct {
	Page   int
	Limit  int
	Offset int
}

// Pagination validates ?page= and ?limit= and stores a PageQuery
func Pagination() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)
		page, limit := defaultPage, defaultLimit

		if raw := c.Query("page"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 1 {
				errors["page"] = "Page must be greater than 0!"
			} else {
				page = v
			}
		}
		if raw := c.Query("limit"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 1 || v > maxLimit {
				errors["limit"] = "Limit must be between 1 and 100!"
			} else {
				limit = v
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("pageQuery", &PageQuery{Page: page, Limit: limit, Offset: (page - 1) * limit})
		return c.Next()
	}
}

// Page returns the PageQuery stored by Pagination, or defaults
func Page(c *fiber.Ctx) PageQuery {
	if p, ok := c.Locals("pageQuery").(*PageQuery); ok {
		return *p
	}
	return PageQuery{Page: defaultPage, Limit: defaultLimit}
}

// QueryBool parses an optional boolean query parameter
func QueryBool(c *fiber.Ctx, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

// QueryTime parses an optional RFC3339 or YYYY-MM-DD query parameter
func QueryTime(c *fiber.Ctx, key string) *time.Time {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
