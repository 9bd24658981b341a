package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/media"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/datatypes"
)

// maxBodySize fits a 5 MiB image once base64 encoded plus the rest of a form.
const maxBodySize = 8 << 20

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return errs.NewInvalidJSONError(err)
	}
	return validationError(validate.Struct(dst))
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errs.NewMalformedPayloadError("request", err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required", "notblank":
		return errs.NewMissingRequiredFieldError(fe.Field())
	case "oneof":
		return errs.NewInvalidFieldError(fe.Field(), "must be one of "+fe.Param())
	case "max":
		return errs.NewInvalidFieldError(fe.Field(), "must be at most "+fe.Param()+" characters")
	case "url":
		return errs.NewInvalidFieldError(fe.Field(), "must be a valid URL")
	case "email":
		return errs.NewInvalidFieldError(fe.Field(), "must be a valid email address")
	case "slug":
		return errs.NewInvalidFieldError(fe.Field(), "must contain only lowercase letters, digits and single dashes")
	default:
		return errs.NewInvalidFieldError(fe.Field(), "failed "+fe.Tag()+" validation")
	}
}

// pathID parses the uuid path parameter name.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, errs.NewBadRequestError("missing " + name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid " + name)
	}
	return id, nil
}

// listQuery reads search, tag, page and limit parameters. tagParam names the
// comma separated tag filter of the entity.
func listQuery(r *http.Request, tagParam string) (database.ListQuery, error) {
	values := r.URL.Query()
	q := database.ListQuery{
		Search: values.Get("search"),
	}
	if tagParam != "" {
		for _, raw := range values[tagParam] {
			q.Tags = append(q.Tags, models.ParseTagList(raw)...)
		}
	}

	var err error
	if q.Page, err = intParam(values.Get("page"), database.DefaultPage, "page"); err != nil {
		return q, err
	}
	if q.Limit, err = intParam(values.Get("limit"), database.DefaultLimit, "limit"); err != nil {
		return q, err
	}
	return q, q.Validate()
}

func intParam(raw string, def int, name string) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewInvalidFieldError(name, "must be an integer")
	}
	return n, nil
}

var dateLayouts = []string{time.DateOnly, time.RFC3339, time.RFC3339Nano}

func parseDate(field, raw string) (datatypes.Date, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return datatypes.Date(t), nil
		}
	}
	return datatypes.Date{}, errs.NewInvalidFieldError(field, fmt.Sprintf("%q is not a date (YYYY-MM-DD)", raw))
}

// imageUpload validates an optional base64 image. It returns nil bytes when
// no payload was sent.
func imageUpload(image, imageType *string) ([]byte, *string, error) {
	if image == nil || strings.TrimSpace(*image) == "" {
		return nil, nil, nil
	}
	if imageType == nil || strings.TrimSpace(*imageType) == "" {
		return nil, nil, errs.NewMissingRequiredFieldError("imageType")
	}
	mimeType := strings.TrimSpace(*imageType)
	data, err := media.ValidateImage(*image, mimeType)
	if err != nil {
		return nil, nil, err
	}
	return data, &mimeType, nil
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
