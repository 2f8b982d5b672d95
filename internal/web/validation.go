package web

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"sena-tracker/internal/models"
)

const maxBodySize = 20 << 20 // PDF evidence travels inline as base64

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// В ошибках используем имена полей из json тегов
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

type loginRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

type createFichaRequest struct {
	Number     string `json:"number" validate:"notblank,numeric"`
	Program    string `json:"program" validate:"notblank"`
	Instructor string `json:"instructor"`
}

type attendanceRequest struct {
	Date      string                             `json:"date" validate:"required"`
	Records   map[string]models.AttendanceStatus `json:"records" validate:"required,dive,keys,required,endkeys,oneof=PRESENT ABSENT EXCUSED"`
	PDFBase64 string                             `json:"pdfBase64"`
}

type apprenticesRequest struct {
	Apprentices []models.Apprentice `json:"apprentices" validate:"dive"`
}

type announcementRequest struct {
	Title       string                  `json:"title" validate:"notblank,max=200"`
	Description string                  `json:"description"`
	Type        models.AnnouncementType `json:"type" validate:"omitempty,oneof=INFO ALERT"`
}

// decode reads a JSON body into dst and validates it.
func decode(r *http.Request, dst interface{}) error {
	body := io.LimitReader(r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return &requestError{err: errors.Wrap(err, "invalid JSON body")}
	}
	if reflect.Indirect(reflect.ValueOf(dst)).Kind() != reflect.Struct {
		return nil
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			return &requestError{err: errors.New("validation failed"), fields: fields}
		}
		return &requestError{err: err}
	}
	return nil
}

// requestError - ошибка клиента (400) с необязательным списком полей
type requestError struct {
	err    error
	fields map[string]string
}

func (e *requestError) Error() string { return e.err.Error() }
