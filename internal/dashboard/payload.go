package dashboard

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Spok95/school-dashboard/internal/models"
)

// SavePayload — частичное состояние сетки от клиента. Все секции
// необязательны; внутри record-патча отсутствующее поле означает
// «не трогать» (для новой записи — значение по умолчанию).
type SavePayload struct {
	Records  map[string]map[string]RecordPatch `json:"records"`
	Students []StudentPatch                    `json:"students"`
	Lessons  []LessonPatch                     `json:"lessons"`
}

type RecordPatch struct {
	Attendance AttendanceValue `json:"attendance"`
	Homework   *bool           `json:"homework"`
	Extra      *string         `json:"extra" validate:"omitempty,max=255"`
	TestScore  *int            `json:"test_score" validate:"omitempty,gte=0"`
}

type StudentPatch struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name" validate:"omitempty,max=120"`
	Note *string `json:"note" validate:"omitempty,max=255"`
}

type LessonPatch struct {
	ID   *int64  `json:"id"`
	Date *string `json:"date"`
}

// AttendanceValue принимает всё, что шлёт фронт: строковый код, булево
// значение или null, — и нормализует к 'P'/'E'/'A'. Set=false означает,
// что ключа в патче не было вовсе.
type AttendanceValue struct {
	Code string
	Set  bool
}

func (a *AttendanceValue) UnmarshalJSON(data []byte) error {
	a.Set = true

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			a.Code = models.AttendancePresent
		} else {
			a.Code = models.AttendanceAbsent
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.Code = normalizeAttendanceCode(s)
		return nil
	}

	// null и всё остальное — «не был»
	a.Code = models.AttendanceAbsent
	return nil
}

func normalizeAttendanceCode(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case models.AttendancePresent:
		return models.AttendancePresent
	case models.AttendanceExcused:
		return models.AttendanceExcused
	default:
		return models.AttendanceAbsent
	}
}

// ValidationError — ошибка уровня поля: откатывает всю транзакцию
// сохранения и уходит клиенту как 400 с именем поля.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s (%s)", e.Field, e.Reason)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// в ошибках отдаём имена полей как в JSON, а не как в Go
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		return &ValidationError{Field: fe.Field(), Reason: fe.Tag()}
	}
	return err
}
