package models

// Level — уровень группы. Набор фиксированный, совпадает с фронтом.
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
	LevelC2 Level = "C2"
)

// Levels — порядок уровней в выдаче и в сидинге.
var Levels = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}

// SeedCounts — сколько пустых мест создаём на уровень при первом обращении.
// Основные группы (A2/B1/B2) — по 30, остальные — по одному месту.
var SeedCounts = map[Level]int{
	LevelA1: 1,
	LevelA2: 30,
	LevelB1: 30,
	LevelB2: 30,
	LevelC1: 1,
	LevelC2: 1,
}

func ParseLevel(s string) (Level, bool) {
	for _, l := range Levels {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// Коды посещаемости. Хранятся одним символом.
const (
	AttendancePresent = "P" // был — "+"
	AttendanceExcused = "E" // уважительная — "−"
	AttendanceAbsent  = "A" // не был — пусто
)

type Lesson struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Order int     `json:"order"`
	Date  *string `json:"date"` // YYYY-MM-DD либо null
}

type Student struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Level    Level  `json:"level"`
	Note     string `json:"note"`
	JoinedAt string `json:"joined_at"`
}

// RecordFields — содержимое одной ячейки сетки. Отсутствие записи в БД
// эквивалентно нулевому значению этой структуры (с attendance = "A").
type RecordFields struct {
	Attendance string `json:"attendance"`
	Homework   bool   `json:"homework"`
	Extra      string `json:"extra"`
	TestScore  int    `json:"test_score"`
}

// DefaultRecordFields — эффективное значение ячейки без записи.
func DefaultRecordFields() RecordFields {
	return RecordFields{Attendance: AttendanceAbsent}
}

// HasData — есть ли в ячейке что-то, кроме значений по умолчанию.
// По этому признаку фильтруются колонки и строки при экспорте.
func (r RecordFields) HasData() bool {
	return r.Attendance == AttendancePresent ||
		r.Attendance == AttendanceExcused ||
		r.Homework ||
		r.Extra != "" ||
		r.TestScore > 0
}

type Record struct {
	ID        int64
	StudentID int64
	LessonID  int64
	RecordFields
}
