//go:build testutil
// +build testutil

package dashboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/Spok95/school-dashboard/internal/dashboard"
	"github.com/Spok95/school-dashboard/internal/db"
	"github.com/Spok95/school-dashboard/internal/models"
	"github.com/Spok95/school-dashboard/internal/testutil/testdb"
)

func payloadJSON(t *testing.T, s string) dashboard.SavePayload {
	t.Helper()
	var p dashboard.SavePayload
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestGetState_SeedIdempotent(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ctx := context.Background()

	st1, err := dashboard.GetState(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	if len(st1.Lessons) != db.SeedLessonCount {
		t.Fatalf("ожидали %d уроков после сидинга, получили %d", db.SeedLessonCount, len(st1.Lessons))
	}
	if st1.Lessons[0].Title != "1-dars" || st1.Lessons[0].Date == nil {
		t.Fatalf("первый урок засеян неверно: %+v", st1.Lessons[0])
	}
	for _, level := range models.Levels {
		if got := len(st1.Students[level]); got != models.SeedCounts[level] {
			t.Fatalf("уровень %s: ожидали %d учеников, получили %d", level, models.SeedCounts[level], got)
		}
	}
	if len(st1.Records) != 0 {
		t.Fatalf("свежая сетка не должна содержать записей, получили %d", len(st1.Records))
	}

	// повторное чтение ничего не досеивает
	st2, err := dashboard.GetState(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	if len(st2.Lessons) != len(st1.Lessons) {
		t.Fatalf("повторный вызов изменил число уроков: %d -> %d", len(st1.Lessons), len(st2.Lessons))
	}
	for _, level := range models.Levels {
		if len(st2.Students[level]) != len(st1.Students[level]) {
			t.Fatalf("повторный вызов изменил уровень %s", level)
		}
	}
}

func TestSave_RoundTripAndPartialUpdate(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ctx := context.Background()

	st, err := dashboard.GetState(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	sid := st.Students[models.LevelA2][0].ID
	lid := st.Lessons[1].ID
	sidKey := strconv.FormatInt(sid, 10)
	lidKey := strconv.FormatInt(lid, 10)

	if err := dashboard.Save(ctx, h.DB, payloadJSON(t, `{
		"records": {"`+sidKey+`": {"`+lidKey+`": {"attendance": "P", "homework": true, "test_score": 95}}}
	}`)); err != nil {
		t.Fatal(err)
	}

	st, err = dashboard.GetState(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	cell := st.Records[sidKey][lidKey]
	if cell.Attendance != "P" || !cell.Homework || cell.TestScore != 95 || cell.Extra != "" {
		t.Fatalf("round-trip сломан: %+v", cell)
	}

	// частичное обновление: присылаем только extra, остальное не трогаем
	if err := dashboard.Save(ctx, h.DB, payloadJSON(t, `{
		"records": {"`+sidKey+`": {"`+lidKey+`": {"extra": "kech keldi"}}}
	}`)); err != nil {
		t.Fatal(err)
	}
	st, err = dashboard.GetState(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	cell = st.Records[sidKey][lidKey]
	if cell.Attendance != "P" || !cell.Homework || cell.TestScore != 95 {
		t.Fatalf("частичное обновление перетёрло поля: %+v", cell)
	}
	if cell.Extra != "kech keldi" {
		t.Fatalf("extra не записался: %+v", cell)
	}
}

func TestSave_NewCellDefaults(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ctx := context.Background()

	st, err := dashboard.GetState(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	sid := strconv.FormatInt(st.Students[models.LevelB1][0].ID, 10)
	lid := strconv.FormatInt(st.Lessons[0].ID, 10)

	// attendance в патче нет — новая ячейка получает 'A'
	if err := dashboard.Save(ctx, h.DB, payloadJSON(t, `{
		"records": {"`+sid+`": {"`+lid+`": {"homework": true}}}
	}`)); err != nil {
		t.Fatal(err)
	}
	st, err = dashboard.GetState(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	cell := st.Records[sid][lid]
	if cell.Attendance != "A" || !cell.Homework || cell.TestScore != 0 {
		t.Fatalf("дефолты новой ячейки неверны: %+v", cell)
	}
}

func TestSave_ValidationAbortsWholeTx(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ctx := context.Background()

	st, err := dashboard.GetState(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	sidA := strconv.FormatInt(st.Students[models.LevelA2][0].ID, 10)
	sidB := strconv.FormatInt(st.Students[models.LevelA2][1].ID, 10)
	lid := strconv.FormatInt(st.Lessons[0].ID, 10)

	err = dashboard.Save(ctx, h.DB, payloadJSON(t, `{
		"records": {
			"`+sidA+`": {"`+lid+`": {"attendance": "P"}},
			"`+sidB+`": {"`+lid+`": {"test_score": -1}}
		}
	}`))
	var ve *dashboard.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("ожидали ValidationError, получили %v", err)
	}

	st, err = dashboard.GetState(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Records) != 0 {
		t.Fatalf("транзакция должна была откатиться целиком, но записи остались: %v", st.Records)
	}
}

func TestSave_StudentsAndLessonDates(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ctx := context.Background()

	st, err := dashboard.GetState(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	sid := st.Students[models.LevelB2][0].ID
	l1 := st.Lessons[0].ID
	l2 := st.Lessons[1].ID

	// у ученика note не прислан — перезаписывается пустой строкой
	if err := dashboard.Save(ctx, h.DB, payloadJSON(t, `{
		"students": [{"id": `+strconv.FormatInt(sid, 10)+`, "name": "Alisher"}],
		"lessons": [
			{"id": `+strconv.FormatInt(l1, 10)+`, "date": "2025-09-01"},
			{"id": `+strconv.FormatInt(l2, 10)+`, "date": "not-a-date"}
		]
	}`)); err != nil {
		t.Fatal(err)
	}

	st, err = dashboard.GetState(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	var found *models.Student
	for i := range st.Students[models.LevelB2] {
		if st.Students[models.LevelB2][i].ID == sid {
			found = &st.Students[models.LevelB2][i]
		}
	}
	if found == nil || found.Name != "Alisher" || found.Note != "" {
		t.Fatalf("обновление ученика сломано: %+v", found)
	}
	if st.Lessons[0].Date == nil || *st.Lessons[0].Date != "2025-09-01" {
		t.Fatalf("дата первого урока не записалась: %v", st.Lessons[0].Date)
	}
	// кривую дату молча превращаем в null
	if st.Lessons[1].Date != nil {
		t.Fatalf("невалидная дата должна была очистить поле, получили %v", *st.Lessons[1].Date)
	}
}

func TestRemoveLesson_Floor(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ctx := context.Background()

	if _, err := dashboard.GetState(ctx, h.DB); err != nil {
		t.Fatal(err)
	}

	// снимаем колонки до пола
	for i := 0; i < db.SeedLessonCount-dashboard.MinLessons; i++ {
		res, err := dashboard.RemoveLesson(ctx, h.DB)
		if err != nil {
			t.Fatal(err)
		}
		if res.Status != dashboard.StatusRemoved {
			t.Fatalf("итерация %d: ожидали removed, получили %+v", i, res)
		}
	}

	res, err := dashboard.RemoveLesson(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != dashboard.StatusMinReached || res.Min != dashboard.MinLessons {
		t.Fatalf("ожидали min_reached/3, получили %+v", res)
	}

	st, err := dashboard.GetState(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Lessons) != dashboard.MinLessons {
		t.Fatalf("после упора в пол должно остаться %d урока, получили %d", dashboard.MinLessons, len(st.Lessons))
	}
}

func TestAddRemoveLesson_TailOrder(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ctx := context.Background()

	if _, err := dashboard.GetState(ctx, h.DB); err != nil {
		t.Fatal(err)
	}

	added, err := dashboard.AddLesson(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	if added.Title != "25-dars" || added.Order != 24 {
		t.Fatalf("новая колонка должна встать в хвост: %+v", added)
	}

	// удаление снимает именно её
	if _, err := dashboard.RemoveLesson(ctx, h.DB); err != nil {
		t.Fatal(err)
	}
	st, err := dashboard.GetState(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	last := st.Lessons[len(st.Lessons)-1]
	if last.ID == added.ID {
		t.Fatalf("хвостовой урок %d должен был удалиться", added.ID)
	}
}

func TestStudentAddRemove(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ctx := context.Background()

	if _, err := dashboard.GetState(ctx, h.DB); err != nil {
		t.Fatal(err)
	}

	if _, err := dashboard.AddStudent(ctx, h.DB, "Z9"); err == nil {
		t.Fatal("неизвестный уровень должен отклоняться")
	} else {
		var il *dashboard.ErrInvalidLevel
		if !errors.As(err, &il) {
			t.Fatalf("ожидали ErrInvalidLevel, получили %v", err)
		}
	}

	// в A1 после сидинга ровно один ученик — упираемся в пол
	res, err := dashboard.RemoveStudent(ctx, h.DB, "A1")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != dashboard.StatusMinReached || res.Min != 1 {
		t.Fatalf("ожидали min_reached/1, получили %+v", res)
	}

	// добавили второго — удаление снимает самого свежего
	added, err := dashboard.AddStudent(ctx, h.DB, "A1")
	if err != nil {
		t.Fatal(err)
	}
	res, err = dashboard.RemoveStudent(ctx, h.DB, "A1")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != dashboard.StatusRemoved {
		t.Fatalf("ожидали removed, получили %+v", res)
	}
	st, err := dashboard.GetState(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range st.Students[models.LevelA1] {
		if s.ID == added.ID {
			t.Fatal("удалиться должен был именно добавленный (самый свежий) ученик")
		}
	}

	// пустой уровень — no-op (опустошаем напрямую, в обход пола)
	if _, err := h.DB.Exec(`DELETE FROM students WHERE level = 'A1'`); err != nil {
		t.Fatal(err)
	}
	res, err = dashboard.RemoveStudent(ctx, h.DB, "A1")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != dashboard.StatusNoop {
		t.Fatalf("ожидали noop на пустом уровне, получили %+v", res)
	}
}

func TestClearAll(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ctx := context.Background()

	st, err := dashboard.GetState(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	sid := st.Students[models.LevelA2][0].ID
	sidKey := strconv.FormatInt(sid, 10)
	lidKey := strconv.FormatInt(st.Lessons[0].ID, 10)

	if err := dashboard.Save(ctx, h.DB, payloadJSON(t, `{
		"records": {"`+sidKey+`": {"`+lidKey+`": {"attendance": "P"}}},
		"students": [{"id": `+sidKey+`, "name": "Aziza", "note": "yaxshi"}]
	}`)); err != nil {
		t.Fatal(err)
	}

	if err := dashboard.ClearAll(ctx, h.DB); err != nil {
		t.Fatal(err)
	}

	st2, err := dashboard.GetState(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	if len(st2.Records) != 0 {
		t.Fatalf("после сброса не должно остаться записей: %v", st2.Records)
	}
	if len(st2.Lessons) != len(st.Lessons) {
		t.Fatal("сброс не должен трогать уроки")
	}
	for _, level := range models.Levels {
		if len(st2.Students[level]) != len(st.Students[level]) {
			t.Fatalf("сброс изменил число учеников уровня %s", level)
		}
		for _, s := range st2.Students[level] {
			if s.Name != "" || s.Note != "" {
				t.Fatalf("имя/заметка должны быть пустыми: %+v", s)
			}
		}
	}
}

func TestSave_ConcurrentFirstWrite(t *testing.T) {
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	ctx := context.Background()

	st, err := dashboard.GetState(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	sid := strconv.FormatInt(st.Students[models.LevelA2][0].ID, 10)
	lid := strconv.FormatInt(st.Lessons[0].ID, 10)

	payload := payloadJSON(t, `{
		"records": {"`+sid+`": {"`+lid+`": {"attendance": "P"}}}
	}`)
	wg := sync.WaitGroup{}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = dashboard.Save(ctx, h.DB, payload)
		}()
	}
	wg.Wait()

	var n int
	if err := h.DB.QueryRow(`SELECT count(*) FROM records WHERE student_id = $1 AND lesson_id = $2`,
		st.Students[models.LevelA2][0].ID, st.Lessons[0].ID).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("гонка первых записей должна дать ровно одну строку, получили %d", n)
	}
}
