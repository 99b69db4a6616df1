package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/school-dashboard/internal/dashboard"
	"github.com/Spok95/school-dashboard/internal/models"
)

func sampleView() *dashboard.ExportView {
	return &dashboard.ExportView{
		Lessons: []models.Lesson{
			{ID: 2, Title: "2-dars", Order: 1},
			{ID: 5, Title: "5-dars", Order: 4},
		},
		Rows: []dashboard.ExportRow{
			{
				Student: models.Student{ID: 7, Name: "Aziza", Level: models.LevelA2, Note: "yangi"},
				Cells:   []string{"+", ""},
			},
			{
				Student: models.Student{ID: 9, Name: "Bek", Level: models.LevelB1},
				Cells:   []string{"", "− / 80"},
			},
		},
	}
}

func TestDashboardWorkbook(t *testing.T) {
	content, err := DashboardWorkbook(sampleView())
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("ожидали шапку и 2 строки, получили %d", len(rows))
	}

	wantHeader := []string{"№", "Ism", "Daraja", "Qo'shimcha izoh", "2-dars", "5-dars"}
	for i, h := range wantHeader {
		if rows[0][i] != h {
			t.Fatalf("шапка[%d]: ожидали %q, получили %q", i, h, rows[0][i])
		}
	}
	if rows[1][0] != "1" || rows[1][1] != "Aziza" || rows[1][2] != "A2" || rows[1][4] != "+" {
		t.Fatalf("первая строка неверна: %v", rows[1])
	}
	if rows[2][1] != "Bek" || rows[2][5] != "− / 80" {
		t.Fatalf("вторая строка неверна: %v", rows[2])
	}
}

func TestDashboardCSV_HeaderQuirk(t *testing.T) {
	content, err := DashboardCSV(sampleView())
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 3 {
		t.Fatalf("ожидали 3 строки csv, получили %d", len(lines))
	}
	// историческое отличие от xlsx-шапки
	if !strings.HasPrefix(lines[0], "№,Ism,Daraja,Izoh,") {
		t.Fatalf("csv-шапка должна использовать 'Izoh': %q", lines[0])
	}
	if strings.Contains(lines[0], "Qo'shimcha izoh") {
		t.Fatal("в csv не должно быть длинного заголовка заметок")
	}
}

func TestColName(t *testing.T) {
	cases := map[int]string{1: "A", 2: "B", 26: "Z", 27: "AA", 52: "AZ", 703: "AAA"}
	for n, want := range cases {
		if got := colName(n); got != want {
			t.Fatalf("colName(%d): ожидали %q, получили %q", n, want, got)
		}
	}
}
