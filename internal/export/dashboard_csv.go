package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/Spok95/school-dashboard/internal/dashboard"
)

// исторически CSV-шапка отличается от xlsx: "Izoh" вместо "Qo'shimcha izoh".
// Оставлено как есть ради совместимости со старыми выгрузками.
var csvLeadHeader = []string{"№", "Ism", "Daraja", "Izoh"}

// DashboardCSV — фолбэк-выгрузка с теми же колонками, что и xlsx.
func DashboardCSV(view *dashboard.ExportView) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append(append([]string{}, csvLeadHeader...), lessonTitles(view)...)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range viewRows(view) {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
