// Package importer ingests spreadsheet rows into the product store with
// per-row fault isolation.
package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RawRow is one spreadsheet row keyed by column header. Values are strings or
// numbers depending on the reader.
type RawRow map[string]any

// Header aliases per logical field, in priority order. Adding a new header
// spelling is a data change here, not a code change elsewhere.
var (
	nameAliases           = []string{"商品名称", "name"}
	productionDateAliases = []string{"生产日期", "productionDate"}
	shelfLifeAliases      = []string{"保质期天数", "保质期(天)", "shelfLife", "保质期"}
	reminderDaysAliases   = []string{"提醒天数", "reminderDays"}
)

// defaultReminderDays applies when the reminder column is absent or empty.
const defaultReminderDays = 3

// excelEpoch is the reference date for numeric spreadsheet date serials
// (serial 1 is 1899-12-31; the offset accounts for the historical leap-year
// quirk in the 1900 date system).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// dateLayouts are the accepted textual date forms, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// NormalizedRow is a raw row resolved to product fields.
type NormalizedRow struct {
	Name           string
	ProductionDate time.Time
	ShelfLifeDays  int
	ReminderDays   int
}

// lookup finds the first alias present in the row with a non-empty value.
func lookup(row RawRow, aliases []string) (any, bool) {
	for _, key := range aliases {
		if v, ok := row[key]; ok {
			if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
				continue
			}
			return v, true
		}
	}
	return nil, false
}

// NormalizeRow resolves header aliases and parses cell values into product
// fields. The error message names the offending field for the per-row error
// record.
func NormalizeRow(row RawRow) (NormalizedRow, error) {
	var n NormalizedRow

	nameVal, ok := lookup(row, nameAliases)
	if !ok {
		return n, fmt.Errorf("missing product name")
	}
	n.Name = strings.TrimSpace(fmt.Sprintf("%v", nameVal))

	dateVal, ok := lookup(row, productionDateAliases)
	if !ok {
		return n, fmt.Errorf("missing production date")
	}
	productionDate, err := parseCellDate(dateVal)
	if err != nil {
		return n, fmt.Errorf("invalid production date: %v", err)
	}
	n.ProductionDate = productionDate

	shelfVal, ok := lookup(row, shelfLifeAliases)
	if !ok {
		return n, fmt.Errorf("missing shelf life")
	}
	shelfLife, err := parseCellInt(shelfVal)
	if err != nil || shelfLife < 0 {
		return n, fmt.Errorf("invalid shelf life: %v", shelfVal)
	}
	n.ShelfLifeDays = shelfLife

	n.ReminderDays = defaultReminderDays
	if reminderVal, ok := lookup(row, reminderDaysAliases); ok {
		reminder, err := parseCellInt(reminderVal)
		if err != nil || reminder < 0 {
			return n, fmt.Errorf("invalid reminder days: %v", reminderVal)
		}
		n.ReminderDays = reminder
	}

	return n, nil
}

// parseCellDate accepts a textual date or a numeric spreadsheet serial (a day
// count from the fixed reference epoch). Readers hand back serials either as
// numbers or as their string form.
func parseCellDate(v any) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case float64:
		return serialToDate(val), nil
	case int:
		return serialToDate(float64(val)), nil
	case string:
		s := strings.TrimSpace(val)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			return serialToDate(serial), nil
		}
		return time.Time{}, fmt.Errorf("unrecognised date %q", s)
	default:
		return time.Time{}, fmt.Errorf("unsupported date value %v", v)
	}
}

func serialToDate(serial float64) time.Time {
	return excelEpoch.AddDate(0, 0, int(serial))
}

// parseCellInt accepts numeric cells and their string forms.
func parseCellInt(v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case float64:
		return int(val), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("not a whole number: %q", val)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported numeric value %v", v)
	}
}
