// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package apps

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jrhoades1/job-application-system/pkg/types"
)

const trackerSheet = "Applications"

var trackerHeaders = []string{
	"Date Applied", "Company", "Role", "Source", "Status",
	"Match Score", "Follow-up Date", "Contact", "Resume Version",
	"Cover Letter", "Notes",
}

// Tracker mirrors the application index into a spreadsheet for manual
// review outside the pipeline.
type Tracker struct {
	Path string
}

// Append adds one row per created application, skipping (company, role)
// pairs already present. The workbook is created with a header row when
// missing. Returns the number of rows added.
func (t *Tracker) Append(created []Created) (int, error) {
	f, err := t.open()
	if err != nil {
		return 0, err
	}
	defer f.Close()

	rows, err := f.GetRows(trackerSheet)
	if err != nil {
		return 0, fmt.Errorf("reading tracker rows: %w", err)
	}

	existing := map[[2]string]bool{}
	for i, row := range rows {
		if i == 0 || len(row) < 3 {
			continue
		}
		existing[[2]string{normKey(row[1]), normKey(row[2])}] = true
	}

	added := 0
	next := len(rows) + 1
	for _, entry := range created {
		key := [2]string{normKey(entry.Company), normKey(entry.Role)}
		if existing[key] {
			continue
		}
		values := map[int]any{
			2:  entry.Company,
			3:  entry.Role,
			4:  "Email Pipeline",
			5:  "Pending Review",
			6:  tierLabel(entry.Score),
			11: "Sourced via email pipeline",
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col, next)
			if err != nil {
				return added, err
			}
			if err := f.SetCellValue(trackerSheet, cell, v); err != nil {
				return added, fmt.Errorf("writing tracker cell %s: %w", cell, err)
			}
		}
		existing[key] = true
		next++
		added++
	}

	if err := f.SaveAs(t.Path); err != nil {
		return added, fmt.Errorf("saving tracker: %w", err)
	}
	return added, nil
}

// Rows returns the data rows of the tracker (header excluded). A missing
// workbook yields no rows.
func (t *Tracker) Rows() ([][]string, error) {
	if _, err := os.Stat(t.Path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	f, err := excelize.OpenFile(t.Path)
	if err != nil {
		return nil, fmt.Errorf("opening tracker: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(trackerSheet)
	if err != nil {
		return nil, fmt.Errorf("reading tracker rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

func (t *Tracker) open() (*excelize.File, error) {
	if _, err := os.Stat(t.Path); errors.Is(err, os.ErrNotExist) {
		f := excelize.NewFile()
		if err := f.SetSheetName("Sheet1", trackerSheet); err != nil {
			f.Close()
			return nil, err
		}
		for col, header := range trackerHeaders {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetCellValue(trackerSheet, cell, header); err != nil {
				f.Close()
				return nil, err
			}
		}
		return f, nil
	}

	f, err := excelize.OpenFile(t.Path)
	if err != nil {
		return nil, fmt.Errorf("opening tracker: %w", err)
	}
	if idx, err := f.GetSheetIndex(trackerSheet); err != nil || idx < 0 {
		// Repurpose the active sheet of a hand-made workbook.
		if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), trackerSheet); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func tierLabel(tier types.Tier) string {
	words := strings.Fields(strings.ReplaceAll(string(tier), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
