package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"
)

var csvHeader = []string{"first_name", "last_name", "party_id", "attending", "dietary_restrictions"}

// ExportGuests streams the current guest list as a CSV download. Read-only.
func ExportGuests(c *gin.Context) {
	var guests []Guest
	if err := DB.Order("party_id asc, last_name asc, first_name asc").Find(&guests).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="guests.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write(csvHeader)
	for _, g := range guests {
		_ = w.Write([]string{g.FirstName, g.LastName, g.PartyID, g.Attending, g.DietaryRestrictions})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		logger.WithError(err).Error("csv export write failed")
	}
}

// ImportGuests bulk-creates or updates guests from an uploaded CSV file.
// Malformed rows are collected and reported back, not fatal: every
// well-formed row is still applied.
func ImportGuests(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		jsonError(c, http.StatusBadRequest, "multipart file field 'file' is required")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		jsonError(c, http.StatusBadRequest, "could not open uploaded file")
		return
	}
	defer f.Close()

	imported, rowErrs := importGuestsCSV(f)

	resp := gin.H{"imported": imported}
	if rowErrs != nil {
		msgs := make([]string, 0, len(rowErrs.Errors))
		for _, e := range rowErrs.Errors {
			msgs = append(msgs, e.Error())
		}
		resp["errors"] = msgs
	}
	c.JSON(http.StatusOK, resp)
}

// importGuestsCSV applies rows one by one and aggregates per-row failures.
// Rows match a guest by first+last name (case-insensitive): matches are
// updated in place, everything else is created.
func importGuestsCSV(r io.Reader) (int, *multierror.Error) {
	var errs *multierror.Error

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	imported := 0
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("row %d: %v", row, err))
			continue
		}

		// Tolerate a header row wherever the export put one.
		if row == 1 && len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), csvHeader[0]) {
			continue
		}

		if err := importGuestRow(record); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("row %d: %v", row, err))
			continue
		}
		imported++
	}

	return imported, errs
}

func importGuestRow(record []string) error {
	if len(record) < 3 {
		return fmt.Errorf("expected at least first_name, last_name and party_id, got %d fields", len(record))
	}

	first := strings.TrimSpace(record[0])
	last := strings.TrimSpace(record[1])
	party := strings.TrimSpace(record[2])
	if first == "" || last == "" || party == "" {
		return fmt.Errorf("first_name, last_name and party_id must not be blank")
	}

	attending := AttendingUnknown
	if len(record) > 3 && strings.TrimSpace(record[3]) != "" {
		attending = strings.ToLower(strings.TrimSpace(record[3]))
		if !validAttending(attending) {
			return fmt.Errorf("attending must be one of: unknown, yes, no (got %q)", record[3])
		}
	}

	dietary := ""
	if len(record) > 4 {
		dietary = strings.TrimSpace(record[4])
	}

	var existing Guest
	err := DB.Where("LOWER(first_name) = ? AND LOWER(last_name) = ?",
		strings.ToLower(first), strings.ToLower(last)).First(&existing).Error
	if err == nil {
		existing.PartyID = party
		existing.Attending = attending
		existing.DietaryRestrictions = dietary
		return DB.Save(&existing).Error
	}

	return DB.Create(&Guest{
		FirstName:           first,
		LastName:            last,
		PartyID:             party,
		Attending:           attending,
		DietaryRestrictions: dietary,
	}).Error
}
