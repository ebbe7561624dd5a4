package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ignite/email-cleanup/internal/datanorm"
	"github.com/ignite/email-cleanup/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// stripBOM removes a UTF-8 byte order mark. Extract tools on Windows
// routinely write one ("utf-8-sig") and it would otherwise corrupt the
// first header name.
func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// parseContacts decodes a brand extract. The header row is resolved
// through the alias table; a file whose canonical columns are incomplete
// is rejected whole with a SchemaError. Rows without a usable email are
// dropped.
func parseContacts(data []byte) ([]domain.BrandContact, *datanorm.ColumnMapping, error) {
	reader := csv.NewReader(bytes.NewReader(stripBOM(data)))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	mapping := datanorm.MapColumns(header)
	if mapping == nil {
		return nil, nil, &domain.SchemaError{
			Missing:  []string{string(datanorm.FieldEmail)},
			Detected: header,
		}
	}
	if missing := mapping.Missing(); len(missing) > 0 {
		return nil, nil, &domain.SchemaError{Missing: missing, Detected: header}
	}

	var out []domain.BrandContact
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row: %w", err)
		}
		if rec := datanorm.NormalizeRow(row, mapping); rec != nil {
			out = append(out, *rec)
		}
	}
	return out, mapping, nil
}

// parseEmails decodes a denylist upload: any file with an email column.
func parseEmails(data []byte) ([]string, error) {
	reader := csv.NewReader(bytes.NewReader(stripBOM(data)))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	emailIdx := -1
	for i, h := range header {
		if strings.Contains(strings.ToLower(h), "email") {
			emailIdx = i
			break
		}
	}
	if emailIdx < 0 {
		return nil, &domain.SchemaError{
			Missing:  []string{string(datanorm.FieldEmail)},
			Detected: header,
		}
	}

	var out []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if emailIdx < len(row) {
			out = append(out, row[emailIdx])
		}
	}
	return out, nil
}

// writeContactsCSV serializes records back to canonical-column CSV for
// the staged working files.
func writeContactsCSV(recs []domain.BrandContact) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"card_no", "brand", "name", "phone", "email", "segment"})
	for _, c := range recs {
		w.Write([]string{
			deref(c.CardNo), c.BrandLabel, deref(c.Name),
			deref(c.Phone), c.Email, deref(c.Segment),
		})
	}
	w.Flush()
	return buf.Bytes()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
