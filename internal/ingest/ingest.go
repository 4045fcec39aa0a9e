// Package ingest loads constituent, gift and contact CSV exports into the
// engine's data model. The column layout follows the advancement office's
// standard export: headers are matched by name, not position, so extra
// columns are free to come and go.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sinteticoai/givemetry/internal/contract"
	"github.com/sinteticoai/givemetry/schema"
)

// header maps lower-cased column names to their index in the CSV.
type header map[string]int

func readHeader(r *csv.Reader) (header, error) {
	row, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	h := make(header, len(row))
	for i, name := range row {
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return h, nil
}

func (h header) get(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (h header) require(names ...string) error {
	for _, name := range names {
		if _, ok := h[name]; !ok {
			return fmt.Errorf("missing required column %q", name)
		}
	}
	return nil
}

// openCSV opens a CSV file and prepares a reader tolerant of ragged rows.
func openCSV(path string) (*os.File, *csv.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return f, r, nil
}

// LoadConstituents reads a constituents CSV into profiles. Rows without a
// constituent_id are skipped with a warning; any other field is optional.
func LoadConstituents(path string) ([]schema.ConstituentProfile, error) {
	f, r, err := openCSV(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open constituents file: %w", err)
	}
	defer func() { _ = f.Close() }()

	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if err := h.require("constituent_id"); err != nil {
		return nil, fmt.Errorf("constituents file %s: %w", path, err)
	}

	var profiles []schema.ConstituentProfile
	line := 1
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping malformed constituent row %d", line), err)
			continue
		}

		id := h.get(row, "constituent_id")
		if id == "" {
			contract.LogWarn(fmt.Sprintf("Skipping constituent row %d", line), errors.New("empty constituent_id"))
			continue
		}

		p := schema.ConstituentProfile{
			ExternalID:        id,
			Prefix:            h.get(row, "prefix"),
			FirstName:         h.get(row, "first_name"),
			MiddleName:        h.get(row, "middle_name"),
			LastName:          h.get(row, "last_name"),
			Suffix:            h.get(row, "suffix"),
			Email:             h.get(row, "email"),
			Phone:             h.get(row, "phone"),
			AddressLine1:      h.get(row, "address_line1"),
			AddressLine2:      h.get(row, "address_line2"),
			City:              h.get(row, "city"),
			State:             h.get(row, "state"),
			PostalCode:        h.get(row, "postal_code"),
			ConstituentType:   h.get(row, "constituent_type"),
			SchoolCollege:     h.get(row, "school_college"),
			PortfolioTier:     schema.PortfolioTier(strings.ToLower(h.get(row, "portfolio_tier"))),
			AssignedOfficerID: h.get(row, "assigned_officer_id"),
		}

		if raw := h.get(row, "class_year"); raw != "" {
			year, err := strconv.Atoi(raw)
			if err != nil {
				contract.LogWarn(fmt.Sprintf("Ignoring bad class_year on row %d", line), err)
			} else {
				p.ClassYear = year
			}
		}
		if raw := h.get(row, "estimated_capacity"); raw != "" {
			capVal, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				contract.LogWarn(fmt.Sprintf("Ignoring bad estimated_capacity on row %d", line), err)
			} else if capVal > 0 {
				p.EstimatedCapacity = capVal
			}
		}
		if raw := h.get(row, "assigned_at"); raw != "" {
			t, err := contract.ParseFlexibleDate(raw)
			if err != nil {
				contract.LogWarn(fmt.Sprintf("Ignoring bad assigned_at on row %d", line), err)
			} else {
				p.AssignedAt = t
			}
		}

		profiles = append(profiles, p)
	}

	return profiles, nil
}

// LoadGifts reads a gifts CSV into per-constituent gift histories.
// Rows with an unparseable date or amount are skipped with a warning.
func LoadGifts(path string) (map[string][]schema.GiftRecord, error) {
	f, r, err := openCSV(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gifts file: %w", err)
	}
	defer func() { _ = f.Close() }()

	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if err := h.require("constituent_id", "amount", "gift_date"); err != nil {
		return nil, fmt.Errorf("gifts file %s: %w", path, err)
	}

	gifts := make(map[string][]schema.GiftRecord)
	line := 1
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping malformed gift row %d", line), err)
			continue
		}

		id := h.get(row, "constituent_id")
		if id == "" {
			continue
		}
		amount, err := strconv.ParseFloat(h.get(row, "amount"), 64)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping gift row %d", line), err)
			continue
		}
		date, err := contract.ParseFlexibleDate(h.get(row, "gift_date"))
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping gift row %d", line), err)
			continue
		}
		if amount < 0 {
			amount = 0
		}

		gifts[id] = append(gifts[id], schema.GiftRecord{Amount: amount, Date: date})
	}

	return gifts, nil
}

// LoadContacts reads a contacts CSV into per-constituent interaction
// histories. Unknown contact types collapse to "other".
func LoadContacts(path string) (map[string][]schema.ContactRecord, error) {
	f, r, err := openCSV(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open contacts file: %w", err)
	}
	defer func() { _ = f.Close() }()

	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if err := h.require("constituent_id", "contact_date"); err != nil {
		return nil, fmt.Errorf("contacts file %s: %w", path, err)
	}

	contacts := make(map[string][]schema.ContactRecord)
	line := 1
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping malformed contact row %d", line), err)
			continue
		}

		id := h.get(row, "constituent_id")
		if id == "" {
			continue
		}
		date, err := contract.ParseFlexibleDate(h.get(row, "contact_date"))
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping contact row %d", line), err)
			continue
		}

		contacts[id] = append(contacts[id], schema.ContactRecord{
			Date: date,
			Type: schema.NormalizeContactType(h.get(row, "contact_type")),
		})
	}

	return contacts, nil
}

// LoadAll joins the three exports into per-constituent bundles. The gifts
// and contacts files are optional: a missing file simply yields empty
// histories, which the scorers treat as their own signal.
func LoadAll(cfg *contract.Config) ([]schema.ConstituentData, error) {
	profiles, err := LoadConstituents(cfg.ConstituentsFile)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, errors.New("no constituents found")
	}

	gifts := make(map[string][]schema.GiftRecord)
	if cfg.GiftsFile != "" {
		gifts, err = LoadGifts(cfg.GiftsFile)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
			contract.LogWarn("Gifts file not found, scoring without gift history", err)
			gifts = make(map[string][]schema.GiftRecord)
		}
	}

	contacts := make(map[string][]schema.ContactRecord)
	if cfg.ContactsFile != "" {
		contacts, err = LoadContacts(cfg.ContactsFile)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
			contract.LogWarn("Contacts file not found, scoring without contact history", err)
			contacts = make(map[string][]schema.ContactRecord)
		}
	}

	data := make([]schema.ConstituentData, 0, len(profiles))
	for _, p := range profiles {
		data = append(data, schema.ConstituentData{
			Profile:  p,
			Gifts:    gifts[p.ExternalID],
			Contacts: contacts[p.ExternalID],
		})
	}
	return data, nil
}
