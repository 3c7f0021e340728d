// Package report runs the analytical query catalog against the healthcare
// database, renders each result set and exports it to a file.
package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/willfong/healthreport/internal/models"
)

// DefaultCatalog returns the built-in reports in execution order. The
// first four statements are kept byte-for-byte so their output stays
// compatible with previously exported files.
func DefaultCatalog() []models.QuerySpec {
	return []models.QuerySpec{
		{
			Label: "Billing sample",
			Text:  "SELECT * FROM billing LIMIT 10;",
		},
		{
			Label: "Oncology doctors",
			Text:  "SELECT first_name, last_name, specialization FROM doctors WHERE specialization = 'Oncology' ORDER BY last_name;",
		},
		{
			Label: "Doctors experience stats",
			Text:  "SELECT specialization, AVG(years_experience) AS avg_experience, MIN(years_experience) AS min_experience, MAX(years_experience) AS max_experience FROM doctors GROUP BY specialization ORDER BY avg_experience DESC;",
		},
		{
			Label: "Doctor-patient pairs",
			Text:  "SELECT d.doctor_id, d.last_name || ' ' || d.first_name AS doctor_name, p.patient_id, p.last_name || ' ' || p.first_name AS patient_name FROM Doctors d INNER JOIN Appointments a ON d.doctor_id = a.doctor_id INNER JOIN Patients p ON a.patient_id = p.patient_id;",
		},
		{
			Label: "Patients by gender",
			Text:  "SELECT gender, COUNT(*) AS patient_count FROM patients GROUP BY gender ORDER BY patient_count DESC, gender;",
		},
		{
			Label: "Oldest patients",
			Text:  "SELECT patient_id, first_name, last_name, gender, date_of_birth FROM patients ORDER BY date_of_birth ASC, patient_id LIMIT 10;",
		},
		{
			Label: "Revenue by payment method",
			Text:  "SELECT payment_method, COUNT(*) AS payments, SUM(amount) AS total_amount, ROUND(AVG(amount), 2) AS avg_amount FROM billing GROUP BY payment_method ORDER BY total_amount DESC, payment_method;",
		},
		{
			Label: "Treatment cost by type",
			Text:  "SELECT treatment_type, COUNT(*) AS treatments, ROUND(AVG(cost), 2) AS avg_cost, MIN(cost) AS min_cost, MAX(cost) AS max_cost FROM treatments GROUP BY treatment_type ORDER BY avg_cost DESC, treatment_type;",
		},
		{
			Label: "Appointments by status",
			Text:  "SELECT status, COUNT(*) AS appointments FROM appointments GROUP BY status ORDER BY appointments DESC, status;",
		},
		{
			Label: "Recent appointments",
			Text:  "SELECT a.appointment_id, a.appointment_date, a.status, d.last_name AS doctor, p.last_name AS patient FROM appointments a INNER JOIN doctors d ON a.doctor_id = d.doctor_id INNER JOIN patients p ON a.patient_id = p.patient_id ORDER BY a.appointment_date DESC, a.appointment_id DESC LIMIT 10;",
		},
	}
}

// catalogFile is the on-disk shape of a report catalog:
//
//	[[report]]
//	label = "Patients by gender"
//	sql = "SELECT gender, COUNT(*) ..."
type catalogFile struct {
	Reports []models.QuerySpec `toml:"report"`
}

// LoadCatalog reads an ordered report list from a TOML file. Unknown keys
// are rejected so a misspelled "sql" key does not silently drop a query.
func LoadCatalog(path string) ([]models.QuerySpec, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("catalog path is empty")
	}
	if filepath.Ext(path) != ".toml" {
		return nil, fmt.Errorf("catalog must be a .toml file: %s", path)
	}

	var cf catalogFile
	meta, err := toml.DecodeFile(path, &cf)
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in catalog %s: %v", path, undecoded)
	}

	for i := range cf.Reports {
		cf.Reports[i].Label = strings.TrimSpace(cf.Reports[i].Label)
		cf.Reports[i].Text = strings.TrimSpace(cf.Reports[i].Text)
	}
	if err := ValidateCatalog(cf.Reports); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cf.Reports, nil
}

// ValidateCatalog checks that every spec has a label and SQL text and that
// labels are unique.
func ValidateCatalog(specs []models.QuerySpec) error {
	if len(specs) == 0 {
		return fmt.Errorf("no reports defined")
	}

	seen := make(map[string]int, len(specs))
	var errs []string
	for i, spec := range specs {
		if spec.Label == "" {
			errs = append(errs, fmt.Sprintf("report %d has no label", i+1))
			continue
		}
		if spec.Text == "" {
			errs = append(errs, fmt.Sprintf("report %q has no sql", spec.Label))
		}
		if prev, dup := seen[spec.Label]; dup {
			errs = append(errs, fmt.Sprintf("report %q is defined twice (entries %d and %d)", spec.Label, prev, i+1))
		}
		seen[spec.Label] = i + 1
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid catalog:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Collisions returns groups of labels that normalize to the same file
// name. The later report overwrites the earlier one's file.
func Collisions(specs []models.QuerySpec) [][]string {
	byName := make(map[string][]string)
	var order []string
	for _, spec := range specs {
		slug := Slug(spec.Label)
		if _, ok := byName[slug]; !ok {
			order = append(order, slug)
		}
		byName[slug] = append(byName[slug], spec.Label)
	}

	var out [][]string
	for _, slug := range order {
		if labels := byName[slug]; len(labels) > 1 {
			out = append(out, labels)
		}
	}
	return out
}
