package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		template string
		label    string
		ext      string
		want     string
	}{
		{"{name}", "Patients by gender", ".csv", "patients_by_gender.csv"},
		{"{name}", "Billing sample", ".csv", "billing_sample.csv"},
		{"output_{name}", "Billing sample", ".csv", "output_billing_sample.csv"},
		{"{name}", "Doctor-patient pairs", ".csv", "doctor-patient_pairs.csv"},
		{"", "Oncology doctors", ".xlsx", "oncology_doctors.xlsx"},
		{"{name}_{name}", "A b", ".csv", "a_b_a_b.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.template, tt.label, tt.ext))
		})
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "doctors_experience_stats", Slug("Doctors experience stats"))
	assert.Equal(t, "a__b", Slug("A  B"))
}
