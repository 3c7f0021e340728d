package report

import (
	"strings"

	"github.com/willfong/healthreport/internal/config"
)

// Slug normalizes a report label for use in a file name: lowercased, with
// spaces replaced by underscores. Other characters are kept.
func Slug(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "_")
}

// FileName expands template for label and appends ext, e.g.
// FileName("{name}", "Billing sample", ".csv") is "billing_sample.csv" and
// FileName("output_{name}", ...) is "output_billing_sample.csv".
func FileName(template, label, ext string) string {
	if template == "" {
		template = config.FilenameTemplate
	}
	return strings.ReplaceAll(template, config.NamePlaceholder, Slug(label)) + ext
}
