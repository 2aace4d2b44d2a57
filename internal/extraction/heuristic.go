package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/openpharm/medscheck-forms/internal/forms"
)

// ---------- package-level compiled regexes ----------

// capitalizedName matches two or more capitalized words; keyword groups are
// case-insensitive but the name span itself is not, so running prose does
// not get swallowed into a name.
const capitalizedName = `[A-Z][a-z'-]+(?:\s+[A-Z][a-z'-]+)+`

var (
	physicianNameRE  = regexp.MustCompile(`(?i:\bdr\.?\s+)(` + capitalizedName + `)`)
	patientNameRE    = regexp.MustCompile(`(?i:\bpatient\b(?:\s+name)?(?:\s+is)?[:\s]+)(` + capitalizedName + `)`)
	pharmacistNameRE = regexp.MustCompile(`(?i:\bpharmacist\b(?:\s+name)?(?:\s+is)?[:\s]+)(` + capitalizedName + `)`)

	phoneRE = regexp.MustCompile(`(?i)\b(?:phone|tel|cell)\b[:.\s#]*(\d{3})[-.\s]?(\d{3})[-.\s]?(\d{4})`)
	faxRE   = regexp.MustCompile(`(?i)\bfax\b[:.\s#]*(\d{3})[-.\s]?(\d{3})[-.\s]?(\d{4})`)

	dobDateRE  = regexp.MustCompile(`(?i)\b(?:dob|date of birth|born)\b[:\s]*(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)
	dobTodayRE = regexp.MustCompile(`(?i)\b(?:dob|date of birth)\b[:\s]*today\b`)

	reviewDateRE  = regexp.MustCompile(`(?i)\breview(?:\s+date)?\b[:\s]*(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)
	reviewTodayRE = regexp.MustCompile(`(?i)\breview(?:\s+date)?\b[:\s]*today\b`)

	allergiesLineRE  = regexp.MustCompile(`(?i)^\s*allerg(?:y|ies)\b[:\s-]+(.+)$`)
	medicationsLineRE = regexp.MustCompile(`(?i)^\s*(?:medications?|meds)\b[:\s-]+(.+)$`)
	conditionsLineRE  = regexp.MustCompile(`(?i)^\s*(?:medical\s+)?(?:conditions?|diagnos(?:is|es))\b[:\s-]+(.+)$`)
	notesLineRE       = regexp.MustCompile(`(?i)^\s*notes?\b[:\s-]+(.+)$`)
	issuesLineRE      = regexp.MustCompile(`(?i)^\s*issues?\b[:\s-]+(.+)$`)

	strengthRE = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:mg|mcg|g|ml|units?|iu)\b`)

	statusClearRE   = regexp.MustCompile(`(?i)\b(?:no issues|stable|doing well)\b`)
	statusFlaggedRE = regexp.MustCompile(`(?i)\b(?:issue|problem|concern)`)
	issueCaptureRE  = regexp.MustCompile(`(?i)\b(?:issue|problem|concern)s?\b(?:\s+(?:with|about|regarding))?[:\s-]*([^\n]+)`)
)

// heuristicExtract is the regex fallback used when the extraction service is
// unconfigured or fails. Case-insensitive, first-match-wins per field; any
// unmatched field is simply omitted. It never fails. The medication, allergy
// and condition lists it produces are full replacements, not deltas.
func heuristicExtract(rawText string, now time.Time) forms.Candidate {
	var c forms.Candidate
	if strings.TrimSpace(rawText) == "" {
		return c
	}

	// --- names ---
	if m := patientNameRE.FindStringSubmatch(rawText); len(m) == 2 {
		name := m[1]
		c.PatientName = &name
	}
	if m := physicianNameRE.FindStringSubmatch(rawText); len(m) == 2 {
		name := m[1]
		c.ProviderName = &name
	}
	if m := pharmacistNameRE.FindStringSubmatch(rawText); len(m) == 2 {
		name := m[1]
		c.PharmacistName = &name
	}

	// --- phone and fax ---
	if m := phoneRE.FindStringSubmatch(rawText); len(m) == 4 {
		phone := formatPhone(m[1], m[2], m[3])
		c.PatientPhone = &phone
	}
	if m := faxRE.FindStringSubmatch(rawText); len(m) == 4 {
		fax := formatPhone(m[1], m[2], m[3])
		c.PrimaryCareProvider = &forms.ProviderPatch{Fax: &fax}
	}

	// --- dates ---
	if m := dobDateRE.FindStringSubmatch(rawText); len(m) == 4 {
		dob := formatDate(m[1], m[2], m[3])
		c.PatientDateOfBirth = &dob
	} else if dobTodayRE.MatchString(rawText) {
		dob := now.Format("2006-01-02")
		c.PatientDateOfBirth = &dob
	}
	if m := reviewDateRE.FindStringSubmatch(rawText); len(m) == 4 {
		review := formatDate(m[1], m[2], m[3])
		c.Acknowledgement = &forms.AcknowledgementPatch{ReviewDate: &review}
	} else if reviewTodayRE.MatchString(rawText) {
		review := now.Format("2006-01-02")
		c.Acknowledgement = &forms.AcknowledgementPatch{ReviewDate: &review}
	}

	// --- labelled free-text lines ---
	var notes, issues string
	for _, line := range strings.Split(rawText, "\n") {
		if m := allergiesLineRE.FindStringSubmatch(line); len(m) == 2 && c.AllergiesText == nil {
			text := strings.TrimSpace(m[1])
			c.AllergiesText = &text
			c.Allergies = allergyEntries(text)
		}
		if m := medicationsLineRE.FindStringSubmatch(line); len(m) == 2 && c.Medications == nil {
			c.Medications = medicationEntries(m[1])
		}
		if m := conditionsLineRE.FindStringSubmatch(line); len(m) == 2 && c.MedicalConditions == nil {
			c.MedicalConditions = conditionEntries(m[1])
		}
		if m := notesLineRE.FindStringSubmatch(line); len(m) == 2 && notes == "" {
			notes = strings.TrimSpace(m[1])
		}
		if m := issuesLineRE.FindStringSubmatch(line); len(m) == 2 && issues == "" {
			issues = strings.TrimSpace(m[1])
		}
	}
	if notes != "" {
		c.Worksheet = &forms.WorksheetPatch{ClinicalNotes: &notes}
	}

	// --- status inference ---
	status := ""
	switch {
	case statusClearRE.MatchString(rawText):
		status = forms.StatusNoIssues
	case statusFlaggedRE.MatchString(rawText):
		status = forms.StatusIssuesIdentified
		if issues == "" {
			if m := issueCaptureRE.FindStringSubmatch(rawText); len(m) == 2 {
				issues = strings.TrimSpace(m[1])
			}
		}
	}
	if status != "" || issues != "" {
		patch := &forms.NotificationPatch{}
		if status != "" {
			patch.Status = &status
		}
		if issues != "" {
			patch.IssuesDescription = &issues
		}
		c.Notification = patch
	}

	return c
}

// ---------- helpers ----------

func formatPhone(area, exchange, line string) string {
	return fmt.Sprintf("(%s) %s-%s", area, exchange, line)
}

func formatDate(year, month, day string) string {
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	return fmt.Sprintf("%s-%02d-%02d", year, m, d)
}

// splitEntries splits a comma/semicolon-delimited sub-list into trimmed,
// non-empty entries.
func splitEntries(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';'
	})
	entries := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			entries = append(entries, p)
		}
	}
	return entries
}

func allergyEntries(text string) []forms.AllergyPatch {
	entries := splitEntries(text)
	out := make([]forms.AllergyPatch, 0, len(entries))
	for _, e := range entries {
		out = append(out, forms.AllergyPatch{Description: e})
	}
	return out
}

func conditionEntries(text string) []forms.ConditionPatch {
	entries := splitEntries(text)
	out := make([]forms.ConditionPatch, 0, len(entries))
	for _, e := range entries {
		out = append(out, forms.ConditionPatch{Name: e})
	}
	return out
}

// medicationEntries splits a medication line into list rows, pulling a
// recognizable strength token (e.g. "500mg") out of the name when present.
func medicationEntries(text string) []forms.MedicationPatch {
	entries := splitEntries(text)
	out := make([]forms.MedicationPatch, 0, len(entries))
	for _, e := range entries {
		med := forms.MedicationPatch{Name: e}
		if strength := strengthRE.FindString(e); strength != "" {
			med.Strength = strings.TrimSpace(strength)
			med.Name = strings.TrimSpace(strings.Join(strings.Fields(strings.Replace(e, strength, "", 1)), " "))
		}
		out = append(out, med)
	}
	return out
}
