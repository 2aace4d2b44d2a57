package extraction

import (
	"strings"

	"github.com/openpharm/medscheck-forms/internal/forms"
)

const (
	maxNameLength   = 50
	maxNameWords    = 5
	truncateToWords = 3
)

// Leading tokens the extraction service sometimes leaves on a name when it
// copies a sentence instead of the name span.
var leadingNameFiller = map[string]bool{
	"patient": true,
	"pt":      true,
	"name":    true,
	"is":      true,
	"called":  true,
}

// Tokens that start the trailing clause of a sentence-shaped name; the name
// is cut from the first one onward.
var trailingNameFiller = map[string]bool{
	"who":     true,
	"lives":   true,
	"at":      true,
	"phone":   true,
	"tel":     true,
	"address": true,
	"born":    true,
}

// RepairCounts reports how many fields each repair class touched.
type RepairCounts struct {
	Names     int
	DrugNames int
}

// RepairCandidate inspects the candidate for field-shape violations and
// rewrites them in place: sentence-shaped or overlong person names, and
// overlong drug names. It never drops a field outright — downstream merge
// treats presence as authoritative, so every invalid value is reduced to a
// best-effort short one instead.
func RepairCandidate(c *forms.Candidate) RepairCounts {
	if c == nil {
		return RepairCounts{}
	}
	var counts RepairCounts

	repairNamePtr := func(s *string) {
		if s != nil && repairNameField(s) {
			counts.Names++
		}
	}

	if p := c.Patient; p != nil {
		repairNamePtr(p.FirstName)
		repairNamePtr(p.LastName)
	}
	if p := c.Pharmacy; p != nil {
		repairNamePtr(p.PharmacistName)
	}
	if p := c.PrimaryCareProvider; p != nil {
		repairNamePtr(p.Name)
	}
	if p := c.Acknowledgement; p != nil {
		repairNamePtr(p.PatientName)
		repairNamePtr(p.PharmacistName)
	}
	if p := c.MedicationRecord; p != nil {
		repairNamePtr(p.PatientFirstName)
		repairNamePtr(p.PatientLastName)
		repairNamePtr(p.PharmacistName)
	}
	if p := c.Notification; p != nil {
		repairNamePtr(p.PatientFullName)
		repairNamePtr(p.ProviderName)
		repairNamePtr(p.PharmacistName)
	}
	if p := c.Worksheet; p != nil {
		repairNamePtr(p.PatientFirstName)
		repairNamePtr(p.PatientLastName)
		repairNamePtr(p.ProviderName)
		repairNamePtr(p.PharmacistName)
		for i := range p.Medications {
			if repairDrugName(&p.Medications[i].Name) {
				counts.DrugNames++
			}
		}
	}
	if p := c.DiabetesChecklist; p != nil {
		repairNamePtr(p.PatientName)
	}
	if p := c.FollowUp; p != nil {
		repairNamePtr(p.PatientName)
		repairNamePtr(p.PharmacistName)
	}
	for i := range c.Medications {
		if repairDrugName(&c.Medications[i].Name) {
			counts.DrugNames++
		}
	}
	repairNamePtr(c.PatientName)
	repairNamePtr(c.ProviderName)
	repairNamePtr(c.PharmacistName)

	return counts
}

// nameValid is the validity predicate for person-name fields: at most five
// words, at most fifty characters, no sentence punctuation.
func nameValid(s string) bool {
	if len(s) > maxNameLength {
		return false
	}
	if len(strings.Fields(s)) > maxNameWords {
		return false
	}
	return !strings.ContainsAny(s, ".,:;")
}

// repairNameField rewrites an invalid name in place and reports whether a
// repair happened. Values already valid are returned unchanged.
func repairNameField(s *string) bool {
	if nameValid(*s) {
		return false
	}
	*s = repairName(*s)
	return true
}

// repairName reduces a sentence-shaped name to a plausible short name:
// cut at the first sentence punctuation, strip leading filler words, cut
// from the first trailing filler word onward, then truncate if still long.
func repairName(value string) string {
	if idx := strings.IndexAny(value, ".,:;"); idx >= 0 {
		value = value[:idx]
	}

	words := strings.Fields(value)
	for len(words) > 0 && leadingNameFiller[strings.ToLower(words[0])] {
		words = words[1:]
	}
	for i, w := range words {
		if trailingNameFiller[strings.ToLower(w)] {
			words = words[:i]
			break
		}
	}
	if len(words) > 4 {
		words = words[:truncateToWords]
	}

	repaired := strings.Join(words, " ")
	if len(repaired) > maxNameLength {
		repaired = strings.TrimSpace(repaired[:maxNameLength])
	}
	return repaired
}

// repairDrugName truncates an overlong drug name to its first three words;
// strength and directions belong in their own fields.
func repairDrugName(s *string) bool {
	if len(*s) <= maxNameLength {
		return false
	}
	words := strings.Fields(*s)
	if len(words) > truncateToWords {
		words = words[:truncateToWords]
	}
	*s = strings.Join(words, " ")
	if len(*s) > maxNameLength {
		*s = strings.TrimSpace((*s)[:maxNameLength])
	}
	return true
}
