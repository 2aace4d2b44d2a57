package extraction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpharm/medscheck-forms/internal/forms"
)

func strptr(s string) *string { return &s }

func TestRepairCandidateSentenceName(t *testing.T) {
	c := forms.Candidate{
		PatientName: strptr("Patient is Maria Santos who lives at 12 Oak St"),
	}
	counts := RepairCandidate(&c)

	assert.Equal(t, 1, counts.Names)
	require.NotNil(t, c.PatientName)
	assert.Equal(t, "Maria Santos", *c.PatientName)
}

func TestRepairCandidateValidNamesUntouched(t *testing.T) {
	c := forms.Candidate{
		Patient: &forms.PatientPatch{
			FirstName: strptr("Maria"),
			LastName:  strptr("Santos-Oduya"),
		},
		PharmacistName: strptr("Amir Khan"),
	}
	counts := RepairCandidate(&c)

	assert.Zero(t, counts.Names)
	assert.Equal(t, "Maria", *c.Patient.FirstName)
	assert.Equal(t, "Santos-Oduya", *c.Patient.LastName)
}

func TestRepairCandidatePunctuationCut(t *testing.T) {
	c := forms.Candidate{
		Notification: &forms.NotificationPatch{
			PatientFullName: strptr("John Smith, seen today for annual review"),
		},
	}
	counts := RepairCandidate(&c)

	assert.Equal(t, 1, counts.Names)
	assert.Equal(t, "John Smith", *c.Notification.PatientFullName)
}

func TestRepairCandidateTrailingFiller(t *testing.T) {
	cases := map[string]string{
		"Maria Santos who called this morning asking about dose": "Maria Santos",
		"name is John Smith phone on file needs an update first": "John Smith",
		"called Wei Chen born in nineteen sixty two apparently":  "Wei Chen",
	}
	for input, want := range cases {
		c := forms.Candidate{PatientName: strptr(input)}
		RepairCandidate(&c)
		assert.Equal(t, want, *c.PatientName, "input %q", input)
	}
}

func TestRepairCandidateTruncatesLongNames(t *testing.T) {
	c := forms.Candidate{
		ProviderName: strptr("Anna Beatrice Carolina Delgado Espinoza Fernandez"),
	}
	counts := RepairCandidate(&c)

	assert.Equal(t, 1, counts.Names)
	assert.Equal(t, "Anna Beatrice Carolina", *c.ProviderName)
}

func TestRepairCandidateLengthCap(t *testing.T) {
	long := strings.Repeat("Abcdefghijklmnopqrst ", 3) // 3 words but 62 chars
	c := forms.Candidate{PharmacistName: strptr(strings.TrimSpace(long))}
	RepairCandidate(&c)
	assert.LessOrEqual(t, len(*c.PharmacistName), 50)
}

func TestRepairCandidateDrugNames(t *testing.T) {
	c := forms.Candidate{
		Medications: []forms.MedicationPatch{
			{Name: "Metformin"},
			{Name: "Acetylsalicylic acid enteric coated low dose for cardiovascular protection"},
		},
		Worksheet: &forms.WorksheetPatch{
			Medications: []forms.WorksheetMedicationPatch{
				{Name: "Levothyroxine sodium synthetic thyroid hormone replacement once daily"},
			},
		},
	}
	counts := RepairCandidate(&c)

	assert.Equal(t, 2, counts.DrugNames)
	assert.Equal(t, "Metformin", c.Medications[0].Name)
	assert.Equal(t, "Acetylsalicylic acid enteric", c.Medications[1].Name)
	assert.Equal(t, "Levothyroxine sodium synthetic", c.Worksheet.Medications[0].Name)
}

func TestRepairCandidateCoversAllSections(t *testing.T) {
	bad := "Patient is Maria Santos who lives at 12 Oak St"
	c := forms.Candidate{
		Acknowledgement:   &forms.AcknowledgementPatch{PatientName: strptr(bad)},
		MedicationRecord:  &forms.MedicationRecordPatch{PharmacistName: strptr(bad)},
		Worksheet:         &forms.WorksheetPatch{ProviderName: strptr(bad)},
		DiabetesChecklist: &forms.DiabetesChecklistPatch{PatientName: strptr(bad)},
		FollowUp:          &forms.FollowUpPlanPatch{PatientName: strptr(bad)},
	}
	counts := RepairCandidate(&c)

	assert.Equal(t, 5, counts.Names)
	assert.Equal(t, "Maria Santos", *c.Acknowledgement.PatientName)
	assert.Equal(t, "Maria Santos", *c.MedicationRecord.PharmacistName)
	assert.Equal(t, "Maria Santos", *c.Worksheet.ProviderName)
	assert.Equal(t, "Maria Santos", *c.DiabetesChecklist.PatientName)
	assert.Equal(t, "Maria Santos", *c.FollowUp.PatientName)
}

func TestRepairCandidateNil(t *testing.T) {
	assert.Zero(t, RepairCandidate(nil))
}

func TestRepairCandidateIdempotent(t *testing.T) {
	c := forms.Candidate{PatientName: strptr("Patient is Maria Santos who lives at 12 Oak St")}
	RepairCandidate(&c)
	first := *c.PatientName

	counts := RepairCandidate(&c)
	assert.Zero(t, counts.Names)
	assert.Equal(t, first, *c.PatientName)
}
