package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/medibridge/medibridge-api/models"
)

const summaryTimeout = 15 * time.Second

// EmergencySummarizer produces the short free-text summary shown on a
// patient's public emergency profile.
type EmergencySummarizer struct {
	Model TextModel
}

// NewEmergencySummarizer creates a summarizer on top of the given model
func NewEmergencySummarizer(model TextModel) *EmergencySummarizer {
	return &EmergencySummarizer{Model: model}
}

// Summarize generates a 4-6 line first-responder summary from the patient's
// stored profile. Returns "" on any failure so the profile simply renders
// without a summary.
func (s *EmergencySummarizer) Summarize(ctx context.Context, patient *models.Patient) string {
	ctx, cancel := context.WithTimeout(ctx, summaryTimeout)
	defer cancel()

	out, err := s.Model.GenerateText(ctx, emergencyPrompt(patient))
	if err != nil {
		zap.S().Errorw("emergency summary generation failed", "error", err, "patientID", patient.ID.Hex())
		return ""
	}
	return strings.TrimSpace(out)
}

func emergencyPrompt(p *models.Patient) string {
	orNone := func(v []string) string {
		if len(v) == 0 {
			return "None recorded"
		}
		return strings.Join(v, ", ")
	}

	return fmt.Sprintf(`You are preparing an emergency medical card summary for first responders.

Patient details:
Name: %s
Age: %d
Gender: %s
Blood Group: %s
Allergies: %s
Medical Conditions: %s
Current Medications: %s
Risk Level: %s

Write a 4-6 line plain-text summary a paramedic can read in seconds.
Lead with the most critical facts (blood group, severe allergies, high-risk conditions).
Do not invent information. No markdown, no headings.`,
		p.FullName, p.Age, p.Gender, p.BloodGroup,
		orNone(p.Allergies), orNone(p.MedicalConditions), orNone(p.Medications),
		p.RiskLevel)
}
