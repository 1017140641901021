package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobInputValidate(t *testing.T) {
	in := JobInput{Title: "  Backend Engineer  ", Description: "Build services"}
	require.NoError(t, in.Validate())
	assert.Equal(t, "Backend Engineer", in.Title)

	assert.Error(t, (&JobInput{Description: "x"}).Validate())
	assert.Error(t, (&JobInput{Title: "x"}).Validate())
}

func TestGenerateJobInputValidate(t *testing.T) {
	in := GenerateJobInput{Prompt: " senior golang engineer, remote "}
	require.NoError(t, in.Validate())
	assert.Equal(t, "senior golang engineer, remote", in.Prompt)

	assert.Error(t, (&GenerateJobInput{Prompt: "   "}).Validate())
}

func TestMatchInputValidate(t *testing.T) {
	require.NoError(t, (&MatchInput{JobID: "job-1"}).Validate())
	assert.Error(t, (&MatchInput{}).Validate())
}

func TestScheduleInterviewInputValidate(t *testing.T) {
	require.NoError(t, (&ScheduleInterviewInput{JobID: "j", ResumeID: "r"}).Validate())
	assert.Error(t, (&ScheduleInterviewInput{JobID: "j"}).Validate())
	assert.Error(t, (&ScheduleInterviewInput{ResumeID: "r"}).Validate())
}

func TestCompanyInputValidate(t *testing.T) {
	in := CompanyInput{Name: "TechCorp"}
	require.NoError(t, in.Validate())
	assert.Equal(t, PlanTierFree, in.PlanTier)

	assert.Error(t, (&CompanyInput{PlanTier: PlanTierPro}).Validate())
	assert.Error(t, (&CompanyInput{Name: "x", PlanTier: PlanTier("GOLD")}).Validate())
}

func TestUserInputValidate(t *testing.T) {
	in := UserInput{Email: "a@b.c", FullName: "A B", CompanyID: "c-1", Role: "hr_admin"}
	require.NoError(t, in.Validate())

	assert.Error(t, (&UserInput{Email: "not-an-email", FullName: "A", CompanyID: "c", Role: "r"}).Validate())
	assert.Error(t, (&UserInput{Email: "a@b.c", CompanyID: "c", Role: "r"}).Validate())
	assert.Error(t, (&UserInput{Email: "a@b.c", FullName: "A", Role: "r"}).Validate())
}

func TestParseJobStatus(t *testing.T) {
	got, ok := ParseJobStatus(" Active ")
	require.True(t, ok)
	assert.Equal(t, JobStatusActive, got)

	_, ok = ParseJobStatus("archived")
	assert.False(t, ok)
}
