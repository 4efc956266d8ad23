package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTimeOfDay(t *testing.T) {
	valid := []string{"00:00", "09:30", "23:59", "10:00"}
	for _, v := range valid {
		assert.NoError(t, ValidateTimeOfDay(v), v)
	}

	invalid := []string{"24:00", "9:30", "10:60", "ten", "", "10:0", "10:00:00"}
	for _, v := range invalid {
		assert.Error(t, ValidateTimeOfDay(v), v)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	assert.Equal(t, int64(0), ParseTimeOfDay("00:00"))
	assert.Equal(t, int64(10*3600), ParseTimeOfDay("10:00"))
	assert.Equal(t, int64(23*3600+59*60), ParseTimeOfDay("23:59"))
}

func TestSequenceValidate(t *testing.T) {
	s := &Sequence{Name: "Onboarding"}
	require.NoError(t, s.Validate())
	assert.Equal(t, "10:00", s.DefaultSendTime)

	s = &Sequence{Name: "  "}
	require.Error(t, s.Validate())

	s = &Sequence{Name: "Onboarding", DefaultSendTime: "25:00"}
	require.Error(t, s.Validate())
}

func TestSequenceStepValidate(t *testing.T) {
	base := func() *SequenceStep {
		return &SequenceStep{
			SequenceID: "seq1",
			StepNumber: 1,
			DelayDays:  0,
			Subject:    "Welcome",
			Content:    "hello",
		}
	}

	t.Run("valid day-anchored step", func(t *testing.T) {
		require.NoError(t, base().Validate())
	})

	t.Run("valid minutes step including zero", func(t *testing.T) {
		s := base()
		zero := 0
		s.DelayMinutes = &zero
		require.NoError(t, s.Validate())
	})

	t.Run("negative delays rejected", func(t *testing.T) {
		s := base()
		s.DelayDays = -1
		require.Error(t, s.Validate())

		s = base()
		neg := -5
		s.DelayMinutes = &neg
		require.Error(t, s.Validate())
	})

	t.Run("bad step number", func(t *testing.T) {
		s := base()
		s.StepNumber = 0
		require.Error(t, s.Validate())
	})

	t.Run("bad delay time", func(t *testing.T) {
		s := base()
		bad := "9:00"
		s.DelayTime = &bad
		require.Error(t, s.Validate())
	})

	t.Run("missing subject", func(t *testing.T) {
		s := base()
		s.Subject = " "
		require.Error(t, s.Validate())
	})
}
