package observability

import (
	"errors"
	"fmt"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"example.com/mergington/internal/domain"
)

func TestReason(t *testing.T) {
	cases := map[error]string{
		domain.ErrActivityNotFound:                             "activity_not_found",
		domain.ErrAlreadyRegistered:                            "already_registered",
		domain.ErrParticipantNotFound:                          "participant_not_found",
		domain.ErrInvalidParticipant:                           "invalid_participant",
		domain.ErrActivityFull:                                 "activity_full",
		fmt.Errorf("wrapped: %w", domain.ErrActivityNotFound): "activity_not_found",
		errors.New("boom"):                                     "unknown",
	}
	for err, want := range cases {
		require.Equal(t, want, Reason(err), err.Error())
	}
}

func TestRosterRecorderUpdatesCollectors(t *testing.T) {
	rec := RosterRecorder{}
	activity := "Metrics Test Club"

	before := counterValue(t, signupCounter.WithLabelValues(activity))
	rec.RecordSignup(activity)
	require.Equal(t, before+1, counterValue(t, signupCounter.WithLabelValues(activity)))

	rejectBefore := counterValue(t, rejectionCounter.WithLabelValues("remove", "participant_not_found"))
	rec.RecordRejection("remove", domain.ErrParticipantNotFound)
	require.Equal(t, rejectBefore+1, counterValue(t, rejectionCounter.WithLabelValues("remove", "participant_not_found")))

	rec.RecordParticipants(activity, 2)
	var m dto.Metric
	require.NoError(t, participantsGauge.WithLabelValues(activity).Write(&m))
	require.Equal(t, 2.0, m.GetGauge().GetValue())
}

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
