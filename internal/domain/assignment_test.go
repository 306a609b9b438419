package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssignmentStatus_Valid(t *testing.T) {
	t.Parallel()

	for _, s := range []AssignmentStatus{
		StatusAssigned, StatusAccepted, StatusPickedUp,
		StatusInTransit, StatusDelivered, StatusRejected, StatusCancelled,
	} {
		require.True(t, s.Valid(), s)
	}
	require.False(t, AssignmentStatus("teleported").Valid())
}

func TestAssignmentStatus_TransitionGraph(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status  AssignmentStatus
		accept  bool
		reject  bool
		pickup  bool
		transit bool
		deliver bool
		cancel  bool
		active  bool
	}{
		{StatusAssigned, true, true, false, false, false, true, true},
		{StatusAccepted, false, false, true, false, false, true, true},
		{StatusPickedUp, false, false, false, true, true, true, true},
		{StatusInTransit, false, false, false, false, true, false, true},
		{StatusDelivered, false, false, false, false, false, false, false},
		{StatusRejected, false, false, false, false, false, false, false},
		{StatusCancelled, false, false, false, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			require.Equal(t, tt.accept, tt.status.CanAccept())
			require.Equal(t, tt.reject, tt.status.CanReject())
			require.Equal(t, tt.pickup, tt.status.CanPickUp())
			require.Equal(t, tt.transit, tt.status.CanTransit())
			require.Equal(t, tt.deliver, tt.status.CanDeliver())
			require.Equal(t, tt.cancel, tt.status.CanCancel())
			require.Equal(t, tt.active, tt.status.Active())
			require.Equal(t, !tt.active, tt.status.Terminal())
		})
	}
}

func TestRideStatus_PresenceCoupling(t *testing.T) {
	t.Parallel()

	require.Equal(t, Presence{Online: false, Available: false}, PresenceFor(RideOffline))
	require.Equal(t, Presence{Online: true, Available: true}, PresenceFor(RideAvailable))
	require.Equal(t, Presence{Online: true, Available: false}, PresenceFor(RideBusy))
	require.Equal(t, Presence{Online: true, Available: false}, PresenceFor(RideOnRide))
}

func TestRideStatus_Valid(t *testing.T) {
	t.Parallel()

	require.True(t, RideAvailable.Valid())
	require.True(t, RideOffline.Valid())
	require.False(t, RideStatus("asleep").Valid())
}

func TestValidCoords(t *testing.T) {
	t.Parallel()

	require.True(t, ValidCoords(12.9716, 77.5946))
	require.True(t, ValidCoords(-90, 180))
	require.False(t, ValidCoords(91, 0))
	require.False(t, ValidCoords(0, -181))
}
