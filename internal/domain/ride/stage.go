package ride

import "fmt"

// Stage represents where the rider is in the booking flow.
type Stage string

const (
	StageSelectingEndpoints Stage = "selecting_endpoints"
	StageRoutePreviewed     Stage = "route_previewed"
	StageRideTypeChosen     Stage = "ride_type_chosen"
	StageConfirmed          Stage = "confirmed"
	StageDispatching        Stage = "dispatching"
	StageDriverAssigned     Stage = "driver_assigned"
	StagePaymentPending     Stage = "payment_pending"
	StageCompleted          Stage = "completed"
	StageCancelled          Stage = "cancelled"
)

// validTransitions defines the state machine for the booking flow. Endpoint
// changes send the draft back to selecting_endpoints; leaving the dispatch
// countdown does the same so re-entry replans the route. Once a driver is
// assigned the flow can only move forward.
var validTransitions = map[Stage][]Stage{
	StageSelectingEndpoints: {StageRoutePreviewed, StageCancelled},
	StageRoutePreviewed:     {StageRideTypeChosen, StageSelectingEndpoints, StageCancelled},
	StageRideTypeChosen:     {StageConfirmed, StageSelectingEndpoints, StageCancelled},
	StageConfirmed:          {StageDispatching, StageCancelled},
	StageDispatching:        {StageDriverAssigned, StageSelectingEndpoints},
	StageDriverAssigned:     {StagePaymentPending},
	StagePaymentPending:     {StageCompleted},
	StageCompleted:          {},
	StageCancelled:          {},
}

// IsValid returns true if the stage is recognized.
func (s Stage) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this stage to the target
// is allowed.
func (s Stage) CanTransitionTo(target Stage) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible.
func (s Stage) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// CanBeCancelled returns true if the rider may still abandon the booking from
// this stage. The dispatch countdown is left via its own cancel path, and a
// booking with an assigned driver can no longer be cancelled.
func (s Stage) CanBeCancelled() bool {
	return s.CanTransitionTo(StageCancelled)
}

// String returns the string representation of the stage.
func (s Stage) String() string {
	return string(s)
}

// ParseStage converts a string to a Stage, returning an error if invalid.
func ParseStage(s string) (Stage, error) {
	stage := Stage(s)
	if !stage.IsValid() {
		return "", fmt.Errorf("invalid stage: %s", s)
	}
	return stage, nil
}
