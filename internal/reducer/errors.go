package reducer

import "fmt"

// ReductionCode identifies the machine-readable category of a ReductionError,
// mirroring the teacher's journal drop-reason constants.
type ReductionCode string

const (
	CodeNotActiveUnit    ReductionCode = "not_active_unit"
	CodeUnitDead         ReductionCode = "unit_dead"
	CodeNoActionsLeft    ReductionCode = "no_actions_remaining"
	CodeInvalidMove      ReductionCode = "invalid_move"
	CodeNoLineOfEffect   ReductionCode = "no_line_of_effect"
	CodeUnknownTarget    ReductionCode = "unknown_target"
	CodeUnknownCommand   ReductionCode = "unknown_command"
	CodeDuplicateUnitID  ReductionCode = "duplicate_unit_id"
	CodeInvalidPlacement ReductionCode = "invalid_placement"
	CodeInvalidPayload   ReductionCode = "invalid_payload"
)

// ReductionError is the single fail-fast error type the reducer returns; the
// orchestrator converts it into a command_error event per §7.
type ReductionError struct {
	Code    ReductionCode
	Message string
}

func (e *ReductionError) Error() string {
	return e.Message
}

func newReductionError(code ReductionCode, format string, args ...any) *ReductionError {
	return &ReductionError{Code: code, Message: fmt.Sprintf(format, args...)}
}
