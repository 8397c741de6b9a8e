package battle

import "fmt"

// formatEventID renders the reducer's pre-incremented event_sequence as
// "ev_NNNNNN" per §4.15.
func formatEventID(sequence uint64) string {
	return fmt.Sprintf("ev_%06d", sequence)
}

// formatEffectID renders an ordinal effect sequence as "eff_NNNN" per §3.
func formatEffectID(sequence uint64) string {
	return fmt.Sprintf("eff_%04d", sequence)
}
