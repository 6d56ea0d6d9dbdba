package submission

// ============================================================================
// Client Status Transition Table
// ============================================================================

// clientTransitions es la tabla autoritativa del pipeline externo.
// Fija, no configurable. Todo handler que mueva client_status valida
// contra esta tabla; no existe ningún camino que la evite.
var clientTransitions = map[ClientStatus][]ClientStatus{
	ClientStatusNotSent:      {ClientStatusSubmitted},
	ClientStatusSubmitted:    {ClientStatusInterviewing, ClientStatusRejected},
	ClientStatusInterviewing: {ClientStatusOffered, ClientStatusRejected},
	ClientStatusOffered:      {ClientStatusPlaced, ClientStatusRejected},
	ClientStatusPlaced:       {},
	ClientStatusRejected:     {},
	ClientStatusWithdrawn:    {},
}

// ValidClientStatuses enumera los estados conocidos del pipeline
var ValidClientStatuses = []ClientStatus{
	ClientStatusNotSent,
	ClientStatusSubmitted,
	ClientStatusInterviewing,
	ClientStatusOffered,
	ClientStatusPlaced,
	ClientStatusRejected,
	ClientStatusWithdrawn,
}

// IsValidClientStatus verifica que el valor pertenezca a la enumeración
func IsValidClientStatus(status ClientStatus) bool {
	_, ok := clientTransitions[status]
	return ok
}

// IsTerminalClientStatus verifica si un estado no admite más transiciones
func IsTerminalClientStatus(status ClientStatus) bool {
	next, ok := clientTransitions[status]
	return ok && len(next) == 0
}

// CanTransition decide si la arista (current → requested) existe en la tabla
func CanTransition(current, requested ClientStatus) bool {
	for _, allowed := range clientTransitions[current] {
		if allowed == requested {
			return true
		}
	}
	return false
}

// AllowedTransitions devuelve los destinos permitidos desde un estado
func AllowedTransitions(current ClientStatus) []ClientStatus {
	next := clientTransitions[current]
	out := make([]ClientStatus, len(next))
	copy(out, next)
	return out
}

// ValidateTransition valida la arista y devuelve un error descriptivo
// que nombra el estado actual y el solicitado cuando se deniega
func ValidateTransition(current, requested ClientStatus) error {
	if !IsValidClientStatus(requested) {
		return ErrInvalidStatus(string(requested))
	}
	if !CanTransition(current, requested) {
		return ErrTransitionNotAllowed(current, requested)
	}
	return nil
}
