package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	ReasonTransportDial   ReasonCode = "transport_dial"
	ReasonTransportSend   ReasonCode = "transport_send"
	ReasonTransportClosed ReasonCode = "transport_closed"

	ReasonNotConnected ReasonCode = "not_connected"
	ReasonEmptyInput   ReasonCode = "empty_input"
	ReasonDecode       ReasonCode = "decode"
)
