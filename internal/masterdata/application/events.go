package application

// MeterRemoved is emitted after a meter is detached from its client.
type MeterRemoved struct {
	ClientID string
	MeterID  string
}
