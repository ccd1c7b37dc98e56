package room

import (
	"holdem-engine/pkg/playable"
)

const logMessageLimit = 25

// addLogMessages adds a lot message
// Note: the lock must be held
func (d *Dealer) addLogMessages(messages []*playable.LogMessage) {
	m := append(d.logMessages, messages...)
	count := len(m)
	if count > logMessageLimit {
		m = m[count-logMessageLimit:]
	}

	d.logMessages = m
}

// LogMessages returns the most recent log messages of the table
func (d *Dealer) LogMessages() []*playable.LogMessage {
	d.mu.Lock()
	defer d.mu.Unlock()

	messages := make([]*playable.LogMessage, len(d.logMessages))
	copy(messages, d.logMessages)
	return messages
}
