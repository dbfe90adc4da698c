package model

import "strings"

// DefaultManualChannels are the request channel markers of services that are not
// served by a digital system.
var DefaultManualChannels = []string{"Presencial", "Telefone", "Whatsapp", "E-mail"}

// ChannelClassifier splits services into systematized and non-systematized by their
// request channel.
type ChannelClassifier struct {
	markers []string
}

// NewChannelClassifier creates a classifier; nil or empty markers mean DefaultManualChannels.
func NewChannelClassifier(markers []string) *ChannelClassifier {
	if len(markers) == 0 {
		markers = DefaultManualChannels
	}
	lowered := make([]string, 0, len(markers))
	for _, m := range markers {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			lowered = append(lowered, m)
		}
	}
	return &ChannelClassifier{markers: lowered}
}

// IsManual reports whether channel is empty or contains one of the manual markers,
// case-insensitively.
func (c *ChannelClassifier) IsManual(channel string) bool {
	channel = strings.ToLower(strings.TrimSpace(channel))
	if channel == "" {
		return true
	}
	for _, m := range c.markers {
		if strings.Contains(channel, m) {
			return true
		}
	}
	return false
}
