// Package fcm builds and sends Firebase Cloud Messaging HTTP v1 requests
// for single device tokens, authenticating each request with a bearer token
// borrowed from a TokenSource.
package fcm

import "encoding/json"

// Notification is the human-visible part of a message.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// APNSFCMOptions are the FCM-level options nested under the APNs config.
type APNSFCMOptions struct {
	AnalyticsLabel string `json:"analytics_label,omitempty"`
	Image          string `json:"image,omitempty"`
}

// APNSConfig carries APNs-specific delivery options for iOS devices.
// Every field is optional; absent fields are omitted from the serialized
// "apns" object rather than emitted as null.
type APNSConfig struct {
	Headers    map[string]string `json:"headers,omitempty"`
	Payload    map[string]any    `json:"payload,omitempty"`
	FCMOptions *APNSFCMOptions   `json:"fcm_options,omitempty"`
	// LiveActivityToken is not part of the documented FCM schema; it is
	// serialized verbatim when set and left to the service to interpret.
	LiveActivityToken string `json:"live_activity_token,omitempty"`
}

// NewAPNSConfig returns an empty APNs config.
func NewAPNSConfig() *APNSConfig {
	return &APNSConfig{}
}

// SilentPushAPNSConfig returns the config for a background (silent) push:
// an aps payload with content-available set and no visible alert.
func SilentPushAPNSConfig() *APNSConfig {
	return &APNSConfig{
		Payload: map[string]any{
			"aps": map[string]any{
				"content-available": 1,
			},
		},
	}
}

// APNSConfigWithAPSPayload wraps a caller-supplied aps document.
func APNSConfigWithAPSPayload(aps any) *APNSConfig {
	return &APNSConfig{
		Payload: map[string]any{
			"aps": aps,
		},
	}
}

// WithHeaders sets APNs headers such as apns-priority or apns-expiration.
func (c *APNSConfig) WithHeaders(headers map[string]string) *APNSConfig {
	c.Headers = headers
	return c
}

// WithFCMOptions sets the FCM-level options for APNs delivery.
func (c *APNSConfig) WithFCMOptions(opts *APNSFCMOptions) *APNSConfig {
	c.FCMOptions = opts
	return c
}

// WithLiveActivityToken sets the live activity correlation token.
func (c *APNSConfig) WithLiveActivityToken(token string) *APNSConfig {
	c.LiveActivityToken = token
	return c
}

// Message is one notification addressed to one device token.
//
// Token is passed through verbatim; its format is not validated. Data may be
// any value that serializes to a JSON object and is opaque beyond
// serialization. At least one of Notification, Data or APNS must be set.
type Message struct {
	Token        string        `json:"token"`
	Notification *Notification `json:"notification,omitempty"`
	Data         any           `json:"data,omitempty"`
	APNS         *APNSConfig   `json:"apns,omitempty"`
}

type envelope struct {
	Message *Message `json:"message"`
}

// BuildPayload serializes msg into the wire envelope submitted to the
// messages:send endpoint. It is pure: no I/O, deterministic up to JSON map
// key ordering.
//
// It returns ErrInvalidPayload when notification, data and apns are all
// absent (the service rejects semantically empty messages), and a
// *SerializationError when the data payload or APNs config cannot be
// converted to JSON.
func BuildPayload(msg *Message) ([]byte, error) {
	if msg.Notification == nil && msg.Data == nil && msg.APNS == nil {
		return nil, ErrInvalidPayload
	}

	body, err := json.Marshal(envelope{Message: msg})
	if err != nil {
		return nil, &SerializationError{Err: err}
	}
	return body, nil
}
