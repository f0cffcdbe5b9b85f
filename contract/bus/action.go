package bus

// ClientUUIDKey is the action context key holding the frontend's correlation token.
const ClientUUIDKey = "uuid_client"

// ActionContext is the per-request context sent along with a button action.
// Values are whatever the frontend put into the JSON context object.
type ActionContext map[string]any

// ClientUUID returns the correlation token when it is a non-empty string.
// Missing keys and falsy values such as false, nil or "" report no token.
func (c ActionContext) ClientUUID() (string, bool) {
	v, ok := c[ClientUUIDKey]
	if !ok {
		return "", false
	}

	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}

	return s, true
}
