package types

// MessageRole identifies the author of a conversation message
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// IsValid checks if the role is valid
func (r MessageRole) IsValid() bool {
	return r == MessageRoleUser || r == MessageRoleAssistant
}

func (r MessageRole) String() string {
	return string(r)
}
