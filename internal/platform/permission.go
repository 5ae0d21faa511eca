package platform

// Permission is a channel permission bit set, using the platform's bit positions.
type Permission uint64

const (
	PermViewChannel           Permission = 1 << 10
	PermSendMessages          Permission = 1 << 11
	PermManageThreads         Permission = 1 << 34
	PermCreatePublicThreads   Permission = 1 << 35
	PermSendMessagesInThreads Permission = 1 << 38

	PermAll = PermViewChannel | PermSendMessages | PermManageThreads | PermCreatePublicThreads | PermSendMessagesInThreads
)

// ThreadCapabilities are needed wherever the bot opens and manages question threads.
var ThreadCapabilities = []Permission{
	PermViewChannel,
	PermSendMessages,
	PermCreatePublicThreads,
	PermSendMessagesInThreads,
	PermManageThreads,
}

// CommonCapabilities are needed to post into a channel.
var CommonCapabilities = []Permission{
	PermViewChannel,
	PermSendMessages,
}

func (p Permission) Has(required Permission) bool {
	return p&required == required
}

func (p Permission) Name() string {
	switch p {
	case PermViewChannel:
		return "VIEW CHANNEL"
	case PermSendMessages:
		return "SEND MESSAGES"
	case PermManageThreads:
		return "MANAGE THREADS"
	case PermCreatePublicThreads:
		return "CREATE PUBLIC THREADS"
	case PermSendMessagesInThreads:
		return "SEND MESSAGES IN THREADS"
	}
	return "UNKNOWN"
}

// Missing returns the first capability of required that granted lacks, in order.
func Missing(granted Permission, required []Permission) (Permission, bool) {
	for _, p := range required {
		if !granted.Has(p) {
			return p, true
		}
	}
	return 0, false
}

// MissingMessage is the user-facing explanation for a missing capability.
func MissingMessage(p Permission) string {
	return "Missing **" + p.Name() + "** access."
}
