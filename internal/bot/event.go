package bot

// Kind discriminates inbound event shapes. The dispatcher routes on Kind
// alone; it carries no conversation state of its own.
type Kind int

const (
	// KindCommand is a slash command with optional argument tokens.
	KindCommand Kind = iota + 1

	// KindText is a plain text message.
	KindText

	// KindContact is a shared contact card.
	KindContact

	// KindAttachment is a message carrying a file attachment.
	KindAttachment
)

// Command names the dispatcher understands.
const (
	CommandStart     = "start"
	CommandWebSearch = "websearch"
)

// Attachment references a file delivered by the transport. The bytes are
// fetched lazily through a Downloader.
type Attachment struct {
	FileID   string
	FileName string
}

// Event is one inbound event, normalized away from the transport's types.
// Every event carries the stable conversation identifier and sender profile
// fields; the remaining payload depends on Kind.
type Event struct {
	ChatID    int64
	Kind      Kind
	FirstName string
	Username  string

	Command string   // KindCommand
	Args    []string // KindCommand
	Text    string   // KindText

	PhoneNumber string // KindContact

	Attachment *Attachment // KindAttachment
}

// Reply is the single outbound message a flow produces.
type Reply struct {
	Text string

	// RequestContact asks the transport to attach a one-time contact-sharing
	// keyboard to the reply.
	RequestContact bool
}
