package bot

// EventKind discriminates the inbound event variants.
type EventKind int

const (
	// EventCommand is a menu selection or slash command.
	EventCommand EventKind = iota
	// EventText is free-form text input.
	EventText
	// EventImage is an uploaded image (photo or image document).
	EventImage
	// EventCancel aborts the pending operation.
	EventCancel
)

// Command identifies the recognized commands.
type Command string

const (
	// CommandStart shows the welcome message and main menu.
	CommandStart Command = "start"
	// CommandHelp shows the help text.
	CommandHelp Command = "help"
	// CommandInfo shows the about text.
	CommandInfo Command = "info"
	// CommandStats shows usage statistics.
	CommandStats Command = "stats"
	// CommandTextToQR enters text-to-QR conversion mode.
	CommandTextToQR Command = "text_to_qr"
	// CommandQRToText enters QR-to-text conversion mode.
	CommandQRToText Command = "qr_to_text"
)

// Event is one inbound platform event, tagged by Kind.
// Exactly one payload field is meaningful per kind: Command for
// EventCommand, Text for EventText, Image for EventImage.
type Event struct {
	UserID  int64
	Kind    EventKind
	Command Command
	Text    string
	Image   []byte
}

// ReplyKind discriminates the outbound reply variants.
type ReplyKind int

const (
	// ReplyMessage is a plain text message.
	ReplyMessage ReplyKind = iota
	// ReplyPhoto is an image with an optional caption.
	ReplyPhoto
	// ReplyDocument is a file attachment with an optional caption.
	ReplyDocument
)

// Keyboard selects the reply keyboard shown with a reply.
type Keyboard int

const (
	// KeyboardNone leaves the current keyboard in place.
	KeyboardNone Keyboard = iota
	// KeyboardMain shows the main menu.
	KeyboardMain
	// KeyboardCancel shows the single cancel button.
	KeyboardCancel
)

// Reply is one outbound payload for the transport to deliver.
// Text is the message body for ReplyMessage and the caption otherwise.
type Reply struct {
	Kind     ReplyKind
	Text     string
	Payload  []byte
	Filename string
	Keyboard Keyboard
}
