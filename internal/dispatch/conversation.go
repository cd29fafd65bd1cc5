package dispatch

import "context"

// Document is a file attachment sent to the user.
type Document struct {
	// Name is the file name shown to the recipient.
	Name string
	// Path is the file on disk to upload.
	Path string
	// Caption is shown under the attachment.
	Caption string
}

// Conversation is the reply channel of one chat.
// Every method may fail; the router handles each failure.
type Conversation interface {
	// SendText sends plain text and returns the new message id.
	SendText(ctx context.Context, text string) (int, error)

	// SendMarkdown sends link-formatted text with link previews disabled.
	SendMarkdown(ctx context.Context, text string) error

	// EditText replaces the text of a message sent earlier.
	EditText(ctx context.Context, messageID int, text string) error

	// SendDocument uploads a file.
	SendDocument(ctx context.Context, doc Document) error
}
