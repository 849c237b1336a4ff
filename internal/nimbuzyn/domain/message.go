package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Hard payload limits enforced at the domain layer, not just the UI.
const (
	MaxTextLength = 1000              // characters, not bytes
	MaxFileSize   = 100 * 1024 * 1024 // 100 MB
)

// MessageKind is the tag of the message payload variant.
type MessageKind string

const (
	MessageText MessageKind = "text"
	MessageFile MessageKind = "file"
)

// Message is one entry in the append-only conversation log. Messages are
// immutable once created.
type Message struct {
	ID             string // ULID; id order is time order, used as tie-break
	ConversationID string
	SenderID       string
	RecipientID    string
	Kind           MessageKind
	Body           string // text content, or the file reference for files
	FileName       string // only for MessageFile
	FileSize       int64  // bytes, only for MessageFile
	SentAt         time.Time
}

// AttachmentCategory groups file attachments for display purposes.
type AttachmentCategory string

const (
	AttachmentImage    AttachmentCategory = "image"
	AttachmentVideo    AttachmentCategory = "video"
	AttachmentDocument AttachmentCategory = "document"
	AttachmentArchive  AttachmentCategory = "archive"
)

var attachmentCategories = map[string]AttachmentCategory{
	"jpg": AttachmentImage, "jpeg": AttachmentImage, "png": AttachmentImage,
	"gif": AttachmentImage, "webp": AttachmentImage, "bmp": AttachmentImage,
	"mp4": AttachmentVideo, "mkv": AttachmentVideo, "avi": AttachmentVideo,
	"mov": AttachmentVideo, "webm": AttachmentVideo,
	"pdf": AttachmentDocument, "doc": AttachmentDocument, "docx": AttachmentDocument,
	"xls": AttachmentDocument, "xlsx": AttachmentDocument, "ppt": AttachmentDocument,
	"pptx": AttachmentDocument, "txt": AttachmentDocument, "csv": AttachmentDocument,
	"rar": AttachmentArchive, "zip": AttachmentArchive, "7z": AttachmentArchive,
}

// CategorizeAttachment maps a file name to its display category by extension.
// The boolean is false for extensions outside the supported set.
func CategorizeAttachment(fileName string) (AttachmentCategory, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	cat, ok := attachmentCategories[ext]
	return cat, ok
}

// Category returns the attachment category of a file message, or "" for text.
func (m Message) Category() AttachmentCategory {
	if m.Kind != MessageFile {
		return ""
	}
	cat, _ := CategorizeAttachment(m.FileName)
	return cat
}

// Conversation is the per-pair chat session. Participant ids are stored in
// normalised order (A < B) so each pair has exactly one row.
type Conversation struct {
	ID            string
	ParticipantA  string
	ParticipantB  string
	LastMessage   string // preview, first 50 chars of the last message
	LastMessageAt *time.Time
	UnreadA       int // messages participant A has not read yet
	UnreadB       int
	CreatedAt     time.Time
}

// Other returns the counterpart of userID in the conversation.
func (c Conversation) Other(userID string) string {
	if c.ParticipantA == userID {
		return c.ParticipantB
	}
	return c.ParticipantA
}

// UnreadFor returns how many messages userID has not read yet.
func (c Conversation) UnreadFor(userID string) int {
	if c.ParticipantA == userID {
		return c.UnreadA
	}
	return c.UnreadB
}

// NormalizePair orders two participant ids so (a, b) and (b, a) address the
// same conversation row.
func NormalizePair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}
