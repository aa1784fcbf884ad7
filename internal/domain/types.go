package domain

// DocumentType is the declared format of an uploaded document.
type DocumentType string

const (
	DocumentPDF  DocumentType = "pdf"
	DocumentWord DocumentType = "docx"
	DocumentText DocumentType = "txt"
	DocumentCSV  DocumentType = "csv"
)

// Document is a user supplied blob waiting to be sent to the provider.
type Document struct {
	Name string
	Type DocumentType
	Data []byte
}

// Empty reports whether the document carries no bytes.
func (d Document) Empty() bool { return len(d.Data) == 0 }

// FileHandle is the provider's opaque identifier for an uploaded file.
type FileHandle string

// KnowledgeBase is the provider's opaque identifier for a collection.
type KnowledgeBase string

// IndexStatus is the provider's processing state of an attached file.
type IndexStatus string

const (
	IndexInProgress IndexStatus = "in_progress"
	IndexCompleted  IndexStatus = "completed"
	IndexFailed     IndexStatus = "failed"
	IndexCancelled  IndexStatus = "cancelled"
)

// Done reports whether the provider stopped working on the file.
func (s IndexStatus) Done() bool {
	return s == IndexCompleted || s == IndexFailed || s == IndexCancelled
}

// Role is the author of a transcript message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single transcript entry.
type Message struct {
	Role    Role
	Content string
}
