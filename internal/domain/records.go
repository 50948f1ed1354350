package domain

// NotificationType is the severity shown to the user
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
	NotificationSuccess NotificationType = "success"
)

// Notification is an in-app message addressed to one user
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	CreatedAt string           `json:"createdAt"`
}

// AuditLog records an action performed by a user
type AuditLog struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	UserName   string         `json:"userName"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	ResourceID string         `json:"resourceId"`
	Timestamp  string         `json:"timestamp"`
	Details    map[string]any `json:"details"`
	IPAddress  string         `json:"ipAddress"`
}

// DocumentType classifies stored documents
type DocumentType string

const (
	DocumentContract    DocumentType = "contract"
	DocumentCertificate DocumentType = "certificate"
	DocumentReport      DocumentType = "report"
	DocumentManual      DocumentType = "manual"
	DocumentOther       DocumentType = "other"
)

// Document is file metadata; the content itself lives behind URL
type Document struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Type        DocumentType `json:"type"`
	Category    string       `json:"category"`
	UploadDate  string       `json:"uploadDate"`
	UploadedBy  string       `json:"uploadedBy"`
	FileSize    int64        `json:"fileSize"`
	FileType    string       `json:"fileType"`
	URL         string       `json:"url"`
	Tags        []string     `json:"tags"`
}

// MessageType distinguishes direct messages from broadcasts
type MessageType string

const (
	MessageDirect       MessageType = "message"
	MessageAlert        MessageType = "alert"
	MessageAnnouncement MessageType = "announcement"
)

// Message is internal mail between users
type Message struct {
	ID            string      `json:"id"`
	SenderID      string      `json:"senderId"`
	SenderName    string      `json:"senderName"`
	RecipientID   string      `json:"recipientId"`
	RecipientName string      `json:"recipientName"`
	Subject       string      `json:"subject"`
	Content       string      `json:"content"`
	Timestamp     string      `json:"timestamp"`
	Read          bool        `json:"read"`
	Type          MessageType `json:"type"`
}
