package domain

// TestType classifies a quality control
type TestType string

const (
	TestIncoming TestType = "incoming"
	TestOutgoing TestType = "outgoing"
	TestPeriodic TestType = "periodic"
)

// QCStatus is the verdict of a quality control
type QCStatus string

const (
	QCPending    QCStatus = "pending"
	QCPassed     QCStatus = "passed"
	QCFailed     QCStatus = "failed"
	QCQuarantine QCStatus = "quarantine"
)

// QualityControl records a batch test
type QualityControl struct {
	ID          string         `json:"id"`
	ProductID   string         `json:"productId"`
	ProductName string         `json:"productName"`
	BatchNumber string         `json:"batchNumber"`
	TestType    TestType       `json:"testType"`
	Status      QCStatus       `json:"status"`
	TestDate    string         `json:"testDate"`
	Results     map[string]any `json:"results"`
	Inspector   string         `json:"inspector"`
	Notes       string         `json:"notes,omitempty"`
}

// ComplianceType classifies a regulatory record
type ComplianceType string

const (
	ComplianceLicense       ComplianceType = "license"
	ComplianceCertification ComplianceType = "certification"
	ComplianceAudit         ComplianceType = "audit"
	ComplianceInspection    ComplianceType = "inspection"
)

// ComplianceStatus is the validity of a regulatory record
type ComplianceStatus string

const (
	ComplianceActive         ComplianceStatus = "active"
	ComplianceExpired        ComplianceStatus = "expired"
	CompliancePendingRenewal ComplianceStatus = "pending_renewal"
)

// ComplianceRecord is a license, certification, audit or inspection
type ComplianceRecord struct {
	ID          string           `json:"id"`
	Type        ComplianceType   `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      ComplianceStatus `json:"status"`
	IssueDate   string           `json:"issueDate"`
	ExpiryDate  string           `json:"expiryDate"`
	Authority   string           `json:"authority"`
	DocumentURL string           `json:"documentUrl,omitempty"`
}
