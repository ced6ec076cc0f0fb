package classify

import "time"

// Category is the business bucket an email is filed under
type Category string

const (
	CategoryDeal     Category = "deal"     // Inbound deal flow / transactions
	CategoryInvestor Category = "investor" // LP and investor relations traffic
	CategoryBroker   Category = "broker"   // Sell-side intermediaries and bankers
	CategoryGeneral  Category = "general"  // Everything else
)

// DealStage is the coarse pipeline position inferred from stage keywords
type DealStage string

const (
	StageProspect  DealStage = "prospect"
	StageResponse  DealStage = "response"
	StageDiligence DealStage = "diligence"
	StageTermSheet DealStage = "term-sheet"
	StageClosing   DealStage = "closing"
)

// Sentiment is the overall tone label, always populated
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Priority is the urgency label, always populated
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Address is an email sender or recipient
type Address struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Body is an email body with its declared content type
type Body struct {
	Content     string `json:"content"`
	ContentType string `json:"contentType"` // "text/plain" or "text/html"
}

// RawEmail is the core input contract: one email as supplied by the
// mailbox collaborator. The engine never mutates it.
type RawEmail struct {
	ID             string    `json:"id"`
	Subject        string    `json:"subject"`
	Body           Body      `json:"body"`
	From           Address   `json:"from"`
	ReceivedAt     time.Time `json:"receivedDateTime"`
	IsRead         bool      `json:"isRead"`
	HasAttachments bool      `json:"hasAttachments"`
}

// Extracted holds the structured facts pulled out of an email. The four
// entity fields are independently optional; sentiment and priority are
// always set.
type Extracted struct {
	CompanyName  string    `json:"companyName,omitempty"`
	DealValue    *float64  `json:"dealValue,omitempty"` // absolute currency units
	DealStage    DealStage `json:"dealStage,omitempty"`
	InvestorName string    `json:"investorName,omitempty"`
	Sentiment    Sentiment `json:"sentiment"`
	Priority     Priority  `json:"priority"`
}

// Classification is the core output contract for one email.
// Confidence is always within [0, 1]; Category is never empty.
type Classification struct {
	Category   Category  `json:"category"`
	Confidence float64   `json:"confidence"`
	Extracted  Extracted `json:"extractedData"`
}

// CategorizedEmail pairs an email's identity fields with its
// classification. Created fresh on every call, never mutated after.
type CategorizedEmail struct {
	ID         string    `json:"id"`
	Subject    string    `json:"subject"`
	From       Address   `json:"from"`
	ReceivedAt time.Time `json:"receivedDateTime"`
	Classification
}
