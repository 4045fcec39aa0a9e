// Package schema has the records, enums and weight tables shared by all parts of givemetry.
package schema

import "time"

// GiftRecord is a single gift in a constituent's giving history.
// Insertion order is irrelevant; calculators sort by date internally.
type GiftRecord struct {
	Amount float64   `json:"amount"` // Gift amount in dollars, never negative
	Date   time.Time `json:"date"`   // Date the gift was received
}

// ContactRecord is a single interaction with a constituent.
type ContactRecord struct {
	Date time.Time   `json:"date"` // Date of the interaction
	Type ContactType `json:"type"` // Channel of the interaction
}

// ConstituentProfile holds the demographic, affiliation and assignment fields
// for a single constituent. ExternalID and LastName are the only required
// fields; everything else may be blank.
type ConstituentProfile struct {
	ExternalID        string        `json:"external_id"`
	Prefix            string        `json:"prefix,omitempty"`
	FirstName         string        `json:"first_name,omitempty"`
	MiddleName        string        `json:"middle_name,omitempty"`
	LastName          string        `json:"last_name"`
	Suffix            string        `json:"suffix,omitempty"`
	Email             string        `json:"email,omitempty"`
	Phone             string        `json:"phone,omitempty"`
	AddressLine1      string        `json:"address_line1,omitempty"`
	AddressLine2      string        `json:"address_line2,omitempty"`
	City              string        `json:"city,omitempty"`
	State             string        `json:"state,omitempty"`
	PostalCode        string        `json:"postal_code,omitempty"`
	ConstituentType   string        `json:"constituent_type,omitempty"` // alumni, parent, friend, foundation, corporation
	ClassYear         int           `json:"class_year,omitempty"`
	SchoolCollege     string        `json:"school_college,omitempty"`
	EstimatedCapacity float64       `json:"estimated_capacity,omitempty"`
	CapacitySource    string        `json:"capacity_source,omitempty"`
	PortfolioTier     PortfolioTier `json:"portfolio_tier,omitempty"`
	AssignedOfficerID string        `json:"assigned_officer_id,omitempty"`
	AssignedAt        time.Time     `json:"assigned_at,omitempty"`
}

// ScoreFactor describes one contribution to a composite score in words.
// Every composite score carries its factors; they are never dropped.
type ScoreFactor struct {
	Name   string  `json:"name"`             // Machine-friendly factor name, e.g. "recency"
	Value  string  `json:"value"`            // Human-readable description, e.g. "8 months since last gift"
	Impact Impact  `json:"impact"`           // high, medium or low
	Weight float64 `json:"weight,omitempty"` // Weight applied when combining, if any
}

// LapseRiskResult is the outcome of a lapse risk calculation for one constituent.
// Factors always holds exactly one entry per factor, in the order
// recency, frequency, monetary, contact.
type LapseRiskResult struct {
	Score                float64       `json:"score"`      // Composite risk in [0,1]
	RiskLevel            RiskLevel     `json:"risk_level"` // low, medium or high
	Confidence           float64       `json:"confidence"` // How much history backs the score, [0,1]
	PredictedLapseWindow string        `json:"predicted_lapse_window"`
	Factors              []ScoreFactor `json:"factors"`
}

// HealthScoreResult aggregates the four data quality categories into an
// overall score. Overall is always the weighted combination of the
// categories; it is never set independently.
type HealthScoreResult struct {
	Overall      float64 `json:"overall"`
	Completeness float64 `json:"completeness"`
	Freshness    float64 `json:"freshness"`
	Consistency  float64 `json:"consistency"`
	Coverage     float64 `json:"coverage"`
}

// HealthInputs are the raw category scores fed into the health scorer.
// Out-of-range values are clamped before combination, not rejected.
type HealthInputs struct {
	Completeness float64 `json:"completeness"`
	Freshness    float64 `json:"freshness"`
	Consistency  float64 `json:"consistency"`
	Coverage     float64 `json:"coverage"`
}

// CompletenessIssue is a typed data quality finding for a single profile.
type CompletenessIssue struct {
	Code        IssueCode `json:"code"`
	Field       string    `json:"field,omitempty"`
	Severity    Severity  `json:"severity"`
	Description string    `json:"description"`
}

// ConstituentHealthItem is the per-constituent slice of a health report.
type ConstituentHealthItem struct {
	ConstituentID string              `json:"constituent_id"`
	DisplayName   string              `json:"display_name"`
	Completeness  float64             `json:"completeness"`
	Issues        []CompletenessIssue `json:"issues,omitempty"`
}

// HealthReport is the organization-wide data quality picture: the
// per-constituent detail plus the combined category scores and grade.
type HealthReport struct {
	Constituents []ConstituentHealthItem `json:"constituents"`
	Inputs       HealthInputs            `json:"inputs"`
	Score        HealthScoreResult       `json:"score"`
	Grade        string                  `json:"grade"`
}

// AnomalyResult is one notable deviation found in a constituent's
// gift or contact timeline.
type AnomalyResult struct {
	ConstituentID string        `json:"constituent_id"`
	Type          AnomalyType   `json:"type"`
	Severity      Severity      `json:"severity"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Factors       []ScoreFactor `json:"factors"`
	DetectedAt    time.Time     `json:"detected_at"`
}

// GeneratedAlert is a persisted alert derived 1:1 from an AnomalyResult.
// At most one live alert exists per (ConstituentID, AlertType) key.
type GeneratedAlert struct {
	ID            string      `json:"id"`
	ConstituentID string      `json:"constituent_id"`
	AlertType     AnomalyType `json:"alert_type"`
	Severity      Severity    `json:"severity"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	DetectedAt    time.Time   `json:"detected_at"`
}

// Key returns the deduplication key for the alert.
func (a GeneratedAlert) Key() string {
	return a.ConstituentID + ":" + string(a.AlertType)
}

// AlertSummary holds the rollup counts for a batch of alerts.
type AlertSummary struct {
	Total                int                 `json:"total"`
	BySeverity           map[Severity]int    `json:"by_severity"`
	ByType               map[AnomalyType]int `json:"by_type"`
	ConstituentsAffected int                 `json:"constituents_affected"`
}

// OfficerPortfolioMetrics is the workload picture for one gift officer,
// recomputed wholesale on each analysis request.
type OfficerPortfolioMetrics struct {
	OfficerID         string        `json:"officer_id"`
	ConstituentCount  int           `json:"constituent_count"`
	TotalCapacity     float64       `json:"total_capacity"`
	HighPriorityCount int           `json:"high_priority_count"`
	HighRiskCount     int           `json:"high_risk_count"`
	WorkloadScore     float64       `json:"workload_score"` // 0-100 composite
	WorkloadRatio     float64       `json:"workload_ratio"` // count / cross-officer average
	Classification    WorkloadClass `json:"classification"`
}

// RebalanceSuggestion proposes moving one constituent between officers.
// It is advisory only; the engine never mutates assignment data.
type RebalanceSuggestion struct {
	ConstituentID string `json:"constituent_id"`
	FromOfficerID string `json:"from_officer_id"`
	ToOfficerID   string `json:"to_officer_id"`
	Reason        string `json:"reason"`
}

// PortfolioAnalysis is the organization-wide balance picture.
type PortfolioAnalysis struct {
	Officers             []OfficerPortfolioMetrics `json:"officers"`
	AveragePortfolioSize float64                   `json:"average_portfolio_size"`
	MinPortfolioSize     int                       `json:"min_portfolio_size"`
	MaxPortfolioSize     int                       `json:"max_portfolio_size"`
	IsBalanced           bool                      `json:"is_balanced"`
	Suggestions          []RebalanceSuggestion     `json:"suggestions"`
}

// AlertStoreStatus reports the state of the alert persistence backend.
type AlertStoreStatus struct {
	Backend     string             `json:"backend"`
	Connected   bool               `json:"connected"`
	TotalAlerts int64              `json:"total_alerts"`
	TotalRuns   int64              `json:"total_runs"`
	LastRunID   string             `json:"last_run_id,omitempty"`
	LastRunTime time.Time          `json:"last_run_time,omitempty"`
	BySeverity  map[Severity]int64 `json:"by_severity,omitempty"`
}

// ConstituentData bundles one constituent's records for batch scoring.
type ConstituentData struct {
	Profile  ConstituentProfile `json:"profile"`
	Gifts    []GiftRecord       `json:"gifts"`
	Contacts []ContactRecord    `json:"contacts"`
}

// BatchRiskItem is one per-constituent outcome in a batch risk run.
// Err is set when the item failed; failures never abort the batch.
type BatchRiskItem struct {
	ConstituentID string           `json:"constituent_id"`
	DisplayName   string           `json:"display_name"`
	Result        *LapseRiskResult `json:"result,omitempty"`
	Err           error            `json:"-"`
}
