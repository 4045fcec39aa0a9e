package schema

// Custom string types for type safety.
type (
	// FactorKey represents keys used in risk factor weights.
	FactorKey string

	// HealthKey represents keys used in health category weights.
	HealthKey string

	// RiskLevel represents the bucketed lapse risk of a constituent.
	RiskLevel string

	// Severity represents the severity of an anomaly, alert or issue.
	Severity string

	// Impact represents how strongly a factor pushed a composite score.
	Impact string

	// ContactType represents the channel of a constituent interaction.
	ContactType string

	// AnomalyType represents the kind of deviation an anomaly scan found.
	AnomalyType string

	// IssueCode represents a typed data completeness issue.
	IssueCode string

	// PortfolioTier represents a donor segmentation label.
	PortfolioTier string

	// WorkloadClass represents an officer's workload classification.
	WorkloadClass string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for alert storage.
	DatabaseBackend string
)

// Risk factor keys used in lapse risk weighting.
const (
	FactorRecency   FactorKey = "recency"
	FactorFrequency FactorKey = "frequency"
	FactorMonetary  FactorKey = "monetary"
	FactorContact   FactorKey = "contact"
)

// Health category keys used in health weighting.
const (
	HealthCompleteness HealthKey = "completeness"
	HealthFreshness    HealthKey = "freshness"
	HealthConsistency  HealthKey = "consistency"
	HealthCoverage     HealthKey = "coverage"
)

// All risk levels supported. Boundary scores belong to the higher bucket.
const (
	LowRisk    RiskLevel = "low"
	MediumRisk RiskLevel = "medium"
	HighRisk   RiskLevel = "high"
)

// All severities supported.
const (
	HighSeverity   Severity = "high"
	MediumSeverity Severity = "medium"
	LowSeverity    Severity = "low"
)

// All factor impacts supported.
const (
	HighImpact   Impact = "high"
	MediumImpact Impact = "medium"
	LowImpact    Impact = "low"
)

// All contact types supported.
const (
	MeetingContact ContactType = "meeting"
	CallContact    ContactType = "call"
	EmailContact   ContactType = "email"
	EventContact   ContactType = "event"
	OtherContact   ContactType = "other"
)

// All anomaly types supported.
const (
	LapseRiskAnomaly        AnomalyType = "lapse_risk"
	CapacityMismatchAnomaly AnomalyType = "capacity_mismatch"
	SuddenSilenceAnomaly    AnomalyType = "sudden_silence"
	GivingDropAnomaly       AnomalyType = "giving_drop"
	GivingDeclineAnomaly    AnomalyType = "giving_decline"
)

// All completeness issue codes supported.
const (
	MissingRequiredIssue   IssueCode = "missing_required"
	MissingContactIssue    IssueCode = "missing_contact"
	IncompleteAddressIssue IssueCode = "incomplete_address"
)

// All portfolio tiers supported, highest priority first.
const (
	PrincipalTier  PortfolioTier = "principal"
	MajorTier      PortfolioTier = "major"
	LeadershipTier PortfolioTier = "leadership"
	AnnualTier     PortfolioTier = "annual"
)

// All workload classifications supported.
const (
	OverloadedWorkload    WorkloadClass = "overloaded"
	HeavyWorkload         WorkloadClass = "heavy"
	BalancedWorkload      WorkloadClass = "balanced"
	BelowAverageWorkload  WorkloadClass = "below_average"
	UnderutilizedWorkload WorkloadClass = "underutilized"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All alert store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Risk level thresholds. Half-open intervals, lower bound inclusive.
const (
	HighRiskThreshold   = 0.7
	MediumRiskThreshold = 0.4
)

// Severity threshold for high-severity lapse risk anomalies.
const CriticalRiskThreshold = 0.85

// Workload ratio thresholds for officer classification.
const (
	OverloadedRatio    = 1.5
	HeavyRatio         = 1.2
	BelowAverageRatio  = 0.8
	UnderutilizedRatio = 0.5
)

// FactorOrder is the canonical factor ordering in a LapseRiskResult.
var FactorOrder = []FactorKey{FactorRecency, FactorFrequency, FactorMonetary, FactorContact}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidAlertBackends lists all valid alert store backends.
var ValidAlertBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSeverities lists all valid alert severities.
var ValidSeverities = map[Severity]struct{}{
	LowSeverity:    {},
	MediumSeverity: {},
	HighSeverity:   {},
}

// ValidContactTypes lists all valid contact types.
var ValidContactTypes = map[ContactType]struct{}{
	MeetingContact: {},
	CallContact:    {},
	EmailContact:   {},
	EventContact:   {},
	OtherContact:   {},
}

// DefaultRiskWeights returns the default weight map for lapse risk scoring.
// These weights sum to 1; caller-supplied overrides are used verbatim and
// are NOT renormalized.
func DefaultRiskWeights() map[FactorKey]float64 {
	return map[FactorKey]float64{
		FactorRecency:   0.35,
		FactorFrequency: 0.25,
		FactorMonetary:  0.20,
		FactorContact:   0.20,
	}
}

// DefaultHealthWeights returns the default weight map for health scoring.
// Unlike risk weights, custom health weights ARE normalized to sum to 1
// before combination.
func DefaultHealthWeights() map[HealthKey]float64 {
	return map[HealthKey]float64{
		HealthCompleteness: 0.30,
		HealthFreshness:    0.25,
		HealthConsistency:  0.25,
		HealthCoverage:     0.20,
	}
}

// severityRank orders severities for sorting; higher sorts first.
var severityRank = map[Severity]int{
	HighSeverity:   2,
	MediumSeverity: 1,
	LowSeverity:    0,
}

// SeverityRank returns the sort rank of a severity. Unknown severities
// rank below low.
func SeverityRank(s Severity) int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

// tierRank orders portfolio tiers for prioritization; higher is more important.
var tierRank = map[PortfolioTier]int{
	PrincipalTier:  4,
	MajorTier:      3,
	LeadershipTier: 2,
	AnnualTier:     1,
}

// TierRank returns the priority rank of a portfolio tier. Blank or unknown
// tiers rank lowest.
func TierRank(t PortfolioTier) int {
	return tierRank[t]
}
