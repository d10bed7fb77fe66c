package model

// RiskLevel is the closed severity taxonomy for blood-pressure
// classification, ordered from least to most severe. RiskUnknown is the
// sentinel for every non-fault outcome: not enough history, collaborator
// failure, or an unparseable response.
type RiskLevel string

const (
	RiskLow                  RiskLevel = "LOW"
	RiskNormal               RiskLevel = "NORMAL"
	RiskMildHypertensive     RiskLevel = "MILD_HYPERTENSIVE"
	RiskModerateHypertensive RiskLevel = "MODERATE_HYPERTENSIVE"
	RiskSevereHypertensive   RiskLevel = "SEVERE_HYPERTENSIVE"
	RiskUnknown              RiskLevel = "UNKNOWN"
)

// RiskLevels lists the classifiable levels in declaration order. The AI
// response parser scans in this order, so a response naming several levels
// resolves to the first listed here.
var RiskLevels = []RiskLevel{
	RiskLow,
	RiskNormal,
	RiskMildHypertensive,
	RiskModerateHypertensive,
	RiskSevereHypertensive,
}

func (r RiskLevel) String() string {
	return string(r)
}
