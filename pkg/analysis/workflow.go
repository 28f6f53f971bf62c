package analysis

// workflowTable is the fixed routing table from risk tier to reviewer
// requirements, priority lane, and follow-up interval.
var workflowTable = map[RiskLevel]WorkflowDecision{
	RiskUrgent: {NeedsLocalReview: true, NeedsPhysicianReview: true, PriorityLevel: PriorityEmergency, FollowUpDays: 1},
	RiskHigh:   {NeedsLocalReview: true, NeedsPhysicianReview: true, PriorityLevel: PriorityHigh, FollowUpDays: 14},
	RiskMedium: {NeedsLocalReview: true, NeedsPhysicianReview: false, PriorityLevel: PriorityModerate, FollowUpDays: 30},
	RiskLow:    {NeedsLocalReview: false, NeedsPhysicianReview: false, PriorityLevel: PriorityRoutine, FollowUpDays: 90},
}

// Route is a pure lookup from risk tier to workflow decision. An
// unrecognised tier falls back to the LOW row, the least disruptive
// workflow.
func Route(level RiskLevel) WorkflowDecision {
	if decision, ok := workflowTable[level]; ok {
		return decision
	}
	return workflowTable[RiskLow]
}

// PriorityRank orders tiers for the review queue: URGENT first.
func PriorityRank(level RiskLevel) int {
	switch level {
	case RiskUrgent:
		return 1
	case RiskHigh:
		return 2
	case RiskMedium:
		return 3
	default:
		return 4
	}
}

var riskDisplayTable = map[RiskLevel]RiskDisplay{
	RiskUrgent: {Color: "#ff4444", Message: "Immediate medical attention required"},
	RiskHigh:   {Color: "#ff8800", Message: "Schedule dermatologist appointment soon"},
	RiskMedium: {Color: "#ffcc00", Message: "Consult healthcare provider within weeks"},
	RiskLow:    {Color: "#44ff44", Message: "Monitor during regular checkups"},
}

// DisplayFor returns presentation metadata for a tier. Indeterminate results
// get their own copy so a parse failure is never shown as a clean benign
// finding.
func DisplayFor(level RiskLevel, indeterminate bool) RiskDisplay {
	if indeterminate {
		return RiskDisplay{Color: "#8888ff", Message: "Insufficient data, manual review recommended"}
	}
	if display, ok := riskDisplayTable[level]; ok {
		return display
	}
	return riskDisplayTable[RiskLow]
}
