package domain

import (
	accessDomain "github.com/allisson/configvault/internal/access/domain"
)

// ClassifyRisk grades an operation before it is recorded. Entries with a
// pinned risk level skip classification; for the rest the grade is computed
// once, at append time, from the operation's inputs alone:
//
//   - system operations are always Critical
//   - delete, access control change, and key rotation start at Medium
//   - a sensitive path escalates the grade one step
//   - a failed operation escalates the grade one step
//
// Escalations cap at Critical.
func ClassifyRisk(operation OperationType, path string, success bool) RiskLevel {
	if operation == OperationSystem {
		return RiskCritical
	}

	risk := RiskLow
	switch operation {
	case OperationDelete, OperationAccessControlChange, OperationKeyRotation:
		risk = RiskMedium
	}

	if accessDomain.IsSensitivePath(path) {
		risk = escalate(risk)
	}
	if !success {
		risk = escalate(risk)
	}
	return risk
}

func escalate(r RiskLevel) RiskLevel {
	if r >= RiskCritical {
		return RiskCritical
	}
	return r + 1
}
