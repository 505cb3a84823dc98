package coach

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sixjars/jarflow/internal/model"
)

// Alert types the coach knows how to phrase.
const (
	AlertOverspending = "overspending"
	AlertLowBalance   = "low_balance"
)

// GenerateAlert builds a proactive coaching alert for a user. Unknown
// alert types produce the generic pattern-change nudge.
func (s *Service) GenerateAlert(userID, alertType string, alertContext map[string]any) *model.ProactiveAlert {
	alert := &model.ProactiveAlert{
		AlertID:   uuid.New().String(),
		UserID:    userID,
		AlertType: alertType,
		Context:   alertContext,
		CreatedAt: time.Now().UTC(),
	}

	jar, _ := alertContext["jar_type"].(string)
	amount, _ := alertContext["amount"].(float64)
	if jar == "" {
		jar = "unknown"
	}
	alert.Jar = model.JarType(jar)
	alert.Amount = amount

	switch alertType {
	case AlertOverspending:
		alert.Message = fmt.Sprintf(
			"You've spent $%.2f from your %s jar. Consider reviewing your budget.", amount, jar)
		alert.Priority = model.PriorityHigh
	case AlertLowBalance:
		alert.Message = fmt.Sprintf(
			"Your %s jar balance is getting low. Time to reassess your spending priorities.", jar)
		alert.Priority = model.PriorityMedium
	default:
		alert.Message = "We noticed some changes in your spending patterns. Let's review your financial goals."
		alert.Priority = model.PriorityLow
	}

	return alert
}
