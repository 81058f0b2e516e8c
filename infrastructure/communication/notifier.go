package communication

import (
	"fmt"
	"log"

	"guardpost.app/guardpost/core/models"
)

// Notifier fans an incident report out to the configured channels. Every
// channel is best-effort: a delivery failure is logged and never surfaces
// to the submitting guard.
type Notifier struct {
	Slack  *Slack
	Mailer *Mailer
}

// alertworthy report types
func needsAlert(reportType string) bool {
	switch reportType {
	case models.ReportTypeProblem, models.ReportTypeSecurity, models.ReportTypeSuspicious:
		return true
	}
	return false
}

func (n *Notifier) ReportFiled(user *models.User, report *models.Report) {
	if n == nil || !needsAlert(report.Type) {
		return
	}

	summary := fmt.Sprintf("[%s] %s (%s) at %s %s: %s",
		report.Type, user.Name, user.EmployeeID, report.Date, report.Time, report.Message)

	if n.Slack != nil {
		if err := n.Slack.Incident(summary); err != nil {
			log.Printf("slack incident alert failed: %v", err)
		}
	}
	if n.Mailer != nil {
		subject := fmt.Sprintf("Guard report: %s from %s", report.Type, user.Name)
		if err := n.Mailer.Send(subject, "<p>"+summary+"</p>"); err != nil {
			log.Printf("mail incident alert failed: %v", err)
		}
	}
}
