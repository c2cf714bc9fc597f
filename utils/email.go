// utils/email.go
package utils

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/gomail.v2"

	"github.com/vivanet/vivanet_backend/models"
)

// NotifyProfitPeriodFinalized emails the configured admin address when a
// profit period is finalized. Failures are logged, not propagated; finance
// can always read the period from the dashboard.
func NotifyProfitPeriodFinalized(period *models.ProfitPeriod) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		log.Println("ADMIN_EMAIL not set, skipping profit period email")
		return
	}

	subject := fmt.Sprintf("Profit Period #%d Finalized", period.Number)
	body := fmt.Sprintf(
		"Profit period %q (#%d) covering %s to %s has been finalized.\n\n"+
			"Members: %d\nPerformance profits: %s\nLeadership profits: %s\nTotal profits: %s\n\n"+
			"The period is now locked and ready for payout.",
		period.Name, period.Number,
		period.StartDate.Format("2006-01-02"), period.EndDate.Format("2006-01-02"),
		period.Summary.MemberCount,
		period.Summary.TotalPerformanceProfits.String(),
		period.Summary.TotalLeadershipProfits.String(),
		period.Summary.TotalProfits.String(),
	)

	if err := sendEmail(adminEmail, subject, body); err != nil {
		log.Printf("Failed to send profit period email: %v", err)
	}
}

// sendEmail sends a plain-text email using the SMTP environment configuration
func sendEmail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
