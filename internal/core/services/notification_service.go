package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"eazicred/internal/adapters/notify"
	"eazicred/internal/adapters/persistence/models"
)

// NotificationService sends best-effort email. Every send is bounded by
// timeout and failures are logged, never returned.
type NotificationService struct {
	notifier notify.Notifier
	timeout  time.Duration
}

// NewNotificationService creates a new notification service
func NewNotificationService(notifier notify.Notifier, timeout time.Duration) *NotificationService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NotificationService{
		notifier: notifier,
		timeout:  timeout,
	}
}

// send delivers msg detached from the caller's cancellation
func (s *NotificationService) send(ctx context.Context, msg notify.Message) {
	if s == nil || s.notifier == nil || len(msg.Recipients) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	if err := s.notifier.Send(ctx, msg); err != nil {
		log.Printf("⚠️ Notification %q to %s failed: %v", msg.Subject, strings.Join(msg.Recipients, ","), err)
	}
}

// SendOTP mails a one-time code to its owner
func (s *NotificationService) SendOTP(ctx context.Context, user *models.User, code string, ttl time.Duration) {
	body := fmt.Sprintf("Hi %s,\n\nYour Eazicred verification code is: %s\n\nThe code expires in %d minutes. If you did not request it, you can ignore this email.",
		user.FullName,
		code,
		int(ttl.Minutes()),
	)

	s.send(ctx, notify.Message{
		Recipients: []string{user.Email},
		Subject:    "Your Eazicred verification code",
		Body:       body,
	})
}

// NotifyLoanSubmitted tells every company user about a new application
func (s *NotificationService) NotifyLoanSubmitted(ctx context.Context, company *models.Company, loan *models.Loan, users []*models.User) {
	body := fmt.Sprintf("Hello,\n\nA new loan application has been submitted for %s.\n\nApplicant: %s %s\nAmount: %.2f\nPurpose: %s\nTenure: %d months\nInterest: %.2f%%\nContact: %s / %s\n\nYou can review the application in your dashboard.",
		company.Name,
		loan.FirstName,
		loan.LastName,
		loan.Amount,
		loan.Purpose,
		loan.Tenure,
		loan.Interest,
		loan.Email,
		loan.Phone,
	)

	s.send(ctx, notify.Message{
		Recipients: emailsOf(users),
		Subject:    "New Loan Application Submitted",
		Body:       body,
	})
}

// NotifyLoanApproved tells the applicant the loan was approved
func (s *NotificationService) NotifyLoanApproved(ctx context.Context, loan *models.Loan) {
	s.send(ctx, notify.Message{
		Recipients: []string{loan.Email},
		Subject:    "Loan Application Approved",
		Body:       fmt.Sprintf("Hi %s, your loan application has been approved. We will contact you shortly with next steps.", loan.FirstName),
	})
}

// NotifyLoanRejected tells the applicant the loan was rejected
func (s *NotificationService) NotifyLoanRejected(ctx context.Context, loan *models.Loan) {
	s.send(ctx, notify.Message{
		Recipients: []string{loan.Email},
		Subject:    "Loan Application Rejected",
		Body:       fmt.Sprintf("Hi %s, we are sorry to inform you that your loan application was not approved at this time.", loan.FirstName),
	})
}

// NotifyPendingDigest reminds company users about applications still waiting
func (s *NotificationService) NotifyPendingDigest(ctx context.Context, company *models.Company, loans []*models.Loan, users []*models.User) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello,\n\n%d loan application(s) for %s are still pending review:\n\n", len(loans), company.Name)
	for _, l := range loans {
		fmt.Fprintf(&b, "- %s %s, %.2f, submitted %s\n", l.FirstName, l.LastName, l.Amount, l.CreatedAt.Format("2006-01-02"))
	}
	b.WriteString("\nYou can review them in your dashboard.")

	s.send(ctx, notify.Message{
		Recipients: emailsOf(users),
		Subject:    "Pending Loan Applications",
		Body:       b.String(),
	})
}

func emailsOf(users []*models.User) []string {
	emails := make([]string, 0, len(users))
	for _, u := range users {
		emails = append(emails, u.Email)
	}
	return emails
}
