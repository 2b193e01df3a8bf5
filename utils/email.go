package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds email configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func loadEmailConfig() EmailConfig {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}
	return EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

// SendEmail sends an HTML email using SMTP
func SendEmail(to, subject, body string) error {
	config := loadEmailConfig()

	m := gomail.NewMessage()
	m.SetHeader("From", config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// SendOTP sends a verification OTP via email
func SendOTP(to, otp string) error {
	body := fmt.Sprintf(`
		<h2>Verify your email</h2>
		<p>Thank you for signing up. Please use the following code to verify your email address:</p>
		<h1 style="font-size: 32px; letter-spacing: 5px;">%s</h1>
		<p>This code will expire in 10 minutes.</p>
		<p>If you didn't request this code, please ignore this email.</p>
	`, otp)
	return SendEmail(to, "Your verification code", body)
}

// SendPasswordResetOTP sends a password reset code
func SendPasswordResetOTP(to, otp string) error {
	body := fmt.Sprintf(`
		<h2>Password Reset Request</h2>
		<p>Use the following code to reset your password:</p>
		<h1 style="font-size: 32px; letter-spacing: 5px;">%s</h1>
		<p>This code will expire in 10 minutes.</p>
		<p>If you didn't request this reset, please ignore this email.</p>
	`, otp)
	return SendEmail(to, "Password Reset Request", body)
}

// SendPaymentConfirmationEmail sends the post-payment confirmation with the
// intake form link. Callers treat failures as non-fatal.
func SendPaymentConfirmationEmail(to, customerName, productName string, amountUSD float64, orderID string) error {
	if customerName == "" {
		customerName = "Valued Customer"
	}
	body := fmt.Sprintf(`
		<h1>Payment Confirmed!</h1>
		<p>Hi %s,</p>
		<p>Thank you for your purchase! Your payment has been successfully processed.</p>
		<h2>Order Details</h2>
		<p><strong>Product:</strong> %s</p>
		<p><strong>Amount:</strong> $%.2f USD</p>
		<p><strong>Order ID:</strong> %s</p>
		<p><strong>Next Step:</strong> Please complete the intake form so we can get started on your project.</p>
		<p><a href="%s/intake/%s">Complete Intake Form</a></p>
	`, customerName, productName, amountUSD, orderID, os.Getenv("APP_URL"), orderID)
	return SendEmail(to, fmt.Sprintf("Payment Confirmed - %s", productName), body)
}

// SendContactFormEmail forwards a contact form submission to the business inbox
func SendContactFormEmail(firstName, lastName, email, company, subject, message string) error {
	to := os.Getenv("CONTACT_EMAIL")
	if to == "" {
		to = os.Getenv("SMTP_USERNAME")
	}
	body := fmt.Sprintf(`
		<h2>New Contact Form Submission</h2>
		<p><strong>Name:</strong> %s %s</p>
		<p><strong>Email:</strong> %s</p>
		<p><strong>Company:</strong> %s</p>
		<p><strong>Subject:</strong> %s</p>
		<p><strong>Message:</strong></p>
		<p>%s</p>
	`, SanitizeString(firstName), SanitizeString(lastName), SanitizeString(email),
		SanitizeString(company), SanitizeString(subject), SanitizeString(message))
	return SendEmail(to, fmt.Sprintf("Contact Form: %s", subject), body)
}
