package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	pkglogger "github.com/reindeer-letter/letter-backend/pkg/logger"
)

// Config holds SMTP transport configuration
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	SiteURL  string // link target in notification mails
}

// Mailer sends service emails over plain SMTP with STARTTLS
type Mailer struct {
	cfg  Config
	auth smtp.Auth
}

// New creates a new Mailer
func New(cfg Config) *Mailer {
	return &Mailer{
		cfg:  cfg,
		auth: smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
	}
}

// SendLetterNotification notifies a recipient that a letter has arrived
func (m *Mailer) SendLetterNotification(to, letterTitle string) error {
	subject := "🎉 새로운 편지가 도착했습니다!"
	body := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #4A90E2;">새로운 편지가 도착했습니다! 📬</h1>
  <p style="font-size: 16px; color: #333;">
    안녕하세요! 새로운 편지가 도착했습니다.<br>
    지금 바로 확인해보세요!
  </p>
  <div style="margin: 20px 0; padding: 15px; background-color: #f5f5f5; border-radius: 5px;">
    <p style="margin: 0; color: #666;">편지 제목: <strong>%s</strong></p>
  </div>
  <div style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4A90E2; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; font-weight: bold;">편지 확인하러 가기</a>
  </div>
  <p style="font-size: 14px; color: #666;">* 이 메일은 자동으로 발송되었습니다.</p>
</div>`, htmlEscape(letterTitle), m.cfg.SiteURL)

	if err := m.send(to, subject, body); err != nil {
		return fmt.Errorf("send letter notification: %w", err)
	}
	return nil
}

// SendVerificationCode sends a signup email verification code
func (m *Mailer) SendVerificationCode(to, code string) error {
	subject := "🎄 Reindeer Letter 이메일 인증"
	body := fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #4A90E2;">이메일 인증</h1>
  <p style="font-size: 16px; color: #333;">
    안녕하세요! Reindeer Letter 회원가입을 위한 인증 코드입니다.<br>
    아래 코드를 입력해주세요.
  </p>
  <div style="margin: 20px 0; padding: 15px; background-color: #f5f5f5; border-radius: 5px; text-align: center;">
    <h2 style="margin: 0; color: #333; letter-spacing: 5px;">%s</h2>
  </div>
  <p style="font-size: 14px; color: #666;">* 이 코드는 10분 동안 유효합니다.</p>
</div>`, htmlEscape(code))

	if err := m.send(to, subject, body); err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}
	return nil
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: =?UTF-8?B?" + base64Encode(subject) + "?=",
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
		"",
		htmlBody,
	}, "\r\n")

	if err := smtp.SendMail(addr, m.auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		pkglogger.GetLogger().Error().Err(err).Str("to", to).Msg("smtp send failed")
		return err
	}
	return nil
}
