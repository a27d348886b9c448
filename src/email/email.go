package email

import (
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net/smtp"
	"regexp"
	"strings"
	"time"

	"github.com/inkwell-press/inkwell/src/config"
	"github.com/inkwell-press/inkwell/src/oops"
)

var EmailRegex = regexp.MustCompile(`^[^:\p{Cc} ]+@[^:\p{Cc} ]+\.[^:\p{Cc} ]+$`)

func IsEmail(address string) bool {
	return EmailRegex.Match([]byte(address))
}

// Sender exposes the package-level send functions as methods, for callers
// that take their mailer as an interface.
type Sender struct{}

func (Sender) SendEditorAssignedEmail(toAddress, toName, articleTitle string) error {
	return SendEditorAssignedEmail(toAddress, toName, articleTitle)
}

// Notifies an editor that they have been put on an article. Best-effort;
// callers decide whether a send failure matters.
func SendEditorAssignedEmail(toAddress, toName, articleTitle string) error {
	contents := fmt.Sprintf(
		"Hi %s,\r\n\r\nYou have been assigned as an editor on \"%s\".\r\nThe article folder is shared with you in the usual place.\r\n\r\n%s\r\n",
		toName, articleTitle, config.Config.Email.FromName,
	)
	err := sendMail(toAddress, toName, fmt.Sprintf("[inkwell] You were assigned to %s", articleTitle), contents)
	if err != nil {
		return oops.New(err, "failed to send assignment email")
	}
	return nil
}

func sendMail(toAddress, toName, subject, content string) error {
	if config.Config.Email.ForceToAddress != "" {
		toAddress = config.Config.Email.ForceToAddress
	}
	contents := prepMailContents(
		makeHeaderAddress(toAddress, toName),
		makeHeaderAddress(config.Config.Email.FromAddress, config.Config.Email.FromName),
		subject,
		content,
	)
	return smtp.SendMail(
		fmt.Sprintf("%s:%d", config.Config.Email.ServerAddress, config.Config.Email.ServerPort),
		smtp.PlainAuth("", config.Config.Email.MailerUsername, config.Config.Email.MailerPassword, config.Config.Email.ServerAddress),
		config.Config.Email.FromAddress,
		[]string{toAddress},
		contents,
	)
}

func makeHeaderAddress(email, fullname string) string {
	if fullname != "" {
		encoded := mime.BEncoding.Encode("utf-8", fullname)
		if encoded == fullname {
			encoded = strings.ReplaceAll(encoded, `"`, `\"`)
			encoded = fmt.Sprintf("\"%s\"", encoded)
		}
		return fmt.Sprintf("%s <%s>", encoded, email)
	} else {
		return email
	}
}

func prepMailContents(toLine string, fromLine string, subject string, content string) []byte {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("To: %s\r\n", toLine))
	builder.WriteString(fmt.Sprintf("From: %s\r\n", fromLine))
	builder.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z)))
	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject)))
	builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	builder.WriteString("Content-Transfer-Encoding: quoted-printable\r\n")
	builder.WriteString("\r\n")
	writer := quotedprintable.NewWriter(&builder)
	writer.Write([]byte(content))
	writer.Close()
	builder.WriteString("\r\n")

	return []byte(builder.String())
}
