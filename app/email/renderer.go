package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"techdigest/app/database"
	"techdigest/app/digest"
)

var (
	digestTmpl       = template.Must(template.New("digest").Parse(digestTemplate))
	notificationTmpl = template.Must(template.New("notification").Parse(notificationTemplate))
)

type digestData struct {
	Title      string
	Email      string
	DigestType string
	Groups     []digest.Group
}

type notificationData struct {
	Article      database.Article
	CategoryList string
}

// RenderDigest produces the HTML body for a daily or weekly digest email.
func RenderDigest(user database.User, groups []digest.Group, digestType string, date time.Time) (string, error) {
	title := fmt.Sprintf("Your Daily Tech Digest - %s", date.Format("January 2, 2006"))
	if digestType == digest.TypeWeekly {
		title = fmt.Sprintf("Your Weekly Tech Digest - %s", date.Format("January 2, 2006"))
	}

	var buf bytes.Buffer
	err := digestTmpl.Execute(&buf, digestData{
		Title:      title,
		Email:      user.Email,
		DigestType: digestType,
		Groups:     groups,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render digest email: %w", err)
	}

	return buf.String(), nil
}

// RenderNotification produces the HTML body for an instant notification email.
func RenderNotification(article database.Article, categoryNames []string) (string, error) {
	var buf bytes.Buffer
	err := notificationTmpl.Execute(&buf, notificationData{
		Article:      article,
		CategoryList: strings.Join(categoryNames, ", "),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render notification email: %w", err)
	}

	return buf.String(), nil
}
