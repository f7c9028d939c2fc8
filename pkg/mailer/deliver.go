package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mailtpl "github.com/oksasatya/todo-tenant-api/pkg/mailer/templates"
)

// ErrBadJob marks a message that can never be delivered and should not be retried.
var ErrBadJob = errors.New("bad email job")

// Decode parses a queue payload into a job.
func Decode(body []byte) (EmailJob, error) {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return job, fmt.Errorf("%w: %v", ErrBadJob, err)
	}
	if strings.TrimSpace(job.To) == "" {
		return job, fmt.Errorf("%w: missing recipient", ErrBadJob)
	}
	return job, nil
}

// Deliver renders job when it names a template and hands it to s.
// Rendering problems wrap ErrBadJob; send failures are returned as is.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		var err error
		subject, text, html, err = mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadJob, err)
		}
	}
	if subject == "" || (text == "" && html == "") {
		return fmt.Errorf("%w: empty message", ErrBadJob)
	}
	return s.Send(ctx, job.To, subject, text, html)
}
