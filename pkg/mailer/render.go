package mailer

import (
	tpl "github.com/oksasatya/tokenflow-auth/pkg/mailer/templates"
)

// Resolve fills Subject/Text/HTML from the job's template when one is set.
func Resolve(job *EmailJob) error {
	if job.Template == "" {
		return nil
	}
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || v == "" {
		job.Data["Email"] = job.To
	}
	subject, text, html, err := tpl.Render(job.Template, job.Data)
	if err != nil {
		return err
	}
	job.Subject, job.Text, job.HTML = subject, text, html
	return nil
}
