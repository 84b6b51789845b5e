package templates

import (
	"fmt"
	"time"
)

// Brand carries the company fields every email shows.
type Brand struct {
	AppName        string
	CompanyName    string
	CompanyAddress string
	LogoURL        string
	SupportURL     string
}

// Option pattern
type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = ip } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		d.Time = t.UTC().Format("02 January 2006, 15:04")
	}
}

func WithExpiresAt(t time.Time, now time.Time) Option {
	return func(d *EmailData) {
		d.ExpiresAtText = t.UTC().Format("02 January 2006, 15:04")
		d.ExpiresIn = humanizeMinutes(t.Sub(now))
	}
}

func humanizeMinutes(d time.Duration) string {
	m := int(d.Round(time.Minute) / time.Minute)
	if m <= 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}

// NewBaseEmailData fills common fields from the brand, then applies options
func NewBaseEmailData(b Brand, typ string, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:  name,
		Email: email,
		Type:  typ,

		CompanyName:    b.CompanyName,
		CompanyAddress: b.CompanyAddress,
		AppName:        b.AppName,

		LogoURL:    b.LogoURL,
		SupportURL: b.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewSignupCodeData(b Brand, name, email, code string, opts ...Option) map[string]any {
	d := NewBaseEmailData(b, SignupCode, name, email, opts...)
	d.Code = code
	return ToMap(d)
}
