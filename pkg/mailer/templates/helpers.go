package templates

import (
	"encoding/json"
	"time"
)

const timeLayout = "02 January 2006, 15:04 MST"

// Defaults are the per-deployment values shared by every email.
type Defaults struct {
	AppName    string
	SupportURL string
}

// EmailData defines standard fields for email templates.
type EmailData struct {
	Name       string `json:"Name"`
	Email      string `json:"Email"`
	Type       string `json:"Type"`
	AppName    string `json:"AppName"`
	SupportURL string `json:"SupportURL"`

	Tier      string `json:"Tier,omitempty"`
	StartDate string `json:"StartDate,omitempty"`
	EndDate   string `json:"EndDate,omitempty"`

	IP        string `json:"IP,omitempty"`
	UserAgent string `json:"UserAgent,omitempty"`
	Time      string `json:"Time,omitempty"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// Option pattern
type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = ip } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format(timeLayout) }
}

func WithWindow(tier string, start, end time.Time) Option {
	return func(d *EmailData) {
		d.Tier = tier
		d.StartDate = start.UTC().Format(timeLayout)
		d.EndDate = end.UTC().Format(timeLayout)
	}
}

func NewBaseEmailData(def Defaults, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:       name,
		Email:      email,
		Type:       typ,
		AppName:    def.AppName,
		SupportURL: def.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(def Defaults, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(def, Welcome, name, email, opts...))
}

func NewSubscriptionChangedData(def Defaults, name, email, tier string, start, end time.Time) map[string]any {
	return ToMap(NewBaseEmailData(def, SubscriptionChanged, name, email, WithWindow(tier, start, end)))
}

func NewPasswordChangedData(def Defaults, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(def, PasswordChanged, name, email, opts...))
}
