// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package branding

// Each header and signature style is a fixed html/template definition named
// "header_<style>" or "signature_<style>". They are parsed once at package
// init; see render.go.

const socialRow = `{{define "social"}}{{if .Social}}<p style="margin: 12px 0 0 0; font-size: 13px;">{{range $i, $l := .Social}}{{if $i}} &middot; {{end}}<a href="{{$l.URL}}" style="color: {{$.Secondary}}; text-decoration: none;">{{$l.Label}}</a>{{end}}</p>{{end}}{{end}}`

const headerMinimal = `{{define "header_minimal"}}<div style="text-align: center; padding: 24px 0; border-bottom: 1px solid #e5e5e5; margin-bottom: 24px;">` +
	`{{if .LogoURL}}<img src="{{.LogoURL}}" alt="{{.BusinessName}}" style="max-height: 48px; max-width: 200px;" />` +
	`{{else if .BusinessName}}<span style="font-size: 20px; font-weight: 600; color: {{.Primary}};">{{.BusinessName}}</span>{{end}}` +
	`</div>{{end}}`

const headerProfessional = `{{define "header_professional"}}<table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="background-color: {{.Primary}}; margin-bottom: 24px;"><tr>` +
	`<td style="padding: 20px 24px;">{{if .LogoURL}}<img src="{{.LogoURL}}" alt="{{.BusinessName}}" style="max-height: 40px; display: block;" />{{end}}</td>` +
	`<td style="padding: 20px 24px; text-align: right; color: #ffffff; font-size: 18px; font-weight: 600;">{{.BusinessName}}</td>` +
	`</tr></table>{{end}}`

const headerBold = `{{define "header_bold"}}<div style="background-color: {{.Primary}}; padding: 40px 24px; text-align: center; margin-bottom: 24px;">` +
	`{{if .LogoURL}}<img src="{{.LogoURL}}" alt="{{.BusinessName}}" style="max-height: 64px; margin-bottom: 12px;" />{{end}}` +
	`{{if .BusinessName}}<div style="font-size: 28px; font-weight: 700; color: #ffffff; letter-spacing: 2px; text-transform: uppercase;">{{.BusinessName}}</div>{{end}}` +
	`{{if .PhotographerName}}<div style="font-size: 14px; color: {{.Secondary}}; margin-top: 8px;">{{.PhotographerName}}</div>{{end}}` +
	`</div>{{end}}`

const headerClassic = `{{define "header_classic"}}<div style="text-align: center; padding: 32px 0 24px 0; margin-bottom: 24px; border-bottom: 3px double {{.Secondary}};">` +
	`{{if .LogoURL}}<img src="{{.LogoURL}}" alt="{{.BusinessName}}" style="max-height: 56px; margin-bottom: 12px;" />{{end}}` +
	`{{if .BusinessName}}<div style="font-family: Georgia, serif; font-size: 26px; color: {{.Primary}};">{{.BusinessName}}</div>{{end}}` +
	`{{if .Website}}<div style="font-size: 13px; color: {{.Secondary}}; margin-top: 6px;">{{.Website}}</div>{{end}}` +
	`</div>{{end}}`

const signatureSimple = `{{define "signature_simple"}}<div style="margin-top: 32px; padding-top: 16px; border-top: 1px solid #e5e5e5; font-size: 14px; color: #4a4a4a;">` +
	`{{if .Name}}<p style="margin: 0 0 4px 0; font-weight: 600; color: #1a1a1a;">{{.Name}}</p>{{end}}` +
	`<p style="margin: 0; color: #6b7280;">{{.Phone}} | {{.Email}}</p>` +
	`</div>{{end}}`

const signatureProfessional = `{{define "signature_professional"}}<table role="presentation" cellpadding="0" cellspacing="0" style="margin-top: 32px;"><tr>` +
	`<td style="padding-right: 16px; vertical-align: top;"><img src="{{.Headshot}}" alt="{{.Name}}" width="80" height="80" style="border-radius: 50%; display: block;" /></td>` +
	`<td style="vertical-align: top; font-size: 14px; color: #4a4a4a;">` +
	`{{if .Name}}<p style="margin: 0; font-size: 16px; font-weight: 600; color: #1a1a1a;">{{.Name}}</p>{{end}}` +
	`{{if .BusinessName}}<p style="margin: 2px 0 8px 0; color: {{.Primary}};">{{.BusinessName}}</p>{{end}}` +
	`<p style="margin: 0;">{{.Phone}}</p>` +
	`<p style="margin: 0;"><a href="mailto:{{.Email}}" style="color: {{.Primary}}; text-decoration: none;">{{.Email}}</a></p>` +
	`{{if .Website}}<p style="margin: 0;"><a href="{{.WebsiteURL}}" style="color: {{.Primary}}; text-decoration: none;">{{.Website}}</a></p>{{end}}` +
	`</td></tr></table>{{end}}`

const signatureDetailed = `{{define "signature_detailed"}}<div style="margin-top: 32px; padding-top: 16px; border-top: 2px solid {{.Primary}}; font-size: 14px; color: #4a4a4a;">` +
	`{{if .HeadshotURL}}<img src="{{.HeadshotURL}}" alt="{{.Name}}" width="64" height="64" style="border-radius: 50%; display: block; margin-bottom: 12px;" />{{end}}` +
	`{{if .Name}}<p style="margin: 0; font-size: 16px; font-weight: 600; color: #1a1a1a;">{{.Name}}</p>{{end}}` +
	`{{if .BusinessName}}<p style="margin: 2px 0 12px 0; color: {{.Secondary}};">{{.BusinessName}}</p>{{end}}` +
	`<p style="margin: 0;">Phone: {{.Phone}}</p>` +
	`<p style="margin: 0;">Email: <a href="mailto:{{.Email}}" style="color: {{.Primary}}; text-decoration: none;">{{.Email}}</a></p>` +
	`{{if .Website}}<p style="margin: 0;">Web: <a href="{{.WebsiteURL}}" style="color: {{.Primary}}; text-decoration: none;">{{.Website}}</a></p>{{end}}` +
	`{{if .Address}}<p style="margin: 8px 0 0 0; color: #6b7280;">{{.Address}}</p>{{end}}` +
	`{{template "social" .}}` +
	`</div>{{end}}`

const signatureBranded = `{{define "signature_branded"}}<div style="margin-top: 32px; padding: 16px 0 16px 16px; border-left: 4px solid {{.Primary}}; font-size: 14px; color: #4a4a4a;">` +
	`{{if .LogoURL}}<img src="{{.LogoURL}}" alt="{{.BusinessName}}" style="max-height: 40px; display: block; margin-bottom: 12px;" />{{end}}` +
	`{{if .Name}}<p style="margin: 0; font-size: 16px; font-weight: 600; color: {{.Primary}};">{{.Name}}</p>{{end}}` +
	`{{if .BusinessName}}<p style="margin: 2px 0 8px 0; color: {{.Secondary}};">{{.BusinessName}}</p>{{end}}` +
	`<p style="margin: 0;">{{.Phone}} | <a href="mailto:{{.Email}}" style="color: {{.Primary}}; text-decoration: none;">{{.Email}}</a></p>` +
	`{{if .Website}}<p style="margin: 0;"><a href="{{.WebsiteURL}}" style="color: {{.Primary}}; text-decoration: none;">{{.Website}}</a></p>{{end}}` +
	`{{template "social" .}}` +
	`</div>{{end}}`
