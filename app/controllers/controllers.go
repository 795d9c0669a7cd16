// Package controllers adapts HTTP requests to shopdesk services.
//
// Controllers do not make authorization decisions. They pull the
// Principal set by the auth middleware, hand it to a service and render
// whatever comes back.
package controllers

import (
	"github.com/shashiranjanraj/shopdesk/app/policies"
	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/pkg/apperr"
	"github.com/shashiranjanraj/shopdesk/pkg/ctx"
)

// maxUploadBytes caps multipart image uploads.
const maxUploadBytes = 5 << 20

// principal returns the caller or answers 401.
func principal(c *ctx.Context) (policies.Principal, bool) {
	p, ok := policies.FromContext(c.Context())
	if !ok {
		c.Unauthorized()
	}
	return p, ok
}

// upload reads the multipart file in field. On failure a 422 has been
// written.
func upload(c *ctx.Context, field string) (services.Upload, func(), bool) {
	file, header, err := c.FormFile(field, maxUploadBytes)
	if err != nil {
		c.Fail(apperr.Field(field, "The "+field+" field is required."))
		return services.Upload{}, nil, false
	}
	up := services.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}
	return up, func() { file.Close() }, true
}
