package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	e "github.com/gartstein/partners/internal/directory/errors"
	"github.com/qri-io/jsonschema"
)

// Request schemas check the JSON shape only. Value constraints live in the services.
var (
	companySchema = mustSchema(`{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"password": {"type": "string"},
			"masterPassword": {"type": "string"},
			"newPassword": {"type": "string"},
			"imageUrl": {"type": ["string", "null"]},
			"introText": {"type": "string"},
			"price": {"type": "string"},
			"primaryCategory": {"type": "array", "items": {"type": "string"}},
			"secondaryCategory": {"type": "array", "items": {"type": "string"}},
			"tags": {"type": "array", "items": {"type": "string"}},
			"phone": {"type": "string"},
			"email": {"type": "string"},
			"detailImages": {"type": "array", "items": {"type": "string"}},
			"detailText": {"type": "string"}
		}
	}`)

	newCompanySchema = mustSchema(`{
		"type": "object",
		"required": ["name", "password", "primaryCategory", "secondaryCategory"]
	}`)

	bannerSchema = mustSchema(`{
		"type": "object",
		"properties": {
			"masterPassword": {"type": "string"},
			"imageUrl": {"type": "string"},
			"linkUrl": {"type": "string"},
			"altText": {"type": "string"},
			"displayOrder": {"type": "integer"},
			"isActive": {"type": "boolean"}
		}
	}`)

	contentSchema = mustSchema(`{
		"type": "object",
		"properties": {
			"masterPassword": {"type": "string"},
			"title": {"type": "string"},
			"thumbnailUrl": {"type": "string"},
			"content": {"type": "string"},
			"imageUrls": {"type": "array", "items": {"type": "string"}},
			"isPinned": {"type": "boolean"}
		}
	}`)

	inquirySchema = mustSchema(`{
		"type": "object",
		"properties": {
			"category": {"type": "string"},
			"content": {"type": "string"},
			"attachments": {"type": "array", "items": {"type": "string"}},
			"name": {"type": "string"},
			"phone": {"type": "string"},
			"email": {"type": "string"},
			"password": {"type": "string"},
			"masterPassword": {"type": "string"},
			"newPassword": {"type": "string"}
		}
	}`)

	newInquirySchema = mustSchema(`{
		"type": "object",
		"required": ["category", "content", "name", "phone", "password"]
	}`)

	secretSchema = mustSchema(`{
		"type": "object",
		"properties": {
			"password": {"type": "string"},
			"masterPassword": {"type": "string"}
		}
	}`)

	approvalSchema = mustSchema(`{
		"type": "object",
		"required": ["approvalStatus"],
		"properties": {
			"approvalStatus": {"type": "string", "enum": ["pending", "approved", "rejected"]},
			"masterPassword": {"type": "string"}
		}
	}`)

	answeredSchema = mustSchema(`{
		"type": "object",
		"required": ["isAnswered"],
		"properties": {
			"isAnswered": {"type": "boolean"},
			"masterPassword": {"type": "string"}
		}
	}`)
)

func mustSchema(src string) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(src), rs); err != nil {
		panic(fmt.Sprintf("invalid request schema: %v", err))
	}
	return rs
}

// validateSchema reports the first violation as an input error.
func validateSchema(ctx context.Context, schema *jsonschema.Schema, body []byte) error {
	verrs, err := schema.ValidateBytes(ctx, body)
	if err != nil {
		return e.Invalid("request body is not valid JSON")
	}
	if len(verrs) == 0 {
		return nil
	}
	var sb strings.Builder
	for i, v := range verrs {
		if i > 0 {
			sb.WriteString("; ")
		}
		if v.PropertyPath != "" && v.PropertyPath != "/" {
			sb.WriteString(strings.TrimPrefix(v.PropertyPath, "/"))
			sb.WriteString(": ")
		}
		sb.WriteString(v.Message)
	}
	return e.Invalid("%s", sb.String())
}
