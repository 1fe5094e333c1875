package model

import (
	"time"
)

// EstimateRequest is a lead submitted through the public "get an estimate"
// form. Delivery to the operator happens out of process; this is the record
// of what was submitted.
type EstimateRequest struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Address   string    `db:"address" json:"address"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type EstimateAttachment struct {
	ID          string    `db:"id" json:"id"`
	RequestID   string    `db:"request_id" json:"requestId"`
	ObjectKey   string    `db:"object_key" json:"objectKey"`
	Filename    string    `db:"filename" json:"filename"`
	ContentType string    `db:"content_type" json:"contentType"`
	SizeBytes   int64     `db:"size_bytes" json:"sizeBytes"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type CreateEstimateRequestParams struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Message string
}

type CreateEstimateAttachmentParams struct {
	RequestID   string
	ObjectKey   string
	Filename    string
	ContentType string
	SizeBytes   int64
}
