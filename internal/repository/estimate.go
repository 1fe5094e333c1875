package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/spotlesscleaning/site-server-go/internal/database"
	"github.com/spotlesscleaning/site-server-go/internal/model"
)

type EstimateRepository interface {
	CreateRequest(ctx context.Context, params model.CreateEstimateRequestParams) (*model.EstimateRequest, error)
	CreateAttachment(ctx context.Context, params model.CreateEstimateAttachmentParams) (*model.EstimateAttachment, error)
	FindAll(ctx context.Context, limit, offset int) ([]model.EstimateRequest, int, error)
	FindAttachmentsByRequestID(ctx context.Context, requestID string) ([]model.EstimateAttachment, error)
	WithTx(tx *sqlx.Tx) EstimateRepository
}

type estimateRepo struct {
	db database.DBTX
}

func NewEstimateRepository(db *sqlx.DB) EstimateRepository {
	return &estimateRepo{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction,
// so a request and its attachments commit or roll back together.
func (r *estimateRepo) WithTx(tx *sqlx.Tx) EstimateRepository {
	return &estimateRepo{db: tx}
}

func (r *estimateRepo) CreateRequest(ctx context.Context, params model.CreateEstimateRequestParams) (*model.EstimateRequest, error) {
	var request model.EstimateRequest
	err := r.db.GetContext(ctx, &request, `
		INSERT INTO estimate_requests (name, email, phone, address, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.Name, params.Email, params.Phone, params.Address, params.Message)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *estimateRepo) CreateAttachment(ctx context.Context, params model.CreateEstimateAttachmentParams) (*model.EstimateAttachment, error) {
	var attachment model.EstimateAttachment
	err := r.db.GetContext(ctx, &attachment, `
		INSERT INTO estimate_attachments (request_id, object_key, filename, content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.RequestID, params.ObjectKey, params.Filename, params.ContentType, params.SizeBytes)
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *estimateRepo) FindAll(ctx context.Context, limit, offset int) ([]model.EstimateRequest, int, error) {
	requests := []model.EstimateRequest{}
	err := r.db.SelectContext(ctx, &requests, `
		SELECT * FROM estimate_requests
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM estimate_requests`); err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *estimateRepo) FindAttachmentsByRequestID(ctx context.Context, requestID string) ([]model.EstimateAttachment, error) {
	attachments := []model.EstimateAttachment{}
	err := r.db.SelectContext(ctx, &attachments, `
		SELECT * FROM estimate_attachments
		WHERE request_id = $1
		ORDER BY created_at ASC
	`, requestID)
	if err != nil {
		return nil, err
	}
	return attachments, nil
}
