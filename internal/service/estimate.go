package service

import (
	"context"
	"encoding/json"

	"github.com/dchest/captcha"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/spotlesscleaning/site-server-go/internal/database"
	apperrors "github.com/spotlesscleaning/site-server-go/internal/errors"
	"github.com/spotlesscleaning/site-server-go/internal/model"
	redisclient "github.com/spotlesscleaning/site-server-go/internal/redis"
	"github.com/spotlesscleaning/site-server-go/internal/repository"
	"github.com/spotlesscleaning/site-server-go/internal/util"
)

const maxAttachmentsPerRequest = 10

// EventPublisher hands finished leads to the external delivery
// collaborator (a notifier process subscribed to the channel).
type EventPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

type redisPublisher struct {
	client *redisclient.Client
}

func NewRedisPublisher(client *redisclient.Client) EventPublisher {
	return &redisPublisher{client: client}
}

func (p *redisPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.client.Client.Publish(ctx, channel, payload).Err()
}

// txRunner is the slice of database.DB the service needs; tests supply
// their own.
type txRunner interface {
	WithTx(ctx context.Context, fn database.TxFunc) error
}

type EstimateService struct {
	db             txRunner
	repo           repository.EstimateRepository
	publisher      EventPublisher
	captchaEnabled bool
	verifyCaptcha  func(id, solution string) bool
}

func NewEstimateService(
	db *database.DB,
	repo repository.EstimateRepository,
	publisher EventPublisher,
	captchaEnabled bool,
) *EstimateService {
	return &EstimateService{
		db:             db,
		repo:           repo,
		publisher:      publisher,
		captchaEnabled: captchaEnabled,
		verifyCaptcha:  captcha.VerifyString,
	}
}

type AttachmentInput struct {
	ObjectKey   string `json:"key"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

type SubmitEstimateParams struct {
	Name            string
	Email           string
	Phone           string
	Address         string
	Message         string
	Attachments     []AttachmentInput
	CaptchaID       string
	CaptchaSolution string
}

// Submit validates and persists one lead with its attachments in a
// single transaction, then publishes it for delivery. A failed publish
// is logged but does not fail the submission; the lead is already
// durable and visible to the admin.
func (s *EstimateService) Submit(ctx context.Context, params SubmitEstimateParams) (*model.EstimateRequest, error) {
	if params.Name == "" {
		return nil, apperrors.MissingRequired("name")
	}
	if params.Email == "" {
		return nil, apperrors.MissingRequired("email")
	}
	if !util.IsValidEmail(params.Email) {
		return nil, apperrors.InvalidInput("email", "malformed address")
	}
	if params.Address == "" {
		return nil, apperrors.MissingRequired("address")
	}
	if len(params.Attachments) > maxAttachmentsPerRequest {
		return nil, apperrors.ValidationError("Too many attachments")
	}
	for _, a := range params.Attachments {
		if a.ObjectKey == "" {
			return nil, apperrors.InvalidInput("attachments", "missing object key")
		}
	}

	if s.captchaEnabled && !s.verifyCaptcha(params.CaptchaID, params.CaptchaSolution) {
		return nil, apperrors.ValidationError("Captcha verification failed")
	}

	var request *model.EstimateRequest
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		txRepo := s.repo.WithTx(tx)

		created, err := txRepo.CreateRequest(ctx, model.CreateEstimateRequestParams{
			Name:    params.Name,
			Email:   params.Email,
			Phone:   params.Phone,
			Address: params.Address,
			Message: params.Message,
		})
		if err != nil {
			return err
		}

		for _, a := range params.Attachments {
			_, err := txRepo.CreateAttachment(ctx, model.CreateEstimateAttachmentParams{
				RequestID:   created.ID,
				ObjectKey:   a.ObjectKey,
				Filename:    a.Filename,
				ContentType: a.ContentType,
				SizeBytes:   a.SizeBytes,
			})
			if err != nil {
				return err
			}
		}

		request = created
		return nil
	})
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}

	s.notify(ctx, request)

	return request, nil
}

func (s *EstimateService) notify(ctx context.Context, request *model.EstimateRequest) {
	if s.publisher == nil {
		return
	}

	payload, err := json.Marshal(request)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode estimate notification")
		return
	}

	if err := s.publisher.Publish(ctx, redisclient.EstimateChannel, payload); err != nil {
		log.Warn().Err(err).Str("requestId", request.ID).Msg("failed to publish estimate notification")
		return
	}

	log.Info().Str("requestId", request.ID).Msg("estimate notification published")
}

func (s *EstimateService) List(ctx context.Context, limit, offset int) ([]model.EstimateRequest, int, error) {
	requests, total, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperrors.StoreUnavailable(err)
	}
	return requests, total, nil
}

func (s *EstimateService) Attachments(ctx context.Context, requestID string) ([]model.EstimateAttachment, error) {
	attachments, err := s.repo.FindAttachmentsByRequestID(ctx, requestID)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return attachments, nil
}
