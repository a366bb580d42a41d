// Package drive uploads files to Google Drive on behalf of a caller holding
// an OAuth access token and shares them publicly.
package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/Nicki-CheckM/check-certificado/internal/apperr"
	"github.com/Nicki-CheckM/check-certificado/internal/models"
)

// MetadataMimeType is the MIME type recorded on every created file,
// whatever the uploaded content type is.
const MetadataMimeType = "application/pdf"

// Step names one call of the upload sequence.
type Step string

const (
	StepCreate     Step = "create"
	StepUpload     Step = "upload"
	StepPermission Step = "permission"
	StepLink       Step = "link"
	StepCompensate Step = "compensate"
)

// Uploader runs the create, upload, share and link sequence against Drive.
type Uploader struct {
	endpoint   string
	client     *http.Client
	compensate bool
	log        *slog.Logger
}

// Options configures an Uploader.
type Options struct {
	// Endpoint overrides the Drive v3 base path.
	Endpoint string
	// Client is the base transport the bearer token is layered on.
	Client *http.Client
	// Compensate deletes the created file when a later step fails.
	Compensate bool
	Logger     *slog.Logger
}

func NewUploader(opts Options) *Uploader {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Uploader{
		endpoint:   opts.Endpoint,
		client:     opts.Client,
		compensate: opts.Compensate,
		log:        opts.Logger,
	}
}

// StepError reports which step of the sequence failed.
type StepError struct {
	Step   Step
	FileID string
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("drive %s step failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// service builds a Drive client that sends accessToken as a bearer token.
func (u *Uploader) service(ctx context.Context, accessToken string) (*drive.Service, error) {
	client := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}),
			Base:   u.client.Transport,
		},
		Timeout: u.client.Timeout,
	}
	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if u.endpoint != "" {
		opts = append(opts, option.WithEndpoint(u.endpoint))
	}
	return drive.NewService(ctx, opts...)
}

// Upload creates the file, uploads its content, grants "anyone" read access
// and returns the share link. Steps run strictly in order and a failure
// stops the sequence. Without compensation a file created before the
// failure is left in Drive.
func (u *Uploader) Upload(ctx context.Context, req *models.UploadRequest) (*models.FileRecord, error) {
	const op = "drive.Upload"

	svc, err := u.service(ctx, req.AccessToken)
	if err != nil {
		return nil, apperr.E(op, apperr.Internal, "creating drive client", err)
	}

	log := u.log.With("saga", uuid.NewString(), "name", req.Name)

	created, err := svc.Files.Create(&drive.File{
		Name:     req.Name,
		MimeType: MetadataMimeType,
	}).Fields("id").Context(ctx).Do()
	if err == nil && created.Id == "" {
		err = errors.New("no file id in response")
	}
	if err != nil {
		return nil, u.fail(ctx, svc, log, StepCreate, "", err)
	}
	fileID := created.Id
	log = log.With("file_id", fileID)
	log.Info("drive step done", "step", StepCreate)

	// ChunkSize(0) keeps the upload to a single request.
	_, err = svc.Files.Update(fileID, &drive.File{}).
		Media(bytes.NewReader(req.Content), googleapi.ContentType(req.ContentType), googleapi.ChunkSize(0)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return nil, u.fail(ctx, svc, log, StepUpload, fileID, err)
	}
	log.Info("drive step done", "step", StepUpload, "content_type", req.ContentType, "bytes", len(req.Content))

	_, err = svc.Permissions.Create(fileID, &drive.Permission{
		Role: "reader",
		Type: "anyone",
	}).Context(ctx).Do()
	if err != nil {
		return nil, u.fail(ctx, svc, log, StepPermission, fileID, err)
	}
	log.Info("drive step done", "step", StepPermission)

	f, err := svc.Files.Get(fileID).Fields("webViewLink").Context(ctx).Do()
	if err != nil {
		return nil, u.fail(ctx, svc, log, StepLink, fileID, err)
	}
	log.Info("drive step done", "step", StepLink)

	return &models.FileRecord{FileID: fileID, WebViewLink: f.WebViewLink}, nil
}

// fail logs a failed step, runs compensation when enabled and wraps err.
func (u *Uploader) fail(ctx context.Context, svc *drive.Service, log *slog.Logger, step Step, fileID string, err error) error {
	const op = "drive.Upload"
	log.Error("drive step failed", "step", step, "err", err)

	if fileID != "" {
		if u.compensate {
			if derr := svc.Files.Delete(fileID).Context(context.WithoutCancel(ctx)).Do(); derr != nil {
				log.Error("drive step failed", "step", StepCompensate, "err", derr)
			} else {
				log.Info("drive step done", "step", StepCompensate)
			}
		} else {
			log.Warn("leaving partially uploaded file in drive")
		}
	}

	return apperr.E(op, apperr.Upstream, "", &StepError{Step: step, FileID: fileID, Err: err})
}
