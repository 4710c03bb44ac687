// Package signup turns a filled-in registration form into a call to the
// external sign-up boundary and classifies what came back.
package signup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/anonto42/nano-midea/postdir/internal/models"
	"github.com/anonto42/nano-midea/postdir/pkg/metrics"
	"github.com/anonto42/nano-midea/postdir/validators"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// SuccessMessage acknowledges a completed sign-up.
	SuccessMessage = "Signed Up Successfully"
	// ErrorNotice is shown when the boundary could not be reached or crashed.
	ErrorNotice = "Sign-up error"
)

// Boundary creates the account. It lives outside this service.
type Boundary interface {
	SignUpUser(ctx context.Context, req models.RegistrationRequest) (models.SignUpResponse, error)
}

// BoundaryFunc adapts a function to Boundary.
type BoundaryFunc func(ctx context.Context, req models.RegistrationRequest) (models.SignUpResponse, error)

func (f BoundaryFunc) SignUpUser(ctx context.Context, req models.RegistrationRequest) (models.SignUpResponse, error) {
	return f(ctx, req)
}

// Acknowledgement is the success payload shown to the user.
type Acknowledgement struct {
	Message string `json:"message"`
}

// Options tune a Submitter. The zero value is usable.
type Options struct {
	Timeout time.Duration // 0 lets the boundary call run to completion
	Logger  *zap.Logger
}

// Submitter validates registration requests and forwards them to a Boundary.
type Submitter struct {
	boundary  Boundary
	validator *validators.CustomValidator
	policy    *bluemonday.Policy
	timeout   time.Duration
	logger    *zap.Logger
	inflight  singleflight.Group
}

// NewSubmitter creates a Submitter
func NewSubmitter(boundary Boundary, opts Options) *Submitter {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Submitter{
		boundary:  boundary,
		validator: validators.NewValidator(),
		policy:    bluemonday.StrictPolicy(),
		timeout:   opts.Timeout,
		logger:    logger,
	}
}

// Submit forwards req to the boundary once every field is filled in.
//
// It returns a *MissingFieldsError without calling the boundary when a field
// is empty or malformed, a *SubmissionFailure when the boundary declines, and
// a *SubmissionError when the boundary call fails. req is never modified.
// Submissions identical in every field that are in flight at the same time
// share one boundary call. A caller whose ctx ends stops waiting without
// cancelling the call for the others.
func (s *Submitter) Submit(ctx context.Context, req models.RegistrationRequest) (Acknowledgement, error) {
	if err := s.validator.Validate(req); err != nil {
		fields := validators.FieldNames(err)
		if fields == nil {
			return Acknowledgement{}, fmt.Errorf("validate registration: %w", err)
		}
		metrics.SignUpSubmissionsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return Acknowledgement{}, &MissingFieldsError{Fields: fields}
	}

	ch := s.inflight.DoChan(requestKey(req), func() (interface{}, error) {
		// The shared call outlives any single caller that gives up waiting.
		return s.call(context.WithoutCancel(ctx), req)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		metrics.SignUpSubmissionsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		s.logger.Warn("sign-up abandoned by caller", zap.String("username", req.Username), zap.Error(ctx.Err()))
		return Acknowledgement{}, &SubmissionError{Err: ctx.Err()}
	}
	if res.Shared {
		s.logger.Debug("sign-up call shared with an identical submission", zap.String("username", req.Username))
	}
	if res.Err != nil {
		metrics.SignUpSubmissionsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		s.logger.Error("sign-up boundary call failed", zap.String("username", req.Username), zap.Error(res.Err))
		return Acknowledgement{}, &SubmissionError{Err: res.Err}
	}

	resp := res.Val.(models.SignUpResponse)
	if !resp.Success {
		metrics.SignUpSubmissionsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		s.logger.Info("sign-up declined", zap.String("username", req.Username), zap.String("message", resp.Message))
		return Acknowledgement{}, &SubmissionFailure{Message: s.plain(resp.Message)}
	}

	metrics.SignUpSubmissionsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.logger.Info("sign-up succeeded", zap.String("username", req.Username))
	return Acknowledgement{Message: SuccessMessage}, nil
}

// requestKey identifies a submission by all of its fields without keeping
// the password in the clear.
func requestKey(req models.RegistrationRequest) string {
	h := sha256.New()
	for _, f := range []string{req.FirstName, req.LastName, req.Username, req.Email, req.Password, req.DOB} {
		h.Write([]byte(f))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Submitter) call(ctx context.Context, req models.RegistrationRequest) (models.SignUpResponse, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.boundary.SignUpUser(ctx, req)
	metrics.SignUpBoundaryDurationSeconds.Observe(time.Since(start).Seconds())
	return resp, err
}

// plain strips markup from a boundary message; the caller escapes it for
// whatever it renders into.
func (s *Submitter) plain(msg string) string {
	return html.UnescapeString(s.policy.Sanitize(msg))
}

// Notice returns the text to show the user for the outcome of Submit.
func Notice(ack Acknowledgement, err error) string {
	if err == nil {
		return ack.Message
	}

	var missing *MissingFieldsError
	var failure *SubmissionFailure
	switch {
	case errors.As(err, &missing):
		return "Please fill in: " + strings.Join(missing.Fields, ", ")
	case errors.As(err, &failure):
		if failure.Message == "" {
			return "Sign-up failed"
		}
		return "Sign-up failed: " + failure.Message
	default:
		return ErrorNotice
	}
}
