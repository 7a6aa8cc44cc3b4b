package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/validator"

	"github.com/mmynk/hallcount/internal/counter"
	"github.com/mmynk/hallcount/internal/matcher"
	"github.com/mmynk/hallcount/internal/metrics"
	"github.com/mmynk/hallcount/internal/models"
	"github.com/mmynk/hallcount/internal/share"
	"github.com/mmynk/hallcount/internal/storage"
	"github.com/mmynk/hallcount/pkg/api"
	"github.com/mmynk/hallcount/pkg/api/apiconnect"
)

// DefaultMaxImageBytes is the per-image upload limit.
const DefaultMaxImageBytes = 10 << 20

// requestOverheadBytes covers the JSON framing and session name around image data.
const requestOverheadBytes = 64 << 10

// MaxRequestBytes is the largest request body a valid call can produce when each
// image holds up to maxImageBytes: a full ScanSignatures request with every page
// base64 encoded.
func MaxRequestBytes(maxImageBytes int) int {
	if maxImageBytes <= 0 {
		maxImageBytes = DefaultMaxImageBytes
	}
	encoded := (maxImageBytes + 2) / 3 * 4
	return api.MaxSignaturePages*encoded + requestOverheadBytes
}

// ErrImageTooLarge is returned when an uploaded image exceeds the size limit.
var ErrImageTooLarge = errors.New("image too large")

// Options configures an AttendanceService.
type Options struct {
	// MaxImageBytes limits each uploaded image. Zero uses DefaultMaxImageBytes.
	MaxImageBytes int
	// Metrics may be nil.
	Metrics *metrics.Metrics
}

// AttendanceService implements the Connect AttendanceService.
type AttendanceService struct {
	apiconnect.UnimplementedAttendanceServiceHandler
	store         storage.Store
	matcher       *matcher.Matcher
	counter       counter.Counter
	shares        *share.Manager
	validate      *validator.Validate
	maxImageBytes int
	metrics       *metrics.Metrics
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(store storage.Store, m *matcher.Matcher, c counter.Counter, shares *share.Manager, opts Options) *AttendanceService {
	if opts.MaxImageBytes <= 0 {
		opts.MaxImageBytes = DefaultMaxImageBytes
	}
	return &AttendanceService{
		store:         store,
		matcher:       m,
		counter:       c,
		shares:        shares,
		validate:      validator.New(),
		maxImageBytes: opts.MaxImageBytes,
		metrics:       opts.Metrics,
	}
}

// Match compares two counts without touching storage.
func (s *AttendanceService) Match(ctx context.Context, req *connect.Request[api.MatchRequest]) (*connect.Response[api.MatchResponse], error) {
	if err := s.validateRequest(req.Msg); err != nil {
		return nil, err
	}

	m := s.matcher
	if req.Msg.Threshold != nil {
		var err error
		if m, err = matcher.New(*req.Msg.Threshold); err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
	}

	result, err := m.Match(req.Msg.HeadCount, req.Msg.SignatureCount)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	slog.Debug("Match",
		"head_count", req.Msg.HeadCount,
		"signature_count", req.Msg.SignatureCount,
		"threshold", m.Threshold(),
		"difference", result.Difference,
		"is_matched", result.IsMatched,
	)

	return connect.NewResponse(&api.MatchResponse{
		Difference: result.Difference,
		IsMatched:  result.IsMatched,
		Accuracy:   result.Accuracy,
		Status:     string(matcher.Classify(result)),
		Note:       matcher.Explain(req.Msg.HeadCount, req.Msg.SignatureCount, result),
		Threshold:  m.Threshold(),
	}), nil
}

// ScanHall counts the people in a lecture hall image and stores the result.
func (s *AttendanceService) ScanHall(ctx context.Context, req *connect.Request[api.ScanHallRequest]) (*connect.Response[api.ScanHallResponse], error) {
	if err := s.validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if err := s.checkImageSize(req.Msg.Image); err != nil {
		return nil, err
	}

	result, err := s.counter.CountHeads(ctx, req.Msg.Image)
	if err != nil {
		slog.Error("ScanHall: counter failed", "counter", s.counter.Name(), "error", err)
		return nil, counterError(s.counter.Name(), err)
	}

	record := &models.CountRecord{
		HeadCount:   result.Count,
		Confidence:  result.Confidence,
		SessionName: strings.TrimSpace(req.Msg.SessionName),
		ImageSize:   len(req.Msg.Image),
		Counter:     s.counter.Name(),
	}
	if err := s.store.CreateCountRecord(ctx, record); err != nil {
		slog.Error("ScanHall failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	s.metrics.ObserveScan("hall")

	slog.Info("Hall scanned",
		"record_id", record.ID,
		"head_count", record.HeadCount,
		"confidence", record.Confidence,
		"session", record.SessionName,
	)

	return connect.NewResponse(&api.ScanHallResponse{Record: countRecordToAPI(record)}), nil
}

// ScanSignatures counts the signatures across one or more sheet images.
func (s *AttendanceService) ScanSignatures(ctx context.Context, req *connect.Request[api.ScanSignaturesRequest]) (*connect.Response[api.ScanSignaturesResponse], error) {
	if err := s.validateRequest(req.Msg); err != nil {
		return nil, err
	}
	for _, page := range req.Msg.Pages {
		if err := s.checkImageSize(page); err != nil {
			return nil, err
		}
	}

	total := 0
	confidence := 0.0
	for i, page := range req.Msg.Pages {
		result, err := s.counter.CountSignatures(ctx, page)
		if err != nil {
			slog.Error("ScanSignatures: counter failed", "counter", s.counter.Name(), "page", i+1, "error", err)
			return nil, counterError(s.counter.Name(), err)
		}
		slog.Debug("Signature page counted", "page", i+1, "count", result.Count, "confidence", result.Confidence)
		total += result.Count
		confidence += result.Confidence
	}

	digest := sha256.Sum256(req.Msg.Pages[0])
	record := &models.SignatureRecord{
		ImageURL:       "sha256:" + hex.EncodeToString(digest[:]),
		SignatureCount: total,
		Confidence:     confidence / float64(len(req.Msg.Pages)),
		Pages:          len(req.Msg.Pages),
		SessionName:    strings.TrimSpace(req.Msg.SessionName),
	}
	if err := s.store.CreateSignatureRecord(ctx, record); err != nil {
		slog.Error("ScanSignatures failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	s.metrics.ObserveScan("signatures")

	slog.Info("Signatures scanned",
		"record_id", record.ID,
		"signature_count", record.SignatureCount,
		"pages", record.Pages,
		"session", record.SessionName,
	)

	return connect.NewResponse(&api.ScanSignaturesResponse{Record: signatureRecordToAPI(record)}), nil
}

// Compare matches a hall scan against a signature scan and stores the verification.
func (s *AttendanceService) Compare(ctx context.Context, req *connect.Request[api.CompareRequest]) (*connect.Response[api.CompareResponse], error) {
	if err := s.validateRequest(req.Msg); err != nil {
		return nil, err
	}

	count, err := s.store.GetCountRecord(ctx, req.Msg.CountRecordId)
	if err != nil {
		slog.Error("Compare: failed to get count record", "record_id", req.Msg.CountRecordId, "error", err)
		return nil, storeError(err)
	}
	signatures, err := s.store.GetSignatureRecord(ctx, req.Msg.SignatureRecordId)
	if err != nil {
		slog.Error("Compare: failed to get signature record", "record_id", req.Msg.SignatureRecordId, "error", err)
		return nil, storeError(err)
	}

	result, err := s.matcher.Match(count.HeadCount, signatures.SignatureCount)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	v := models.NewVerification(count, signatures, s.matcher.Threshold(), result)
	if err := s.store.SaveVerification(ctx, v); err != nil {
		slog.Error("Compare failed", "record_id", count.ID, "error", err)
		return nil, storeError(err)
	}
	count.SetComparison(signatures.SignatureCount, result)
	s.metrics.ObserveVerification(string(v.Status), v.Accuracy)

	logArgs := []any{
		"verification_id", v.ID,
		"record_id", count.ID,
		"head_count", v.HeadCount,
		"signature_count", v.SignatureCount,
		"difference", v.Difference,
		"status", v.Status,
	}
	if v.Status == matcher.StatusMajorDiscrepancy {
		slog.Warn("Attendance discrepancy", logArgs...)
	} else {
		slog.Info("Attendance compared", logArgs...)
	}

	return connect.NewResponse(&api.CompareResponse{
		Verification: verificationToAPI(v),
		Record:       countRecordToAPI(count),
	}), nil
}

// GetRecord returns a count record with its verifications.
func (s *AttendanceService) GetRecord(ctx context.Context, req *connect.Request[api.GetRecordRequest]) (*connect.Response[api.GetRecordResponse], error) {
	if err := s.validateRequest(req.Msg); err != nil {
		return nil, err
	}

	record, err := s.store.GetCountRecord(ctx, req.Msg.Id)
	if err != nil {
		slog.Error("GetRecord failed", "record_id", req.Msg.Id, "error", err)
		return nil, storeError(err)
	}
	verifications, err := s.store.ListVerifications(ctx, record.ID)
	if err != nil {
		slog.Error("GetRecord: failed to list verifications", "record_id", record.ID, "error", err)
		return nil, storeError(err)
	}

	resp := &api.GetRecordResponse{
		Record:        countRecordToAPI(record),
		Verifications: make([]*api.Verification, len(verifications)),
	}
	for i, v := range verifications {
		resp.Verifications[i] = verificationToAPI(v)
	}

	return connect.NewResponse(resp), nil
}

// ListRecords returns the session history.
func (s *AttendanceService) ListRecords(ctx context.Context, req *connect.Request[api.ListRecordsRequest]) (*connect.Response[api.ListRecordsResponse], error) {
	if err := s.validateRequest(req.Msg); err != nil {
		return nil, err
	}

	sort, err := storage.ParseSortOrder(req.Msg.Sort)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	records, err := s.store.ListCountRecords(ctx, storage.ListFilter{
		Search: req.Msg.Search,
		Sort:   sort,
		Limit:  req.Msg.Limit,
	})
	if err != nil {
		slog.Error("ListRecords failed", "error", err)
		return nil, storeError(err)
	}

	resp := &api.ListRecordsResponse{Records: make([]*api.CountRecord, len(records))}
	for i, r := range records {
		resp.Records[i] = countRecordToAPI(r)
	}

	return connect.NewResponse(resp), nil
}

// DeleteRecord removes a count record and its verifications.
func (s *AttendanceService) DeleteRecord(ctx context.Context, req *connect.Request[api.DeleteRecordRequest]) (*connect.Response[api.DeleteRecordResponse], error) {
	if err := s.validateRequest(req.Msg); err != nil {
		return nil, err
	}

	if err := s.store.DeleteCountRecord(ctx, req.Msg.Id); err != nil {
		slog.Error("DeleteRecord failed", "record_id", req.Msg.Id, "error", err)
		return nil, storeError(err)
	}
	slog.Info("Record deleted", "record_id", req.Msg.Id)

	return connect.NewResponse(&api.DeleteRecordResponse{}), nil
}

// GetStats returns aggregate totals.
func (s *AttendanceService) GetStats(ctx context.Context, req *connect.Request[api.GetStatsRequest]) (*connect.Response[api.GetStatsResponse], error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		slog.Error("GetStats failed", "error", err)
		return nil, storeError(err)
	}

	return connect.NewResponse(&api.GetStatsResponse{
		CountRecords:     stats.CountRecords,
		SignatureRecords: stats.SignatureRecords,
		Verifications:    stats.Verifications,
		Verified:         stats.Verified,
		MeanAccuracy:     stats.MeanAccuracy,
	}), nil
}

// ShareVerification issues a read-only link token for a verification.
func (s *AttendanceService) ShareVerification(ctx context.Context, req *connect.Request[api.ShareVerificationRequest]) (*connect.Response[api.ShareVerificationResponse], error) {
	if err := s.validateRequest(req.Msg); err != nil {
		return nil, err
	}

	v, err := s.store.GetVerification(ctx, req.Msg.VerificationId)
	if err != nil {
		slog.Error("ShareVerification failed", "verification_id", req.Msg.VerificationId, "error", err)
		return nil, storeError(err)
	}

	token, expiresAt, err := s.shares.Generate(v.ID)
	if err != nil {
		slog.Error("ShareVerification: failed to sign token", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	slog.Info("Verification shared", "verification_id", v.ID, "expires_at", expiresAt)

	return connect.NewResponse(&api.ShareVerificationResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	}), nil
}

// GetSharedVerification resolves a share token.
func (s *AttendanceService) GetSharedVerification(ctx context.Context, req *connect.Request[api.GetSharedVerificationRequest]) (*connect.Response[api.GetSharedVerificationResponse], error) {
	if err := s.validateRequest(req.Msg); err != nil {
		return nil, err
	}

	claims, err := s.shares.Validate(req.Msg.Token)
	if err != nil {
		slog.Warn("GetSharedVerification: rejected token", "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, err)
	}

	v, err := s.store.GetVerification(ctx, claims.VerificationID)
	if err != nil {
		slog.Error("GetSharedVerification failed", "verification_id", claims.VerificationID, "error", err)
		return nil, storeError(err)
	}

	return connect.NewResponse(&api.GetSharedVerificationResponse{Verification: verificationToAPI(v)}), nil
}

func (s *AttendanceService) validateRequest(msg any) error {
	if err := s.validate.Struct(msg); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("invalid request: %w", err))
	}
	return nil
}

func (s *AttendanceService) checkImageSize(image []byte) error {
	if len(image) > s.maxImageBytes {
		return connect.NewError(connect.CodeResourceExhausted,
			fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrImageTooLarge, len(image), s.maxImageBytes))
	}
	return nil
}

// counterError maps a counter failure to a Connect error.
func counterError(name string, err error) error {
	switch {
	case errors.Is(err, counter.ErrEmptyImage), errors.Is(err, counter.ErrInvalidImage):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeUnavailable, fmt.Errorf("%s counter failed: %w", name, err))
	}
}

// storeError maps a storage failure to a Connect error.
func storeError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
